package appMiddleware

import (
	"context"
	"errors"
	"net/http"
	"os"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/FACorreiaa/pickmybite/internal/types"
)

type contextKey string

const UserContextKey contextKey = "userContext"

// Claims is the access-token payload.
type Claims struct {
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	jwt.RegisteredClaims
}

// ErrMissingJWTSecret means JWT_SECRET is not set; the server must not sign
// tokens with a placeholder key.
var ErrMissingJWTSecret = errors.New("JWT_SECRET environment variable is required")

var JwtSecretKey []byte

// InitJWTSecret loads the signing secret from the environment. Call after
// godotenv has loaded; startup must abort on error.
func InitJWTSecret() error {
	s := os.Getenv("JWT_SECRET")
	if s == "" {
		return ErrMissingJWTSecret
	}
	JwtSecretKey = []byte(s)
	return nil
}

// Authenticate extracts the JWT from the Authorization header, validates it,
// and adds the user context to the request. Requests without a valid token
// are rejected.
func Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := userFromRequest(r)
		if !ok {
			http.Error(w, "Invalid or missing bearer token", http.StatusUnauthorized)
			return
		}
		ctx := context.WithValue(r.Context(), UserContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// MaybeAuthenticate attaches the user context when a valid token is present
// and proceeds anonymously otherwise. Used by /pick, where an identity only
// unlocks visit history.
func MaybeAuthenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := userFromRequest(r)
		if !ok {
			user = types.AnonymousUser()
		}
		ctx := context.WithValue(r.Context(), UserContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserFromContext returns the request identity, anonymous when no middleware
// ran or the token was absent/invalid.
func UserFromContext(ctx context.Context) types.UserContext {
	if user, ok := ctx.Value(UserContextKey).(types.UserContext); ok {
		return user
	}
	return types.AnonymousUser()
}

func userFromRequest(r *http.Request) (types.UserContext, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return types.AnonymousUser(), false
	}

	// Format: "Bearer TOKEN"
	headerParts := strings.Split(authHeader, " ")
	if len(headerParts) != 2 || !strings.EqualFold(headerParts[0], "bearer") {
		return types.AnonymousUser(), false
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(headerParts[1], claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return JwtSecretKey, nil
	})
	if err != nil || !token.Valid {
		return types.AnonymousUser(), false
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return types.AnonymousUser(), false
	}
	return types.AuthenticatedUser(userID), true
}
