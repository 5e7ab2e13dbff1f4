package appMiddleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/pickmybite/internal/types"
)

func signedToken(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	claims := Claims{
		UserID:   userID.String(),
		Username: "somsak",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(JwtSecretKey)
	require.NoError(t, err)
	return token
}

func captureUser(captured *types.UserContext) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*captured = UserFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestInitJWTSecret(t *testing.T) {
	original := JwtSecretKey
	t.Cleanup(func() { JwtSecretKey = original })

	t.Run("missing secret is an error", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "")
		assert.ErrorIs(t, InitJWTSecret(), ErrMissingJWTSecret)
	})

	t.Run("loads the secret from the environment", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "unit-test-secret")
		require.NoError(t, InitJWTSecret())
		assert.Equal(t, []byte("unit-test-secret"), JwtSecretKey)
	})
}

func TestAuthenticate(t *testing.T) {
	userID := uuid.New()

	t.Run("valid token passes the identity through", func(t *testing.T) {
		var user types.UserContext
		req := httptest.NewRequest(http.MethodGet, "/history/get", nil)
		req.Header.Set("Authorization", "Bearer "+signedToken(t, userID))
		rr := httptest.NewRecorder()

		Authenticate(captureUser(&user)).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.True(t, user.Authenticated())
		assert.Equal(t, userID, user.UserID())
	})

	t.Run("missing token is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/history/get", nil)
		rr := httptest.NewRecorder()

		Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler must not run without a token")
		})).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("garbage token is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/history/get", nil)
		req.Header.Set("Authorization", "Bearer not.a.token")
		rr := httptest.NewRecorder()

		Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler must not run with a bad token")
		})).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		claims := Claims{
			UserID: userID.String(),
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(JwtSecretKey)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/history/get", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()

		Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler must not run with an expired token")
		})).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestMaybeAuthenticate(t *testing.T) {
	userID := uuid.New()

	t.Run("valid token attaches the identity", func(t *testing.T) {
		var user types.UserContext
		req := httptest.NewRequest(http.MethodPost, "/pick", nil)
		req.Header.Set("Authorization", "Bearer "+signedToken(t, userID))
		rr := httptest.NewRecorder()

		MaybeAuthenticate(captureUser(&user)).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.True(t, user.Authenticated())
		assert.Equal(t, userID, user.UserID())
	})

	t.Run("no token proceeds anonymously", func(t *testing.T) {
		var user types.UserContext
		req := httptest.NewRequest(http.MethodPost, "/pick", nil)
		rr := httptest.NewRecorder()

		MaybeAuthenticate(captureUser(&user)).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.False(t, user.Authenticated())
		assert.Equal(t, uuid.Nil, user.UserID())
	})

	t.Run("invalid token proceeds anonymously", func(t *testing.T) {
		var user types.UserContext
		req := httptest.NewRequest(http.MethodPost, "/pick", nil)
		req.Header.Set("Authorization", "Bearer tampered")
		rr := httptest.NewRecorder()

		MaybeAuthenticate(captureUser(&user)).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.False(t, user.Authenticated())
	})
}

func TestUserFromContext_DefaultsToAnonymous(t *testing.T) {
	user := UserFromContext(httptest.NewRequest(http.MethodGet, "/", nil).Context())
	assert.False(t, user.Authenticated())
}
