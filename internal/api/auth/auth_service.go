package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	appMiddleware "github.com/FACorreiaa/pickmybite/app/middleware"
	"github.com/FACorreiaa/pickmybite/internal/types"
)

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	Register(ctx context.Context, username, password, displayName string) (*types.UserInfo, error)
	Login(ctx context.Context, username, password string) (*types.UserInfo, string, error)
}

type ServiceImpl struct {
	logger *slog.Logger
	repo   Repository
}

func NewServiceImpl(repo Repository, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger: logger,
		repo:   repo,
	}
}

// Register creates a user with a bcrypt-hashed password. DisplayName falls
// back to the username.
func (s *ServiceImpl) Register(ctx context.Context, username, password, displayName string) (*types.UserInfo, error) {
	existing, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to check for existing user", slog.Any("error", err))
		return nil, err
	}
	if existing != nil {
		return nil, ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	if displayName == "" {
		displayName = username
	}
	user, err := s.repo.CreateUser(ctx, username, string(hash), displayName)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to create user", slog.Any("error", err))
		return nil, err
	}

	s.logger.InfoContext(ctx, "New user registered", slog.String("username", username))
	return &types.UserInfo{UserID: user.UserID, Username: user.Username, DisplayName: user.DisplayName}, nil
}

// Login verifies credentials and issues a signed access token.
func (s *ServiceImpl) Login(ctx context.Context, username, password string) (*types.UserInfo, string, error) {
	user, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to look up user", slog.Any("error", err))
		return nil, "", err
	}
	if user == nil {
		return nil, "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	now := time.Now()
	claims := appMiddleware.Claims{
		UserID:      user.UserID.String(),
		Username:    user.Username,
		DisplayName: user.DisplayName,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(accessTokenHours * time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(appMiddleware.JwtSecretKey)
	if err != nil {
		return nil, "", fmt.Errorf("failed to sign access token: %w", err)
	}

	s.logger.InfoContext(ctx, "User logged in", slog.String("username", username))
	return &types.UserInfo{UserID: user.UserID, Username: user.Username, DisplayName: user.DisplayName}, token, nil
}
