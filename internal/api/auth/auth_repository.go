package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/FACorreiaa/pickmybite/internal/types"
)

var _ Repository = (*RepositoryImpl)(nil)

type Repository interface {
	CreateUser(ctx context.Context, username, passwordHash, displayName string) (*types.User, error)
	GetUserByUsername(ctx context.Context, username string) (*types.User, error)
}

type RepositoryImpl struct {
	logger *slog.Logger
	pgpool *pgxpool.Pool
}

func NewRepository(pgpool *pgxpool.Pool, logger *slog.Logger) *RepositoryImpl {
	return &RepositoryImpl{
		logger: logger,
		pgpool: pgpool,
	}
}

func (r *RepositoryImpl) CreateUser(ctx context.Context, username, passwordHash, displayName string) (*types.User, error) {
	var user types.User
	err := r.pgpool.QueryRow(ctx, `
        INSERT INTO users (username, password_hash, display_name)
        VALUES ($1, $2, $3)
        RETURNING user_id, username, display_name, created_at`,
		username, passwordHash, displayName,
	).Scan(&user.UserID, &user.Username, &user.DisplayName, &user.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}
	return &user, nil
}

// GetUserByUsername returns (nil, nil) when no user exists.
func (r *RepositoryImpl) GetUserByUsername(ctx context.Context, username string) (*types.User, error) {
	var user types.User
	err := r.pgpool.QueryRow(ctx, `
        SELECT user_id, username, password_hash, display_name, created_at
        FROM users WHERE username = $1`,
		username,
	).Scan(&user.UserID, &user.Username, &user.PasswordHash, &user.DisplayName, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return &user, nil
}
