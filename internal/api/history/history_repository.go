package history

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/FACorreiaa/pickmybite/internal/types"
)

var _ Repository = (*RepositoryImpl)(nil)

// Repository persists and reads a user's visit history.
type Repository interface {
	AddVisit(ctx context.Context, userID uuid.UUID, restaurantName, restaurantTypes string, lat, lng float64) error
	GetVisitLocations(ctx context.Context, userID uuid.UUID) ([]types.VisitLocation, error)
	GetVisitedNames(ctx context.Context, userID uuid.UUID) (map[string]struct{}, error)
	GetVisitCount(ctx context.Context, userID uuid.UUID) (int, error)
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

func (r *RepositoryImpl) AddVisit(ctx context.Context, userID uuid.UUID, restaurantName, restaurantTypes string, lat, lng float64) error {
	_, err := r.pgpool.Exec(ctx, `
        INSERT INTO visit_history (user_id, restaurant_name, restaurant_types, latitude, longitude)
        VALUES ($1, $2, $3, $4, $5)`,
		userID, restaurantName, restaurantTypes, lat, lng)
	if err != nil {
		return fmt.Errorf("failed to insert visit: %w", err)
	}
	return nil
}

func (r *RepositoryImpl) GetVisitLocations(ctx context.Context, userID uuid.UUID) ([]types.VisitLocation, error) {
	rows, err := r.pgpool.Query(ctx, `
        SELECT latitude, longitude FROM visit_history WHERE user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query visit locations: %w", err)
	}
	defer rows.Close()

	locations := make([]types.VisitLocation, 0)
	for rows.Next() {
		var loc types.VisitLocation
		if err := rows.Scan(&loc.Latitude, &loc.Longitude); err != nil {
			return nil, fmt.Errorf("failed to scan visit location: %w", err)
		}
		loc.Weight = 1 // default heatmap weight
		locations = append(locations, loc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read visit locations: %w", err)
	}
	return locations, nil
}

func (r *RepositoryImpl) GetVisitedNames(ctx context.Context, userID uuid.UUID) (map[string]struct{}, error) {
	rows, err := r.pgpool.Query(ctx, `
        SELECT restaurant_name FROM visit_history WHERE user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query visited names: %w", err)
	}
	defer rows.Close()

	names := make(map[string]struct{})
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan visited name: %w", err)
		}
		names[name] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read visited names: %w", err)
	}
	return names, nil
}

func (r *RepositoryImpl) GetVisitCount(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	if err := r.pgpool.QueryRow(ctx, `SELECT get_visit_count($1)`, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to query visit count: %w", err)
	}
	return count, nil
}
