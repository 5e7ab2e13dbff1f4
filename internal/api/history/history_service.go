package history

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/FACorreiaa/pickmybite/internal/types"
)

var _ Service = (*ServiceImpl)(nil)

// Service defines the business logic contract for visit history. It also
// backs the recommendation pipeline's VisitHistoryStore.
type Service interface {
	RecordVisit(ctx context.Context, userID uuid.UUID, name string, placeTypes []string, lat, lng float64) error
	GetVisitLocations(ctx context.Context, userID uuid.UUID) ([]types.VisitLocation, error)
	GetVisitedNames(ctx context.Context, userID uuid.UUID) (map[string]struct{}, error)
	GetVisitCount(ctx context.Context, userID uuid.UUID) (int, error)
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

func (s *ServiceImpl) RecordVisit(ctx context.Context, userID uuid.UUID, name string, placeTypes []string, lat, lng float64) error {
	if err := s.repo.AddVisit(ctx, userID, name, strings.Join(placeTypes, ","), lat, lng); err != nil {
		s.logger.Error("failed to record visit", "error", err)
		return err
	}
	return nil
}

func (s *ServiceImpl) GetVisitLocations(ctx context.Context, userID uuid.UUID) ([]types.VisitLocation, error) {
	locations, err := s.repo.GetVisitLocations(ctx, userID)
	if err != nil {
		s.logger.Error("failed to get visit locations", "error", err)
		return nil, err
	}
	return locations, nil
}

func (s *ServiceImpl) GetVisitedNames(ctx context.Context, userID uuid.UUID) (map[string]struct{}, error) {
	names, err := s.repo.GetVisitedNames(ctx, userID)
	if err != nil {
		s.logger.Error("failed to get visited names", "error", err)
		return nil, err
	}
	return names, nil
}

func (s *ServiceImpl) GetVisitCount(ctx context.Context, userID uuid.UUID) (int, error) {
	count, err := s.repo.GetVisitCount(ctx, userID)
	if err != nil {
		s.logger.Error("failed to get visit count", "error", err)
		return 0, err
	}
	return count, nil
}
