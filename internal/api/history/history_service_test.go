package history

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	appMiddleware "github.com/FACorreiaa/pickmybite/app/middleware"
	"github.com/FACorreiaa/pickmybite/internal/types"
)

// MockHistoryRepository is a mock implementation of Repository
type MockHistoryRepository struct {
	mock.Mock
}

func (m *MockHistoryRepository) AddVisit(ctx context.Context, userID uuid.UUID, restaurantName, restaurantTypes string, lat, lng float64) error {
	args := m.Called(ctx, userID, restaurantName, restaurantTypes, lat, lng)
	return args.Error(0)
}

func (m *MockHistoryRepository) GetVisitLocations(ctx context.Context, userID uuid.UUID) ([]types.VisitLocation, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.VisitLocation), args.Error(1)
}

func (m *MockHistoryRepository) GetVisitedNames(ctx context.Context, userID uuid.UUID) (map[string]struct{}, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]struct{}), args.Error(1)
}

func (m *MockHistoryRepository) GetVisitCount(ctx context.Context, userID uuid.UUID) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func setupHistoryServiceTest() (*ServiceImpl, *MockHistoryRepository) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mockRepo := new(MockHistoryRepository)
	return NewServiceImpl(mockRepo, logger), mockRepo
}

func TestServiceImpl_RecordVisit(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("joins place types with commas", func(t *testing.T) {
		service, mockRepo := setupHistoryServiceTest()
		mockRepo.On("AddVisit", ctx, userID, "Jay Fai", "thai_restaurant,fine_dining_restaurant", 13.75, 100.5).
			Return(nil).Once()

		err := service.RecordVisit(ctx, userID, "Jay Fai", []string{"thai_restaurant", "fine_dining_restaurant"}, 13.75, 100.5)
		require.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("no types stores an empty string", func(t *testing.T) {
		service, mockRepo := setupHistoryServiceTest()
		mockRepo.On("AddVisit", ctx, userID, "Jay Fai", "", 13.75, 100.5).Return(nil).Once()

		err := service.RecordVisit(ctx, userID, "Jay Fai", nil, 13.75, 100.5)
		require.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("repository error propagates", func(t *testing.T) {
		service, mockRepo := setupHistoryServiceTest()
		repoErr := errors.New("db down")
		mockRepo.On("AddVisit", ctx, userID, "Jay Fai", "", 13.75, 100.5).Return(repoErr).Once()

		err := service.RecordVisit(ctx, userID, "Jay Fai", nil, 13.75, 100.5)
		assert.ErrorIs(t, err, repoErr)
	})
}

func TestServiceImpl_Reads(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("visited names pass through", func(t *testing.T) {
		service, mockRepo := setupHistoryServiceTest()
		names := map[string]struct{}{"Jay Fai": {}, "Som Tam Corner": {}}
		mockRepo.On("GetVisitedNames", ctx, userID).Return(names, nil).Once()

		got, err := service.GetVisitedNames(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, names, got)
	})

	t.Run("visit count passes through", func(t *testing.T) {
		service, mockRepo := setupHistoryServiceTest()
		mockRepo.On("GetVisitCount", ctx, userID).Return(7, nil).Once()

		got, err := service.GetVisitCount(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, 7, got)
	})

	t.Run("locations pass through", func(t *testing.T) {
		service, mockRepo := setupHistoryServiceTest()
		locations := []types.VisitLocation{{Latitude: 13.75, Longitude: 100.5, Weight: 1}}
		mockRepo.On("GetVisitLocations", ctx, userID).Return(locations, nil).Once()

		got, err := service.GetVisitLocations(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, locations, got)
	})
}

// MockHistoryService is a mock implementation of Service
type MockHistoryService struct {
	mock.Mock
}

func (m *MockHistoryService) RecordVisit(ctx context.Context, userID uuid.UUID, name string, placeTypes []string, lat, lng float64) error {
	args := m.Called(ctx, userID, name, placeTypes, lat, lng)
	return args.Error(0)
}

func (m *MockHistoryService) GetVisitLocations(ctx context.Context, userID uuid.UUID) ([]types.VisitLocation, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.VisitLocation), args.Error(1)
}

func (m *MockHistoryService) GetVisitedNames(ctx context.Context, userID uuid.UUID) (map[string]struct{}, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]struct{}), args.Error(1)
}

func (m *MockHistoryService) GetVisitCount(ctx context.Context, userID uuid.UUID) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func authedRequest(t *testing.T, method, target string, body any, userID uuid.UUID) *http.Request {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	user := types.AuthenticatedUser(userID)
	return req.WithContext(context.WithValue(req.Context(), appMiddleware.UserContextKey, user))
}

func TestHandler_AddVisit(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	userID := uuid.New()
	lat, lng := 13.75, 100.5

	t.Run("records the visit", func(t *testing.T) {
		mockService := new(MockHistoryService)
		handler := NewHandler(mockService, logger)
		mockService.On("RecordVisit", mock.Anything, userID, "Jay Fai", []string{"thai_restaurant"}, lat, lng).
			Return(nil).Once()

		req := authedRequest(t, http.MethodPost, "/history/add", types.AddVisitRequest{
			RestaurantName:  "Jay Fai",
			RestaurantTypes: []string{"thai_restaurant"},
			Latitude:        &lat,
			Longitude:       &lng,
		}, userID)
		rr := httptest.NewRecorder()
		handler.AddVisit(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)
		assert.Contains(t, rr.Body.String(), "Visit recorded successfully!")
		mockService.AssertExpectations(t)
	})

	t.Run("rejects anonymous callers", func(t *testing.T) {
		mockService := new(MockHistoryService)
		handler := NewHandler(mockService, logger)

		req := httptest.NewRequest(http.MethodPost, "/history/add", bytes.NewReader([]byte(`{}`)))
		rr := httptest.NewRecorder()
		handler.AddVisit(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		mockService.AssertNotCalled(t, "RecordVisit", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rejects missing fields", func(t *testing.T) {
		mockService := new(MockHistoryService)
		handler := NewHandler(mockService, logger)

		req := authedRequest(t, http.MethodPost, "/history/add", types.AddVisitRequest{
			RestaurantName: "Jay Fai",
		}, userID)
		rr := httptest.NewRecorder()
		handler.AddVisit(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "Name, latitude, and longitude are required.")
	})
}

func TestHandler_GetHistory(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	userID := uuid.New()

	t.Run("returns the visit locations", func(t *testing.T) {
		mockService := new(MockHistoryService)
		handler := NewHandler(mockService, logger)
		locations := []types.VisitLocation{{Latitude: 13.75, Longitude: 100.5, Weight: 1}}
		mockService.On("GetVisitLocations", mock.Anything, userID).Return(locations, nil).Once()

		req := authedRequest(t, http.MethodGet, "/history/get", nil, userID)
		rr := httptest.NewRecorder()
		handler.GetHistory(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		var got []types.VisitLocation
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		assert.Equal(t, locations, got)
		mockService.AssertExpectations(t)
	})

	t.Run("rejects anonymous callers", func(t *testing.T) {
		mockService := new(MockHistoryService)
		handler := NewHandler(mockService, logger)

		req := httptest.NewRequest(http.MethodGet, "/history/get", nil)
		rr := httptest.NewRecorder()
		handler.GetHistory(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("service failure maps to 500", func(t *testing.T) {
		mockService := new(MockHistoryService)
		handler := NewHandler(mockService, logger)
		mockService.On("GetVisitLocations", mock.Anything, userID).
			Return(nil, errors.New("db down")).Once()

		req := authedRequest(t, http.MethodGet, "/history/get", nil, userID)
		rr := httptest.NewRecorder()
		handler.GetHistory(rr, req)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}
