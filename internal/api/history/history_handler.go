package history

import (
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	appMiddleware "github.com/FACorreiaa/pickmybite/app/middleware"
	"github.com/FACorreiaa/pickmybite/internal/api"
	"github.com/FACorreiaa/pickmybite/internal/types"
)

type Handler struct {
	service Service
	logger  *slog.Logger
}

func NewHandler(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// AddVisit records a visited restaurant for the authenticated user.
func (h *Handler) AddVisit(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("HistoryHandler").Start(r.Context(), "AddVisit", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/history/add"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "AddVisit"))

	user := appMiddleware.UserFromContext(ctx)
	if !user.Authenticated() {
		l.ErrorContext(ctx, "User ID not found in context")
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}
	span.SetAttributes(semconv.EnduserIDKey.String(user.UserID().String()))
	l = l.With(slog.String("userID", user.UserID().String()))

	var req types.AddVisitRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.ErrorContext(ctx, "Failed to decode request body", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.RestaurantName == "" || req.Latitude == nil || req.Longitude == nil {
		l.ErrorContext(ctx, "Missing visit fields")
		api.ErrorResponse(w, r, http.StatusBadRequest, "Name, latitude, and longitude are required.")
		return
	}

	if err := h.service.RecordVisit(ctx, user.UserID(), req.RestaurantName, req.RestaurantTypes, *req.Latitude, *req.Longitude); err != nil {
		l.ErrorContext(ctx, "Failed to record visit", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to record visit.")
		return
	}

	l.InfoContext(ctx, "Visit recorded", slog.String("restaurant", req.RestaurantName))
	api.WriteJSONResponse(w, r, http.StatusCreated, map[string]string{"message": "Visit recorded successfully!"})
}

// GetHistory returns the authenticated user's visit coordinates for the
// client heatmap.
func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("HistoryHandler").Start(r.Context(), "GetHistory", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/history/get"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "GetHistory"))

	user := appMiddleware.UserFromContext(ctx)
	if !user.Authenticated() {
		l.ErrorContext(ctx, "User ID not found in context")
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}
	span.SetAttributes(semconv.EnduserIDKey.String(user.UserID().String()))

	locations, err := h.service.GetVisitLocations(ctx, user.UserID())
	if err != nil {
		l.ErrorContext(ctx, "Failed to fetch visit history", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to fetch visit history.")
		return
	}

	l.InfoContext(ctx, "Fetched visit history", slog.Int("visits", len(locations)))
	api.WriteJSONResponse(w, r, http.StatusOK, locations)
}
