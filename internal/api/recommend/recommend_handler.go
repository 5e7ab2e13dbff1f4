package recommend

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	appMiddleware "github.com/FACorreiaa/pickmybite/app/middleware"
	"github.com/FACorreiaa/pickmybite/app/observability/metrics"
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

// Pick handles POST /pick: runs the recommendation pipeline for the request's
// preferences and location, using the caller's visit history when a valid
// token was sent.
func (h *Handler) Pick(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("RecommendHandler").Start(r.Context(), "Pick", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/pick"),
	))
	defer span.End()

	m := metrics.Get()
	start := time.Now()
	defer func() {
		m.PickRequestsTotal.Add(ctx, 1)
		m.PickDurationSeconds.Record(ctx, time.Since(start).Seconds())
	}()

	l := h.logger.With(slog.String("handler", "Pick"))
	l.DebugContext(ctx, "Pick handler invoked")

	var req types.PickRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.ErrorContext(ctx, "Failed to decode request body", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	user := appMiddleware.UserFromContext(ctx)
	if user.Authenticated() {
		l = l.With(slog.String("userID", user.UserID().String()))
		span.SetAttributes(semconv.EnduserIDKey.String(user.UserID().String()))
	}

	recs, err := h.service.Pick(ctx, user, req)
	switch {
	case errors.Is(err, ErrInvalidInput):
		l.ErrorContext(ctx, "Invalid pick request")
		api.ErrorResponse(w, r, http.StatusBadRequest, "Preferences and location required")
		return
	case errors.Is(err, ErrNoResults):
		l.InfoContext(ctx, "No matching restaurants for pick request")
		api.ErrorResponse(w, r, http.StatusNotFound, "No matching restaurants found nearby")
		return
	case errors.Is(err, ErrProviderUnavailable):
		l.ErrorContext(ctx, "Place provider unavailable", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to pick a restaurant.")
		return
	case err != nil:
		l.ErrorContext(ctx, "Pick failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to pick a restaurant.")
		return
	}

	l.InfoContext(ctx, "Pick completed", slog.Int("restaurants", len(recs)))
	api.WriteJSONResponse(w, r, http.StatusOK, types.PickResponse{Restaurants: recs})
}
