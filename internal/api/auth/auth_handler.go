package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

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

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("AuthHandler").Start(r.Context(), "Register", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/register"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "Register"))

	var req types.RegisterRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.ErrorContext(ctx, "Failed to decode request body", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.Username == "" || req.Password == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Username and password are required.")
		return
	}

	user, err := h.service.Register(ctx, req.Username, req.Password, req.DisplayName)
	if errors.Is(err, ErrUsernameTaken) {
		l.InfoContext(ctx, "Username already taken", slog.String("username", req.Username))
		api.ErrorResponse(w, r, http.StatusConflict, "Username already taken.")
		return
	}
	if err != nil {
		l.ErrorContext(ctx, "Registration failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Registration failed.")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusCreated, types.AuthResponse{
		Message: "Registration successful!",
		User:    *user,
	})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("AuthHandler").Start(r.Context(), "Login", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/login"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "Login"))

	var req types.LoginRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.ErrorContext(ctx, "Failed to decode request body", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.Username == "" || req.Password == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Username and password are required.")
		return
	}

	user, token, err := h.service.Login(ctx, req.Username, req.Password)
	if errors.Is(err, ErrInvalidCredentials) {
		l.InfoContext(ctx, "Login rejected", slog.String("username", req.Username))
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Invalid username or password.")
		return
	}
	if err != nil {
		l.ErrorContext(ctx, "Login failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Login failed.")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, types.AuthResponse{
		Message: "Login successful!",
		User:    *user,
		Token:   token,
	})
}
