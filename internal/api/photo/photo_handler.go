package photo

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/FACorreiaa/pickmybite/internal/api"
)

const defaultMaxHeightPx = 400

// Handler proxies Places photo media through the server so the API key never
// reaches the client.
type Handler struct {
	logger     *slog.Logger
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

func NewHandler(baseURL, apiKey string, timeout time.Duration, logger *slog.Logger) *Handler {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Handler{
		logger:     logger,
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		apiKey:     apiKey,
	}
}

// GetPhoto streams one photo. The name parameter is the provider's photo
// resource name from a PlaceRecord.
func (h *Handler) GetPhoto(w http.ResponseWriter, r *http.Request) {
	l := h.logger.With(slog.String("handler", "GetPhoto"))

	photoName := r.URL.Query().Get("name")
	if photoName == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Missing photo name")
		return
	}
	maxHeight := defaultMaxHeightPx
	if v := r.URL.Query().Get("maxHeight"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid maxHeight")
			return
		}
		maxHeight = parsed
	}

	mediaURL := fmt.Sprintf("%s/v1/%s/media?maxHeightPx=%d&key=%s",
		h.baseURL, photoName, maxHeight, url.QueryEscape(h.apiKey))

	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, mediaURL, nil)
	if err != nil {
		l.ErrorContext(r.Context(), "Failed to build photo request", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Internal server error fetching photo")
		return
	}

	resp, err := h.httpClient.Do(req)
	if err != nil {
		l.ErrorContext(r.Context(), "Photo fetch error", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Internal server error fetching photo")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		l.WarnContext(r.Context(), "Upstream photo fetch failed", slog.Int("status", resp.StatusCode))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to fetch photo from provider")
		return
	}

	if ct := resp.Header.Get("Content-Type"); ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	if _, err := io.Copy(w, resp.Body); err != nil {
		l.WarnContext(r.Context(), "Failed streaming photo to client", slog.Any("error", err))
	}
}
