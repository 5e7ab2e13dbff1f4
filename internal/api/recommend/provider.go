package recommend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/FACorreiaa/pickmybite/internal/types"
)

// ErrProviderUnavailable means the search provider could not be reached at
// the transport level (network error, timeout, upstream 5xx). It is distinct
// from a successful call that found nothing.
var ErrProviderUnavailable = errors.New("place provider unavailable")

const placesFieldMask = "places.displayName,places.location,places.businessStatus," +
	"places.rating,places.userRatingCount,places.websiteUri,places.googleMapsLinks," +
	"places.currentOpeningHours,places.formattedAddress,places.priceLevel," +
	"places.types,places.photos"

var _ PlaceProvider = (*PlacesClient)(nil)

// PlaceProvider performs the external nearby search on a cache miss.
type PlaceProvider interface {
	SearchNearby(ctx context.Context, center types.Point, radiusMeters int, placeTypes []string) ([]types.PlaceRecord, error)
}

// PlacesClient calls the Places API v1 searchNearby endpoint. One attempt per
// request; retries and timeouts are the HTTP client's business.
type PlacesClient struct {
	logger     *slog.Logger
	httpClient *http.Client
	baseURL    string
	apiKey     string
	maxResults int
}

func NewPlacesClient(baseURL, apiKey string, maxResults int, timeout time.Duration, logger *slog.Logger) *PlacesClient {
	if maxResults <= 0 {
		maxResults = 20
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &PlacesClient{
		logger:     logger,
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		apiKey:     apiKey,
		maxResults: maxResults,
	}
}

type searchNearbyRequest struct {
	IncludedTypes       []string            `json:"includedTypes"`
	MaxResultCount      int                 `json:"maxResultCount"`
	LocationRestriction locationRestriction `json:"locationRestriction"`
	RankPreference      string              `json:"rankPreference"`
}

type locationRestriction struct {
	Circle circle `json:"circle"`
}

type circle struct {
	Center types.PlaceLocation `json:"center"`
	Radius float64             `json:"radius"`
}

type searchNearbyResponse struct {
	Places []types.PlaceRecord `json:"places"`
}

// SearchNearby returns the provider's nearby places ranked by popularity.
// Transport failures and upstream 5xx surface as ErrProviderUnavailable;
// rejected requests and malformed bodies degrade to an empty result, which
// callers must treat as "nothing found", not as an error.
func (c *PlacesClient) SearchNearby(ctx context.Context, center types.Point, radiusMeters int, placeTypes []string) ([]types.PlaceRecord, error) {
	body, err := json.Marshal(searchNearbyRequest{
		IncludedTypes:  placeTypes,
		MaxResultCount: c.maxResults,
		LocationRestriction: locationRestriction{
			Circle: circle{
				Center: types.PlaceLocation{Latitude: center.Lat, Longitude: center.Lng},
				Radius: float64(radiusMeters),
			},
		},
		RankPreference: "POPULARITY",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/places:searchNearby", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-Api-Key", c.apiKey)
	req.Header.Set("X-Goog-FieldMask", placesFieldMask)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, fmt.Errorf("%w: upstream returned %d", ErrProviderUnavailable, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		c.logger.WarnContext(ctx, "Places API rejected search request",
			slog.Int("status", resp.StatusCode),
			slog.String("body", string(payload)),
		)
		return []types.PlaceRecord{}, nil
	}

	var decoded searchNearbyResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		c.logger.WarnContext(ctx, "Places API returned malformed response", slog.Any("error", err))
		return []types.PlaceRecord{}, nil
	}
	if decoded.Places == nil {
		return []types.PlaceRecord{}, nil
	}
	return decoded.Places, nil
}
