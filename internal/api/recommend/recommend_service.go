package recommend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/singleflight"

	"github.com/FACorreiaa/pickmybite/app/observability/metrics"
	"github.com/FACorreiaa/pickmybite/internal/types"
)

var (
	// ErrInvalidInput means preferences or location were missing from the
	// request. Nothing is processed.
	ErrInvalidInput = errors.New("preferences and location required")

	// ErrNoResults is the normal empty outcome: the provider found nothing,
	// or every candidate was filtered out. Not a failure.
	ErrNoResults = errors.New("no matching restaurants found")
)

const (
	defaultRadiusMeters = 3000
	defaultMinRating    = 3.5
	topCandidates       = 10
	pickCount           = 2
)

var _ Service = (*ServiceImpl)(nil)

// Service is the recommendation pipeline entrypoint.
type Service interface {
	Pick(ctx context.Context, user types.UserContext, req types.PickRequest) ([]types.Recommendation, error)
}

// VisitHistoryStore supplies the user's past visits. Anonymous users never
// reach it.
type VisitHistoryStore interface {
	GetVisitedNames(ctx context.Context, userID uuid.UUID) (map[string]struct{}, error)
	GetVisitCount(ctx context.Context, userID uuid.UUID) (int, error)
}

type ServiceImpl struct {
	logger   *slog.Logger
	cache    CacheRepo
	provider PlaceProvider
	history  VisitHistoryStore

	// One fetch in flight per cache key; concurrent picks for the same cell
	// share the provider response.
	group singleflight.Group

	// rng drives type selection and shuffling. Guarded because rand.Rand is
	// not safe for concurrent use.
	randMu sync.Mutex
	rng    *rand.Rand
}

func NewServiceImpl(cache CacheRepo, provider PlaceProvider, history VisitHistoryStore, rng *rand.Rand, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:   logger,
		cache:    cache,
		provider: provider,
		history:  history,
		rng:      rng,
	}
}

// Pick runs the full pipeline: resolve history, pick search types, check the
// cache, hit the provider on a miss, then filter, rank and sample down to the
// final two restaurants.
func (s *ServiceImpl) Pick(ctx context.Context, user types.UserContext, req types.PickRequest) ([]types.Recommendation, error) {
	ctx, span := otel.Tracer("RecommendService").Start(ctx, "Pick")
	defer span.End()

	if req.Preferences == nil || req.Location == nil {
		return nil, ErrInvalidInput
	}
	prefs := req.Preferences

	minRating := defaultMinRating
	if prefs.MinRating != nil {
		minRating = *prefs.MinRating
	}
	radius := prefs.Distance
	if radius <= 0 {
		radius = defaultRadiusMeters
	}

	visitedNames, visitCount := s.resolveHistory(ctx, user)

	searchTypes := prefs.Cuisines
	if len(searchTypes) == 0 {
		s.randMu.Lock()
		searchTypes = SelectDefaultTypes(minRating, prefs.Distance, visitCount, s.rng)
		s.randMu.Unlock()
		s.logger.DebugContext(ctx, "No cuisines given, selected default types", slog.Any("types", searchTypes))
	}
	span.SetAttributes(
		attribute.Int("search.radius_m", radius),
		attribute.StringSlice("search.types", searchTypes),
	)

	query := types.SearchQuery{
		Cell: types.GeoCell{
			Lat: QuantizeCoord(req.Location.Lat, DefaultCellPrecision),
			Lng: QuantizeCoord(req.Location.Lng, DefaultCellPrecision),
		},
		RadiusMeters: radius,
		Types:        searchTypes,
	}

	places, err := s.placesFor(ctx, query, *req.Location)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "nearby search failed")
		return nil, err
	}
	if len(places) == 0 {
		return nil, ErrNoResults
	}

	filtered := FilterPlaces(places, prefs.Budget, minRating)
	ranked := RankPlaces(filtered, visitedNames, prefs.Cuisines)

	s.randMu.Lock()
	top := SampleTopN(ranked, sampleWindow(ranked, visitedNames), pickCount, s.rng)
	s.randMu.Unlock()
	if len(top) == 0 {
		return nil, ErrNoResults
	}

	recs := make([]types.Recommendation, 0, len(top))
	for _, p := range top {
		recs = append(recs, buildRecommendation(p))
	}
	span.SetStatus(codes.Ok, "Recommendations selected")
	return recs, nil
}

// sampleWindow sizes the shuffle window. Ranked places start with the
// unvisited ones; when that prefix alone can cover the pick, the window
// shrinks to it so repeat visits are only recommended when nothing new is
// left.
func sampleWindow(ranked []types.PlaceRecord, visitedNames map[string]struct{}) int {
	unvisited := 0
	for _, p := range ranked {
		if _, ok := visitedNames[p.Name()]; ok {
			break
		}
		unvisited++
	}
	if unvisited >= pickCount && unvisited < topCandidates {
		return unvisited
	}
	return topCandidates
}

// resolveHistory fetches the user's visit history. Anonymous users and
// history-store failures both degrade to an empty history; a pick never
// fails because the history was unavailable.
func (s *ServiceImpl) resolveHistory(ctx context.Context, user types.UserContext) (map[string]struct{}, int) {
	if !user.Authenticated() {
		return map[string]struct{}{}, 0
	}

	visitCount, err := s.history.GetVisitCount(ctx, user.UserID())
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to fetch visit count, proceeding without it", slog.Any("error", err))
		visitCount = 0
	}

	visitedNames, err := s.history.GetVisitedNames(ctx, user.UserID())
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to fetch visit history, proceeding without it", slog.Any("error", err))
		visitedNames = map[string]struct{}{}
	}
	return visitedNames, visitCount
}

// placesFor returns the cached snapshot for the query, or fetches one from
// the provider. Cache read failures count as misses and write failures are
// best-effort; only a provider transport failure propagates.
func (s *ServiceImpl) placesFor(ctx context.Context, query types.SearchQuery, center types.Point) ([]types.PlaceRecord, error) {
	m := metrics.Get()

	entry, err := s.cache.Lookup(ctx, query)
	if err != nil {
		s.logger.WarnContext(ctx, "Place cache lookup failed, treating as miss", slog.Any("error", err))
		m.CacheErrorsTotal.Add(ctx, 1)
	}
	if entry != nil {
		m.CacheHitsTotal.Add(ctx, 1)
		s.logger.DebugContext(ctx, "Using cached provider results", slog.Int("places", len(entry.Places)))
		return entry.Places, nil
	}
	m.CacheMissesTotal.Add(ctx, 1)

	result, err, _ := s.group.Do(CacheKeyOf(query), func() (interface{}, error) {
		m.ProviderCallsTotal.Add(ctx, 1)
		found, err := s.provider.SearchNearby(ctx, center, query.RadiusMeters, query.Types)
		if err != nil {
			m.ProviderErrorsTotal.Add(ctx, 1)
			return nil, err
		}
		if len(found) > 0 {
			if storeErr := s.cache.Store(ctx, query, found); storeErr != nil {
				s.logger.WarnContext(ctx, "Failed to cache provider results", slog.Any("error", storeErr))
			}
		}
		return found, nil
	})
	if err != nil {
		return nil, fmt.Errorf("nearby search failed: %w", err)
	}
	return result.([]types.PlaceRecord), nil
}

func buildRecommendation(p types.PlaceRecord) types.Recommendation {
	rec := types.Recommendation{
		Name:            p.Name(),
		Address:         p.FormattedAddress,
		Rating:          p.Rating,
		UserRatingCount: p.UserRatingCount,
		Location:        types.Point{Lat: p.Location.Latitude, Lng: p.Location.Longitude},
		Types:           p.Types,
		Photos:          p.Photos,
		Phone:           p.NationalPhoneNumber,
	}
	if rec.Address == "" {
		rec.Address = "No address provided"
	}
	if rec.Types == nil {
		rec.Types = []string{}
	}
	if rec.Photos == nil {
		rec.Photos = []types.PlacePhoto{}
	}
	if tier, ok := types.PriceLevelTier(p.PriceLevel); ok {
		rec.PriceLevel = tier
	}
	if p.GoogleMapsLinks != nil {
		rec.DirectionsLink = p.GoogleMapsLinks.DirectionsURI
		rec.ReviewsLink = p.GoogleMapsLinks.ReviewsURI
		rec.PhotosLink = p.GoogleMapsLinks.PhotosURI
	}
	if rec.Phone == "" {
		rec.Phone = p.InternationalPhoneNumber
	}
	return rec
}
