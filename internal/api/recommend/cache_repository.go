package recommend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	gocache "github.com/patrickmn/go-cache"

	"github.com/FACorreiaa/pickmybite/internal/types"
)

var _ CacheRepo = (*CacheRepoImpl)(nil)

// CacheRepo stores provider snapshots per search bucket. Lookup returns the
// most recently stored entry for the query, or nil on a miss. Store appends a
// new entry; existing ones are never updated.
type CacheRepo interface {
	Lookup(ctx context.Context, query types.SearchQuery) (*types.CacheEntry, error)
	Store(ctx context.Context, query types.SearchQuery, places []types.PlaceRecord) error
}

// PgxPool is the subset of pgxpool.Pool the repository needs; pgxmock
// satisfies it in tests.
type PgxPool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// CacheRepoImpl keeps a short-lived in-process layer (go-cache) in front of
// the durable place_cache table, so repeat picks from the same cell skip the
// round trip entirely.
type CacheRepoImpl struct {
	logger   *slog.Logger
	pgpool   PgxPool
	local    *gocache.Cache
	localTTL time.Duration
}

func NewCacheRepo(pgpool PgxPool, localTTL time.Duration, logger *slog.Logger) *CacheRepoImpl {
	if localTTL <= 0 {
		localTTL = 10 * time.Minute
	}
	return &CacheRepoImpl{
		logger:   logger,
		pgpool:   pgpool,
		local:    gocache.New(localTTL, 2*localTTL),
		localTTL: localTTL,
	}
}

// CacheKeyOf produces the canonical key for a query. The types slice is JSON
// encoded in the order given, so the key is deliberately order-sensitive;
// callers must build queries from a consistent input ordering.
func CacheKeyOf(q types.SearchQuery) string {
	return fmt.Sprintf("%.6f|%.6f|%d|%s", q.Cell.Lat, q.Cell.Lng, q.RadiusMeters, encodeTypes(q.Types))
}

func encodeTypes(placeTypes []string) string {
	b, err := json.Marshal(placeTypes)
	if err != nil {
		// A []string cannot fail to marshal; keep the key deterministic anyway.
		return "[]"
	}
	return string(b)
}

func (r *CacheRepoImpl) Lookup(ctx context.Context, query types.SearchQuery) (*types.CacheEntry, error) {
	key := CacheKeyOf(query)
	if hit, ok := r.local.Get(key); ok {
		if entry, ok := hit.(*types.CacheEntry); ok {
			return entry, nil
		}
	}

	row := r.pgpool.QueryRow(ctx, `
        SELECT response, cached_at FROM place_cache
        WHERE lat_round = $1 AND lng_round = $2 AND radius = $3 AND types = $4
        ORDER BY cached_at DESC LIMIT 1`,
		query.Cell.Lat, query.Cell.Lng, query.RadiusMeters, encodeTypes(query.Types))

	var (
		raw      []byte
		cachedAt time.Time
	)
	if err := row.Scan(&raw, &cachedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read place cache: %w", err)
	}

	var places []types.PlaceRecord
	if err := json.Unmarshal(raw, &places); err != nil {
		return nil, fmt.Errorf("failed to decode cached places: %w", err)
	}

	entry := &types.CacheEntry{Query: query, Places: places, CachedAt: cachedAt}
	r.local.Set(key, entry, r.localTTL)
	return entry, nil
}

func (r *CacheRepoImpl) Store(ctx context.Context, query types.SearchQuery, places []types.PlaceRecord) error {
	raw, err := json.Marshal(places)
	if err != nil {
		return fmt.Errorf("failed to encode places for cache: %w", err)
	}

	_, err = r.pgpool.Exec(ctx, `
        INSERT INTO place_cache (lat_round, lng_round, radius, types, response)
        VALUES ($1, $2, $3, $4, $5)`,
		query.Cell.Lat, query.Cell.Lng, query.RadiusMeters, encodeTypes(query.Types), raw)
	if err != nil {
		return fmt.Errorf("failed to write place cache: %w", err)
	}

	r.local.Set(CacheKeyOf(query), &types.CacheEntry{
		Query:    query,
		Places:   places,
		CachedAt: time.Now(),
	}, r.localTTL)

	r.logger.DebugContext(ctx, "Cached provider results",
		slog.Int("places", len(places)),
		slog.Int("radius_m", query.RadiusMeters),
	)
	return nil
}
