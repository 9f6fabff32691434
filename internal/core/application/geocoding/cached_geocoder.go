package geocoding

import (
	"context"
	"log/slog"
	"strings"

	"courier-dispatch/internal/core/ports"
)

// CachedGeocoder serves repeated queries from a GeocodeCache. Only hits are cached, so a
// query that failed is asked again next time. Cache failures are logged and bypassed.
type CachedGeocoder struct {
	next   ports.Geocoder
	cache  ports.GeocodeCache
	logger *slog.Logger
}

func NewCachedGeocoder(next ports.Geocoder, cache ports.GeocodeCache, logger *slog.Logger) (*CachedGeocoder, error) {
	if next == nil {
		return nil, ErrGeocoderIsRequired
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedGeocoder{
		next:   next,
		cache:  cache,
		logger: logger.With("component", "geocode_cache"),
	}, nil
}

func (g *CachedGeocoder) Search(ctx context.Context, query string) (ports.GeocodeHit, error) {
	key := normalizeQuery(query)

	if g.cache != nil {
		hit, ok, err := g.cache.Get(ctx, key)
		switch {
		case err != nil:
			g.logger.WarnContext(ctx, "geocode cache read failed", "query", key, "error", err)
		case ok:
			return hit, nil
		}
	}

	hit, err := g.next.Search(ctx, query)
	if err != nil {
		return ports.GeocodeHit{}, err
	}

	if g.cache != nil {
		if err = g.cache.Put(ctx, key, hit); err != nil {
			g.logger.WarnContext(ctx, "geocode cache write failed", "query", key, "error", err)
		}
	}
	return hit, nil
}

func normalizeQuery(query string) string {
	return strings.ToLower(strings.Join(strings.Fields(query), " "))
}
