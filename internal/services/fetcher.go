package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/stellar-lakers/stellar-gateway/internal/models"
)

// CachedFetcher satisfies EventLister by consulting the month cache before
// the upstream client. Only non-empty batches are cached, so a failed fetch
// does not pin an empty calendar for the whole TTL.
type CachedFetcher struct {
	upstream EventLister
	cache    *MonthCache
	logger   *zap.Logger
}

// NewCachedFetcher wraps an upstream lister with the month cache.
func NewCachedFetcher(upstream EventLister, cache *MonthCache, logger *zap.Logger) *CachedFetcher {
	return &CachedFetcher{
		upstream: upstream,
		cache:    cache,
		logger:   logger.Named("event_fetcher"),
	}
}

// ListEvents returns the cached batch when fresh, otherwise fetches upstream.
func (f *CachedFetcher) ListEvents(ctx context.Context, month int, year int) []models.Event {
	if events, ok := f.cache.Get(ctx, month, year); ok {
		f.logger.Debug("Month served from cache",
			zap.Int("month", month), zap.Int("year", year), zap.Int("count", len(events)))
		return events
	}

	events := f.upstream.ListEvents(ctx, month, year)
	if len(events) > 0 {
		f.cache.Put(ctx, month, year, events)
	}
	return events
}
