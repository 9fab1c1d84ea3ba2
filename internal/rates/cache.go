package rates

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/merdandt/CryptoArbitrageFinder/internal/currency"
	"github.com/merdandt/CryptoArbitrageFinder/internal/graph"
	"github.com/merdandt/CryptoArbitrageFinder/internal/infra/metrics"
)

// CachedProvider memoizes Fetch results for a short TTL so repeated scans of
// the same currency set do not hammer the upstream API. The cache lives here,
// outside the scan core, which always receives a plain snapshot.
type CachedProvider struct {
	inner Provider
	ttl   time.Duration

	mu      sync.Mutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	snap Snapshot
	ref  ReferenceRates
	at   time.Time
}

func NewCachedProvider(inner Provider, ttl time.Duration) *CachedProvider {
	return &CachedProvider{inner: inner, ttl: ttl, entries: make(map[string]cacheEntry)}
}

func (c *CachedProvider) Fetch(ctx context.Context, currencies []currency.Currency, reference graph.Ticker) (Snapshot, ReferenceRates, error) {
	key := cacheKey(currencies, reference)
	if c.ttl > 0 {
		c.mu.Lock()
		e, ok := c.entries[key]
		c.mu.Unlock()
		if ok && time.Since(e.at) < c.ttl {
			metrics.ProviderCacheHitsTotal.Inc()
			return e.snap, e.ref, nil
		}
	}
	snap, ref, err := c.inner.Fetch(ctx, currencies, reference)
	if err != nil {
		return nil, nil, err
	}
	if c.ttl > 0 {
		c.mu.Lock()
		c.entries[key] = cacheEntry{snap: snap, ref: ref, at: time.Now()}
		c.mu.Unlock()
	}
	return snap, ref, nil
}

func cacheKey(currencies []currency.Currency, reference graph.Ticker) string {
	ids := make([]string, 0, len(currencies))
	for _, c := range currencies {
		ids = append(ids, c.ID)
	}
	sort.Strings(ids)
	return strings.Join(ids, ",") + "|" + string(reference)
}
