package coingecko

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/merdandt/CryptoArbitrageFinder/internal/config"
	"github.com/merdandt/CryptoArbitrageFinder/internal/currency"
	"github.com/merdandt/CryptoArbitrageFinder/internal/graph"
	"github.com/merdandt/CryptoArbitrageFinder/internal/infra/log"
	"github.com/merdandt/CryptoArbitrageFinder/internal/infra/metrics"
	"github.com/merdandt/CryptoArbitrageFinder/internal/infra/network"
	"github.com/merdandt/CryptoArbitrageFinder/internal/rates"
)

// ErrRateLimited is returned when the local token bucket has no budget for
// another upstream call.
var ErrRateLimited = errors.New("coingecko: local rate limit exceeded")

// Client fetches spot prices from the CoinGecko simple/price endpoint.
type Client struct {
	baseURL string
	http    *http.Client
	bucket  *network.TokenBucket
	logger  log.Logger
}

func New(cfg config.Config, logger log.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.Provider.BaseURL, "/"),
		http:    network.NewHTTPClient(time.Duration(cfg.Provider.TimeoutSeconds) * time.Second),
		bucket:  network.NewTokenBucket(cfg.Provider.RateLimitBurst, cfg.Provider.RateLimitPerSec),
		logger:  logger,
	}
}

// Fetch queries prices for every currency id against every selected ticker
// plus the reference currency, and folds the response into a pairwise
// snapshot. Pairs the API does not quote are simply absent; zero or negative
// quotes are dropped before they reach the rate graph.
func (c *Client) Fetch(ctx context.Context, currencies []currency.Currency, reference graph.Ticker) (rates.Snapshot, rates.ReferenceRates, error) {
	if len(currencies) == 0 {
		return nil, nil, fmt.Errorf("coingecko: no currencies to fetch")
	}
	if !c.bucket.Allow(time.Now()) {
		metrics.ProviderErrorsTotal.WithLabelValues("rate_limited").Inc()
		return nil, nil, ErrRateLimited
	}

	byID := make(map[string]graph.Ticker, len(currencies))
	selected := make(map[graph.Ticker]struct{}, len(currencies))
	ids := make([]string, 0, len(currencies))
	vs := make([]string, 0, len(currencies)+1)
	for _, cur := range currencies {
		tk := graph.NewTicker(cur.Ticker)
		byID[cur.ID] = tk
		selected[tk] = struct{}{}
		ids = append(ids, cur.ID)
		vs = append(vs, strings.ToLower(cur.Ticker))
	}
	ref := graph.NewTicker(string(reference))
	if _, ok := selected[ref]; !ok && ref != "" {
		vs = append(vs, strings.ToLower(string(ref)))
	}

	q := url.Values{}
	q.Set("ids", strings.Join(ids, ","))
	q.Set("vs_currencies", strings.Join(vs, ","))
	endpoint := c.baseURL + "/api/v3/simple/price?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, nil, err
	}
	metrics.ProviderRequestsTotal.Inc()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.ProviderErrorsTotal.WithLabelValues("transport").Inc()
		return nil, nil, fmt.Errorf("coingecko: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		metrics.ProviderErrorsTotal.WithLabelValues("status").Inc()
		return nil, nil, fmt.Errorf("coingecko: unexpected status %d", resp.StatusCode)
	}

	var data map[string]map[string]float64
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		metrics.ProviderErrorsTotal.WithLabelValues("decode").Inc()
		return nil, nil, fmt.Errorf("coingecko: decode response: %w", err)
	}

	snap := make(rates.Snapshot)
	refRates := make(rates.ReferenceRates)
	dropped := 0
	for id, quotes := range data {
		from, ok := byID[id]
		if !ok {
			continue
		}
		for vsTicker, rate := range quotes {
			if rate <= 0 || math.IsNaN(rate) || math.IsInf(rate, 0) {
				dropped++
				continue
			}
			to := graph.NewTicker(vsTicker)
			if to == ref {
				refRates[from] = rate
			}
			if to == from {
				continue
			}
			if _, sel := selected[to]; sel {
				snap[graph.Pair{From: from, To: to}] = rate
			}
		}
	}
	if dropped > 0 {
		c.logger.Debug().Int("dropped", dropped).Msg("dropped unusable quotes from provider response")
	}
	return snap, refRates, nil
}
