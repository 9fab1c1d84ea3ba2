package watch

import (
	"context"
	"time"

	"github.com/merdandt/CryptoArbitrageFinder/internal/config"
	"github.com/merdandt/CryptoArbitrageFinder/internal/currency"
	"github.com/merdandt/CryptoArbitrageFinder/internal/graph"
	"github.com/merdandt/CryptoArbitrageFinder/internal/infra/log"
	"github.com/merdandt/CryptoArbitrageFinder/internal/infra/metrics"
	"github.com/merdandt/CryptoArbitrageFinder/internal/rates"
	"github.com/merdandt/CryptoArbitrageFinder/internal/scanner"
)

// Watcher periodically rescans the configured default tickers and logs the
// extremes. Each tick is an independent fetch+scan; no state carries over.
type Watcher struct {
	cfg      config.Config
	catalog  *currency.Catalog
	provider rates.Provider
	scanner  *scanner.Scanner
	logger   log.Logger
}

func New(cfg config.Config, catalog *currency.Catalog, provider rates.Provider, sc *scanner.Scanner, logger log.Logger) *Watcher {
	return &Watcher{cfg: cfg, catalog: catalog, provider: provider, scanner: sc, logger: logger}
}

func (w *Watcher) Run(ctx context.Context) error {
	interval := time.Duration(w.cfg.Watch.IntervalSeconds) * time.Second
	if interval <= 0 {
		interval = 2 * time.Minute
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	w.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			w.tick(ctx)
		}
	}
}

func (w *Watcher) tick(ctx context.Context) {
	metrics.WatchTicksTotal.Inc()
	found, unknown := w.catalog.Resolve(w.cfg.Scan.DefaultTickers)
	if len(unknown) > 0 {
		w.logger.Warn().Strs("tickers", unknown).Msg("configured tickers not in catalog; skipped")
	}
	if len(found) < 2 {
		w.logger.Warn().Int("known", len(found)).Msg("not enough known tickers to scan")
		return
	}

	ctxTO, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	snap, _, err := w.provider.Fetch(ctxTO, found, graph.NewTicker(w.cfg.Scan.ReferenceTicker))
	if err != nil {
		w.logger.Error().Err(err).Msg("rate fetch failed; will retry next tick")
		return
	}
	g, err := graph.Build(snap)
	if err != nil {
		w.logger.Error().Err(err).Msg("rate graph build failed")
		return
	}

	tickers := make([]graph.Ticker, 0, len(found))
	for _, cur := range found {
		tickers = append(tickers, graph.NewTicker(cur.Ticker))
	}
	res, err := w.scanner.Scan(tickers, g)
	if err != nil {
		w.logger.Error().Err(err).Msg("scan failed")
		return
	}

	if res.BestOpportunity != nil {
		w.logger.Info().
			Strs("path", pathStrings(res.BestOpportunity.Path)).
			Float64("round_trip_factor", res.BestOpportunity.RoundTripFactor).
			Msg("arbitrage opportunity")
	}
	if res.LargestLoss != nil {
		w.logger.Info().
			Strs("path", pathStrings(res.LargestLoss.Path)).
			Float64("round_trip_factor", res.LargestLoss.RoundTripFactor).
			Msg("largest loss cycle")
	}
	if res.BestOpportunity == nil && res.LargestLoss == nil {
		w.logger.Info().Int("tickers", len(tickers)).Msg("no priced round trip deviates from break-even")
	}
}

func pathStrings(path []graph.Ticker) []string {
	out := make([]string, len(path))
	for i, t := range path {
		out[i] = string(t)
	}
	return out
}
