package scanner

import (
	"errors"
	"fmt"
	"time"

	"github.com/merdandt/CryptoArbitrageFinder/internal/config"
	"github.com/merdandt/CryptoArbitrageFinder/internal/graph"
	"github.com/merdandt/CryptoArbitrageFinder/internal/infra/log"
	"github.com/merdandt/CryptoArbitrageFinder/internal/infra/metrics"
)

// MinPathLen is the shortest conversion chain considered: a two-hop round trip
// through at least one intermediate currency.
const MinPathLen = 3

// breakEvenTolerance keeps cycles whose rates are exact mathematical inverses
// classed as break-even despite floating point noise around 1.0.
const breakEvenTolerance = 1e-9

// ErrInsufficientTickers is returned by Scan before any enumeration when fewer
// than two distinct usable tickers are supplied.
var ErrInsufficientTickers = errors.New("need at least 2 distinct tickers")

// PathResult prices one round trip: the path traversed forward, then the same
// path mirrored back to the starting currency.
type PathResult struct {
	Path            []graph.Ticker
	ForwardFactor   float64
	ReverseFactor   float64
	RoundTripFactor float64
}

// Result carries the extremes of a scan. Either field is nil when no fully
// priced round trip fell on that side of break-even; that is a normal outcome,
// not an error.
type Result struct {
	BestOpportunity *PathResult
	LargestLoss     *PathResult
}

type Scanner struct {
	maxPathLen int
	logger     log.Logger
}

func New(cfg config.Config, logger log.Logger) *Scanner {
	maxLen := cfg.Scan.MaxPathLen
	if maxLen < MinPathLen {
		maxLen = MinPathLen
	}
	return &Scanner{maxPathLen: maxLen, logger: logger}
}

// Evaluate prices the round trip for path against g. ok is false when any hop
// in either direction lacks a direct rate; such paths are skipped by Scan
// rather than surfaced.
func (s *Scanner) Evaluate(path []graph.Ticker, g *graph.Graph) (PathResult, bool) {
	fw, err := g.PathFactor(path)
	if err != nil {
		return PathResult{}, false
	}
	rev, err := g.PathFactor(reverse(path))
	if err != nil {
		return PathResult{}, false
	}
	return PathResult{
		Path:            path,
		ForwardFactor:   fw,
		ReverseFactor:   rev,
		RoundTripFactor: fw * rev,
	}, true
}

// Scan enumerates candidate paths over the supplied tickers, evaluates each
// against g, and folds the fully priced ones into a Result tracking the
// running max above break-even and running min below it. Strict comparisons
// make the first path in enumeration order win ties, so results are
// reproducible for an identical input ordering. Scan holds no state between
// invocations.
func (s *Scanner) Scan(tickers []graph.Ticker, g *graph.Graph) (Result, error) {
	start := time.Now()
	clean := Dedupe(tickers)
	if len(clean) < 2 {
		return Result{}, fmt.Errorf("%d usable tickers: %w", len(clean), ErrInsufficientTickers)
	}
	metrics.ScansTotal.Inc()

	var res Result
	evaluated, skipped := 0, 0
	for path := range Paths(clean, MinPathLen, s.maxPathLen) {
		pr, ok := s.Evaluate(path, g)
		if !ok {
			skipped++
			metrics.PathsSkippedTotal.Inc()
			continue
		}
		evaluated++
		metrics.PathsEvaluatedTotal.Inc()
		metrics.RoundTripFactor.Observe(pr.RoundTripFactor)
		if pr.RoundTripFactor > 1+breakEvenTolerance {
			if res.BestOpportunity == nil || pr.RoundTripFactor > res.BestOpportunity.RoundTripFactor {
				cp := pr
				res.BestOpportunity = &cp
			}
		}
		if pr.RoundTripFactor < 1-breakEvenTolerance {
			if res.LargestLoss == nil || pr.RoundTripFactor < res.LargestLoss.RoundTripFactor {
				cp := pr
				res.LargestLoss = &cp
			}
		}
	}

	if res.BestOpportunity != nil {
		metrics.OpportunitiesFound.Inc()
		metrics.BestRoundTripFactor.Set(res.BestOpportunity.RoundTripFactor)
	}
	if res.LargestLoss != nil {
		metrics.WorstRoundTripFactor.Set(res.LargestLoss.RoundTripFactor)
	}
	metrics.ScanDurationSeconds.Observe(time.Since(start).Seconds())
	s.logger.Debug().
		Int("tickers", len(clean)).
		Int("evaluated", evaluated).
		Int("skipped", skipped).
		Bool("opportunity", res.BestOpportunity != nil).
		Msg("scan complete")
	return res, nil
}

func reverse(path []graph.Ticker) []graph.Ticker {
	out := make([]graph.Ticker, len(path))
	for i, t := range path {
		out[len(path)-1-i] = t
	}
	return out
}
