package report

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/merdandt/CryptoArbitrageFinder/internal/graph"
	"github.com/merdandt/CryptoArbitrageFinder/internal/rates"
	"github.com/merdandt/CryptoArbitrageFinder/internal/scanner"
)

// PathReport is the caller-facing rendering of one priced round trip, with
// the investment impact pre-computed in the starting currency and, when a
// reference rate is available, in the reference currency as well.
type PathReport struct {
	Path            []string `json:"path"`
	ForwardFactor   float64  `json:"forward_factor"`
	ReverseFactor   float64  `json:"reverse_factor"`
	RoundTripFactor float64  `json:"round_trip_factor"`
	GainPct         string   `json:"gain_pct"`
	ImpactUnits     string   `json:"impact_units"`
	ImpactTicker    string   `json:"impact_ticker"`
	ImpactReference string   `json:"impact_reference,omitempty"`
}

// Report is the full outcome of one scan invocation.
type Report struct {
	ScanID          string      `json:"scan_id"`
	Tickers         []string    `json:"tickers"`
	UnknownTickers  []string    `json:"unknown_tickers,omitempty"`
	Investment      string      `json:"investment"`
	BestOpportunity *PathReport `json:"best_opportunity"`
	LargestLoss     *PathReport `json:"largest_loss"`
	GeneratedAt     time.Time   `json:"generated_at"`
}

// Build renders a scan result for presentation. The round-trip factor and a
// caller-supplied investment turn into absolute gain/loss figures: an
// opportunity reports profit units, a loss reports loss units, both positive.
func Build(res scanner.Result, tickers []graph.Ticker, unknown []string, investment decimal.Decimal, ref rates.ReferenceRates) Report {
	r := Report{
		ScanID:         uuid.NewString(),
		Tickers:        tickerStrings(tickers),
		UnknownTickers: unknown,
		Investment:     investment.String(),
		GeneratedAt:    time.Now().UTC(),
	}
	if res.BestOpportunity != nil {
		r.BestOpportunity = pathReport(*res.BestOpportunity, investment, ref)
	}
	if res.LargestLoss != nil {
		r.LargestLoss = pathReport(*res.LargestLoss, investment, ref)
	}
	return r
}

func pathReport(pr scanner.PathResult, investment decimal.Decimal, ref rates.ReferenceRates) *PathReport {
	factor := decimal.NewFromFloat(pr.RoundTripFactor)
	one := decimal.NewFromInt(1)
	// investment * |factor - 1|
	units := investment.Mul(factor.Sub(one).Abs())
	out := &PathReport{
		Path:            tickerStrings(pr.Path),
		ForwardFactor:   pr.ForwardFactor,
		ReverseFactor:   pr.ReverseFactor,
		RoundTripFactor: pr.RoundTripFactor,
		GainPct:         factor.Sub(one).Mul(decimal.NewFromInt(100)).Round(4).String(),
		ImpactUnits:     units.Round(6).String(),
		ImpactTicker:    string(pr.Path[0]),
	}
	if price, ok := ref[pr.Path[0]]; ok && price > 0 {
		out.ImpactReference = units.Mul(decimal.NewFromFloat(price)).Round(2).String()
	}
	return out
}

func tickerStrings(ts []graph.Ticker) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = string(t)
	}
	return out
}
