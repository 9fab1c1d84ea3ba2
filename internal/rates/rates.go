package rates

import (
	"context"

	"github.com/merdandt/CryptoArbitrageFinder/internal/currency"
	"github.com/merdandt/CryptoArbitrageFinder/internal/graph"
)

// Snapshot is one immutable view of pairwise conversion rates, keyed by
// directed ticker pair. It is passed by value into each scan; the core never
// caches it.
type Snapshot map[graph.Pair]float64

// ReferenceRates maps a ticker to its price in the reference currency
// (typically USD) for downstream value display.
type ReferenceRates map[graph.Ticker]float64

// Provider fetches the latest exchange rates for a set of currencies, plus
// each currency's reference-currency price when available.
type Provider interface {
	Fetch(ctx context.Context, currencies []currency.Currency, reference graph.Ticker) (Snapshot, ReferenceRates, error)
}
