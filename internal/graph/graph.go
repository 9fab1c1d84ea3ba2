package graph

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
)

// Ticker identifies a currency or asset. Equality is case-insensitive:
// NewTicker normalizes to upper case and all graph keys are normalized.
type Ticker string

func NewTicker(s string) Ticker {
	return Ticker(strings.ToUpper(strings.TrimSpace(s)))
}

// Pair keys a directed conversion edge: one unit of From buys rate units of To.
// Edges are not assumed symmetric nor mutually inverse; that asymmetry is what
// the scanner looks for.
type Pair struct {
	From Ticker
	To   Ticker
}

func (p Pair) String() string { return string(p.From) + "->" + string(p.To) }

// ErrMissingEdge signals that no direct rate is known for a pair. This is an
// expected, recoverable condition during path evaluation; check with errors.Is.
var ErrMissingEdge = errors.New("no direct rate")

// InvalidRateError reports a non-positive or non-finite rate in a snapshot.
type InvalidRateError struct {
	Pair Pair
	Rate float64
}

func (e *InvalidRateError) Error() string {
	return fmt.Sprintf("invalid rate %g for %s", e.Rate, e.Pair)
}

// Graph holds one immutable snapshot of directed conversion rates.
type Graph struct {
	rates map[Pair]float64
}

// Build validates the snapshot and constructs the graph. The whole build fails
// on any rate that is <= 0, NaN or infinite; invalid entries are never dropped
// or coerced to 1.0.
func Build(snapshot map[Pair]float64) (*Graph, error) {
	rates := make(map[Pair]float64, len(snapshot))
	for p, r := range snapshot {
		if r <= 0 || math.IsNaN(r) || math.IsInf(r, 0) {
			return nil, &InvalidRateError{Pair: p, Rate: r}
		}
		rates[Pair{From: NewTicker(string(p.From)), To: NewTicker(string(p.To))}] = r
	}
	return &Graph{rates: rates}, nil
}

// Rate returns the stored rate for the directed pair, or an error wrapping
// ErrMissingEdge when the pair has no direct rate.
func (g *Graph) Rate(from, to Ticker) (float64, error) {
	r, ok := g.rates[Pair{From: from, To: to}]
	if !ok {
		return 0, fmt.Errorf("%s->%s: %w", from, to, ErrMissingEdge)
	}
	return r, nil
}

// PathFactor multiplies the rates over consecutive hops of path. Every hop
// must have a direct rate; there is no transitive inference through
// intermediate currencies beyond the hops given.
func (g *Graph) PathFactor(path []Ticker) (float64, error) {
	if len(path) < 2 {
		return 0, fmt.Errorf("path needs at least 2 tickers, got %d", len(path))
	}
	factor := 1.0
	for i := 0; i < len(path)-1; i++ {
		r, err := g.Rate(path[i], path[i+1])
		if err != nil {
			return 0, err
		}
		factor *= r
	}
	return factor, nil
}

// Len reports the number of directed edges.
func (g *Graph) Len() int { return len(g.rates) }

// Tickers returns every node with at least one incident edge, sorted for
// deterministic iteration.
func (g *Graph) Tickers() []Ticker {
	set := make(map[Ticker]struct{})
	for p := range g.rates {
		set[p.From] = struct{}{}
		set[p.To] = struct{}{}
	}
	out := make([]Ticker, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
