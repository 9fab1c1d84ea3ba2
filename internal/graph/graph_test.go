package graph

import (
	"errors"
	"math"
	"testing"
)

func validSnapshot() map[Pair]float64 {
	return map[Pair]float64{
		{From: "BTC", To: "ETH"}: 14.5,
		{From: "ETH", To: "BTC"}: 0.069,
		{From: "BTC", To: "SOL"}: 1350.0,
	}
}

func TestBuildRejectsInvalidRates(t *testing.T) {
	cases := []struct {
		name string
		rate float64
	}{
		{"zero", 0},
		{"negative", -1.5},
		{"nan", math.NaN()},
		{"inf", math.Inf(1)},
	}
	for _, tc := range cases {
		snap := validSnapshot()
		snap[Pair{From: "ETH", To: "SOL"}] = tc.rate
		_, err := Build(snap)
		if err == nil {
			t.Fatalf("%s: expected build to fail, got nil error", tc.name)
		}
		var ire *InvalidRateError
		if !errors.As(err, &ire) {
			t.Fatalf("%s: expected InvalidRateError, got %v", tc.name, err)
		}
	}
}

func TestRateLookup(t *testing.T) {
	g, err := Build(validSnapshot())
	if err != nil {
		t.Fatalf("unexpected build error: %v", err)
	}
	r, err := g.Rate("BTC", "ETH")
	if err != nil {
		t.Fatalf("unexpected lookup error: %v", err)
	}
	if r != 14.5 {
		t.Fatalf("expected rate 14.5, got %g", r)
	}
	// missing edge is recoverable, not a zero rate
	_, err = g.Rate("SOL", "BTC")
	if !errors.Is(err, ErrMissingEdge) {
		t.Fatalf("expected ErrMissingEdge, got %v", err)
	}
}

func TestTickerNormalization(t *testing.T) {
	snap := map[Pair]float64{{From: "btc", To: " eth "}: 2.0}
	g, err := Build(snap)
	if err != nil {
		t.Fatalf("unexpected build error: %v", err)
	}
	if _, err := g.Rate(NewTicker("BTC"), NewTicker("eth")); err != nil {
		t.Fatalf("case-insensitive lookup failed: %v", err)
	}
}

func TestPathFactor(t *testing.T) {
	snap := map[Pair]float64{
		{From: "A", To: "B"}: 2.0,
		{From: "B", To: "C"}: 0.4,
		{From: "C", To: "A"}: 1.0,
	}
	g, err := Build(snap)
	if err != nil {
		t.Fatalf("unexpected build error: %v", err)
	}
	f, err := g.PathFactor([]Ticker{"A", "B", "C"})
	if err != nil {
		t.Fatalf("unexpected path error: %v", err)
	}
	if math.Abs(f-0.8) > 1e-12 {
		t.Fatalf("expected factor 0.8, got %g", f)
	}
	// a path with an unpriced hop propagates the missing edge
	_, err = g.PathFactor([]Ticker{"A", "C", "B"})
	if !errors.Is(err, ErrMissingEdge) {
		t.Fatalf("expected ErrMissingEdge, got %v", err)
	}
}

func TestPathFactorRejectsShortPaths(t *testing.T) {
	g, err := Build(validSnapshot())
	if err != nil {
		t.Fatalf("unexpected build error: %v", err)
	}
	if _, err := g.PathFactor([]Ticker{"BTC"}); err == nil {
		t.Fatalf("expected error for single-ticker path")
	}
	if _, err := g.PathFactor(nil); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

func TestTickersSorted(t *testing.T) {
	g, err := Build(validSnapshot())
	if err != nil {
		t.Fatalf("unexpected build error: %v", err)
	}
	got := g.Tickers()
	want := []Ticker{"BTC", "ETH", "SOL"}
	if len(got) != len(want) {
		t.Fatalf("expected %d tickers, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}
