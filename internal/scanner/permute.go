package scanner

import (
	"iter"

	"github.com/merdandt/CryptoArbitrageFinder/internal/graph"
)

// Paths yields every ordered permutation of every subset of tickers with size
// in [minLen, min(maxLen, len(tickers))], lazily. The input order of tickers
// fixes enumeration order: subsets are chosen in lexicographic index order and
// each subset is permuted in lexicographic order too, so the sequence is a
// pure, restartable function of its inputs.
func Paths(tickers []graph.Ticker, minLen, maxLen int) iter.Seq[[]graph.Ticker] {
	return func(yield func([]graph.Ticker) bool) {
		if maxLen > len(tickers) {
			maxLen = len(tickers)
		}
		for size := minLen; size <= maxLen; size++ {
			if !combinations(tickers, size, func(subset []graph.Ticker) bool {
				return permutations(subset, yield)
			}) {
				return
			}
		}
	}
}

// combinations visits each size-length subset of items in index order.
// visit returning false stops the walk.
func combinations(items []graph.Ticker, size int, visit func([]graph.Ticker) bool) bool {
	pick := make([]graph.Ticker, 0, size)
	var rec func(start int) bool
	rec = func(start int) bool {
		if len(pick) == size {
			return visit(pick)
		}
		for i := start; i <= len(items)-(size-len(pick)); i++ {
			pick = append(pick, items[i])
			if !rec(i + 1) {
				return false
			}
			pick = pick[:len(pick)-1]
		}
		return true
	}
	return rec(0)
}

// permutations yields each ordering of items in lexicographic position order.
// Every yielded slice is a fresh copy safe to retain.
func permutations(items []graph.Ticker, yield func([]graph.Ticker) bool) bool {
	used := make([]bool, len(items))
	cur := make([]graph.Ticker, 0, len(items))
	var rec func() bool
	rec = func() bool {
		if len(cur) == len(items) {
			out := make([]graph.Ticker, len(cur))
			copy(out, cur)
			return yield(out)
		}
		for i := range items {
			if used[i] {
				continue
			}
			used[i] = true
			cur = append(cur, items[i])
			if !rec() {
				return false
			}
			cur = cur[:len(cur)-1]
			used[i] = false
		}
		return true
	}
	return rec()
}

// Dedupe normalizes tickers and drops case-insensitive duplicates, keeping the
// first occurrence so enumeration order follows the caller's input ordering.
func Dedupe(tickers []graph.Ticker) []graph.Ticker {
	seen := make(map[graph.Ticker]struct{}, len(tickers))
	out := make([]graph.Ticker, 0, len(tickers))
	for _, t := range tickers {
		n := graph.NewTicker(string(t))
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
