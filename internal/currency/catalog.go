package currency

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/merdandt/CryptoArbitrageFinder/internal/config"
	"github.com/merdandt/CryptoArbitrageFinder/internal/graph"
)

// Currency maps a user-facing ticker to the price provider's API id.
type Currency struct {
	Ticker string `json:"ticker"`
	ID     string `json:"id"`
}

// Catalog resolves free-form ticker input into provider ids.
type Catalog struct {
	byTicker map[graph.Ticker]Currency
	list     []Currency
}

var defaultCurrencies = []Currency{
	{Ticker: "BTC", ID: "bitcoin"},
	{Ticker: "ETH", ID: "ethereum"},
	{Ticker: "USDT", ID: "tether"},
	{Ticker: "BNB", ID: "binancecoin"},
	{Ticker: "SOL", ID: "solana"},
	{Ticker: "XRP", ID: "ripple"},
	{Ticker: "ADA", ID: "cardano"},
	{Ticker: "DOGE", ID: "dogecoin"},
	{Ticker: "DOT", ID: "polkadot"},
	{Ticker: "AVAX", ID: "avalanche-2"},
	{Ticker: "LTC", ID: "litecoin"},
	{Ticker: "LINK", ID: "chainlink"},
	{Ticker: "TRX", ID: "tron"},
	{Ticker: "MATIC", ID: "matic-network"},
	{Ticker: "XLM", ID: "stellar"},
	{Ticker: "ATOM", ID: "cosmos"},
}

func newCatalog(list []Currency) *Catalog {
	c := &Catalog{byTicker: make(map[graph.Ticker]Currency, len(list))}
	for _, cur := range list {
		tk := graph.NewTicker(cur.Ticker)
		if tk == "" || cur.ID == "" {
			continue
		}
		if _, dup := c.byTicker[tk]; dup {
			continue
		}
		cur.Ticker = string(tk)
		c.byTicker[tk] = cur
		c.list = append(c.list, cur)
	}
	sort.Slice(c.list, func(i, j int) bool { return c.list[i].Ticker < c.list[j].Ticker })
	return c
}

// Default returns the built-in catalog.
func Default() *Catalog { return newCatalog(defaultCurrencies) }

// LoadFile reads a JSON array of {ticker, id} definitions.
func LoadFile(path string) (*Catalog, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read currencies file: %w", err)
	}
	var list []Currency
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, fmt.Errorf("decode currencies file %s: %w", path, err)
	}
	return newCatalog(list), nil
}

// Load returns the catalog from the configured file when set, otherwise the
// built-in default.
func Load(cfg config.Config) (*Catalog, error) {
	if cfg.Provider.CurrenciesFile != "" {
		return LoadFile(cfg.Provider.CurrenciesFile)
	}
	return Default(), nil
}

// Resolve normalizes and deduplicates inputs, keeping first-seen order, and
// splits them into known currencies and unknown tickers. Unknown tickers are
// reported back, not treated as fatal.
func (c *Catalog) Resolve(inputs []string) (found []Currency, unknown []string) {
	seen := make(map[graph.Ticker]struct{}, len(inputs))
	for _, in := range inputs {
		tk := graph.NewTicker(in)
		if tk == "" {
			continue
		}
		if _, dup := seen[tk]; dup {
			continue
		}
		seen[tk] = struct{}{}
		cur, ok := c.byTicker[tk]
		if !ok {
			unknown = append(unknown, string(tk))
			continue
		}
		found = append(found, cur)
	}
	return found, unknown
}

// List returns all known currencies sorted by ticker.
func (c *Catalog) List() []Currency {
	out := make([]Currency, len(c.list))
	copy(out, c.list)
	return out
}
