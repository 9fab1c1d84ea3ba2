package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Logging struct {
		Level  string `yaml:"level"`
		Pretty bool   `yaml:"pretty"`
	} `yaml:"logging"`
	Server struct {
		Addr                string   `yaml:"addr"`
		Pprof               bool     `yaml:"pprof"`
		ReadTimeoutSeconds  int      `yaml:"read_timeout_seconds"`
		WriteTimeoutSeconds int      `yaml:"write_timeout_seconds"`
		IdleTimeoutSeconds  int      `yaml:"idle_timeout_seconds"`
		AdminAllowCIDRs     []string `yaml:"admin_allow_cidrs"`
	} `yaml:"server"`
	Scan struct {
		MaxPathLen        int      `yaml:"max_path_len"`
		DefaultTickers    []string `yaml:"default_tickers"`
		ReferenceTicker   string   `yaml:"reference_ticker"`
		DefaultInvestment float64  `yaml:"default_investment"`
	} `yaml:"scan"`
	Provider struct {
		BaseURL         string  `yaml:"base_url"`
		TimeoutSeconds  int     `yaml:"timeout_seconds"`
		CacheTTLSeconds int     `yaml:"cache_ttl_seconds"`
		RateLimitBurst  int     `yaml:"rate_limit_burst"`
		RateLimitPerSec float64 `yaml:"rate_limit_per_sec"`
		CurrenciesFile  string  `yaml:"currencies_file"`
	} `yaml:"provider"`
	Watch struct {
		Enabled         bool `yaml:"enabled"`
		IntervalSeconds int  `yaml:"interval_seconds"`
	} `yaml:"watch"`
}

func defaultConfig() Config {
	var c Config
	c.Logging.Level = "info"
	c.Logging.Pretty = false
	c.Server.Addr = ":9090"
	c.Server.Pprof = false
	c.Server.ReadTimeoutSeconds = 5
	c.Server.WriteTimeoutSeconds = 10
	c.Server.IdleTimeoutSeconds = 60
	c.Server.AdminAllowCIDRs = []string{"127.0.0.0/8", "::1/128"}
	c.Scan.MaxPathLen = 5
	c.Scan.DefaultTickers = []string{"BTC", "ETH", "USDT", "BNB", "SOL", "XRP", "ADA"}
	c.Scan.ReferenceTicker = "USD"
	c.Scan.DefaultInvestment = 1000.0
	c.Provider.BaseURL = "https://api.coingecko.com"
	c.Provider.TimeoutSeconds = 10
	c.Provider.CacheTTLSeconds = 60
	c.Provider.RateLimitBurst = 5
	c.Provider.RateLimitPerSec = 0.5
	c.Provider.CurrenciesFile = ""
	c.Watch.Enabled = false
	c.Watch.IntervalSeconds = 120
	return c
}

func Load() Config {
	c := defaultConfig()
	if path := os.Getenv("ARBFINDER_CONFIG"); path != "" {
		if b, err := os.ReadFile(path); err == nil {
			_ = yaml.Unmarshal(b, &c)
		}
	}
	if v := os.Getenv("ARBFINDER_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("ARBFINDER_LOG_PRETTY"); v == "1" || v == "true" {
		c.Logging.Pretty = true
	}
	if v := os.Getenv("ARBFINDER_HTTP_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("ARBFINDER_PPROF"); v == "1" || v == "true" {
		c.Server.Pprof = true
	}
	if v := os.Getenv("ARBFINDER_ADMIN_ALLOW_CIDRS"); v != "" {
		c.Server.AdminAllowCIDRs = splitCSV(v)
	}
	if v := os.Getenv("ARBFINDER_MAX_PATH_LEN"); v != "" {
		var n int
		_, _ = fmt.Sscan(v, &n)
		if n >= 3 {
			c.Scan.MaxPathLen = n
		}
	}
	if v := os.Getenv("ARBFINDER_TICKERS"); v != "" {
		c.Scan.DefaultTickers = splitCSV(v)
	}
	if v := os.Getenv("ARBFINDER_INVESTMENT"); v != "" {
		var f float64
		_, _ = fmt.Sscan(v, &f)
		if f > 0 {
			c.Scan.DefaultInvestment = f
		}
	}
	if v := os.Getenv("ARBFINDER_PROVIDER_BASE_URL"); v != "" {
		c.Provider.BaseURL = v
	}
	if v := os.Getenv("ARBFINDER_CACHE_TTL_SECONDS"); v != "" {
		var n int
		_, _ = fmt.Sscan(v, &n)
		if n >= 0 {
			c.Provider.CacheTTLSeconds = n
		}
	}
	if v := os.Getenv("ARBFINDER_CURRENCIES_FILE"); v != "" {
		c.Provider.CurrenciesFile = v
	}
	if v := os.Getenv("ARBFINDER_WATCH"); v == "1" || v == "true" {
		c.Watch.Enabled = true
	}
	if v := os.Getenv("ARBFINDER_WATCH_INTERVAL_SECONDS"); v != "" {
		var n int
		_, _ = fmt.Sscan(v, &n)
		if n > 0 {
			c.Watch.IntervalSeconds = n
		}
	}
	return c
}

func splitCSV(s string) []string {
	var out []string
	buf := []rune{}
	for _, r := range s {
		if r == ',' {
			if len(buf) > 0 {
				out = append(out, string(buf))
				buf = buf[:0]
			}
			continue
		}
		buf = append(buf, r)
	}
	if len(buf) > 0 {
		out = append(out, string(buf))
	}
	return out
}
