package backtest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/merdandt/CryptoArbitrageFinder/internal/config"
	"github.com/merdandt/CryptoArbitrageFinder/internal/infra/log"
	"github.com/merdandt/CryptoArbitrageFinder/internal/scanner"
)

func TestRunSimpleCSV(t *testing.T) {
	rows := "" +
		"1,BTC,ETH,2.0\n" +
		"1,ETH,SOL,2.0\n" +
		"1,SOL,BTC,2.0\n" +
		"1,ETH,BTC,1.0\n" +
		"1,SOL,ETH,1.0\n" +
		"1,BTC,SOL,1.0\n" +
		"2,BTC,ETH,1.0\n"
	path := filepath.Join(t.TempDir(), "rates.csv")
	if err := os.WriteFile(path, []byte(rows), 0o600); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	t.Setenv("ARBFINDER_BACKTEST_CSV", path)

	cfg := config.Load()
	sc := scanner.New(cfg, log.NewLogger(cfg))
	if err := RunSimpleCSV(sc); err != nil {
		t.Fatalf("unexpected backtest error: %v", err)
	}
}

func TestRunSimpleCSVDisabledWithoutEnv(t *testing.T) {
	t.Setenv("ARBFINDER_BACKTEST_CSV", "")
	cfg := config.Load()
	sc := scanner.New(cfg, log.NewLogger(cfg))
	if err := RunSimpleCSV(sc); err != nil {
		t.Fatalf("expected no-op without env var, got %v", err)
	}
}
