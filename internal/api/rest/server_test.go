package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/merdandt/CryptoArbitrageFinder/internal/config"
	"github.com/merdandt/CryptoArbitrageFinder/internal/currency"
	"github.com/merdandt/CryptoArbitrageFinder/internal/graph"
	"github.com/merdandt/CryptoArbitrageFinder/internal/infra/log"
	"github.com/merdandt/CryptoArbitrageFinder/internal/rates"
	"github.com/merdandt/CryptoArbitrageFinder/internal/report"
	"github.com/merdandt/CryptoArbitrageFinder/internal/scanner"
)

type stubProvider struct {
	snap rates.Snapshot
	ref  rates.ReferenceRates
	err  error
}

func (p *stubProvider) Fetch(ctx context.Context, currencies []currency.Currency, reference graph.Ticker) (rates.Snapshot, rates.ReferenceRates, error) {
	if p.err != nil {
		return nil, nil, p.err
	}
	return p.snap, p.ref, nil
}

func newTestServer(t *testing.T, p rates.Provider) *httptest.Server {
	t.Helper()
	cfg := config.Load()
	logger := log.NewLogger(cfg)
	srv := New(cfg, currency.Default(), p, scanner.New(cfg, logger), logger)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func lossSnapshot() rates.Snapshot {
	return rates.Snapshot{
		{From: "BTC", To: "ETH"}: 2.0,
		{From: "ETH", To: "SOL"}: 0.6,
		{From: "SOL", To: "BTC"}: 1.0,
		{From: "ETH", To: "BTC"}: 0.4,
		{From: "SOL", To: "ETH"}: 1.5,
		{From: "BTC", To: "SOL"}: 0.9,
	}
}

func TestScanEndpoint(t *testing.T) {
	p := &stubProvider{snap: lossSnapshot(), ref: rates.ReferenceRates{"BTC": 30000}}
	ts := newTestServer(t, p)

	body := `{"tickers":["btc","eth","sol"],"investment":1000}`
	resp, err := http.Post(ts.URL+"/scan", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST /scan error: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var rep report.Report
	if err := json.NewDecoder(resp.Body).Decode(&rep); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if rep.ScanID == "" {
		t.Fatalf("expected scan id in response")
	}
	if rep.BestOpportunity != nil {
		t.Fatalf("these rates only lose money, got %+v", rep.BestOpportunity)
	}
	if rep.LargestLoss == nil {
		t.Fatalf("expected a largest loss in response")
	}
	if rep.LargestLoss.ImpactTicker == "" {
		t.Fatalf("expected impact currency on loss report")
	}
}

func TestScanEndpointUnknownTickersReported(t *testing.T) {
	p := &stubProvider{snap: lossSnapshot()}
	ts := newTestServer(t, p)
	body := `{"tickers":["btc","eth","sol","wat"]}`
	resp, err := http.Post(ts.URL+"/scan", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST /scan error: %v", err)
	}
	defer resp.Body.Close()
	var rep report.Report
	if err := json.NewDecoder(resp.Body).Decode(&rep); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(rep.UnknownTickers) != 1 || rep.UnknownTickers[0] != "WAT" {
		t.Fatalf("expected WAT reported unknown, got %v", rep.UnknownTickers)
	}
}

func TestScanEndpointRejectsTooFewTickers(t *testing.T) {
	ts := newTestServer(t, &stubProvider{snap: rates.Snapshot{}})
	resp, err := http.Post(ts.URL+"/scan", "application/json", strings.NewReader(`{"tickers":["btc"]}`))
	if err != nil {
		t.Fatalf("POST /scan error: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestScanEndpointProviderFailure(t *testing.T) {
	ts := newTestServer(t, &stubProvider{err: context.DeadlineExceeded})
	resp, err := http.Post(ts.URL+"/scan", "application/json", strings.NewReader(`{"tickers":["btc","eth","sol"]}`))
	if err != nil {
		t.Fatalf("POST /scan error: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", resp.StatusCode)
	}
}

func TestCurrenciesEndpoint(t *testing.T) {
	ts := newTestServer(t, &stubProvider{})
	resp, err := http.Get(ts.URL + "/currencies")
	if err != nil {
		t.Fatalf("GET /currencies error: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var list []currency.Currency
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(list) == 0 {
		t.Fatalf("expected non-empty currency list")
	}
}
