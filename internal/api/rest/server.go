package rest

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/merdandt/CryptoArbitrageFinder/internal/config"
	"github.com/merdandt/CryptoArbitrageFinder/internal/currency"
	"github.com/merdandt/CryptoArbitrageFinder/internal/graph"
	"github.com/merdandt/CryptoArbitrageFinder/internal/infra/log"
	"github.com/merdandt/CryptoArbitrageFinder/internal/rates"
	"github.com/merdandt/CryptoArbitrageFinder/internal/report"
	"github.com/merdandt/CryptoArbitrageFinder/internal/scanner"
)

// Server exposes on-demand arbitrage scans over HTTP. The heavy lifting stays
// in the scanner; this layer only shuttles plain data in and out.
type Server struct {
	mux      *http.ServeMux
	cfg      config.Config
	catalog  *currency.Catalog
	provider rates.Provider
	scanner  *scanner.Scanner
	logger   log.Logger
}

func New(cfg config.Config, catalog *currency.Catalog, provider rates.Provider, sc *scanner.Scanner, logger log.Logger) *Server {
	s := &Server{
		mux:      http.NewServeMux(),
		cfg:      cfg,
		catalog:  catalog,
		provider: provider,
		scanner:  sc,
		logger:   logger,
	}
	s.mux.HandleFunc("POST /scan", s.handleScan)
	s.mux.HandleFunc("GET /currencies", s.handleCurrencies)
	return s
}

func (s *Server) Handler() http.Handler { return s.mux }

type scanRequest struct {
	Tickers    []string `json:"tickers"`
	Investment float64  `json:"investment"`
}

func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	var req scanRequest
	// an empty body scans the configured defaults
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Tickers) == 0 {
		req.Tickers = s.cfg.Scan.DefaultTickers
	}
	if req.Investment <= 0 {
		req.Investment = s.cfg.Scan.DefaultInvestment
	}

	found, unknown := s.catalog.Resolve(req.Tickers)
	if len(found) < 2 {
		writeError(w, http.StatusBadRequest, "fewer than two known tickers supplied")
		return
	}

	reference := graph.NewTicker(s.cfg.Scan.ReferenceTicker)
	snap, refRates, err := s.provider.Fetch(r.Context(), found, reference)
	if err != nil {
		s.logger.Error().Err(err).Msg("rate fetch failed")
		writeError(w, http.StatusBadGateway, "failed to fetch exchange rates")
		return
	}

	g, err := graph.Build(snap)
	if err != nil {
		// the provider filters unusable quotes, so this is an internal fault
		s.logger.Error().Err(err).Msg("rate graph build failed")
		writeError(w, http.StatusInternalServerError, "invalid rate snapshot")
		return
	}

	tickers := make([]graph.Ticker, 0, len(found))
	for _, cur := range found {
		tickers = append(tickers, graph.NewTicker(cur.Ticker))
	}
	res, err := s.scanner.Scan(tickers, g)
	if err != nil {
		if errors.Is(err, scanner.ErrInsufficientTickers) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error().Err(err).Msg("scan failed")
		writeError(w, http.StatusInternalServerError, "scan failed")
		return
	}

	rep := report.Build(res, tickers, unknown, decimal.NewFromFloat(req.Investment), refRates)
	writeJSON(w, http.StatusOK, rep)
}

func (s *Server) handleCurrencies(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.catalog.List())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
