package main

import (
	"context"
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/merdandt/CryptoArbitrageFinder/internal/api/rest"
	"github.com/merdandt/CryptoArbitrageFinder/internal/backtest"
	"github.com/merdandt/CryptoArbitrageFinder/internal/config"
	"github.com/merdandt/CryptoArbitrageFinder/internal/currency"
	"github.com/merdandt/CryptoArbitrageFinder/internal/infra/health"
	"github.com/merdandt/CryptoArbitrageFinder/internal/infra/http/middleware"
	"github.com/merdandt/CryptoArbitrageFinder/internal/infra/log"
	"github.com/merdandt/CryptoArbitrageFinder/internal/infra/metrics"
	"github.com/merdandt/CryptoArbitrageFinder/internal/infra/netutil"
	"github.com/merdandt/CryptoArbitrageFinder/internal/infra/runner"
	"github.com/merdandt/CryptoArbitrageFinder/internal/infra/version"
	"github.com/merdandt/CryptoArbitrageFinder/internal/rates"
	"github.com/merdandt/CryptoArbitrageFinder/internal/rates/coingecko"
	"github.com/merdandt/CryptoArbitrageFinder/internal/scanner"
	"github.com/merdandt/CryptoArbitrageFinder/internal/watch"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.Load()
	logger := log.NewLogger(cfg)

	catalog, err := currency.Load(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load currency catalog")
	}

	registry := metrics.Init(logger)
	var provider rates.Provider = coingecko.New(cfg, logger)
	if ttl := time.Duration(cfg.Provider.CacheTTLSeconds) * time.Second; ttl > 0 {
		provider = rates.NewCachedProvider(provider, ttl)
	}
	sc := scanner.New(cfg, logger)

	// optional one-shot replay of historical snapshots before serving
	if err := backtest.RunSimpleCSV(sc); err != nil {
		logger.Error().Err(err).Msg("backtest failed")
	}

	mux := http.NewServeMux()
	// admin endpoints (metrics, pprof) behind IP allowlist gate
	adminCIDRs := netutil.MustParseCIDRs(cfg.Server.AdminAllowCIDRs)
	mux.Handle("/metrics", middleware.AdminGate(adminCIDRs, metrics.Handler(registry)))
	mux.HandleFunc("/healthz", health.Healthz)
	mux.HandleFunc("/readyz", health.Readyz)
	mux.HandleFunc("/version", version.Handler)
	if cfg.Server.Pprof {
		mux.Handle("/debug/pprof/", middleware.AdminGate(adminCIDRs, http.HandlerFunc(pprof.Index)))
		mux.Handle("/debug/pprof/cmdline", middleware.AdminGate(adminCIDRs, http.HandlerFunc(pprof.Cmdline)))
		mux.Handle("/debug/pprof/profile", middleware.AdminGate(adminCIDRs, http.HandlerFunc(pprof.Profile)))
		mux.Handle("/debug/pprof/symbol", middleware.AdminGate(adminCIDRs, http.HandlerFunc(pprof.Symbol)))
		mux.Handle("/debug/pprof/trace", middleware.AdminGate(adminCIDRs, http.HandlerFunc(pprof.Trace)))
	}
	api := rest.New(cfg, catalog, provider, sc, logger)
	mux.Handle("/api/v1/", http.StripPrefix("/api/v1", api.Handler()))

	// wrap mux with middlewares (request id and logging)
	handler := middleware.RequestID(middleware.Logger(logger)(mux))

	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 2 * time.Second,
		ReadTimeout:       time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout:      time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
		IdleTimeout:       time.Duration(cfg.Server.IdleTimeoutSeconds) * time.Second,
	}
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server error")
		}
	}()

	logger.Info().Str("addr", cfg.Server.Addr).Msg("Arbitrage finder started")

	g := &runner.Group{}
	var workerErrCh <-chan error
	if cfg.Watch.Enabled {
		w := watch.New(cfg, catalog, provider, sc, logger)
		workerErrCh = g.Go(ctx, w.Run)
	}

	health.SetReady(true)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-ctx.Done():
	case s := <-sigCh:
		logger.Info().Str("signal", s.String()).Msg("shutdown signal received")
	case err := <-workerErrCh:
		if err != nil {
			logger.Error().Err(err).Msg("worker error")
			health.SetReady(false)
		}
	}

	health.SetReady(false)
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
	g.Wait()
	logger.Info().Msg("shutdown complete")
}
