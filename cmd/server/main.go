package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/stellar/go-stellar-sdk/clients/rpcclient"

	"spot/internal/audit"
	"spot/internal/ledger"
	"spot/internal/platform/config"
	"spot/internal/platform/httpserver"
	"spot/internal/platform/logger"
	platformmetrics "spot/internal/platform/metrics"
	"spot/internal/platform/redis"
	"spot/internal/spot/aggregator"
	"spot/internal/spot/handler"
	spotmetrics "spot/internal/spot/metrics"
	"spot/internal/spot/models"
	"spot/internal/spot/service"
	httptransport "spot/internal/transport/http"
	"spot/internal/upload"
)

const shutdownTimeout = 10 * time.Second

// main wires configuration, the ledger client and the HTTP surface. Business
// logic lives in internal/spot.
func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel)

	if err := run(cfg, log); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	mode := models.ModeLive
	if cfg.MockMode {
		mode = models.ModeMock
		log.Warn("running without contacting the ledger", "mock_mode", true)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	httpMetrics := platformmetrics.New(reg)
	spotMetrics := spotmetrics.New(reg)

	uploads, err := upload.NewManager(cfg.Upload.Dir, cfg.Upload.MaxBytes, cfg.Upload.AssetBaseURL, log,
		upload.WithRecorder(spotMetrics))
	if err != nil {
		return fmt.Errorf("upload directory: %w", err)
	}

	stores := []audit.Store{audit.NewFileStore(cfg.Audit.LogFile)}
	if len(cfg.Audit.KafkaBrokers) > 0 {
		kafka, err := audit.NewKafkaStore(cfg.Audit.KafkaBrokers, cfg.Audit.KafkaTopic)
		if err != nil {
			return fmt.Errorf("audit kafka sink: %w", err)
		}
		defer kafka.Close()
		stores = append(stores, kafka)
	}
	auditor := audit.NewPublisher(log, stores)

	svcOpts := []service.Option{
		service.WithLogger(log),
		service.WithAuditRecorder(auditor),
		service.WithUploadCleaner(uploads),
		service.WithMetrics(spotMetrics),
	}
	aggOpts := []aggregator.Option{
		aggregator.WithLogger(log),
		aggregator.WithMetrics(spotMetrics),
	}

	var (
		orchestratorLedger service.Ledger
		reader             aggregator.Reader
	)
	if mode == models.ModeLive {
		adapter, claimSigner, closeLedger, err := buildLedger(cfg.Ledger, spotMetrics)
		if err != nil {
			return err
		}
		defer closeLedger()
		orchestratorLedger, reader = adapter, adapter
		svcOpts = append(svcOpts, service.WithClaimSigner(claimSigner))
		log.Info("ledger configured",
			"contract_id", cfg.Ledger.ContractID,
			"admin", adapter.AdminAddress(),
		)

		cache, closeCache, err := buildCache(cfg)
		if err != nil {
			return err
		}
		defer closeCache()
		aggOpts = append(aggOpts, aggregator.WithCache(cache))
	}

	svc, err := service.New(orchestratorLedger, mode, svcOpts...)
	if err != nil {
		return err
	}
	agg, err := aggregator.New(reader, mode, aggOpts...)
	if err != nil {
		return err
	}

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Logger:     log,
		Metrics:    httpMetrics,
		Gatherer:   reg,
		CORSOrigin: cfg.CORSOrigin,
		UploadDir:  uploads.Dir(),
		Handlers:   []httptransport.Registrar{handler.New(svc, agg, uploads, log)},
	})
	srv := httpserver.New(cfg.Addr, router, log)

	errCh := make(chan error, 1)
	go func() {
		log.Info("SPOT backend listening", "addr", cfg.Addr, "mode", mode.String())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

// buildLedger parses signing keys and binds a Soroban RPC client to the contract.
func buildLedger(cfg config.LedgerConfig, observer ledger.Observer) (*ledger.Adapter, *ledger.Keypair, func(), error) {
	admin, err := ledger.ParseSecret(cfg.AdminSecret)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("ADMIN_SECRET: %w", err)
	}

	claimSigner, err := ledger.ParseSecret(cfg.ClaimSigner())
	if err != nil {
		return nil, nil, nil, fmt.Errorf("CLAIM_PAYER_SECRET: %w", err)
	}

	if !ledger.ValidAddress(cfg.ContractID) {
		return nil, nil, nil, fmt.Errorf("SPOT_CONTRACT_ID: %w %q", ledger.ErrInvalidAddress, cfg.ContractID)
	}

	rpc := rpcclient.NewClient(cfg.RPCURL, &http.Client{Timeout: cfg.Timeout})
	client := ledger.NewSorobanClient(rpc, cfg.NetworkPassphrase, cfg.Timeout)
	adapter := ledger.NewAdapter(client, cfg.ContractID, admin, ledger.WithObserver(observer))
	return adapter, claimSigner, func() { _ = rpc.Close() }, nil
}

// buildCache prefers Redis when configured and falls back to process memory.
func buildCache(cfg *config.Config) (aggregator.Cache, func(), error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return nil, nil, fmt.Errorf("event cache: %w", err)
	}
	if client == nil {
		return aggregator.NewInMemoryCache(cfg.EventCacheTTL), func() {}, nil
	}
	return aggregator.NewRedisCache(client, cfg.EventCacheTTL), func() { _ = client.Close() }, nil
}
