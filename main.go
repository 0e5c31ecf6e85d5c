package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/erc7824/walletgate/pkg/log"
	"github.com/erc7824/walletgate/pkg/rpc"
)

func main() {
	logger := newRootLogger()
	if len(os.Args) > 1 {
		// If a CLI command is provided, run it and exit
		runCli(logger, os.Args[1])
		return
	}

	config, err := LoadConfig(logger)
	if err != nil {
		logger.Fatal("failed to load configuration", "error", err)
	}

	// Initialize Prometheus metrics
	registry := prometheus.NewRegistry()
	metrics := rpc.NewMetricsWithRegistry(registry)

	factory, err := rpc.NewFactory(config.factoryConfig(logger, metrics))
	if err != nil {
		logger.Fatal("failed to build client factory", "error", err)
	}

	// Open every configured chain up front so the connection gauges are
	// live before the first call.
	for _, chainID := range factory.ChainIDs() {
		client, err := factory.Get(chainID)
		if err != nil {
			logger.Fatal("failed to build gateway client", "chainID", chainID, "error", err)
		}
		client.Connect()
		logger.Info("gateway client started", "chainID", chainID, "chain", client.Chain())
	}

	metricsEndpoint := "/metrics"
	// Set up a separate mux for metrics
	metricsMux := http.NewServeMux()
	metricsMux.Handle(metricsEndpoint, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	metricsServer := &http.Server{
		Addr:    config.metricsAddr,
		Handler: metricsMux,
	}

	go func() {
		logger.Info("Prometheus metrics available", "listenAddr", config.metricsAddr, "endpoint", metricsEndpoint)
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("metrics server failure", "error", err)
		}
	}()

	// Wait for shutdown signal.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")

	factory.DisconnectAll()

	// Shutdown metrics server
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := metricsServer.Shutdown(ctx); err != nil {
		logger.Error("failed to shut down metrics server", "error", err)
	}

	logger.Info("shutdown complete")
}

func newRootLogger() log.Logger {
	var conf log.Config
	if err := cleanenv.ReadEnv(&conf); err != nil {
		conf = log.Config{}
	}
	return log.NewZapLogger(conf).WithName("walletgate")
}

func runCli(logger log.Logger, name string) {
	switch name {
	case "chains":
		runChainsCli(logger)
	case "call":
		runCallCli(logger)
	case "balance":
		runBalanceCli(logger)
	default:
		logger.Fatal("Unknown CLI command", "name", name)
	}
}
