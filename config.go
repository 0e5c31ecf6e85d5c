package main

import (
	"os"
	"path/filepath"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"

	"github.com/erc7824/walletgate/pkg/log"
	"github.com/erc7824/walletgate/pkg/rpc"
)

const (
	configDirPathEnv     = "WALLETGATE_CONFIG_DIR_PATH"
	defaultConfigDirPath = "."
	defaultMetricsAddr   = ":4242"
)

// GatewayEnv carries the wallet identity and client tuning knobs, read
// from the environment. Zero-valued knobs fall back to the client
// defaults.
type GatewayEnv struct {
	ClientID             string        `env:"GATEWAY_CLIENT_ID"`
	SharedSecret         string        `env:"GATEWAY_SHARED_SECRET"`
	CallTimeout          time.Duration `env:"GATEWAY_CALL_TIMEOUT"`
	ConnectGrace         time.Duration `env:"GATEWAY_CONNECT_GRACE"`
	PingInterval         time.Duration `env:"GATEWAY_PING_INTERVAL"`
	ReconnectBaseDelay   time.Duration `env:"GATEWAY_RECONNECT_BASE_DELAY"`
	ReconnectMaxDelay    time.Duration `env:"GATEWAY_RECONNECT_MAX_DELAY"`
	MaxReconnectAttempts int           `env:"GATEWAY_MAX_RECONNECT_ATTEMPTS"`
}

// Config represents the overall application configuration
type Config struct {
	gateway     GatewayEnv
	chains      map[uint32]ChainConfig
	metricsAddr string
}

// LoadConfig builds configuration from environment variables
func LoadConfig(logger log.Logger) (*Config, error) {
	logger = logger.WithName("config")

	configDirPath := os.Getenv(configDirPathEnv)
	if configDirPath == "" {
		configDirPath = defaultConfigDirPath
	}

	// Load .env files
	configDotEnvPath := filepath.Join(configDirPath, ".env")
	logger.Info("loading .env file", "path", configDotEnvPath)
	if err := godotenv.Load(configDotEnvPath); err != nil {
		logger.Warn(".env file not found")
	}

	var gateway GatewayEnv
	if err := cleanenv.ReadEnv(&gateway); err != nil {
		logger.Error("failed to read env", "err", err)
		return nil, err
	}

	// Retrieve the shared secret.
	if gateway.SharedSecret == "" {
		logger.Fatal("GATEWAY_SHARED_SECRET environment variable is required")
	}

	metricsAddr := os.Getenv("WALLETGATE_METRICS_ADDR")
	if metricsAddr == "" {
		metricsAddr = defaultMetricsAddr
	}

	chains, err := LoadChains(configDirPath)
	if err != nil {
		logger.Fatal("failed to load chains", "error", err)
	}

	config := Config{
		gateway:     gateway,
		chains:      chains,
		metricsAddr: metricsAddr,
	}

	return &config, nil
}

// factoryConfig maps the loaded configuration onto the per-chain client
// factory. A nil metrics value leaves each knob to the client defaults.
func (c *Config) factoryConfig(logger log.Logger, metrics *rpc.Metrics) rpc.FactoryConfig {
	chains := make(map[uint32]rpc.ChainConfig, len(c.chains))
	for chainID, chain := range c.chains {
		chains[chainID] = rpc.ChainConfig{
			Name:         chain.Name,
			Endpoints:    chain.Gateways,
			BroadcastRPC: chain.BroadcastRPC,
		}
	}

	return rpc.FactoryConfig{
		Chains: chains,
		Template: rpc.ClientConfig{
			Identity: rpc.Identity{
				ClientID:     c.gateway.ClientID,
				SharedSecret: c.gateway.SharedSecret,
			},
			CallTimeout:          c.gateway.CallTimeout,
			ConnectGrace:         c.gateway.ConnectGrace,
			PingInterval:         c.gateway.PingInterval,
			ReconnectBaseDelay:   c.gateway.ReconnectBaseDelay,
			ReconnectMaxDelay:    c.gateway.ReconnectMaxDelay,
			MaxReconnectAttempts: c.gateway.MaxReconnectAttempts,
			Logger:               logger,
			Metrics:              metrics,
		},
	}
}
