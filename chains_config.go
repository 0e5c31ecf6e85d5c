package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
	"gopkg.in/yaml.v3"
)

const (
	checkChainIDCallTimeout = 5 * time.Second
	chainsFileName          = "chains.yaml"
)

var chainNameRegex = regexp.MustCompile(`^[a-z][a-z_]+[a-z]$`)

// ChainsConfig represents the root configuration structure for all chain
// settings: the gateway pool for every chain the wallet can reach.
type ChainsConfig struct {
	Chains []ChainConfig `yaml:"chains"`
}

// ChainConfig represents configuration for a single chain.
// It includes the gateway endpoint pool and the optional direct
// transaction broadcast route.
type ChainConfig struct {
	// Name is the chain identifier (e.g., "polygon", "base_sepolia")
	// Must match pattern: lowercase letters and underscores only
	Name string `yaml:"name"`
	// ID is the chain ID used for broadcast RPC validation
	ID uint32 `yaml:"id"`
	// Disabled determines if this chain should be connected
	Disabled bool `yaml:"disabled"`
	// Gateways is the ordered pool of interchangeable gateway websocket URLs
	Gateways []string `yaml:"gateways"`
	// DirectBroadcast routes signed transactions straight to a node RPC
	// instead of through the gateway channel
	DirectBroadcast bool `yaml:"direct_broadcast"`
	// BroadcastRPC is populated from environment variable <NAME>_BROADCAST_RPC
	BroadcastRPC string
}

// LoadChains loads and validates chain configurations from a YAML file.
// It reads from <configDirPath>/chains.yaml, validates all settings,
// resolves broadcast RPC URLs from the environment, and returns a map of
// enabled chains indexed by chain ID.
//
// The function performs the following validations:
// - Chain names (lowercase with underscores)
// - Non-zero chain ids and non-empty gateway pools
// - Broadcast RPC availability and chain ID matching (when direct
//   broadcast is enabled)
func LoadChains(configDirPath string) (map[uint32]ChainConfig, error) {
	chainsPath := filepath.Join(configDirPath, chainsFileName)
	f, err := os.Open(chainsPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg ChainsConfig
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.verifyVariables(); err != nil {
		return nil, err
	}

	if err := cfg.resolveBroadcastRPCs(); err != nil {
		return nil, err
	}

	enabledChains := cfg.getEnabled()
	return enabledChains, nil
}

// verifyVariables validates the configuration structure.
func (cfg *ChainsConfig) verifyVariables() error {
	seenIDs := make(map[uint32]string)
	for _, chain := range cfg.Chains {
		if chain.Disabled {
			continue
		}

		if !chainNameRegex.MatchString(chain.Name) {
			return fmt.Errorf("invalid chain name '%s', should match snake_case format", chain.Name)
		}

		if chain.ID == 0 {
			return fmt.Errorf("missing chain id for chain '%s'", chain.Name)
		}

		if other, ok := seenIDs[chain.ID]; ok {
			return fmt.Errorf("duplicate chain id %d for chains '%s' and '%s'", chain.ID, other, chain.Name)
		}
		seenIDs[chain.ID] = chain.Name

		if len(chain.Gateways) == 0 {
			return fmt.Errorf("missing gateway endpoints for chain '%s'", chain.Name)
		}
	}

	return nil
}

// resolveBroadcastRPCs reads broadcast RPC URLs for chains with direct
// broadcast enabled from environment variables following the pattern:
// <CHAIN_NAME_UPPERCASE>_BROADCAST_RPC
// and verifies that each endpoint returns the expected chain ID.
func (cfg *ChainsConfig) resolveBroadcastRPCs() error {
	for i, chain := range cfg.Chains {
		if chain.Disabled || !chain.DirectBroadcast {
			continue
		}

		broadcastRPC := os.Getenv(fmt.Sprintf("%s_BROADCAST_RPC", strings.ToUpper(chain.Name)))
		if broadcastRPC == "" {
			return fmt.Errorf("missing broadcast RPC for chain '%s'", chain.Name)
		}

		if err := checkChainID(broadcastRPC, chain.ID); err != nil {
			return fmt.Errorf("chain '%s' ChainID check failed: %w", chain.Name, err)
		}

		cfg.Chains[i].BroadcastRPC = broadcastRPC
	}

	return nil
}

// getEnabled returns a map of enabled chains indexed by their chain ID.
func (cfg *ChainsConfig) getEnabled() map[uint32]ChainConfig {
	enabledChains := make(map[uint32]ChainConfig)
	for _, chain := range cfg.Chains {
		if !chain.Disabled {
			enabledChains[chain.ID] = chain
		}
	}
	return enabledChains
}

// checkChainID connects to an RPC endpoint and verifies it returns the
// expected chain ID. This ensures a misrouted URL can never broadcast a
// transaction onto the wrong network.
func checkChainID(broadcastRPC string, expectedChainID uint32) error {
	ctx, cancel := context.WithTimeout(context.Background(), checkChainIDCallTimeout)
	defer cancel()

	client, err := ethclient.DialContext(ctx, broadcastRPC)
	if err != nil {
		return fmt.Errorf("failed to connect to broadcast RPC: %w", err)
	}
	defer client.Close()

	chainID, err := client.ChainID(ctx)
	if err != nil {
		return fmt.Errorf("failed to get chain ID from broadcast RPC: %w", err)
	}

	if uint32(chainID.Uint64()) != expectedChainID {
		return fmt.Errorf("unexpected chain ID from broadcast RPC: got %d, want %d", chainID.Uint64(), expectedChainID)
	}

	return nil
}
