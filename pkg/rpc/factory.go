package rpc

import (
	"fmt"
	"slices"
	"sync"
)

// ChainConfig describes one chain's gateway pool.
type ChainConfig struct {
	// Name labels the chain in logs and metrics.
	Name string `validate:"required"`
	// Endpoints is the ordered pool of gateway URLs for this chain.
	Endpoints []string `validate:"required,min=1,dive,ws_url"`
	// BroadcastRPC optionally routes signed transactions straight to a
	// node serving this chain.
	BroadcastRPC string `validate:"omitempty,url"`
}

// FactoryConfig assembles the per-chain client pool.
type FactoryConfig struct {
	// Chains maps chain ids to their gateway pools.
	Chains map[uint32]ChainConfig
	// Template carries the knobs shared by every chain's client. Its
	// Chain, Endpoints and BroadcastRPC fields are filled per chain.
	Template ClientConfig
}

// Factory hands out one lazily-built client per chain id. All clients
// share the template's identity and metrics, so every chain-specific
// connection authenticates as the same logical wallet.
type Factory struct {
	template ClientConfig
	chains   map[uint32]ChainConfig

	mu      sync.RWMutex
	clients map[uint32]*Client
}

// NewFactory validates cfg and prepares the pool. No connections are
// opened until a chain's client sends its first call.
func NewFactory(cfg FactoryConfig) (*Factory, error) {
	if len(cfg.Chains) == 0 {
		return nil, fmt.Errorf("%w: no chains configured", ErrInvalidConfig)
	}

	template := cfg.Template
	template.setDefaults()
	if template.Identity.SharedSecret == "" {
		return nil, fmt.Errorf("%w: missing shared secret", ErrInvalidConfig)
	}

	factory := &Factory{
		template: template,
		chains:   make(map[uint32]ChainConfig, len(cfg.Chains)),
		clients:  make(map[uint32]*Client, len(cfg.Chains)),
	}
	for chainID, chain := range cfg.Chains {
		if err := configValidator.Struct(chain); err != nil {
			return nil, fmt.Errorf("%w: chain %d: %w", ErrInvalidConfig, chainID, err)
		}
		factory.chains[chainID] = chain
	}
	return factory, nil
}

// Get returns the client for chainID, building it on first access.
func (f *Factory) Get(chainID uint32) (*Client, error) {
	f.mu.RLock()
	client, ok := f.clients[chainID]
	f.mu.RUnlock()
	if ok {
		return client, nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if client, ok := f.clients[chainID]; ok {
		return client, nil
	}

	chain, ok := f.chains[chainID]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownChain, chainID)
	}

	cfg := f.template
	cfg.Chain = chain.Name
	cfg.Endpoints = chain.Endpoints
	cfg.BroadcastRPC = chain.BroadcastRPC

	client, err := NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build client for chain %d: %w", chainID, err)
	}
	f.clients[chainID] = client
	return client, nil
}

// All returns the clients built so far, in no particular order.
func (f *Factory) All() []*Client {
	f.mu.RLock()
	defer f.mu.RUnlock()

	clients := make([]*Client, 0, len(f.clients))
	for _, client := range f.clients {
		clients = append(clients, client)
	}
	return clients
}

// ChainIDs lists the configured chain ids in ascending order.
func (f *Factory) ChainIDs() []uint32 {
	ids := make([]uint32, 0, len(f.chains))
	for chainID := range f.chains {
		ids = append(ids, chainID)
	}
	slices.Sort(ids)
	return ids
}

// DisconnectAll tears down every built client and clears the cache.
// The factory remains usable; subsequent Get calls build fresh clients.
func (f *Factory) DisconnectAll() {
	f.mu.Lock()
	clients := f.clients
	f.clients = make(map[uint32]*Client)
	f.mu.Unlock()

	for _, client := range clients {
		client.Disconnect()
	}
}
