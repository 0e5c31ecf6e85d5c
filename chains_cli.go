package main

import (
	"fmt"
	"slices"

	"github.com/erc7824/walletgate/pkg/log"
)

// runChainsCli is the entry point for the chains command line interface.
// It prints the configured chains and how each one broadcasts
// transactions.
// Example: walletgate chains
func runChainsCli(logger log.Logger) {
	logger = logger.WithName("chains")

	config, err := LoadConfig(logger)
	if err != nil {
		logger.Fatal("Failed to load configuration", "error", err)
	}

	ids := make([]uint32, 0, len(config.chains))
	for chainID := range config.chains {
		ids = append(ids, chainID)
	}
	slices.Sort(ids)

	for _, chainID := range ids {
		chain := config.chains[chainID]
		broadcast := "gateway"
		if chain.BroadcastRPC != "" {
			broadcast = "direct"
		}
		fmt.Printf("%d\t%s\tgateways=%d\tbroadcast=%s\n", chainID, chain.Name, len(chain.Gateways), broadcast)
	}
}
