package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/erc7824/walletgate/pkg/log"
	"github.com/erc7824/walletgate/pkg/rpc"
)

// runCallCli is the entry point for the call command line interface.
// Example: walletgate call 137 eth_gasPrice '[]'
func runCallCli(logger log.Logger) {
	logger = logger.WithName("call")
	if len(os.Args) < 4 {
		logger.Fatal("Usage: walletgate call <chain_id> <method> [params_json]")
	}

	chainID, err := strconv.ParseUint(os.Args[2], 10, 32)
	if err != nil {
		logger.Fatal("Invalid chain ID", "value", os.Args[2])
	}
	method := rpc.Method(os.Args[3])

	params := json.RawMessage("[]")
	if len(os.Args) > 4 {
		params = json.RawMessage(os.Args[4])
		if !json.Valid(params) {
			logger.Fatal("Invalid params JSON", "value", os.Args[4])
		}
	}

	config, err := LoadConfig(logger)
	if err != nil {
		logger.Fatal("Failed to load configuration", "error", err)
	}

	factory, err := rpc.NewFactory(config.factoryConfig(logger, nil))
	if err != nil {
		logger.Fatal("Failed to build client factory", "error", err)
	}

	client, err := factory.Get(uint32(chainID))
	if err != nil {
		logger.Fatal("Chain is either not configured or disabled", "id", chainID, "error", err)
	}
	defer client.Disconnect()

	result, err := client.Call(context.Background(), method, params)
	if err != nil {
		logger.Fatal("Call failed", "method", method, "error", err)
	}

	fmt.Println(string(result))
}
