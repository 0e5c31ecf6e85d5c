package main

import (
	"context"
	"fmt"
	"math/big"
	"os"
	"strconv"

	"github.com/ethereum/go-ethereum/common"

	"github.com/erc7824/walletgate/pkg/log"
	"github.com/erc7824/walletgate/pkg/rpc"
)

// runBalanceCli is the entry point for the balance command line interface.
// Example: walletgate balance 137 0x036CbD53842c5426634e7929541eC2318f3dCF7e
func runBalanceCli(logger log.Logger) {
	logger = logger.WithName("balance")
	if len(os.Args) < 4 {
		logger.Fatal("Usage: walletgate balance <chain_id> <account> [block_number]")
	}

	chainID, err := strconv.ParseUint(os.Args[2], 10, 32)
	if err != nil {
		logger.Fatal("Invalid chain ID", "value", os.Args[2])
	}

	if !common.IsHexAddress(os.Args[3]) {
		logger.Fatal("Invalid account address", "value", os.Args[3])
	}
	account := common.HexToAddress(os.Args[3])

	var blockNumber *big.Int
	if len(os.Args) > 4 {
		parsed, ok := new(big.Int).SetString(os.Args[4], 10)
		if !ok {
			logger.Fatal("Invalid block number", "value", os.Args[4])
		}
		blockNumber = parsed
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

	balance, err := client.BalanceAt(context.Background(), account, blockNumber)
	if err != nil {
		logger.Fatal("Balance query failed", "account", account.Hex(), "error", err)
	}

	ether, err := rpc.FormatUnits(balance, 18)
	if err != nil {
		logger.Fatal("Failed to format balance", "error", err)
	}

	fmt.Printf("%s wei (%s ether)\n", balance.String(), ether)
}
