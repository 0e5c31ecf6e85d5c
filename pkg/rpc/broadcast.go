package rpc

import (
	"context"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	gethrpc "github.com/ethereum/go-ethereum/rpc"
	golog "github.com/ipfs/go-log/v2"
	"github.com/layer-3/clearsync/pkg/debounce"
	"github.com/pkg/errors"

	"github.com/erc7824/walletgate/pkg/log"
)

var broadcastLogger = golog.Logger("tx-broadcaster")

// broadcaster pushes signed transactions straight to a node RPC instead
// of through the gateway channel. The node connection is dialed lazily
// on first use and kept for reuse.
type broadcaster struct {
	url string
	lg  log.Logger

	mu  sync.Mutex
	rpc *gethrpc.Client
}

func newBroadcaster(url string, lg log.Logger) *broadcaster {
	return &broadcaster{
		url: url,
		lg:  lg.WithName("tx-broadcaster"),
	}
}

// sendRawTransaction submits the signed transaction bytes and returns
// the hash reported by the node.
func (b *broadcaster) sendRawTransaction(ctx context.Context, rawTx []byte) (common.Hash, error) {
	client, err := b.client(ctx)
	if err != nil {
		return common.Hash{}, err
	}

	var hash common.Hash
	err = debounce.Debounce(ctx, broadcastLogger, func(ctx context.Context) error {
		return client.CallContext(ctx, &hash, MethodSendRawTransaction.String(), hexutil.Encode(rawTx))
	})
	if err != nil {
		return common.Hash{}, errors.Wrap(err, "failed to broadcast transaction")
	}

	b.lg.Info("Transaction broadcast", "hash", hash.Hex())
	return hash, nil
}

func (b *broadcaster) client(ctx context.Context) (*gethrpc.Client, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.rpc != nil {
		return b.rpc, nil
	}

	client, err := gethrpc.DialContext(ctx, b.url)
	if err != nil {
		return nil, errors.Wrap(err, "failed to dial broadcast rpc")
	}
	b.rpc = client
	return client, nil
}

func (b *broadcaster) close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.rpc != nil {
		b.rpc.Close()
		b.rpc = nil
	}
}
