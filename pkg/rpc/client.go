package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/google/uuid"

	"github.com/erc7824/walletgate/pkg/log"
)

// Client is the authenticated gateway client for one chain. Any number
// of concurrent calls multiplex over its single websocket connection;
// responses are correlated back to callers by call id, so they may
// arrive in any order.
//
// The zero value is not usable; build clients with NewClient.
type Client struct {
	cfg      ClientConfig
	registry *callRegistry
	conn     *conn
	caster   *broadcaster
	lg       log.Logger
}

// NewClient builds a client from cfg. Zero-valued knobs get defaults;
// see ClientConfig for the required fields.
func NewClient(cfg ClientConfig) (*Client, error) {
	cfg.setDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	registry := newCallRegistry()
	client := &Client{
		cfg:      cfg,
		registry: registry,
		conn:     newConn(&cfg, newEndpointSelector(cfg.Endpoints), registry),
		lg:       cfg.Logger.WithName("gateway-client").WithKV("chain", cfg.Chain),
	}
	if cfg.BroadcastRPC != "" {
		client.caster = newBroadcaster(cfg.BroadcastRPC, cfg.Logger)
	}
	return client, nil
}

// Connect starts opening the connection in the background. Calling it is
// optional: the first call triggers it and waits a short grace period.
func (c *Client) Connect() {
	c.conn.Connect()
}

// Disconnect tears the connection down and rejects every pending call
// with ErrDisconnected. The client stays down until Connect is called.
func (c *Client) Disconnect() {
	c.conn.Disconnect()
	if c.caster != nil {
		c.caster.close()
	}
}

// State reports the connection lifecycle state.
func (c *Client) State() State {
	return c.conn.State()
}

// Chain returns the configured chain label.
func (c *Client) Chain() string {
	return c.cfg.Chain
}

// ClientID returns the identity this client authenticates as.
func (c *Client) ClientID() string {
	return c.cfg.Identity.ClientID
}

// Call sends an authenticated call and blocks until its response arrives,
// the call times out, or the connection fails. The returned raw result is
// the gateway's JSON payload, undecoded.
func (c *Client) Call(ctx context.Context, method Method, params any) (json.RawMessage, error) {
	return c.CallWithTimeout(ctx, method, params, c.cfg.CallTimeout)
}

// CallWithTimeout is Call with a per-call deadline override.
func (c *Client) CallWithTimeout(ctx context.Context, method Method, params any, timeout time.Duration) (json.RawMessage, error) {
	started := time.Now()
	result, err := c.call(ctx, method, params, timeout)
	c.observeCall(method, started, err)
	return result, err
}

func (c *Client) call(ctx context.Context, method Method, params any, timeout time.Duration) (json.RawMessage, error) {
	if c.conn.State() != StateOpen {
		c.conn.Connect()
		if !c.conn.awaitOpen(ctx, c.cfg.ConnectGrace) {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, ErrNotConnected
		}
	}

	id := uuid.NewString()
	call, err := c.registry.register(id, time.Now().Add(timeout))
	if err != nil {
		return nil, err
	}
	c.publishPending()

	envelope := newEnvelope(id, method, params, c.cfg.Identity, time.Now())
	data, err := json.Marshal(envelope)
	if err != nil {
		c.registry.reject(id, fmt.Errorf("%w: %w", ErrSendFailed, err))
	} else if err := c.conn.send(data); err != nil {
		c.registry.reject(id, fmt.Errorf("%w: %w", ErrSendFailed, err))
	}

	var out callOutcome
	select {
	case out = <-call.done:
	case <-ctx.Done():
		// Forward cancellation into an explicit rejection; whichever
		// completion wins delivers the single outcome.
		c.registry.reject(id, ctx.Err())
		out = <-call.done
	}
	c.publishPending()

	return out.result, out.err
}

// BalanceAt returns the wei balance of account at blockNumber. A nil
// blockNumber means the latest block.
func (c *Client) BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error) {
	var out hexutil.Big
	if err := c.callInto(ctx, MethodGetBalance, []any{account, toBlockArg(blockNumber)}, &out); err != nil {
		return nil, err
	}
	return (*big.Int)(&out), nil
}

// NonceAt returns the account nonce at blockNumber. A nil blockNumber
// means the latest block.
func (c *Client) NonceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (uint64, error) {
	var out hexutil.Uint64
	if err := c.callInto(ctx, MethodGetTransactionCount, []any{account, toBlockArg(blockNumber)}, &out); err != nil {
		return 0, err
	}
	return uint64(out), nil
}

// PendingNonceAt returns the account nonce including pending transactions.
func (c *Client) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	var out hexutil.Uint64
	if err := c.callInto(ctx, MethodGetTransactionCount, []any{account, "pending"}, &out); err != nil {
		return 0, err
	}
	return uint64(out), nil
}

// CallContract executes a read-only contract call at blockNumber. A nil
// blockNumber means the latest block.
func (c *Client) CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	var out hexutil.Bytes
	if err := c.callInto(ctx, MethodCall, []any{toCallArg(msg), toBlockArg(blockNumber)}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// EstimateGas estimates the gas needed to execute msg.
func (c *Client) EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
	var out hexutil.Uint64
	if err := c.callInto(ctx, MethodEstimateGas, []any{toCallArg(msg)}, &out); err != nil {
		return 0, err
	}
	return uint64(out), nil
}

// SuggestGasPrice returns the gateway's suggested gas price in wei.
func (c *Client) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	var out hexutil.Big
	if err := c.callInto(ctx, MethodGasPrice, []any{}, &out); err != nil {
		return nil, err
	}
	return (*big.Int)(&out), nil
}

// ChainID returns the id of the chain the gateway serves.
func (c *Client) ChainID(ctx context.Context) (*big.Int, error) {
	var out hexutil.Big
	if err := c.callInto(ctx, MethodChainID, []any{}, &out); err != nil {
		return nil, err
	}
	return (*big.Int)(&out), nil
}

// BlockNumber returns the number of the latest block.
func (c *Client) BlockNumber(ctx context.Context) (uint64, error) {
	var out hexutil.Uint64
	if err := c.callInto(ctx, MethodBlockNumber, []any{}, &out); err != nil {
		return 0, err
	}
	return uint64(out), nil
}

// SendRawTransaction submits a signed transaction and returns its hash.
// When a direct broadcast RPC is configured the transaction goes straight
// to the node, bypassing the gateway channel.
func (c *Client) SendRawTransaction(ctx context.Context, rawTx []byte) (common.Hash, error) {
	if c.caster != nil {
		return c.caster.sendRawTransaction(ctx, rawTx)
	}

	var out common.Hash
	if err := c.callInto(ctx, MethodSendRawTransaction, []any{hexutil.Encode(rawTx)}, &out); err != nil {
		return common.Hash{}, err
	}
	return out, nil
}

// callInto sends the call and decodes its result into out.
func (c *Client) callInto(ctx context.Context, method Method, params any, out any) error {
	result, err := c.Call(ctx, method, params)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(result, out); err != nil {
		return fmt.Errorf("failed to decode %s result: %w", method, err)
	}
	return nil
}

func (c *Client) observeCall(method Method, started time.Time, err error) {
	metrics := c.cfg.Metrics
	metrics.CallsTotal.WithLabelValues(c.cfg.Chain, method.String(), callOutcomeLabel(err)).Inc()
	metrics.CallDuration.WithLabelValues(c.cfg.Chain, method.String()).Observe(time.Since(started).Seconds())
}

func (c *Client) publishPending() {
	c.cfg.Metrics.PendingCalls.WithLabelValues(c.cfg.Chain).Set(float64(c.registry.size()))
}

// callOutcomeLabel folds a call error into a low-cardinality metric label.
func callOutcomeLabel(err error) string {
	var remoteErr *RemoteError
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &remoteErr):
		return "remote_error"
	case errors.Is(err, ErrCallTimeout):
		return "timeout"
	case errors.Is(err, ErrSendFailed):
		return "send_failed"
	case errors.Is(err, ErrNotConnected):
		return "not_connected"
	case errors.Is(err, ErrConnectionLost):
		return "connection_lost"
	case errors.Is(err, ErrDisconnected):
		return "disconnected"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "error"
	}
}

// toBlockArg renders a block number for the wire, defaulting to the
// latest block.
func toBlockArg(number *big.Int) string {
	if number == nil {
		return "latest"
	}
	return hexutil.EncodeBig(number)
}

// toCallArg renders an ethereum.CallMsg as a JSON-RPC call object.
func toCallArg(msg ethereum.CallMsg) map[string]any {
	arg := map[string]any{
		"from": msg.From,
		"to":   msg.To,
	}
	if len(msg.Data) > 0 {
		arg["data"] = hexutil.Bytes(msg.Data)
	}
	if msg.Value != nil {
		arg["value"] = (*hexutil.Big)(msg.Value)
	}
	if msg.Gas != 0 {
		arg["gas"] = hexutil.Uint64(msg.Gas)
	}
	if msg.GasPrice != nil {
		arg["gasPrice"] = (*hexutil.Big)(msg.GasPrice)
	}
	return arg
}
