// Package rpc implements the authenticated gateway client used by wallets
// to reach blockchain networks without running their own nodes.
//
// Every chain is served by a pool of interchangeable gateway endpoints
// speaking a WebSocket request-response protocol. The package multiplexes
// any number of concurrent calls over a single connection per chain,
// stamps each call with an HMAC proof of identity, and supervises the
// connection lifecycle including bounded reconnects.
//
// # Protocol Overview
//
// The protocol uses a request-response pattern correlated by call id:
//
//   - Requests carry a unique id, a method name, free-form parameters
//     and an authentication stamp
//   - Responses echo the id and carry exactly one of a result or an error
//   - Responses may arrive in any order; correlation is by id only
//   - All timestamps are Unix milliseconds
//
// # Core Types
//
// Envelope is the request frame sent to the gateway:
//
//	type Envelope struct {
//	    ID     string    // Unique call identifier
//	    Method Method    // RPC method name
//	    Params any       // Method parameters
//	    Auth   AuthStamp // Per-call authentication proof
//	}
//
// Response is the reply frame:
//
//	type Response struct {
//	    ID     string          // Matches the originating call
//	    Result json.RawMessage // Present on success
//	    Error  *RemoteError    // Present on failure
//	}
//
// # Authentication
//
// Each call carries an AuthStamp computed from a shared secret:
//
//	signature = hex(HMAC-SHA256(secret, clientId + ":" + method + ":" + timestamp))
//
// The secret itself never travels on the wire. Sign is a pure function,
// so stamps can be precomputed and verified independently:
//
//	sig := rpc.Sign("wallet-1", rpc.MethodGetBalance, 1700000000000, secret)
//
// # Connection Lifecycle
//
// A client connection moves through Disconnected, Connecting, Open,
// Closing and Failed states. Unexpected closures trigger reconnects with
// exponential backoff; after the attempt budget is exhausted the client
// enters Failed and every pending call is rejected with ErrConnectionLost.
// An explicit Connect revives a Failed client with a fresh budget, and an
// explicit Disconnect keeps it down until Connect is called again.
//
// # Error Handling
//
// Call outcomes map onto sentinel errors that callers match with
// errors.Is, plus RemoteError for failures reported by the gateway:
//
//	result, err := client.Call(ctx, rpc.MethodGetBalance, params)
//	switch {
//	case errors.Is(err, rpc.ErrCallTimeout):
//	    // no response before the deadline
//	case errors.Is(err, rpc.ErrNotConnected):
//	    // connection was not up within the grace period
//	default:
//	    var remoteErr *rpc.RemoteError
//	    if errors.As(err, &remoteErr) {
//	        // the gateway rejected the call
//	    }
//	}
//
// # Example Usage
//
// A single-chain client:
//
//	client, err := rpc.NewClient(rpc.ClientConfig{
//	    Chain:     "base",
//	    Endpoints: []string{"wss://gw-1.example.com/ws", "wss://gw-2.example.com/ws"},
//	    Identity:  rpc.Identity{ClientID: "wallet-1", SharedSecret: secret},
//	    Logger:    logger,
//	})
//	if err != nil {
//	    logger.Fatal("failed to build client", "error", err)
//	}
//	client.Connect()
//
//	balance, err := client.BalanceAt(ctx, account, nil)
//
// A multi-chain pool sharing one identity:
//
//	factory, err := rpc.NewFactory(rpc.FactoryConfig{
//	    Chains: map[uint32]rpc.ChainConfig{
//	        8453: {Name: "base", Endpoints: baseEndpoints},
//	        137:  {Name: "polygon", Endpoints: polygonEndpoints},
//	    },
//	    Template: rpc.ClientConfig{
//	        Identity: rpc.Identity{SharedSecret: secret},
//	        Logger:   logger,
//	    },
//	})
//	if err != nil {
//	    logger.Fatal("failed to build factory", "error", err)
//	}
//	defer factory.DisconnectAll()
//
//	base, err := factory.Get(8453)
//	if err != nil {
//	    logger.Fatal("unknown chain", "error", err)
//	}
//	nonce, err := base.PendingNonceAt(ctx, account)
//
// # Metrics
//
// Clients publish Prometheus metrics for connection state, reconnects,
// in-flight calls and per-method outcomes. Pass a shared Metrics value
// through the config to aggregate several clients into one registry;
// otherwise each client keeps a private registry.
package rpc
