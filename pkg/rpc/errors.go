package rpc

import (
	"fmt"
)

// Connection lifecycle errors.
var (
	// ErrNotConnected is returned when a call is issued while no
	// connection is open and none comes up within the grace period.
	ErrNotConnected = fmt.Errorf("no open connection to gateway")
	// ErrConnectionLost is returned when the reconnect budget is
	// exhausted and the client gives up.
	ErrConnectionLost = fmt.Errorf("connection lost, reconnect budget exhausted")
	// ErrDisconnected is returned to pending calls when the caller
	// deliberately tears the connection down.
	ErrDisconnected = fmt.Errorf("disconnected by caller")
	// ErrDialingGateway wraps websocket handshake failures.
	ErrDialingGateway = fmt.Errorf("error dialing gateway")
)

// Call lifecycle errors.
var (
	// ErrSendFailed is returned when the envelope could not be written
	// to the socket.
	ErrSendFailed = fmt.Errorf("failed to send call")
	// ErrCallTimeout is returned when no response arrives before the
	// call deadline.
	ErrCallTimeout = fmt.Errorf("call timed out")
	// ErrDuplicateCallID is returned when a call id is already in flight.
	ErrDuplicateCallID = fmt.Errorf("duplicate call id")
)

// Configuration errors.
var (
	// ErrInvalidConfig wraps client and factory validation failures.
	ErrInvalidConfig = fmt.Errorf("invalid config")
	// ErrNoEndpoints is returned when no gateway endpoints are configured.
	ErrNoEndpoints = fmt.Errorf("no gateway endpoints configured")
	// ErrUnknownChain is returned by the factory for chain ids it was
	// not configured with.
	ErrUnknownChain = fmt.Errorf("unknown chain id")
)

// RemoteError is a well-formed failure reported by the gateway. It is
// returned to the caller as-is so that code and message stay inspectable
// through errors.As.
type RemoteError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote error %d: %s", e.Code, e.Message)
}
