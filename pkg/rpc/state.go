package rpc

import "fmt"

// State describes the lifecycle position of a gateway connection.
type State uint8

const (
	// StateDisconnected means no socket is open and no dial is running.
	StateDisconnected State = iota
	// StateConnecting means a dial attempt is in flight.
	StateConnecting
	// StateOpen means the socket is established and calls can be sent.
	StateOpen
	// StateClosing means a deliberate shutdown is in progress.
	StateClosing
	// StateFailed means the reconnect budget is exhausted. The client
	// stays failed until Connect is called again.
	StateFailed
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateClosing:
		return "closing"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(s))
	}
}
