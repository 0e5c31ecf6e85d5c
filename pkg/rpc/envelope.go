package rpc

import (
	"encoding/json"
	"fmt"
	"time"
)

// Envelope is the authenticated request frame sent to the gateway.
type Envelope struct {
	// ID uniquely identifies the call for response correlation.
	ID string `json:"id"`
	// Method is the RPC method to invoke.
	Method Method `json:"method"`
	// Params carries the method parameters, typically a positional array.
	Params any `json:"params"`
	// Auth proves the caller's identity for this specific call.
	Auth AuthStamp `json:"auth"`
}

// AuthStamp carries the per-call authentication proof.
type AuthStamp struct {
	// ClientID identifies the caller to the gateway.
	ClientID string `json:"clientId"`
	// Signature is the hex-encoded HMAC over clientId, method and timestamp.
	Signature string `json:"signature"`
	// Timestamp is the signing time in Unix milliseconds.
	Timestamp int64 `json:"timestamp"`
	// Version is the protocol version the client speaks.
	Version string `json:"version"`
}

// Response is the correlated reply frame received from the gateway.
// A well-formed response carries exactly one of Result or Error.
type Response struct {
	// ID matches the originating call.
	ID string `json:"id"`
	// Result holds the raw payload of a successful call.
	Result json.RawMessage `json:"result,omitempty"`
	// Error holds the failure reported by the gateway.
	Error *RemoteError `json:"error,omitempty"`
}

// newEnvelope assembles a signed request frame.
func newEnvelope(id string, method Method, params any, identity Identity, now time.Time) Envelope {
	timestamp := now.UnixMilli()
	return Envelope{
		ID:     id,
		Method: method,
		Params: params,
		Auth: AuthStamp{
			ClientID:  identity.ClientID,
			Signature: Sign(identity.ClientID, method, timestamp, identity.SharedSecret),
			Timestamp: timestamp,
			Version:   identity.Version.String(),
		},
	}
}

// Malformed frame errors. Frames failing these checks are logged and
// dropped without affecting any pending call.
var (
	errMissingCallID    = fmt.Errorf("response has no call id")
	errNoOutcome        = fmt.Errorf("response has neither result nor error")
	errAmbiguousOutcome = fmt.Errorf("response has both result and error")
)

// parseResponse decodes and validates one frame from the gateway.
func parseResponse(frame []byte) (*Response, error) {
	var res Response
	if err := json.Unmarshal(frame, &res); err != nil {
		return nil, err
	}

	if res.ID == "" {
		return nil, errMissingCallID
	}

	hasResult := res.Result != nil
	hasError := res.Error != nil
	switch {
	case hasResult && hasError:
		return nil, errAmbiguousOutcome
	case !hasResult && !hasError:
		return nil, errNoOutcome
	}

	return &res, nil
}
