package rpc

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Identity holds the credentials shared by every call a client sends.
// One identity may back any number of per-chain clients.
type Identity struct {
	// ClientID identifies the caller to the gateway. Generated when empty.
	ClientID string
	// SharedSecret keys the per-call HMAC. It never travels on the wire.
	SharedSecret string `validate:"required"`
	// Version is the protocol version stamped on every call.
	Version Version
}

// Sign computes the authentication signature for a single call as the
// lowercase hex encoding of
//
//	HMAC-SHA256(sharedSecret, clientId + ":" + method + ":" + timestamp)
//
// with the timestamp rendered as decimal Unix milliseconds. The function
// is pure: equal inputs always produce equal signatures.
func Sign(clientID string, method Method, timestamp int64, sharedSecret string) string {
	mac := hmac.New(sha256.New, []byte(sharedSecret))
	fmt.Fprintf(mac, "%s:%s:%d", clientID, method, timestamp)
	return hex.EncodeToString(mac.Sum(nil))
}
