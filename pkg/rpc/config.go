package rpc

import (
	"fmt"
	"net/url"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/erc7824/walletgate/pkg/log"
)

const (
	defaultChainLabel       = "default"
	defaultCallTimeout      = 30 * time.Second
	defaultConnectGrace     = 1 * time.Second
	defaultHandshakeTimeout = 5 * time.Second
	defaultWriteTimeout     = 5 * time.Second
	defaultPingInterval     = 5 * time.Second
	defaultReconnectBase    = 500 * time.Millisecond
	defaultReconnectCeiling = 30 * time.Second
	defaultMaxReconnects    = 5
)

// ClientConfig assembles one chain's gateway client. The zero value of
// every knob except Endpoints and Identity.SharedSecret is usable and
// gets a sensible default.
type ClientConfig struct {
	// Chain labels the network in logs and metrics.
	Chain string
	// Endpoints is the ordered pool of interchangeable gateway URLs.
	Endpoints []string `validate:"required,min=1,dive,ws_url"`
	// Identity signs every outgoing call.
	Identity Identity
	// BroadcastRPC optionally routes signed transactions straight to a
	// node RPC instead of through the gateway.
	BroadcastRPC string `validate:"omitempty,url"`

	// CallTimeout bounds how long a call waits for its response.
	CallTimeout time.Duration
	// ConnectGrace bounds how long a call waits for the connection to
	// come up before failing with ErrNotConnected.
	ConnectGrace time.Duration
	// HandshakeTimeout bounds the websocket handshake.
	HandshakeTimeout time.Duration
	// WriteTimeout bounds individual socket writes.
	WriteTimeout time.Duration
	// PingInterval is the keepalive ping period. Negative disables pings.
	PingInterval time.Duration
	// ReconnectBaseDelay seeds the backoff schedule after a closure.
	ReconnectBaseDelay time.Duration
	// ReconnectMaxDelay caps the backoff schedule.
	ReconnectMaxDelay time.Duration
	// MaxReconnectAttempts is the closure budget before giving up.
	MaxReconnectAttempts int

	// Logger receives connection and call diagnostics.
	Logger log.Logger `validate:"-"`
	// Metrics receives the client's counters. Share one value across
	// clients to aggregate them into a single registry.
	Metrics *Metrics `validate:"-"`
}

// setDefaults fills zero-valued knobs in place.
func (c *ClientConfig) setDefaults() {
	if c.Chain == "" {
		c.Chain = defaultChainLabel
	}
	if c.Identity.ClientID == "" {
		c.Identity.ClientID = uuid.NewString()
	}
	if c.Identity.Version == "" {
		c.Identity.Version = VersionV1
	}
	if c.CallTimeout <= 0 {
		c.CallTimeout = defaultCallTimeout
	}
	if c.ConnectGrace <= 0 {
		c.ConnectGrace = defaultConnectGrace
	}
	if c.HandshakeTimeout <= 0 {
		c.HandshakeTimeout = defaultHandshakeTimeout
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = defaultWriteTimeout
	}
	if c.PingInterval == 0 {
		c.PingInterval = defaultPingInterval
	}
	if c.ReconnectBaseDelay <= 0 {
		c.ReconnectBaseDelay = defaultReconnectBase
	}
	if c.ReconnectMaxDelay <= 0 {
		c.ReconnectMaxDelay = defaultReconnectCeiling
	}
	if c.MaxReconnectAttempts <= 0 {
		c.MaxReconnectAttempts = defaultMaxReconnects
	}
	if c.Logger == nil {
		c.Logger = log.NewNoopLogger()
	}
	if c.Metrics == nil {
		c.Metrics = NewMetricsWithRegistry(prometheus.NewRegistry())
	}
}

// validate checks the assembled config.
func (c *ClientConfig) validate() error {
	if len(c.Endpoints) == 0 {
		return ErrNoEndpoints
	}
	if err := configValidator.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

var configValidator = getValidator()

func getValidator() *validator.Validate {
	validate := validator.New()

	if err := validate.RegisterValidation("ws_url", func(fl validator.FieldLevel) bool {
		u, err := url.Parse(fl.Field().String())
		if err != nil {
			return false
		}
		return (u.Scheme == "ws" || u.Scheme == "wss") && u.Host != ""
	}); err != nil {
		panic(fmt.Sprintf("failed to register ws_url validation: %v", err))
	}
	return validate
}
