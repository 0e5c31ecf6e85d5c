package rpc

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gorilla/websocket"

	"github.com/erc7824/walletgate/pkg/log"
)

// wsDialFunc opens a websocket to url. Swapped out in tests.
type wsDialFunc func(ctx context.Context, url string) (*websocket.Conn, error)

// conn owns the single websocket for one chain and supervises its
// lifecycle: dialing, keepalive, response routing and bounded reconnects.
//
// A generation counter guards against stale goroutines: every dial bumps
// it, and callbacks from a superseded generation return without touching
// shared state.
type conn struct {
	chain    string
	selector *endpointSelector
	registry *callRegistry
	metrics  *Metrics
	lg       log.Logger

	handshakeTimeout time.Duration
	writeTimeout     time.Duration
	pingInterval     time.Duration
	maxAttempts      int

	dial wsDialFunc

	// mu guards the lifecycle fields below. It is never held across
	// socket reads or writes.
	mu         sync.Mutex
	state      State
	ws         *websocket.Conn
	gen        uint64
	attempts   int
	backoff    *backoff.ExponentialBackOff
	retryTimer *time.Timer
	retryArmed bool
	openCh     chan struct{}
	lifeCh     chan struct{}

	// writeMu serializes data frames onto the socket.
	writeMu sync.Mutex
}

func newConn(cfg *ClientConfig, selector *endpointSelector, registry *callRegistry) *conn {
	c := &conn{
		chain:            cfg.Chain,
		selector:         selector,
		registry:         registry,
		metrics:          cfg.Metrics,
		lg:               cfg.Logger.WithName("gateway-conn").WithKV("chain", cfg.Chain),
		handshakeTimeout: cfg.HandshakeTimeout,
		writeTimeout:     cfg.WriteTimeout,
		pingInterval:     cfg.PingInterval,
		maxAttempts:      cfg.MaxReconnectAttempts,
		backoff:          newReconnectBackoff(cfg.ReconnectBaseDelay, cfg.ReconnectMaxDelay),
		openCh:           make(chan struct{}),
	}
	c.dial = c.dialWebsocket
	return c
}

// newReconnectBackoff builds the delay schedule between reconnect
// attempts: the n-th consecutive closure waits min(base*2^n, ceiling).
func newReconnectBackoff(base, ceiling time.Duration) *backoff.ExponentialBackOff {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 2 * base // the first surviving closure is attempt one
	bo.RandomizationFactor = 0
	bo.Multiplier = 2
	bo.MaxInterval = ceiling
	bo.MaxElapsedTime = 0 // the budget is bounded by attempt count, not wall time
	bo.Reset()
	return bo
}

// Connect starts opening a connection unless one is already active or
// being established. A client that previously exhausted its reconnect
// budget gets a fresh one.
func (c *conn) Connect() {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case StateConnecting, StateOpen, StateClosing:
		return
	case StateFailed:
		c.attempts = 0
		c.backoff.Reset()
	}

	c.cancelRetryLocked()
	c.startAttemptLocked()
}

// Disconnect deliberately tears the connection down and rejects every
// pending call with ErrDisconnected. The client stays down until Connect
// is called again.
func (c *conn) Disconnect() {
	c.mu.Lock()
	if c.state == StateDisconnected && c.ws == nil && !c.retryArmed {
		c.mu.Unlock()
		return
	}

	c.cancelRetryLocked()
	c.gen++
	ws := c.ws
	c.ws = nil
	if c.lifeCh != nil {
		close(c.lifeCh)
		c.lifeCh = nil
	}
	if c.state == StateOpen {
		c.openCh = make(chan struct{})
	}
	c.state = StateClosing
	c.publishStateLocked()
	c.mu.Unlock()

	if ws != nil {
		deadline := time.Now().Add(c.writeTimeout)
		message := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		_ = ws.WriteControl(websocket.CloseMessage, message, deadline)
		ws.Close()
	}

	c.registry.rejectAll(ErrDisconnected)

	c.mu.Lock()
	c.state = StateDisconnected
	c.attempts = 0
	c.backoff.Reset()
	c.publishStateLocked()
	c.mu.Unlock()

	c.lg.Info("Disconnected from gateway")
}

// State reports the current lifecycle state.
func (c *conn) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// awaitOpen blocks until the connection is open, the grace period lapses
// or ctx is done. It reports whether the connection came up.
func (c *conn) awaitOpen(ctx context.Context, grace time.Duration) bool {
	c.mu.Lock()
	if c.state == StateOpen {
		c.mu.Unlock()
		return true
	}
	openCh := c.openCh
	c.mu.Unlock()

	timer := time.NewTimer(grace)
	defer timer.Stop()

	select {
	case <-openCh:
		return true
	case <-timer.C:
		return false
	case <-ctx.Done():
		return false
	}
}

// send writes one text frame to the open socket.
func (c *conn) send(data []byte) error {
	c.mu.Lock()
	ws := c.ws
	open := c.state == StateOpen
	c.mu.Unlock()

	if !open || ws == nil {
		return ErrNotConnected
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	_ = ws.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	return ws.WriteMessage(websocket.TextMessage, data)
}

// startAttemptLocked transitions to Connecting and spawns the dial
// goroutine for a fresh generation. The caller holds c.mu.
func (c *conn) startAttemptLocked() {
	c.state = StateConnecting
	c.publishStateLocked()
	c.gen++
	go c.runDial(c.gen)
}

// runDial performs one dial attempt for generation gen.
func (c *conn) runDial(gen uint64) {
	endpoint := c.selector.next()
	c.lg.Info("Dialing gateway", "endpoint", endpoint)

	ctx, cancel := context.WithTimeout(context.Background(), c.handshakeTimeout)
	ws, err := c.dial(ctx, endpoint)
	cancel()

	c.mu.Lock()
	if gen != c.gen || c.state != StateConnecting {
		c.mu.Unlock()
		if ws != nil {
			ws.Close()
		}
		return
	}

	if err != nil {
		c.lg.Warn("Dial failed", "endpoint", endpoint, "error", err)
		c.failAttemptLocked()
		return
	}

	c.ws = ws
	c.state = StateOpen
	c.publishStateLocked()
	c.attempts = 0
	c.backoff.Reset()
	c.lifeCh = make(chan struct{})
	lifeCh := c.lifeCh
	close(c.openCh)
	c.mu.Unlock()

	c.metrics.ConnectsTotal.WithLabelValues(c.chain).Inc()
	c.lg.Info("Connection open", "endpoint", endpoint)

	go c.readLoop(ws, gen)
	if c.pingInterval > 0 {
		go c.pingLoop(ws, lifeCh)
	}
}

func (c *conn) dialWebsocket(ctx context.Context, url string) (*websocket.Conn, error) {
	dialer := websocket.Dialer{
		HandshakeTimeout:  c.handshakeTimeout,
		EnableCompression: true,
	}

	ws, _, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDialingGateway, err)
	}
	return ws, nil
}

// readLoop consumes frames until the socket dies and routes responses to
// their pending calls. Malformed frames are dropped without affecting
// the connection or any pending call.
func (c *conn) readLoop(ws *websocket.Conn, gen uint64) {
	if c.pingInterval > 0 {
		pongWait := 2 * c.pingInterval
		_ = ws.SetReadDeadline(time.Now().Add(pongWait))
		ws.SetPongHandler(func(string) error {
			return ws.SetReadDeadline(time.Now().Add(pongWait))
		})
	}

	for {
		_, frame, err := ws.ReadMessage()
		if err != nil {
			c.handleClosure(gen, err)
			return
		}

		res, err := parseResponse(frame)
		if err != nil {
			c.lg.Warn("Malformed message", "message", string(frame), "error", err)
			continue
		}
		c.dispatch(res)
	}
}

// dispatch completes the pending call correlated with res. Responses
// that match no pending call are dropped.
func (c *conn) dispatch(res *Response) {
	var delivered bool
	if res.Error != nil {
		delivered = c.registry.reject(res.ID, res.Error)
	} else {
		delivered = c.registry.resolve(res.ID, res.Result)
	}
	if !delivered {
		c.lg.Debug("No pending call for response", "id", res.ID)
	}
}

// pingLoop keeps the connection alive with websocket control pings. The
// read deadline set in readLoop turns a missing pong into a read error.
func (c *conn) pingLoop(ws *websocket.Conn, lifeCh <-chan struct{}) {
	ticker := time.NewTicker(c.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-lifeCh:
			return
		case <-ticker.C:
			deadline := time.Now().Add(c.writeTimeout)
			if err := ws.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				c.lg.Warn("Ping failed", "error", err)
				ws.Close() // the read loop observes the closure
				return
			}
		}
	}
}

// handleClosure runs when generation gen's socket dies unexpectedly.
// Closures of superseded generations were already handled by Disconnect.
func (c *conn) handleClosure(gen uint64, cause error) {
	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		return
	}

	ws := c.ws
	c.ws = nil
	if c.lifeCh != nil {
		close(c.lifeCh)
		c.lifeCh = nil
	}
	c.openCh = make(chan struct{})

	c.lg.Warn("Connection closed unexpectedly", "error", cause)
	c.failAttemptLocked()

	if ws != nil {
		ws.Close()
	}
}

// failAttemptLocked runs the reconnection supervisor branching shared by
// dial failures and unexpected closures: either schedule the next
// attempt after a backoff delay, or give up once the attempt budget is
// spent. The caller holds c.mu; it is released here.
func (c *conn) failAttemptLocked() {
	c.attempts++
	attempts := c.attempts

	if attempts >= c.maxAttempts {
		c.state = StateFailed
		c.publishStateLocked()
		c.mu.Unlock()

		c.metrics.ConnectionFailures.WithLabelValues(c.chain).Inc()
		c.lg.Error("Reconnect budget exhausted", "attempts", attempts)
		c.registry.rejectAll(ErrConnectionLost)
		return
	}

	delay := c.backoff.NextBackOff()
	c.state = StateDisconnected
	c.publishStateLocked()
	c.retryArmed = true
	c.retryTimer = time.AfterFunc(delay, c.retryDial)
	c.mu.Unlock()

	c.metrics.ReconnectsTotal.WithLabelValues(c.chain).Inc()
	c.lg.Warn("Reconnect scheduled", "attempt", attempts, "delay", delay)
}

// retryDial fires when the backoff delay elapses.
func (c *conn) retryDial() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.retryArmed || c.state != StateDisconnected {
		return
	}
	c.retryArmed = false
	c.retryTimer = nil
	c.startAttemptLocked()
}

// cancelRetryLocked disarms a scheduled reconnect. The caller holds c.mu.
func (c *conn) cancelRetryLocked() {
	if c.retryTimer != nil {
		c.retryTimer.Stop()
		c.retryTimer = nil
	}
	c.retryArmed = false
}

func (c *conn) publishStateLocked() {
	c.metrics.ConnectionState.WithLabelValues(c.chain).Set(float64(c.state))
}
