package channel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"
)

const defaultReconnectDelay = 2 * time.Second

// ErrNotOpen is returned by Send while no connection is open. Frames are
// never queued for later delivery; callers surface a notice and drop them.
var ErrNotOpen = errors.New("channel is not open")

// State is the connection lifecycle phase of a channel.
type State int

const (
	StateIdle State = iota
	StateConnecting
	StateOpen
	StateClosedPendingRetry
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateClosedPendingRetry:
		return "closed-pending-retry"
	default:
		return "unknown"
	}
}

// Conn is one established message-oriented connection.
type Conn interface {
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, data []byte) error
	Close() error
}

// Dialer opens connections to the backend. The websocket implementation is
// the default; tests substitute fakes.
type Dialer interface {
	Dial(ctx context.Context, endpoint string) (Conn, error)
}

// Options configures one channel instance.
type Options struct {
	Endpoint       string
	Dialer         Dialer
	ReconnectDelay time.Duration

	// Hello returns the first frame to write after a connection opens, when
	// a session identifier is already known.
	Hello func() ([]byte, bool)

	// OnFrame receives every inbound frame, one invocation per frame in
	// receipt order.
	OnFrame func([]byte)

	// OnState observes lifecycle transitions.
	OnState func(State)

	Logger *slog.Logger
}

// Channel maintains one connection to the backend and owns the reconnect
// policy: every close schedules exactly one retry after a fixed delay, and a
// single-slot guard prevents concurrent pending retries.
type Channel struct {
	opts Options
	log  *slog.Logger

	mu           sync.Mutex
	state        State
	conn         Conn
	retryPending bool
}

// New validates options and constructs a channel. Run must be called to
// start the connection loop.
func New(opts Options) (*Channel, error) {
	if strings.TrimSpace(opts.Endpoint) == "" {
		return nil, errors.New("channel endpoint is required")
	}
	if opts.OnFrame == nil {
		return nil, errors.New("frame handler is required")
	}
	if opts.Dialer == nil {
		opts.Dialer = websocketDialer{}
	}
	if opts.ReconnectDelay <= 0 {
		opts.ReconnectDelay = defaultReconnectDelay
	}

	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	return &Channel{
		opts: opts,
		log:  log.With("component", "channel"),
	}, nil
}

// Run drives the connect/read/retry loop until the context is canceled.
// It is the only goroutine that transitions channel state.
func (c *Channel) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return nil
		}

		c.setState(StateConnecting)
		conn, err := c.opts.Dialer.Dial(ctx, c.opts.Endpoint)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			c.log.Warn("Connection attempt failed", "endpoint", c.opts.Endpoint, "error", err)
			if !c.waitRetry(ctx) {
				return nil
			}
			continue
		}

		c.setConn(conn)
		c.setState(StateOpen)
		c.log.Info("Channel connected", "endpoint", c.opts.Endpoint)

		if c.opts.Hello != nil {
			if frame, ok := c.opts.Hello(); ok {
				if err := conn.Write(ctx, frame); err != nil {
					c.log.Warn("Session announcement failed", "error", err)
				}
			}
		}

		c.readLoop(ctx, conn)

		c.setConn(nil)
		_ = conn.Close()

		if ctx.Err() != nil {
			return nil
		}
		c.log.Info("Channel closed, retry pending")
		if !c.waitRetry(ctx) {
			return nil
		}
	}
}

// Send writes one frame on the open connection. While the channel is not
// open the frame is rejected locally with ErrNotOpen; there is no outbound
// buffering or replay.
func (c *Channel) Send(ctx context.Context, frame []byte) error {
	c.mu.Lock()
	conn := c.conn
	state := c.state
	c.mu.Unlock()

	if state != StateOpen || conn == nil {
		return ErrNotOpen
	}

	if err := conn.Write(ctx, frame); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}

	return nil
}

// State returns the current lifecycle phase.
func (c *Channel) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// RetryPending reports whether a reconnect is currently scheduled.
func (c *Channel) RetryPending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.retryPending
}

func (c *Channel) readLoop(ctx context.Context, conn Conn) {
	for {
		data, err := conn.Read(ctx)
		if err != nil {
			if ctx.Err() == nil {
				c.log.Debug("Read failed", "error", err)
			}
			return
		}
		c.opts.OnFrame(data)
	}
}

// waitRetry parks the channel in closed-pending-retry for one reconnect
// delay. The single-slot guard makes scheduling idempotent: a retry is only
// armed when none is pending. Returns false when the context ended.
func (c *Channel) waitRetry(ctx context.Context) bool {
	c.mu.Lock()
	if c.retryPending {
		c.mu.Unlock()
		return false
	}
	c.retryPending = true
	c.mu.Unlock()

	c.setState(StateClosedPendingRetry)

	timer := time.NewTimer(c.opts.ReconnectDelay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		c.clearRetry()
		return false
	case <-timer.C:
		c.clearRetry()
		return true
	}
}

func (c *Channel) clearRetry() {
	c.mu.Lock()
	c.retryPending = false
	c.mu.Unlock()
}

func (c *Channel) setConn(conn Conn) {
	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()
}

func (c *Channel) setState(state State) {
	c.mu.Lock()
	changed := c.state != state
	c.state = state
	c.mu.Unlock()

	if changed && c.opts.OnState != nil {
		c.opts.OnState(state)
	}
}

// Endpoint derives the realtime endpoint from the backend base URL: ws for
// http origins, wss for https, path /ws.
func Endpoint(baseURL string) (string, error) {
	parsed, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}

	switch parsed.Scheme {
	case "http":
		parsed.Scheme = "ws"
	case "https":
		parsed.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("unsupported base url scheme %q", parsed.Scheme)
	}

	parsed.Path = strings.TrimSuffix(parsed.Path, "/") + "/ws"
	return parsed.String(), nil
}
