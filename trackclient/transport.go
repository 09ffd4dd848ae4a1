package trackclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/safeyatra/safeyatra/internal/pkg/logger"
	"github.com/safeyatra/safeyatra/internal/pkg/models"
	"github.com/safeyatra/safeyatra/trackclient/queue"
)

var (
	// ErrPermissionDenied means the location permission was not granted.
	// Tracking does not start and no connection attempt is made.
	ErrPermissionDenied = errors.New("location permission denied")

	// ErrConnectionFailed means the initial connect timed out or was
	// refused.
	ErrConnectionFailed = errors.New("connection failed")

	errNotConnected = errors.New("not connected")
)

// ConnectionState is the transport's position in its session state machine.
type ConnectionState string

const (
	StateDisconnected ConnectionState = "disconnected"
	StateConnecting   ConnectionState = "connecting"
	StateConnected    ConnectionState = "connected"
)

// Default session timings. All are overridable through Config.
const (
	DefaultSampleInterval      = 10 * time.Second
	DefaultPingInterval        = 30 * time.Second
	DefaultReconnectDelay      = 3 * time.Second
	DefaultMaxReconnectRetries = 10
	DefaultDialTimeout         = 10 * time.Second
)

// LocationSource captures GPS fixes. Current returns ErrPermissionDenied
// when the platform permission is missing.
type LocationSource interface {
	Current(ctx context.Context) (models.Fix, error)
}

// BatteryReader reads the device battery level. It is strictly best-effort;
// a failure never blocks a location send.
type BatteryReader interface {
	Level(ctx context.Context) (int, error)
}

// Callbacks deliver inbound events to the caller. Nil callbacks are
// skipped. They are invoked from the transport's read goroutine and must
// not block.
type Callbacks struct {
	OnAck              func(ack models.AckMessage)
	OnCommand          func(cmd models.CommandMessage)
	OnMessage          func(chat models.ChatPayload)
	OnAlert            func(alert models.AlertPayload)
	OnGroupUpdate      func(data []byte)
	OnLocationUpdate   func(update models.LocationUpdatePayload)
	OnConnectionChange func(connected bool)
}

// Config configures one tracking session.
type Config struct {
	ServerURL string // ws:// or wss:// endpoint
	Token     string // bearer token presented at connect time
	UserName  string
	UserType  string
	TourID    string

	SampleInterval      time.Duration
	PingInterval        time.Duration
	ReconnectDelay      time.Duration
	MaxReconnectRetries int
	DialTimeout         time.Duration
	SOSMaxSyncAttempts  int

	Callbacks Callbacks
}

func (c *Config) withDefaults() {
	if c.SampleInterval <= 0 {
		c.SampleInterval = DefaultSampleInterval
	}
	if c.PingInterval <= 0 {
		c.PingInterval = DefaultPingInterval
	}
	if c.ReconnectDelay <= 0 {
		c.ReconnectDelay = DefaultReconnectDelay
	}
	if c.MaxReconnectRetries <= 0 {
		c.MaxReconnectRetries = DefaultMaxReconnectRetries
	}
	if c.DialTimeout <= 0 {
		c.DialTimeout = DefaultDialTimeout
	}
}

// Status is the caller-visible connection state.
type Status struct {
	Connected    bool `json:"connected"`
	Reconnecting bool `json:"reconnecting"`
}

// Transport owns one long-lived tracking connection: periodic sampling,
// keepalive pings, reconnect with backoff, and inbound event dispatch.
// There is never more than one live session per Transport; starting a new
// one tears down the old.
type Transport struct {
	cfg     Config
	queue   *queue.Queue
	source  LocationSource
	battery BatteryReader
	dialer  *websocket.Dialer

	mu                sync.Mutex
	conn              *websocket.Conn
	state             ConnectionState
	generation        int
	reconnectAttempts int
	cancel            context.CancelFunc

	// writeMu serializes writes; gorilla connections allow at most one
	// concurrent writer.
	writeMu sync.Mutex
}

// New creates a transport with its offline queue backed by the given
// store. Items persisted by an earlier run drain on the first successful
// connect.
func New(cfg Config, store queue.Store, source LocationSource, battery BatteryReader) (*Transport, error) {
	if cfg.ServerURL == "" {
		return nil, errors.New("server URL is required")
	}
	if store == nil {
		return nil, errors.New("queue store is required")
	}
	if source == nil {
		return nil, errors.New("location source is required")
	}
	cfg.withDefaults()

	t := &Transport{
		cfg:     cfg,
		source:  source,
		battery: battery,
		dialer:  &websocket.Dialer{HandshakeTimeout: cfg.DialTimeout},
		state:   StateDisconnected,
	}

	q, err := queue.New(store, &wireUploader{t: t}, queue.WithSOSMaxAttempts(cfg.SOSMaxSyncAttempts))
	if err != nil {
		return nil, err
	}
	t.queue = q

	return t, nil
}

// Queue exposes the offline queue for pending-count and manual sync calls.
func (t *Transport) Queue() *queue.Queue {
	return t.queue
}

// StartTracking opens the connection and begins periodic sampling. It
// returns synchronously for the initial connect only; later reconnects run
// in the background. Any session already running is torn down first.
func (t *Transport) StartTracking(ctx context.Context) error {
	// Permission gate before any network activity. The first fix doubles
	// as the immediately-sent initial sample.
	fix, err := t.source.Current(ctx)
	if err != nil {
		if errors.Is(err, ErrPermissionDenied) {
			return ErrPermissionDenied
		}
		return fmt.Errorf("failed to capture initial fix: %w", err)
	}

	t.StopTracking()

	t.mu.Lock()
	t.generation++
	gen := t.generation
	t.state = StateConnecting
	t.mu.Unlock()

	conn, err := t.dial(ctx)
	if err != nil {
		t.mu.Lock()
		t.state = StateDisconnected
		t.mu.Unlock()
		return fmt.Errorf("%w: %v", ErrConnectionFailed, err)
	}

	sessionCtx, cancel := context.WithCancel(context.Background())

	t.mu.Lock()
	if gen != t.generation {
		// StopTracking raced us; discard the fresh connection.
		t.mu.Unlock()
		cancel()
		conn.Close()
		return ErrConnectionFailed
	}
	t.conn = conn
	t.cancel = cancel
	t.state = StateConnected
	t.reconnectAttempts = 0
	t.mu.Unlock()

	if t.queue != nil {
		t.queue.SetOnline(true)
	}
	t.notifyConnectionChange(true)

	// First sample goes out immediately, then on each interval tick.
	t.sendFix(ctx, fix)

	go t.readLoop(sessionCtx, gen, conn)
	go t.sampleLoop(sessionCtx, gen)
	go t.pingLoop(sessionCtx, gen)
	go t.drainQueue(sessionCtx)

	return nil
}

// StopTracking cancels the sampling and reconnect timers and closes the
// connection. Safe to call when already stopped.
func (t *Transport) StopTracking() {
	t.mu.Lock()
	t.generation++
	wasActive := t.state != StateDisconnected
	t.state = StateDisconnected
	t.reconnectAttempts = 0
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
	conn := t.conn
	t.conn = nil
	t.mu.Unlock()

	if conn != nil {
		conn.Close()
	}
	if t.queue != nil {
		t.queue.SetOnline(false)
	}
	if wasActive {
		t.notifyConnectionChange(false)
	}
}

// Status reports the connection state to the caller.
func (t *Transport) Status() Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Status{
		Connected:    t.state == StateConnected,
		Reconnecting: t.state == StateConnecting && t.reconnectAttempts > 0,
	}
}

// dial opens one websocket connection, presenting the bearer token as a
// query parameter.
func (t *Transport) dial(ctx context.Context) (*websocket.Conn, error) {
	u, err := url.Parse(t.cfg.ServerURL)
	if err != nil {
		return nil, fmt.Errorf("invalid server URL: %w", err)
	}
	q := u.Query()
	q.Set("token", t.cfg.Token)
	u.RawQuery = q.Encode()

	dialCtx, cancel := context.WithTimeout(ctx, t.cfg.DialTimeout)
	defer cancel()

	conn, resp, err := t.dialer.DialContext(dialCtx, u.String(), http.Header{})
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("dial rejected with status %d: %w", resp.StatusCode, err)
		}
		return nil, err
	}
	return conn, nil
}

// isStale reports whether a goroutine belongs to a session that has been
// stopped or replaced. Every timer callback checks this before acting.
func (t *Transport) isStale(gen int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return gen != t.generation
}

func (t *Transport) notifyConnectionChange(connected bool) {
	if t.cfg.Callbacks.OnConnectionChange != nil {
		t.cfg.Callbacks.OnConnectionChange(connected)
	}
}

func (t *Transport) drainQueue(ctx context.Context) {
	if t.queue == nil {
		return
	}
	result := t.queue.SyncQueue(ctx)
	if result.Synced > 0 || result.Failed > 0 {
		logger.Info("Offline queue drained",
			logger.Int("synced", result.Synced),
			logger.Int("failed", result.Failed))
	}
}
