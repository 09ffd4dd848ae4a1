package trackclient

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gorilla/websocket"
	"github.com/safeyatra/safeyatra/internal/pkg/constants"
	"github.com/safeyatra/safeyatra/internal/pkg/logger"
	"github.com/safeyatra/safeyatra/internal/pkg/models"
)

// readLoop consumes inbound frames for one session, re-dialing on
// unexpected closure until the retry ceiling is reached.
func (t *Transport) readLoop(ctx context.Context, gen int, conn *websocket.Conn) {
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if t.isStale(gen) || ctx.Err() != nil {
				return
			}

			logger.Warn("Tracking connection lost", logger.Err(err))
			next, ok := t.reconnect(ctx, gen)
			if !ok {
				return
			}
			conn = next
			continue
		}

		t.dispatch(ctx, msg)
	}
}

// reconnect re-dials with a fixed delay between attempts, up to the
// configured ceiling. Reaching the ceiling leaves the session disconnected
// and surfaces a give-up notification; it never retries forever.
func (t *Transport) reconnect(ctx context.Context, gen int) (*websocket.Conn, bool) {
	t.mu.Lock()
	if gen != t.generation {
		t.mu.Unlock()
		return nil, false
	}
	t.state = StateConnecting
	t.conn = nil
	t.mu.Unlock()

	if t.queue != nil {
		t.queue.SetOnline(false)
	}

	var conn *websocket.Conn
	operation := func() error {
		if t.isStale(gen) || ctx.Err() != nil {
			return backoff.Permanent(errNotConnected)
		}

		t.mu.Lock()
		t.reconnectAttempts++
		attempt := t.reconnectAttempts
		t.mu.Unlock()

		logger.Info("Reconnecting",
			logger.Int("attempt", attempt),
			logger.Int("max_attempts", t.cfg.MaxReconnectRetries))

		c, err := t.dial(ctx)
		if err != nil {
			return err
		}
		conn = c
		return nil
	}

	policy := backoff.WithMaxRetries(
		backoff.NewConstantBackOff(t.cfg.ReconnectDelay),
		uint64(t.cfg.MaxReconnectRetries-1),
	)

	if err := backoff.Retry(operation, policy); err != nil {
		t.mu.Lock()
		gaveUp := gen == t.generation
		if gaveUp {
			t.state = StateDisconnected
		}
		t.mu.Unlock()

		if gaveUp {
			logger.Error("Giving up after exhausting reconnect attempts",
				logger.Int("attempts", t.cfg.MaxReconnectRetries),
				logger.Err(err))
			t.notifyConnectionChange(false)
		}
		return nil, false
	}

	t.mu.Lock()
	if gen != t.generation {
		t.mu.Unlock()
		conn.Close()
		return nil, false
	}
	t.conn = conn
	t.state = StateConnected
	t.reconnectAttempts = 0
	t.mu.Unlock()

	if t.queue != nil {
		t.queue.SetOnline(true)
	}
	t.notifyConnectionChange(true)

	// A successful reconnect re-drains anything buffered while offline.
	go t.drainQueue(ctx)

	return conn, true
}

// sampleLoop sends a fix on every interval tick for as long as the session
// is alive.
func (t *Transport) sampleLoop(ctx context.Context, gen int) {
	ticker := time.NewTicker(t.cfg.SampleInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if t.isStale(gen) {
				return
			}
			if err := t.SendNow(ctx); err != nil {
				logger.Warn("Periodic sample failed", logger.Err(err))
			}
		}
	}
}

// pingLoop keeps the connection alive through intermediary timeouts. The
// ping expects no business-logic response.
func (t *Transport) pingLoop(ctx context.Context, gen int) {
	ticker := time.NewTicker(t.cfg.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if t.isStale(gen) {
				return
			}
			if err := t.writeFrame(models.PingMessage{Type: models.TypePing}); err != nil {
				logger.Debug("Ping skipped", logger.Err(err))
			}
		}
	}
}

// dispatch routes one inbound frame to its callback. Unrecognized types
// are logged and ignored, never fatal.
func (t *Transport) dispatch(ctx context.Context, msg []byte) {
	var envelope models.Envelope
	if err := json.Unmarshal(msg, &envelope); err != nil {
		logger.Warn("Dropping malformed inbound frame", logger.Err(err))
		return
	}

	cb := t.cfg.Callbacks

	switch envelope.Type {
	case models.TypeAck:
		var ack models.AckMessage
		if err := json.Unmarshal(msg, &ack); err != nil {
			logger.Warn("Dropping malformed ACK", logger.Err(err))
			return
		}
		if cb.OnAck != nil {
			cb.OnAck(ack)
		}

	case models.TypeCommand:
		var cmd models.CommandMessage
		if err := json.Unmarshal(msg, &cmd); err != nil {
			logger.Warn("Dropping malformed COMMAND", logger.Err(err))
			return
		}
		t.handleCommand(ctx, cmd)
		if cb.OnCommand != nil {
			cb.OnCommand(cmd)
		}

	case models.TypeMessage:
		var chat models.ChatPayload
		if err := json.Unmarshal(envelope.Data, &chat); err != nil {
			logger.Warn("Dropping malformed MESSAGE", logger.Err(err))
			return
		}
		if cb.OnMessage != nil {
			cb.OnMessage(chat)
		}

	case models.TypeAlert:
		var alert models.AlertPayload
		if err := json.Unmarshal(envelope.Data, &alert); err != nil {
			logger.Warn("Dropping malformed ALERT", logger.Err(err))
			return
		}
		if cb.OnAlert != nil {
			cb.OnAlert(alert)
		}

	case models.TypeGroupUpdate, models.TypeInitialState:
		if cb.OnGroupUpdate != nil {
			cb.OnGroupUpdate(envelope.Data)
		}

	case models.TypeLocationUpdate:
		var update models.LocationUpdatePayload
		if err := json.Unmarshal(envelope.Data, &update); err != nil {
			logger.Warn("Dropping malformed LOCATION_UPDATE", logger.Err(err))
			return
		}
		if cb.OnLocationUpdate != nil {
			cb.OnLocationUpdate(update)
		}

	case models.TypeError:
		logger.Warn("Server reported error", logger.String("frame", string(msg)))

	default:
		logger.Debug("Ignoring unknown inbound type",
			logger.String("type", envelope.Type))
	}
}

// handleCommand executes the commands the device acts on locally before
// handing them to the caller.
func (t *Transport) handleCommand(ctx context.Context, cmd models.CommandMessage) {
	switch cmd.Command {
	case constants.CommandRequestLocation:
		if err := t.SendNow(ctx); err != nil {
			logger.Warn("Failed to answer location request", logger.Err(err))
		}
	case constants.CommandActivateSOS:
		if err := t.SendSOS(ctx, "SOS activated remotely"); err != nil {
			logger.Warn("Failed to answer remote SOS activation", logger.Err(err))
		}
	}
}
