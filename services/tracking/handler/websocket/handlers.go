package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/safeyatra/safeyatra/internal/pkg/constants"
	"github.com/safeyatra/safeyatra/internal/pkg/logger"
	"github.com/safeyatra/safeyatra/internal/pkg/models"
	wspkg "github.com/safeyatra/safeyatra/internal/pkg/websocket"
	"github.com/safeyatra/safeyatra/services/tracking/usecase"
)

// HandleWebSocket handles new tracking connections.
func (d *Dispatcher) HandleWebSocket(c echo.Context) error {
	return d.manager.HandleConnection(c, d.handleClientConnection)
}

// handleClientConnection runs a peer's session: registration, snapshot,
// message loop, teardown.
func (d *Dispatcher) handleClientConnection(identity *wspkg.Identity, ws *websocket.Conn) error {
	p := &peer{
		identity:    identity,
		conn:        ws,
		send:        make(chan []byte, sendBufferSize),
		status:      models.StatusActive,
		connectedAt: time.Now(),
	}

	if p.isDevice() {
		// Seed the directory entry from the mirrored state so a session
		// that replaces another, or follows a dispatcher restart, does
		// not present as a brand new device until its first fix.
		fix, status := d.trackingUC.LastKnown(context.Background(), identity.UserID)
		if fix != nil {
			p.lastFix = fix
		}
		if status != "" {
			p.status = status
		}
	}

	d.register(p)
	go d.writePump(p)

	logger.Info("Tracking client connected",
		logger.String("user_id", identity.UserID),
		logger.String("role", identity.Role))

	d.sendInitialState(p)

	err := d.messageLoop(p)

	// A replaced session must not clear state for the connection that
	// replaced it.
	if d.unregister(p) {
		d.handleDisconnect(p)
	}

	logger.Info("Tracking client disconnected",
		logger.String("user_id", identity.UserID))

	return err
}

// sendInitialState pushes the current directory snapshot to a freshly
// connected peer so it can render "who is online" without waiting for the
// next round of updates.
func (d *Dispatcher) sendInitialState(p *peer) {
	snapshot := d.Snapshot()

	frame := marshalFrame(models.DataMessage{
		Type: models.TypeInitialState,
		Data: models.InitialStatePayload{Devices: snapshot},
	})

	d.mu.RLock()
	d.send(p, frame)
	d.mu.RUnlock()
}

// messageLoop reads frames off one connection until it closes. Each peer
// has exactly one reader, which is what preserves per-source broadcast
// ordering.
func (d *Dispatcher) messageLoop(p *peer) error {
	for {
		_, msg, err := p.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				logger.Warn("WebSocket read error",
					logger.String("user_id", p.identity.UserID),
					logger.Err(err))
			}
			return nil
		}

		if err := d.handleMessage(p, msg); err != nil {
			logger.Error("Error handling message",
				logger.String("user_id", p.identity.UserID),
				logger.Err(err))
		}
	}
}

// handleMessage dispatches one inbound frame by its type discriminator.
// Unrecognized types are logged and ignored, never fatal to the
// connection.
func (d *Dispatcher) handleMessage(p *peer, msg []byte) error {
	var envelope models.Envelope
	if err := json.Unmarshal(msg, &envelope); err != nil {
		d.sendError(p, constants.ErrorInvalidFormat, "Invalid message format")
		return nil
	}

	switch envelope.Type {
	case models.TypeLocation:
		return d.handleLocation(p, msg)
	case models.TypeSOS:
		return d.handleSOS(p, msg)
	case models.TypeCheckin:
		return d.handleCheckin(p, msg)
	case models.TypePing:
		// Keepalive only; no business-logic response.
		return nil
	default:
		logger.Debug("Ignoring unknown message type",
			logger.String("user_id", p.identity.UserID),
			logger.String("type", envelope.Type))
		return nil
	}
}

// handleLocation processes a LOCATION report: directory update, archive,
// analysis trigger, fan-out, ACK.
func (d *Dispatcher) handleLocation(p *peer, msg []byte) error {
	var report models.LocationMessage
	if err := json.Unmarshal(msg, &report); err != nil {
		d.sendError(p, constants.ErrorInvalidLocation, "Invalid location format")
		return nil
	}

	fix := report.Fix()
	if fix.CapturedAt.IsZero() {
		fix.CapturedAt = time.Now()
	}

	status, area, err := d.trackingUC.RecordFix(context.Background(), p.identity.UserID, report.UserName, fix)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidCoordinates) || errors.Is(err, usecase.ErrInvalidSpeed) {
			d.sendError(p, constants.ErrorInvalidLocation, err.Error())
			return nil
		}
		// The directory is the live source of truth and the stores only
		// mirror it. A store outage must not black out the fan-out path.
		logger.Warn("Failed to record fix, broadcasting from directory state",
			logger.String("user_id", p.identity.UserID),
			logger.Err(err))
		status = ""
	}

	d.mu.Lock()
	// An SOS state set earlier sticks until cleared; a routine fix must
	// not silently downgrade it.
	if status != "" && p.status != models.StatusSOS {
		p.status = status
	}
	fixCopy := fix
	p.lastFix = &fixCopy
	status = p.status
	d.mu.Unlock()

	update := models.DataMessage{
		Type: models.TypeLocationUpdate,
		Data: models.LocationUpdatePayload{
			UserID:   p.identity.UserID,
			UserType: p.identity.Role,
			Status:   string(status),
			Area:     area,
			Fix:      fix,
		},
	}
	d.broadcastUpdate(p.identity.UserID, fix.TourID, update)

	if status == models.StatusLowBattery {
		d.BroadcastToOperators(models.DataMessage{
			Type: models.TypeAlert,
			Data: models.AlertPayload{
				Title:    "Device battery low",
				Severity: "warning",
				Body:     marshalFrame(map[string]interface{}{"user_id": p.identity.UserID, "battery": fix.Battery}),
			},
		})
	}

	now := time.Now()
	return d.NotifyUser(p.identity.UserID, models.AckMessage{
		Type:      models.TypeAck,
		Timestamp: &now,
	})
}

// handleSOS processes an SOS alert: directory status flip, immediate
// operator broadcast with priority delivery, ACK to the sender.
func (d *Dispatcher) handleSOS(p *peer, msg []byte) error {
	var sosMsg models.SOSMessage
	if err := json.Unmarshal(msg, &sosMsg); err != nil {
		d.sendError(p, constants.ErrorInvalidSOS, "Invalid SOS format")
		return nil
	}

	sos := models.SOSPayload{
		Message:   sosMsg.Message,
		Latitude:  sosMsg.Latitude,
		Longitude: sosMsg.Longitude,
		UserName:  sosMsg.UserName,
		RaisedAt:  time.Now(),
	}

	if err := d.trackingUC.RecordSOS(context.Background(), p.identity.UserID, sos); err != nil {
		logger.Error("Failed to record SOS",
			logger.String("user_id", p.identity.UserID),
			logger.Err(err))
		// Broadcast regardless: operator visibility beats persistence.
	}

	d.mu.Lock()
	p.status = models.StatusSOS
	d.mu.Unlock()

	d.BroadcastToOperators(models.DataMessage{
		Type: models.TypeAlert,
		Data: models.AlertPayload{
			Title:    "SOS",
			Severity: "critical",
			Body: marshalFrame(map[string]interface{}{
				"user_id":   p.identity.UserID,
				"user_name": sos.UserName,
				"message":   sos.Message,
				"latitude":  sos.Latitude,
				"longitude": sos.Longitude,
				"raised_at": sos.RaisedAt,
			}),
		},
	})

	now := time.Now()
	return d.NotifyUserPriority(p.identity.UserID, models.AckMessage{
		Type:      models.TypeAck,
		Timestamp: &now,
	})
}

// handleCheckin acknowledges a checkpoint report and surfaces it to
// operator consoles.
func (d *Dispatcher) handleCheckin(p *peer, msg []byte) error {
	var checkinMsg models.CheckinMessage
	if err := json.Unmarshal(msg, &checkinMsg); err != nil {
		d.sendError(p, constants.ErrorInvalidFormat, "Invalid check-in format")
		return nil
	}

	d.BroadcastToOperators(models.DataMessage{
		Type: models.TypeGroupUpdate,
		Data: map[string]interface{}{
			"event":      "checkin",
			"user_id":    p.identity.UserID,
			"tour_id":    checkinMsg.TourID,
			"latitude":   checkinMsg.Latitude,
			"longitude":  checkinMsg.Longitude,
			"note":       checkinMsg.Note,
			"checked_at": checkinMsg.CheckedAt,
		},
	})

	now := time.Now()
	return d.NotifyUser(p.identity.UserID, models.AckMessage{
		Type:      models.TypeAck,
		Timestamp: &now,
	})
}

// handleDisconnect clears server-side state and tells subscribers the
// device went offline.
func (d *Dispatcher) handleDisconnect(p *peer) {
	if !p.isDevice() {
		return
	}

	if err := d.trackingUC.DeviceOffline(context.Background(), p.identity.UserID); err != nil {
		logger.Warn("Failed to clear device state",
			logger.String("user_id", p.identity.UserID),
			logger.Err(err))
	}

	tourID := ""
	if p.lastFix != nil {
		tourID = p.lastFix.TourID
	}
	d.broadcastUpdate(p.identity.UserID, tourID, models.DataMessage{
		Type: models.TypeGroupUpdate,
		Data: map[string]interface{}{
			"user_id": p.identity.UserID,
			"status":  string(models.StatusOffline),
		},
	})
}

// sendError sends an ERROR frame to a peer.
func (d *Dispatcher) sendError(p *peer, code, message string) {
	frame := marshalFrame(models.DataMessage{
		Type: models.TypeError,
		Data: models.ErrorPayload{Code: code, Message: message},
	})

	d.mu.RLock()
	d.send(p, frame)
	d.mu.RUnlock()
}
