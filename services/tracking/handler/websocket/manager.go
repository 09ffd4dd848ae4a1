package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/safeyatra/safeyatra/internal/pkg/constants"
	"github.com/safeyatra/safeyatra/internal/pkg/logger"
	"github.com/safeyatra/safeyatra/internal/pkg/models"
	wspkg "github.com/safeyatra/safeyatra/internal/pkg/websocket"
	"github.com/safeyatra/safeyatra/services/tracking"
)

// ErrDeviceNotConnected is returned when a command targets a device with no
// live connection. It is reported to the command issuer, never sent to the
// absent target.
var ErrDeviceNotConnected = errors.New("device not connected")

const (
	// sendBufferSize is the per-peer outbound buffer. Normal updates are
	// dropped when a peer cannot keep up; SOS and ALERT frames block
	// instead (see sendPriority).
	sendBufferSize = 64
	// prioritySendTimeout bounds how long a priority frame may block on a
	// slow peer before the frame is abandoned for that peer.
	prioritySendTimeout = time.Second
)

// peer is one live connection: a device (guide/tourist) or an operator
// console. Mutable fields are guarded by the dispatcher lock.
type peer struct {
	identity    *wspkg.Identity
	conn        *websocket.Conn
	send        chan []byte
	lastFix     *models.Fix
	status      models.DeviceStatus
	connectedAt time.Time
	closed      bool
}

func (p *peer) isDevice() bool {
	return p.identity.Role != string(models.UserTypeOperator)
}

// Dispatcher owns the device directory: who is online, where, in what
// state. All cross-device visibility flows through its broadcasts; no two
// connection handlers ever touch each other's state directly.
type Dispatcher struct {
	mu         sync.RWMutex
	peers      map[string]*peer
	trackingUC tracking.TrackingUC
	manager    *wspkg.Manager
	cfg        *models.Config
}

// NewDispatcher creates the fan-out/command dispatcher.
func NewDispatcher(trackingUC tracking.TrackingUC, manager *wspkg.Manager, cfg *models.Config) *Dispatcher {
	return &Dispatcher{
		peers:      make(map[string]*peer),
		trackingUC: trackingUC,
		manager:    manager,
		cfg:        cfg,
	}
}

// register adds a peer to the directory. A second connection for the same
// user tears down the first: there is never more than one live session per
// device.
func (d *Dispatcher) register(p *peer) {
	d.mu.Lock()
	old, exists := d.peers[p.identity.UserID]
	d.peers[p.identity.UserID] = p
	if exists {
		old.closed = true
		close(old.send)
	}
	d.mu.Unlock()

	if exists {
		logger.Warn("Replacing existing connection for user",
			logger.String("user_id", p.identity.UserID))
		old.conn.Close()
	}
}

// unregister removes a peer and reports whether it was still the current
// session. A peer already replaced by a newer connection for the same user
// is left alone so the replacement is not torn down with it.
func (d *Dispatcher) unregister(p *peer) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	current, exists := d.peers[p.identity.UserID]
	if !exists || current != p {
		return false
	}
	delete(d.peers, p.identity.UserID)
	p.closed = true
	close(p.send)
	return true
}

// writePump serializes all writes to one connection.
func (d *Dispatcher) writePump(p *peer) {
	for msg := range p.send {
		if err := p.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			logger.Warn("Error writing to peer",
				logger.String("user_id", p.identity.UserID),
				logger.Err(err))
			return
		}
	}
}

func marshalFrame(frame interface{}) []byte {
	data, err := json.Marshal(frame)
	if err != nil {
		logger.Error("Error marshaling frame", logger.Err(err))
		return nil
	}
	return data
}

// send enqueues a frame for a peer, dropping it if the peer is falling
// behind. Callers must hold at least a read lock.
func (d *Dispatcher) send(p *peer, data []byte) {
	if p.closed || data == nil {
		return
	}
	select {
	case p.send <- data:
	default:
		logger.Warn("Dropping frame for slow peer",
			logger.String("user_id", p.identity.UserID))
	}
}

// sendPriority enqueues a frame for a peer, blocking briefly rather than
// dropping. Used for SOS and ALERT delivery. Callers must hold at least a
// read lock.
func (d *Dispatcher) sendPriority(p *peer, data []byte) {
	if p.closed || data == nil {
		return
	}
	select {
	case p.send <- data:
	case <-time.After(prioritySendTimeout):
		logger.Error("Timed out delivering priority frame",
			logger.String("user_id", p.identity.UserID))
	}
}

// NotifyUser sends a frame to a single connected user. Returns
// ErrDeviceNotConnected if the user has no live connection.
func (d *Dispatcher) NotifyUser(userID string, frame interface{}) error {
	data := marshalFrame(frame)

	d.mu.RLock()
	defer d.mu.RUnlock()

	p, exists := d.peers[userID]
	if !exists {
		return ErrDeviceNotConnected
	}
	d.send(p, data)
	return nil
}

// NotifyUserPriority is NotifyUser with priority delivery semantics.
func (d *Dispatcher) NotifyUserPriority(userID string, frame interface{}) error {
	data := marshalFrame(frame)

	d.mu.RLock()
	defer d.mu.RUnlock()

	p, exists := d.peers[userID]
	if !exists {
		return ErrDeviceNotConnected
	}
	d.sendPriority(p, data)
	return nil
}

// broadcastUpdate fans a frame out to every operator plus the devices
// sharing the source's tour, skipping the source itself. Updates for one
// source stay ordered because they are enqueued from that source's single
// reader goroutine.
func (d *Dispatcher) broadcastUpdate(sourceID, tourID string, frame interface{}) {
	data := marshalFrame(frame)

	d.mu.RLock()
	defer d.mu.RUnlock()

	for id, p := range d.peers {
		if id == sourceID {
			continue
		}
		if !p.isDevice() {
			d.send(p, data)
			continue
		}
		if tourID != "" && p.lastFix != nil && p.lastFix.TourID == tourID {
			d.send(p, data)
		}
	}
}

// BroadcastToOperators fans a frame out to every operator console with
// priority delivery, independent of normal update batching.
func (d *Dispatcher) BroadcastToOperators(frame interface{}) {
	data := marshalFrame(frame)

	d.mu.RLock()
	defer d.mu.RUnlock()

	for _, p := range d.peers {
		if !p.isDevice() {
			d.sendPriority(p, data)
		}
	}
}

// SendCommand routes an operator command to a device. The dispatcher does
// not interpret command semantics beyond routing, except that ACTIVATE_SOS
// also flips the directory status.
func (d *Dispatcher) SendCommand(targetID, command string, data json.RawMessage) error {
	frame := marshalFrame(models.CommandMessage{
		Type:    models.TypeCommand,
		Command: command,
		Data:    data,
	})

	d.mu.Lock()
	p, exists := d.peers[targetID]
	if !exists || !p.isDevice() {
		d.mu.Unlock()
		return ErrDeviceNotConnected
	}
	if command == constants.CommandActivateSOS {
		p.status = models.StatusSOS
	}
	d.sendPriority(p, frame)
	d.mu.Unlock()

	if command == constants.CommandActivateSOS {
		if err := d.trackingUC.RecordStatus(context.Background(), targetID, models.StatusSOS); err != nil {
			logger.Warn("Failed to persist remotely activated SOS status",
				logger.String("user_id", targetID),
				logger.Err(err))
		}
	}

	return nil
}

// Snapshot returns the directory entries for all connected devices.
func (d *Dispatcher) Snapshot() []models.DeviceSnapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()

	snapshots := make([]models.DeviceSnapshot, 0, len(d.peers))
	for _, p := range d.peers {
		if !p.isDevice() {
			continue
		}
		snapshots = append(snapshots, models.DeviceSnapshot{
			UserID:      p.identity.UserID,
			UserType:    p.identity.Role,
			Status:      string(p.status),
			LastFix:     p.lastFix,
			ConnectedAt: p.connectedAt,
		})
	}
	return snapshots
}

// ConnectedCount returns how many peers are currently connected.
func (d *Dispatcher) ConnectedCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.peers)
}
