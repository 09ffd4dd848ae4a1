package models

import (
	"encoding/json"
	"time"
)

// Envelope is the minimal frame read off the wire before dispatching on the
// message type. Flat messages (LOCATION, SOS) re-unmarshal the full frame;
// the rest carry their payload under "data".
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// LocationMessage is a device -> server location report.
type LocationMessage struct {
	Type       string    `json:"type"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	Accuracy   *float64  `json:"accuracy,omitempty"`
	Speed      *float64  `json:"speed,omitempty"`
	Heading    *float64  `json:"heading,omitempty"`
	Altitude   *float64  `json:"altitude,omitempty"`
	Battery    *int      `json:"battery,omitempty"`
	UserName   string    `json:"user_name"`
	TourID     string    `json:"tour_id,omitempty"`
	CapturedAt time.Time `json:"captured_at"`
}

// Fix converts the wire message back into the domain reading.
func (m *LocationMessage) Fix() Fix {
	return Fix{
		Latitude:   m.Latitude,
		Longitude:  m.Longitude,
		Accuracy:   m.Accuracy,
		Speed:      m.Speed,
		Heading:    m.Heading,
		Altitude:   m.Altitude,
		Battery:    m.Battery,
		CapturedAt: m.CapturedAt,
		TourID:     m.TourID,
	}
}

// NewLocationMessage builds the wire frame for a fix.
func NewLocationMessage(fix Fix, userName string) LocationMessage {
	return LocationMessage{
		Type:       TypeLocation,
		Latitude:   fix.Latitude,
		Longitude:  fix.Longitude,
		Accuracy:   fix.Accuracy,
		Speed:      fix.Speed,
		Heading:    fix.Heading,
		Altitude:   fix.Altitude,
		Battery:    fix.Battery,
		UserName:   userName,
		TourID:     fix.TourID,
		CapturedAt: fix.CapturedAt,
	}
}

// SOSMessage is a device -> server SOS alert.
type SOSMessage struct {
	Type      string  `json:"type"`
	Message   string  `json:"message"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	UserName  string  `json:"user_name"`
}

// CheckinMessage is a device -> server checkpoint report.
type CheckinMessage struct {
	Type      string    `json:"type"`
	TourID    string    `json:"tour_id,omitempty"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Note      string    `json:"note,omitempty"`
	CheckedAt time.Time `json:"checked_at"`
}

// PingMessage keeps the connection alive through intermediary timeouts.
// It expects no business-logic response.
type PingMessage struct {
	Type string `json:"type"`
}

// AckMessage is the server -> device acknowledgment, optionally carrying a
// safety-analysis result for the acknowledged fix.
type AckMessage struct {
	Type      string          `json:"type"`
	Timestamp *time.Time      `json:"timestamp,omitempty"`
	Analysis  *SafetyAnalysis `json:"analysis,omitempty"`
}

// CommandMessage is a server -> device instruction. Command semantics are
// opaque to the dispatcher; it only routes them.
type CommandMessage struct {
	Type    string          `json:"type"`
	Command string          `json:"command"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// ChatPayload is the payload of a MESSAGE frame.
type ChatPayload struct {
	From string `json:"from"`
	Text string `json:"text"`
}

// AlertPayload is the payload of an ALERT frame.
type AlertPayload struct {
	Title    string          `json:"title"`
	Severity string          `json:"severity,omitempty"`
	Body     json.RawMessage `json:"body,omitempty"`
}

// DeviceSnapshot is one directory entry as seen by observers, sent in
// INITIAL_STATE frames and directory listings.
type DeviceSnapshot struct {
	UserID      string    `json:"user_id"`
	UserType    string    `json:"user_type"`
	Status      string    `json:"status"`
	LastFix     *Fix      `json:"last_fix,omitempty"`
	ConnectedAt time.Time `json:"connected_at"`
}

// InitialStatePayload is the directory snapshot pushed to a peer right
// after it connects.
type InitialStatePayload struct {
	Devices []DeviceSnapshot `json:"devices"`
}

// LocationUpdatePayload is broadcast to observers when a device reports.
type LocationUpdatePayload struct {
	UserID   string `json:"user_id"`
	UserType string `json:"user_type"`
	Status   string `json:"status"`
	Area     string `json:"area,omitempty"` // geohash cell of the fix
	Fix      Fix    `json:"fix"`
}

// ErrorPayload is the payload of an ERROR frame.
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// DataMessage wraps a typed frame whose payload lives under "data".
type DataMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// Message type discriminators, shared by both ends of the wire.
const (
	// Device -> server
	TypeLocation = "LOCATION"
	TypeSOS      = "SOS"
	TypeCheckin  = "CHECKIN"
	TypePing     = "PING"

	// Server -> device
	TypeAck            = "ACK"
	TypeCommand        = "COMMAND"
	TypeMessage        = "MESSAGE"
	TypeAlert          = "ALERT"
	TypeGroupUpdate    = "GROUP_UPDATE"
	TypeLocationUpdate = "LOCATION_UPDATE"
	TypeInitialState   = "INITIAL_STATE"
	TypeError          = "ERROR"
)
