package models

import "time"

// Fix represents a single GPS reading from a device.
//
// CapturedAt is set at capture time, never at send time, so fixes buffered
// offline remain chronologically meaningful after a delayed upload.
type Fix struct {
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	Accuracy   *float64  `json:"accuracy,omitempty"` // meters
	Speed      *float64  `json:"speed,omitempty"`    // km/h, non-negative
	Heading    *float64  `json:"heading,omitempty"`  // degrees 0-360
	Altitude   *float64  `json:"altitude,omitempty"` // meters
	Battery    *int      `json:"battery,omitempty"`  // 0-100
	CapturedAt time.Time `json:"captured_at"`
	TourID     string    `json:"tour_id,omitempty"`
}

// SOSPayload carries an SOS alert raised from a device.
type SOSPayload struct {
	Message   string    `json:"message"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	UserName  string    `json:"user_name"`
	RaisedAt  time.Time `json:"raised_at"`
}

// CheckinPayload marks a device passing a known waypoint or checkpoint.
type CheckinPayload struct {
	TourID    string    `json:"tour_id,omitempty"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Note      string    `json:"note,omitempty"`
	CheckedAt time.Time `json:"checked_at"`
}

// SafetyAnalysis is the result produced by the external analysis service
// for a single fix.
type SafetyAnalysis struct {
	RiskScore       float64  `json:"risk_score"`
	RiskLevel       string   `json:"risk_level"`
	Terrain         string   `json:"terrain"`
	AlertsTriggered []string `json:"alerts_triggered"`
}
