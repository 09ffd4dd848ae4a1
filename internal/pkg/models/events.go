package models

import "time"

// AnalyzeRequest asks the external safety-analysis service to score a fix.
type AnalyzeRequest struct {
	UserID   string `json:"user_id"`
	UserName string `json:"user_name"`
	Area     string `json:"area"` // geohash cell of the fix
	Fix      Fix    `json:"fix"`
}

// SOSEvent is published when a device raises an SOS.
type SOSEvent struct {
	UserID    string    `json:"user_id"`
	UserName  string    `json:"user_name"`
	Message   string    `json:"message"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	RaisedAt  time.Time `json:"raised_at"`
}

// AnalysisResult is consumed from the safety-analysis service and fanned
// back to the originating device.
type AnalysisResult struct {
	UserID   string         `json:"user_id"`
	Analysis SafetyAnalysis `json:"analysis"`
}

// OfflineEvent is published when a device's connection closes.
type OfflineEvent struct {
	UserID string    `json:"user_id"`
	At     time.Time `json:"at"`
}
