package queue

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/safeyatra/safeyatra/internal/pkg/models"
)

// ItemKind discriminates what a queued item carries.
type ItemKind string

const (
	KindTrackingPoint ItemKind = "tracking_point"
	KindSOS           ItemKind = "sos"
	KindCheckin       ItemKind = "checkin"
)

// Priority orders items within the queue. High-priority items always drain
// before normal ones.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityNormal Priority = "normal"
)

// QueuedItem is one event awaiting delivery. It is created when a send
// attempt fails or the device is known offline, and removed on confirmed
// server acknowledgment.
type QueuedItem struct {
	ID         string          `json:"id"`
	Kind       ItemKind        `json:"kind"`
	Priority   Priority        `json:"priority"`
	Payload    json.RawMessage `json:"payload"`
	EnqueuedAt time.Time       `json:"enqueued_at"`
	RetryCount int             `json:"retry_count"`
}

// NewTrackingPointItem wraps a fix for queuing.
func NewTrackingPointItem(fix models.Fix) (QueuedItem, error) {
	payload, err := json.Marshal(fix)
	if err != nil {
		return QueuedItem{}, err
	}
	return QueuedItem{
		ID:         uuid.New().String(),
		Kind:       KindTrackingPoint,
		Priority:   PriorityNormal,
		Payload:    payload,
		EnqueuedAt: time.Now(),
	}, nil
}

// NewSOSItem wraps an SOS alert for queuing. SOS is always high priority.
func NewSOSItem(sos models.SOSPayload) (QueuedItem, error) {
	payload, err := json.Marshal(sos)
	if err != nil {
		return QueuedItem{}, err
	}
	return QueuedItem{
		ID:         uuid.New().String(),
		Kind:       KindSOS,
		Priority:   PriorityHigh,
		Payload:    payload,
		EnqueuedAt: time.Now(),
	}, nil
}

// NewCheckinItem wraps a check-in event for queuing.
func NewCheckinItem(checkin models.CheckinPayload) (QueuedItem, error) {
	payload, err := json.Marshal(checkin)
	if err != nil {
		return QueuedItem{}, err
	}
	return QueuedItem{
		ID:         uuid.New().String(),
		Kind:       KindCheckin,
		Priority:   PriorityNormal,
		Payload:    payload,
		EnqueuedAt: time.Now(),
	}, nil
}
