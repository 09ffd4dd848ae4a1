package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/safeyatra/safeyatra/internal/pkg/logger"
	"github.com/safeyatra/safeyatra/internal/pkg/models"
)

// DefaultSOSMaxAttempts bounds SOS retries so a stale alert is not retried
// forever while invisible to operators.
const DefaultSOSMaxAttempts = 3

// Uploader delivers queued items to the server. The transport implements
// it over its live connection.
type Uploader interface {
	// SendTrackingBatch delivers all pending fixes in one upload.
	SendTrackingBatch(ctx context.Context, fixes []models.Fix) error
	// SendSOS delivers one SOS alert. SOS is never batched; each alert is
	// operator-visible and must be independently acknowledged.
	SendSOS(ctx context.Context, sos models.SOSPayload) error
	// SendCheckin delivers one check-in event.
	SendCheckin(ctx context.Context, checkin models.CheckinPayload) error
}

// DrainResult reports what one drain pass accomplished.
type DrainResult struct {
	Synced int `json:"synced"`
	Failed int `json:"failed"`
}

// Counts breaks down pending items by kind.
type Counts struct {
	Tracking int `json:"tracking"`
	SOS      int `json:"sos"`
	Checkin  int `json:"checkin"`
	Total    int `json:"total"`
}

// Status is a point-in-time view of the queue.
type Status struct {
	Pending int  `json:"pending"`
	Online  bool `json:"online"`
	Syncing bool `json:"syncing"`
}

// Queue buffers tracking points, SOS alerts and check-ins while the device
// is offline, and drains them when connectivity returns. Every enqueue and
// removal is persisted through the Store.
type Queue struct {
	mu             sync.Mutex
	items          []QueuedItem
	store          Store
	uploader       Uploader
	sosMaxAttempts int
	online         bool
	syncing        bool
}

// Option configures a Queue.
type Option func(*Queue)

// WithSOSMaxAttempts overrides the SOS retry ceiling.
func WithSOSMaxAttempts(n int) Option {
	return func(q *Queue) {
		if n > 0 {
			q.sosMaxAttempts = n
		}
	}
}

// New creates a queue, restoring any items the store persisted before a
// restart.
func New(store Store, uploader Uploader, opts ...Option) (*Queue, error) {
	items, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to restore queue: %w", err)
	}

	q := &Queue{
		items:          items,
		store:          store,
		uploader:       uploader,
		sosMaxAttempts: DefaultSOSMaxAttempts,
	}
	for _, opt := range opts {
		opt(q)
	}
	return q, nil
}

// SetOnline records the connectivity state reported by the transport. It
// is the only writer of the flag; a drain never changes it.
func (q *Queue) SetOnline(online bool) {
	q.mu.Lock()
	q.online = online
	q.mu.Unlock()
}

// Enqueue appends an item and persists the queue. A persistence failure is
// logged, not returned: the item stays in memory and the next successful
// save will include it.
func (q *Queue) Enqueue(item QueuedItem) {
	q.mu.Lock()
	q.items = append(q.items, item)
	q.persistLocked()
	q.mu.Unlock()
}

// AddTrackingPoint queues a fix for later delivery.
func (q *Queue) AddTrackingPoint(fix models.Fix) error {
	item, err := NewTrackingPointItem(fix)
	if err != nil {
		return fmt.Errorf("failed to queue tracking point: %w", err)
	}
	q.Enqueue(item)
	return nil
}

// AddSOSAlert queues an SOS alert for later delivery.
func (q *Queue) AddSOSAlert(sos models.SOSPayload) error {
	item, err := NewSOSItem(sos)
	if err != nil {
		return fmt.Errorf("failed to queue SOS alert: %w", err)
	}
	q.Enqueue(item)
	return nil
}

// AddCheckin queues a check-in event for later delivery.
func (q *Queue) AddCheckin(checkin models.CheckinPayload) error {
	item, err := NewCheckinItem(checkin)
	if err != nil {
		return fmt.Errorf("failed to queue check-in: %w", err)
	}
	q.Enqueue(item)
	return nil
}

// PendingCount returns how many items await delivery, broken down by kind.
func (q *Queue) PendingCount() Counts {
	q.mu.Lock()
	defer q.mu.Unlock()

	var counts Counts
	for _, item := range q.items {
		switch item.Kind {
		case KindTrackingPoint:
			counts.Tracking++
		case KindSOS:
			counts.SOS++
		case KindCheckin:
			counts.Checkin++
		}
	}
	counts.Total = len(q.items)
	return counts
}

// Status returns the queue length plus connectivity and sync-in-progress
// flags.
func (q *Queue) Status() Status {
	q.mu.Lock()
	defer q.mu.Unlock()
	return Status{
		Pending: len(q.items),
		Online:  q.online,
		Syncing: q.syncing,
	}
}

// SyncQueue drains the queue assuming connectivity is up.
func (q *Queue) SyncQueue(ctx context.Context) DrainResult {
	return q.Drain(ctx, true)
}

// Drain flushes pending items to the uploader. High-priority items go
// first; within a priority level, oldest first. SOS alerts are sent
// individually and dropped after the retry ceiling; check-ins are sent
// individually with no ceiling; tracking points go as one batch whose
// failure leaves the whole batch queued.
//
// Only one drain runs at a time. A drain issued while another is in flight
// returns zero counts without touching the network, so the same batch is
// never double-sent.
func (q *Queue) Drain(ctx context.Context, networkIsUp bool) DrainResult {
	q.mu.Lock()
	if !networkIsUp || q.syncing || len(q.items) == 0 {
		q.mu.Unlock()
		return DrainResult{}
	}
	q.syncing = true
	pending := q.sortedPendingLocked()
	q.mu.Unlock()

	defer func() {
		q.mu.Lock()
		q.syncing = false
		q.mu.Unlock()
	}()

	var result DrainResult
	var batch []QueuedItem

	for _, item := range pending {
		switch item.Kind {
		case KindSOS:
			q.drainSOS(ctx, item, &result)
		case KindCheckin:
			q.drainCheckin(ctx, item, &result)
		case KindTrackingPoint:
			batch = append(batch, item)
		default:
			logger.Warn("Dropping queued item of unknown kind",
				logger.String("kind", string(item.Kind)))
			q.remove(item.ID)
		}
	}

	q.drainTrackingBatch(ctx, batch, &result)
	return result
}

func (q *Queue) drainSOS(ctx context.Context, item QueuedItem, result *DrainResult) {
	var sos models.SOSPayload
	if err := json.Unmarshal(item.Payload, &sos); err != nil {
		logger.Error("Dropping undecodable SOS item", logger.Err(err))
		q.remove(item.ID)
		return
	}

	if err := q.uploader.SendSOS(ctx, sos); err != nil {
		result.Failed++
		attempts := q.incrementRetry(item.ID)
		if attempts >= q.sosMaxAttempts {
			logger.Error("Dropping SOS alert after exhausting retries",
				logger.String("item_id", item.ID),
				logger.Int("attempts", attempts))
			q.remove(item.ID)
		}
		return
	}

	result.Synced++
	q.remove(item.ID)
}

func (q *Queue) drainCheckin(ctx context.Context, item QueuedItem, result *DrainResult) {
	var checkin models.CheckinPayload
	if err := json.Unmarshal(item.Payload, &checkin); err != nil {
		logger.Error("Dropping undecodable check-in item", logger.Err(err))
		q.remove(item.ID)
		return
	}

	if err := q.uploader.SendCheckin(ctx, checkin); err != nil {
		result.Failed++
		return
	}

	result.Synced++
	q.remove(item.ID)
}

func (q *Queue) drainTrackingBatch(ctx context.Context, batch []QueuedItem, result *DrainResult) {
	if len(batch) == 0 {
		return
	}

	fixes := make([]models.Fix, 0, len(batch))
	ids := make([]string, 0, len(batch))
	for _, item := range batch {
		var fix models.Fix
		if err := json.Unmarshal(item.Payload, &fix); err != nil {
			logger.Error("Dropping undecodable tracking point", logger.Err(err))
			q.remove(item.ID)
			continue
		}
		fixes = append(fixes, fix)
		ids = append(ids, item.ID)
	}
	if len(fixes) == 0 {
		return
	}

	if err := q.uploader.SendTrackingBatch(ctx, fixes); err != nil {
		logger.Warn("Tracking batch upload failed, leaving batch queued",
			logger.Int("size", len(fixes)),
			logger.Err(err))
		result.Failed += len(fixes)
		return
	}

	for _, id := range ids {
		q.remove(id)
	}
	result.Synced += len(fixes)
}

// sortedPendingLocked returns a snapshot ordered priority-high-first, then
// oldest-first within a priority level.
func (q *Queue) sortedPendingLocked() []QueuedItem {
	pending := make([]QueuedItem, len(q.items))
	copy(pending, q.items)

	sort.SliceStable(pending, func(i, j int) bool {
		if pending[i].Priority != pending[j].Priority {
			return pending[i].Priority == PriorityHigh
		}
		return pending[i].EnqueuedAt.Before(pending[j].EnqueuedAt)
	})
	return pending
}

func (q *Queue) remove(id string) {
	q.mu.Lock()
	for i, item := range q.items {
		if item.ID == id {
			q.items = append(q.items[:i], q.items[i+1:]...)
			break
		}
	}
	q.persistLocked()
	q.mu.Unlock()
}

func (q *Queue) incrementRetry(id string) int {
	q.mu.Lock()
	defer q.mu.Unlock()

	for i := range q.items {
		if q.items[i].ID == id {
			q.items[i].RetryCount++
			q.persistLocked()
			return q.items[i].RetryCount
		}
	}
	return 0
}

func (q *Queue) persistLocked() {
	if err := q.store.Save(q.items); err != nil {
		logger.Error("Failed to persist offline queue", logger.Err(err))
	}
}
