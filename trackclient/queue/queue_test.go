package queue

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safeyatra/safeyatra/internal/pkg/models"
)

// fakeUploader records delivery order and can be told to fail.
type fakeUploader struct {
	mu          sync.Mutex
	calls       []string
	batches     [][]models.Fix
	sosErr      error
	batchErr    error
	checkinErr  error
	sendStarted chan struct{}
	sendRelease chan struct{}
}

func (f *fakeUploader) SendTrackingBatch(ctx context.Context, fixes []models.Fix) error {
	f.mu.Lock()
	f.calls = append(f.calls, "batch")
	f.batches = append(f.batches, fixes)
	f.mu.Unlock()
	if f.sendStarted != nil {
		f.sendStarted <- struct{}{}
		<-f.sendRelease
	}
	return f.batchErr
}

func (f *fakeUploader) SendSOS(ctx context.Context, sos models.SOSPayload) error {
	f.mu.Lock()
	f.calls = append(f.calls, "sos")
	f.mu.Unlock()
	return f.sosErr
}

func (f *fakeUploader) SendCheckin(ctx context.Context, checkin models.CheckinPayload) error {
	f.mu.Lock()
	f.calls = append(f.calls, "checkin")
	f.mu.Unlock()
	return f.checkinErr
}

func (f *fakeUploader) callOrder() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	copy(out, f.calls)
	return out
}

type memStore struct {
	mu    sync.Mutex
	items []QueuedItem
}

func (s *memStore) Load() ([]QueuedItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]QueuedItem, len(s.items))
	copy(out, s.items)
	return out, nil
}

func (s *memStore) Save(items []QueuedItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = make([]QueuedItem, len(items))
	copy(s.items, items)
	return nil
}

func newTestQueue(t *testing.T, uploader Uploader, opts ...Option) *Queue {
	t.Helper()
	q, err := New(&memStore{}, uploader, opts...)
	require.NoError(t, err)
	return q
}

func testFix(lat, lng float64) models.Fix {
	return models.Fix{
		Latitude:   lat,
		Longitude:  lng,
		CapturedAt: time.Now(),
	}
}

func TestDrain_SOSBeforeTrackingBatch(t *testing.T) {
	uploader := &fakeUploader{}
	q := newTestQueue(t, uploader)

	// Insert tracking points before the SOS to prove ordering comes from
	// priority, not insertion order.
	require.NoError(t, q.AddTrackingPoint(testFix(27.7, 85.3)))
	require.NoError(t, q.AddTrackingPoint(testFix(27.8, 85.4)))
	require.NoError(t, q.AddTrackingPoint(testFix(27.9, 85.5)))
	require.NoError(t, q.AddSOSAlert(models.SOSPayload{Message: "help", Latitude: 27.7, Longitude: 85.3}))

	result := q.Drain(context.Background(), true)

	assert.Equal(t, 4, result.Synced)
	assert.Equal(t, 0, result.Failed)
	assert.Equal(t, []string{"sos", "batch"}, uploader.callOrder())
	assert.Equal(t, 0, q.PendingCount().Total)
}

func TestDrain_FIFOWithinPriority(t *testing.T) {
	uploader := &fakeUploader{}
	q := newTestQueue(t, uploader)

	first := testFix(27.1, 85.1)
	second := testFix(27.2, 85.2)
	require.NoError(t, q.AddTrackingPoint(first))
	require.NoError(t, q.AddTrackingPoint(second))

	q.Drain(context.Background(), true)

	require.Len(t, uploader.batches, 1)
	batch := uploader.batches[0]
	require.Len(t, batch, 2)
	assert.Equal(t, first.Latitude, batch[0].Latitude)
	assert.Equal(t, second.Latitude, batch[1].Latitude)
}

func TestDrain_OfflineIsNoop(t *testing.T) {
	uploader := &fakeUploader{}
	q := newTestQueue(t, uploader)

	require.NoError(t, q.AddTrackingPoint(testFix(27.7, 85.3)))

	result := q.Drain(context.Background(), false)

	assert.Equal(t, DrainResult{}, result)
	assert.Empty(t, uploader.callOrder())
	assert.Equal(t, 1, q.PendingCount().Total)
}

func TestDrain_SingleFlight(t *testing.T) {
	uploader := &fakeUploader{
		sendStarted: make(chan struct{}),
		sendRelease: make(chan struct{}),
	}
	q := newTestQueue(t, uploader)
	require.NoError(t, q.AddTrackingPoint(testFix(27.7, 85.3)))

	firstDone := make(chan DrainResult)
	go func() {
		firstDone <- q.Drain(context.Background(), true)
	}()

	// Wait until the first drain is mid-upload, then issue a second.
	<-uploader.sendStarted
	second := q.Drain(context.Background(), true)
	assert.Equal(t, DrainResult{}, second)

	close(uploader.sendRelease)
	first := <-firstDone
	assert.Equal(t, 1, first.Synced)

	// Exactly one network send happened.
	assert.Equal(t, []string{"batch"}, uploader.callOrder())
}

func TestDrain_SOSRetryCeiling(t *testing.T) {
	uploader := &fakeUploader{sosErr: errors.New("send failed")}
	q := newTestQueue(t, uploader)
	require.NoError(t, q.AddSOSAlert(models.SOSPayload{Message: "help"}))

	for i := 0; i < 3; i++ {
		result := q.Drain(context.Background(), true)
		assert.Equal(t, 1, result.Failed)
	}

	// Dropped after the third failed attempt; a fourth drain sends nothing.
	assert.Equal(t, 0, q.PendingCount().SOS)
	result := q.Drain(context.Background(), true)
	assert.Equal(t, DrainResult{}, result)
	assert.Equal(t, []string{"sos", "sos", "sos"}, uploader.callOrder())
}

func TestDrain_BatchFailureLeavesItemsQueued(t *testing.T) {
	uploader := &fakeUploader{batchErr: errors.New("upload failed")}
	q := newTestQueue(t, uploader)

	require.NoError(t, q.AddTrackingPoint(testFix(27.7, 85.3)))
	require.NoError(t, q.AddTrackingPoint(testFix(27.8, 85.4)))

	result := q.Drain(context.Background(), true)

	assert.Equal(t, 0, result.Synced)
	assert.Equal(t, 2, result.Failed)
	assert.Equal(t, 2, q.PendingCount().Tracking)
}

func TestDrain_CheckinsAfterSOSBeforeBatch(t *testing.T) {
	uploader := &fakeUploader{}
	q := newTestQueue(t, uploader)

	require.NoError(t, q.AddTrackingPoint(testFix(27.7, 85.3)))
	require.NoError(t, q.AddCheckin(models.CheckinPayload{TourID: "tour-1"}))
	require.NoError(t, q.AddSOSAlert(models.SOSPayload{Message: "help"}))

	result := q.Drain(context.Background(), true)

	assert.Equal(t, 3, result.Synced)
	assert.Equal(t, []string{"sos", "checkin", "batch"}, uploader.callOrder())
}

func TestQueue_SurvivesRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "queue.json")
	store, err := NewFileStore(path)
	require.NoError(t, err)

	q, err := New(store, &fakeUploader{})
	require.NoError(t, err)
	require.NoError(t, q.AddTrackingPoint(testFix(27.7, 85.3)))
	require.NoError(t, q.AddSOSAlert(models.SOSPayload{Message: "help"}))

	// Simulate a process restart by building a fresh queue off the same
	// file.
	restored, err := New(store, &fakeUploader{})
	require.NoError(t, err)

	counts := restored.PendingCount()
	assert.Equal(t, 1, counts.Tracking)
	assert.Equal(t, 1, counts.SOS)
	assert.Equal(t, 2, counts.Total)
}

func TestQueue_StatusFlags(t *testing.T) {
	q := newTestQueue(t, &fakeUploader{})
	require.NoError(t, q.AddTrackingPoint(testFix(27.7, 85.3)))

	status := q.Status()
	assert.Equal(t, 1, status.Pending)
	assert.False(t, status.Online)
	assert.False(t, status.Syncing)

	q.SetOnline(true)
	assert.True(t, q.Status().Online)
}

func TestSyncQueue_DoesNotFlipOnlineFlag(t *testing.T) {
	uploader := &fakeUploader{}
	q := newTestQueue(t, uploader)
	require.NoError(t, q.AddTrackingPoint(testFix(27.7, 85.3)))

	// SyncQueue asserts connectivity for the drain itself; only SetOnline
	// owns the reported flag.
	result := q.SyncQueue(context.Background())

	assert.Equal(t, 1, result.Synced)
	assert.False(t, q.Status().Online)
}

func TestFileStore_AtomicRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "queue.json")
	store, err := NewFileStore(path)
	require.NoError(t, err)

	// Missing file reads as empty.
	items, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, items)

	item, err := NewSOSItem(models.SOSPayload{Message: "help"})
	require.NoError(t, err)
	require.NoError(t, store.Save([]QueuedItem{item}))

	loaded, err := store.Load()
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, item.ID, loaded[0].ID)
	assert.Equal(t, KindSOS, loaded[0].Kind)
	assert.Equal(t, PriorityHigh, loaded[0].Priority)

	// No temp file left behind.
	_, err = store.Load()
	require.NoError(t, err)
	assert.NoFileExists(t, path+".tmp")
}
