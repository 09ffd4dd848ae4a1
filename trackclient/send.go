package trackclient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/safeyatra/safeyatra/internal/pkg/logger"
	"github.com/safeyatra/safeyatra/internal/pkg/models"
)

// SendNow captures one fresh fix and transmits it immediately if
// connected, otherwise hands it to the offline queue. A transient send
// failure is recovered by queuing, not returned.
func (t *Transport) SendNow(ctx context.Context) error {
	fix, err := t.source.Current(ctx)
	if err != nil {
		if errors.Is(err, ErrPermissionDenied) {
			return ErrPermissionDenied
		}
		return fmt.Errorf("failed to capture fix: %w", err)
	}
	t.sendFix(ctx, fix)
	return nil
}

// sendFix decorates a fix with battery level and tour correlation, then
// sends or queues it.
func (t *Transport) sendFix(ctx context.Context, fix models.Fix) {
	// Battery is best-effort. A read failure substitutes an absent value
	// and never blocks the location send.
	if t.battery != nil && fix.Battery == nil {
		if level, err := t.battery.Level(ctx); err == nil {
			fix.Battery = &level
		} else {
			logger.Debug("Battery read failed", logger.Err(err))
		}
	}
	if fix.TourID == "" {
		fix.TourID = t.cfg.TourID
	}
	if fix.CapturedAt.IsZero() {
		fix.CapturedAt = time.Now()
	}

	if err := t.writeFrame(models.NewLocationMessage(fix, t.cfg.UserName)); err != nil {
		logger.Debug("Buffering fix for later delivery", logger.Err(err))
		if qerr := t.queue.AddTrackingPoint(fix); qerr != nil {
			logger.Error("Failed to buffer fix", logger.Err(qerr))
		}
	}
}

// SendSOS captures the current location and transmits an SOS alert with
// highest priority, bypassing the periodic-sample path. On transport
// failure the alert goes to the queue as a high-priority item.
func (t *Transport) SendSOS(ctx context.Context, message string) error {
	sos := models.SOSPayload{
		Message:  message,
		UserName: t.cfg.UserName,
		RaisedAt: time.Now(),
	}

	// A failed capture must not suppress the alert; operators would
	// rather see an SOS without coordinates than none at all.
	if fix, err := t.source.Current(ctx); err == nil {
		sos.Latitude = fix.Latitude
		sos.Longitude = fix.Longitude
	} else {
		logger.Warn("SOS raised without location", logger.Err(err))
	}

	err := t.writeFrame(models.SOSMessage{
		Type:      models.TypeSOS,
		Message:   sos.Message,
		Latitude:  sos.Latitude,
		Longitude: sos.Longitude,
		UserName:  sos.UserName,
	})
	if err != nil {
		logger.Warn("Buffering SOS for later delivery", logger.Err(err))
		return t.queue.AddSOSAlert(sos)
	}
	return nil
}

// SendCheckin reports a checkpoint pass, queuing it when offline.
func (t *Transport) SendCheckin(ctx context.Context, checkin models.CheckinPayload) error {
	if checkin.TourID == "" {
		checkin.TourID = t.cfg.TourID
	}
	if checkin.CheckedAt.IsZero() {
		checkin.CheckedAt = time.Now()
	}

	err := t.writeFrame(models.CheckinMessage{
		Type:      models.TypeCheckin,
		TourID:    checkin.TourID,
		Latitude:  checkin.Latitude,
		Longitude: checkin.Longitude,
		Note:      checkin.Note,
		CheckedAt: checkin.CheckedAt,
	})
	if err != nil {
		return t.queue.AddCheckin(checkin)
	}
	return nil
}

// writeFrame serializes one outbound frame onto the live connection.
func (t *Transport) writeFrame(frame interface{}) error {
	t.mu.Lock()
	conn := t.conn
	connected := t.state == StateConnected
	t.mu.Unlock()

	if !connected || conn == nil {
		return errNotConnected
	}

	t.writeMu.Lock()
	defer t.writeMu.Unlock()
	return conn.WriteJSON(frame)
}

// wireUploader drains the offline queue over the live connection.
type wireUploader struct {
	t *Transport
}

// SendTrackingBatch replays buffered fixes in order. The wire protocol has
// no batch frame, so the batch is a sequence of LOCATION frames; the first
// write failure fails the whole batch and leaves it queued.
func (u *wireUploader) SendTrackingBatch(ctx context.Context, fixes []models.Fix) error {
	for _, fix := range fixes {
		if err := u.t.writeFrame(models.NewLocationMessage(fix, u.t.cfg.UserName)); err != nil {
			return err
		}
	}
	return nil
}

func (u *wireUploader) SendSOS(ctx context.Context, sos models.SOSPayload) error {
	return u.t.writeFrame(models.SOSMessage{
		Type:      models.TypeSOS,
		Message:   sos.Message,
		Latitude:  sos.Latitude,
		Longitude: sos.Longitude,
		UserName:  sos.UserName,
	})
}

func (u *wireUploader) SendCheckin(ctx context.Context, checkin models.CheckinPayload) error {
	return u.t.writeFrame(models.CheckinMessage{
		Type:      models.TypeCheckin,
		TourID:    checkin.TourID,
		Latitude:  checkin.Latitude,
		Longitude: checkin.Longitude,
		Note:      checkin.Note,
		CheckedAt: checkin.CheckedAt,
	})
}
