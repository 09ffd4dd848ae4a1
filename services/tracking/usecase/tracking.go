package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/safeyatra/safeyatra/internal/pkg/logger"
	"github.com/safeyatra/safeyatra/internal/pkg/models"
	"github.com/safeyatra/safeyatra/internal/utils"
	"github.com/safeyatra/safeyatra/services/tracking"
)

var (
	// ErrInvalidCoordinates is returned when a fix carries out-of-range
	// latitude or longitude.
	ErrInvalidCoordinates = errors.New("invalid coordinates")
	// ErrInvalidSpeed is returned when a fix carries a negative speed.
	ErrInvalidSpeed = errors.New("speed must be non-negative")
)

// TrackingUC implements the tracking.TrackingUC interface
type TrackingUC struct {
	repo    tracking.TrackingRepo
	history tracking.HistoryRepo
	gw      tracking.TrackingGW
	cfg     *models.Config
}

// NewTrackingUC creates a new tracking use case
func NewTrackingUC(repo tracking.TrackingRepo, history tracking.HistoryRepo, gw tracking.TrackingGW, cfg *models.Config) *TrackingUC {
	return &TrackingUC{
		repo:    repo,
		history: history,
		gw:      gw,
		cfg:     cfg,
	}
}

// RecordFix validates a fix, mirrors it to the stores, archives it and
// requests safety analysis. Every collaborator is best-effort: only
// validation can fail the call, so the live broadcast path never blacks
// out on a store outage.
func (uc *TrackingUC) RecordFix(ctx context.Context, userID, userName string, fix models.Fix) (models.DeviceStatus, string, error) {
	if err := validateFix(fix); err != nil {
		return "", "", err
	}

	if fix.CapturedAt.IsZero() {
		fix.CapturedAt = time.Now()
	}

	status := models.StatusActive
	if fix.Battery != nil && *fix.Battery <= uc.cfg.Tracking.LowBatteryThreshold {
		status = models.StatusLowBattery
	}

	// Redis mirrors the dispatcher directory for other services; the live
	// broadcast path must not depend on it.
	if err := uc.repo.StoreLastFix(ctx, userID, fix); err != nil {
		logger.Warn("Failed to mirror last fix",
			logger.String("user_id", userID),
			logger.Err(err))
	}
	if err := uc.repo.SetDeviceStatus(ctx, userID, status); err != nil {
		logger.Warn("Failed to mirror device status",
			logger.String("user_id", userID),
			logger.Err(err))
	}

	area := utils.EncodeArea(fix.Latitude, fix.Longitude)

	go uc.archiveFix(userID, area, fix)

	if err := uc.gw.PublishLocationAnalyze(ctx, &models.AnalyzeRequest{
		UserID:   userID,
		UserName: userName,
		Area:     area,
		Fix:      fix,
	}); err != nil {
		logger.Warn("Failed to publish fix for analysis",
			logger.String("user_id", userID),
			logger.Err(err))
	}

	return status, area, nil
}

// archiveFix appends the fix to the history archive with its own deadline,
// detached from the connection handler.
func (uc *TrackingUC) archiveFix(userID, area string, fix models.Fix) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := uc.history.AppendFix(ctx, userID, area, fix); err != nil {
		logger.Warn("Failed to archive fix",
			logger.String("user_id", userID),
			logger.Err(err))
	}
}

// RecordSOS marks the device as in SOS state and publishes the alert.
func (uc *TrackingUC) RecordSOS(ctx context.Context, userID string, sos models.SOSPayload) error {
	if err := uc.repo.SetDeviceStatus(ctx, userID, models.StatusSOS); err != nil {
		return err
	}

	if sos.RaisedAt.IsZero() {
		sos.RaisedAt = time.Now()
	}

	return uc.gw.PublishSOS(ctx, &models.SOSEvent{
		UserID:    userID,
		UserName:  sos.UserName,
		Message:   sos.Message,
		Latitude:  sos.Latitude,
		Longitude: sos.Longitude,
		RaisedAt:  sos.RaisedAt,
	})
}

// RecordStatus persists a status transition for a device.
func (uc *TrackingUC) RecordStatus(ctx context.Context, userID string, status models.DeviceStatus) error {
	return uc.repo.SetDeviceStatus(ctx, userID, status)
}

// DeviceOffline clears live state for a disconnected device and notifies
// the platform. The directory entry itself is owned by the dispatcher;
// offline is inferred from its absence, not persisted as a flag.
func (uc *TrackingUC) DeviceOffline(ctx context.Context, userID string) error {
	if err := uc.repo.RemoveDevice(ctx, userID); err != nil {
		return err
	}

	if err := uc.gw.PublishDeviceOffline(ctx, &models.OfflineEvent{
		UserID: userID,
		At:     time.Now(),
	}); err != nil {
		logger.Warn("Failed to publish device offline event",
			logger.String("user_id", userID),
			logger.Err(err))
	}

	return nil
}

// LastKnown returns the mirrored fix and status for a device, used to
// seed the directory entry of a fresh session. Nothing mirrored is not an
// error; the caller gets zero values.
func (uc *TrackingUC) LastKnown(ctx context.Context, userID string) (*models.Fix, models.DeviceStatus) {
	fix, err := uc.repo.GetLastFix(ctx, userID)
	if err != nil {
		fix = nil
	}
	status, err := uc.repo.GetDeviceStatus(ctx, userID)
	if err != nil {
		status = ""
	}
	return fix, status
}

// LocationHistory returns the most recent archived fixes for a device.
func (uc *TrackingUC) LocationHistory(ctx context.Context, userID string, limit int) ([]models.Fix, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return uc.history.RecentFixes(ctx, userID, limit)
}

func validateFix(fix models.Fix) error {
	if fix.Latitude < -90 || fix.Latitude > 90 || fix.Longitude < -180 || fix.Longitude > 180 {
		return ErrInvalidCoordinates
	}
	if fix.Speed != nil && *fix.Speed < 0 {
		return ErrInvalidSpeed
	}
	return nil
}
