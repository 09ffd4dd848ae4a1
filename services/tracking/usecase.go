package tracking

import (
	"context"

	"github.com/safeyatra/safeyatra/internal/pkg/models"
)

//go:generate mockgen -source=usecase.go -destination=mocks/mock_usecase.go -package=mocks

// TrackingUC defines the business logic behind the dispatcher.
type TrackingUC interface {
	// RecordFix validates and persists a device's fix and triggers safety
	// analysis. It returns the device status derived from the fix and the
	// geohash area cell of the position.
	RecordFix(ctx context.Context, userID, userName string, fix models.Fix) (models.DeviceStatus, string, error)

	// RecordSOS persists the SOS state and publishes the alert for the
	// analysis/notification pipeline.
	RecordSOS(ctx context.Context, userID string, sos models.SOSPayload) error

	// RecordStatus persists a status transition for a device.
	RecordStatus(ctx context.Context, userID string, status models.DeviceStatus) error

	// DeviceOffline clears the device's live state after its connection
	// closed.
	DeviceOffline(ctx context.Context, userID string) error

	// LastKnown returns the mirrored fix and status for a device, for
	// seeding a fresh session's directory entry. Zero values mean nothing
	// is mirrored.
	LastKnown(ctx context.Context, userID string) (*models.Fix, models.DeviceStatus)

	// LocationHistory returns the most recent archived fixes for a device.
	LocationHistory(ctx context.Context, userID string, limit int) ([]models.Fix, error)
}
