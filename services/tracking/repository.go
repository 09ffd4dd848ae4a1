package tracking

import (
	"context"

	"github.com/safeyatra/safeyatra/internal/pkg/models"
)

//go:generate mockgen -source=repository.go -destination=mocks/mock_repository.go -package=mocks

// TrackingRepo defines data access for live device state.
type TrackingRepo interface {
	StoreLastFix(ctx context.Context, userID string, fix models.Fix) error
	GetLastFix(ctx context.Context, userID string) (*models.Fix, error)
	SetDeviceStatus(ctx context.Context, userID string, status models.DeviceStatus) error
	GetDeviceStatus(ctx context.Context, userID string) (models.DeviceStatus, error)
	RemoveDevice(ctx context.Context, userID string) error
}

// HistoryRepo defines the append-only fix archive read by the operations
// dashboard.
type HistoryRepo interface {
	AppendFix(ctx context.Context, userID, area string, fix models.Fix) error
	RecentFixes(ctx context.Context, userID string, limit int) ([]models.Fix, error)
}
