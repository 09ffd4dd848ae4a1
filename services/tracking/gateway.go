package tracking

import (
	"context"

	"github.com/safeyatra/safeyatra/internal/pkg/models"
)

//go:generate mockgen -source=gateway.go -destination=mocks/mock_gateway.go -package=mocks

// TrackingGW defines the event gateway to the rest of the platform.
type TrackingGW interface {
	PublishLocationAnalyze(ctx context.Context, req *models.AnalyzeRequest) error
	PublishSOS(ctx context.Context, event *models.SOSEvent) error
	PublishDeviceOffline(ctx context.Context, event *models.OfflineEvent) error
}
