package gateway

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/safeyatra/safeyatra/internal/pkg/constants"
	"github.com/safeyatra/safeyatra/internal/pkg/logger"
	"github.com/safeyatra/safeyatra/internal/pkg/models"
	natspkg "github.com/safeyatra/safeyatra/internal/pkg/nats"
)

// TrackingGW implements the NATS gateway for the tracking service
type TrackingGW struct {
	client *natspkg.Client
}

// NewTrackingGW creates a new tracking gateway
func NewTrackingGW(client *natspkg.Client) *TrackingGW {
	return &TrackingGW{client: client}
}

// PublishLocationAnalyze publishes a fix for external safety analysis.
func (g *TrackingGW) PublishLocationAnalyze(ctx context.Context, req *models.AnalyzeRequest) error {
	data, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal analyze request: %w", err)
	}

	if err := g.client.Publish(constants.SubjectLocationAnalyze, data); err != nil {
		return fmt.Errorf("failed to publish analyze request: %w", err)
	}

	logger.Debug("Published fix for analysis",
		logger.String("user_id", req.UserID),
		logger.String("area", req.Area))

	return nil
}

// PublishSOS publishes an SOS event.
func (g *TrackingGW) PublishSOS(ctx context.Context, event *models.SOSEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal SOS event: %w", err)
	}

	if err := g.client.Publish(constants.SubjectSOSTriggered, data); err != nil {
		return fmt.Errorf("failed to publish SOS event: %w", err)
	}

	logger.Info("Published SOS event",
		logger.String("user_id", event.UserID),
		logger.String("message", event.Message))

	return nil
}

// PublishDeviceOffline publishes a device-offline transition.
func (g *TrackingGW) PublishDeviceOffline(ctx context.Context, event *models.OfflineEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal offline event: %w", err)
	}

	if err := g.client.Publish(constants.SubjectDeviceOffline, data); err != nil {
		return fmt.Errorf("failed to publish offline event: %w", err)
	}

	return nil
}
