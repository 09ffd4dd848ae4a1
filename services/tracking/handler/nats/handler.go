package nats

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/safeyatra/safeyatra/internal/pkg/constants"
	"github.com/safeyatra/safeyatra/internal/pkg/logger"
	"github.com/safeyatra/safeyatra/internal/pkg/models"
	natspkg "github.com/safeyatra/safeyatra/internal/pkg/nats"
	wshandler "github.com/safeyatra/safeyatra/services/tracking/handler/websocket"
)

// Handler consumes events from the safety-analysis pipeline and routes the
// results back to connected devices.
type Handler struct {
	dispatcher *wshandler.Dispatcher
	natsClient *natspkg.Client
	cfg        *models.Config
	subs       []*nats.Subscription
}

// NewHandler creates a new tracking NATS handler
func NewHandler(dispatcher *wshandler.Dispatcher, client *natspkg.Client, cfg *models.Config) *Handler {
	return &Handler{
		dispatcher: dispatcher,
		natsClient: client,
		cfg:        cfg,
		subs:       make([]*nats.Subscription, 0),
	}
}

// InitConsumers subscribes to all inbound subjects for the tracking service.
func (h *Handler) InitConsumers() error {
	logger.Info("Initializing NATS consumers for tracking service")

	sub, err := h.natsClient.Subscribe(constants.SubjectLocationAnalysis, h.handleAnalysisResult)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", constants.SubjectLocationAnalysis, err)
	}
	h.subs = append(h.subs, sub)

	return nil
}

// handleAnalysisResult routes a safety-analysis result back to the device
// that reported the fix, and escalates critical results to operators.
func (h *Handler) handleAnalysisResult(msg *nats.Msg) {
	var result models.AnalysisResult
	if err := json.Unmarshal(msg.Data, &result); err != nil {
		logger.Error("Failed to unmarshal analysis result", logger.Err(err))
		return
	}

	now := time.Now()
	err := h.dispatcher.NotifyUser(result.UserID, models.AckMessage{
		Type:      models.TypeAck,
		Timestamp: &now,
		Analysis:  &result.Analysis,
	})
	if err != nil {
		if errors.Is(err, wshandler.ErrDeviceNotConnected) {
			logger.Debug("Analysis result for disconnected device",
				logger.String("user_id", result.UserID))
		} else {
			logger.Error("Failed to deliver analysis result",
				logger.String("user_id", result.UserID),
				logger.Err(err))
		}
	}

	if result.Analysis.RiskScore >= h.cfg.Tracking.CriticalRiskScore {
		h.escalateCriticalRisk(&result)
	}
}

// escalateCriticalRisk alerts the device and every operator console when
// the analysis pipeline flags a critical risk.
func (h *Handler) escalateCriticalRisk(result *models.AnalysisResult) {
	body, err := json.Marshal(result)
	if err != nil {
		logger.Error("Failed to marshal critical risk alert", logger.Err(err))
		return
	}

	alert := models.DataMessage{
		Type: models.TypeAlert,
		Data: models.AlertPayload{
			Title:    "Critical risk detected",
			Severity: "critical",
			Body:     body,
		},
	}

	if err := h.dispatcher.NotifyUserPriority(result.UserID, alert); err != nil &&
		!errors.Is(err, wshandler.ErrDeviceNotConnected) {
		logger.Error("Failed to alert device of critical risk",
			logger.String("user_id", result.UserID),
			logger.Err(err))
	}

	h.dispatcher.BroadcastToOperators(alert)

	logger.Warn("Critical risk escalated",
		logger.String("user_id", result.UserID),
		logger.Float64("risk_score", result.Analysis.RiskScore))
}

// Close drains all subscriptions.
func (h *Handler) Close() {
	for _, sub := range h.subs {
		if err := sub.Unsubscribe(); err != nil {
			logger.Warn("Failed to unsubscribe", logger.Err(err))
		}
	}
	h.subs = nil
}
