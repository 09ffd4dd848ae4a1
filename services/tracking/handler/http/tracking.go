package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/safeyatra/safeyatra/internal/pkg/logger"
	"github.com/safeyatra/safeyatra/internal/utils"
	"github.com/safeyatra/safeyatra/services/tracking"
	wshandler "github.com/safeyatra/safeyatra/services/tracking/handler/websocket"
)

// TrackingHandler exposes the operator-facing REST surface: device
// directory listing, command routing and location history.
type TrackingHandler struct {
	trackingUC tracking.TrackingUC
	dispatcher *wshandler.Dispatcher
}

// NewTrackingHandler creates the HTTP handler for the tracking service.
func NewTrackingHandler(trackingUC tracking.TrackingUC, dispatcher *wshandler.Dispatcher) *TrackingHandler {
	return &TrackingHandler{
		trackingUC: trackingUC,
		dispatcher: dispatcher,
	}
}

// CommandRequest is the body of a device command request.
type CommandRequest struct {
	Command string          `json:"command"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// ListDevices returns the directory snapshot of connected devices.
func (h *TrackingHandler) ListDevices(c echo.Context) error {
	return utils.SuccessResponse(c, http.StatusOK, "Connected devices retrieved", map[string]interface{}{
		"devices": h.dispatcher.Snapshot(),
		"count":   h.dispatcher.ConnectedCount(),
	})
}

// SendCommand routes a command to a connected device.
func (h *TrackingHandler) SendCommand(c echo.Context) error {
	targetID := c.Param("id")
	if targetID == "" {
		return utils.ErrorResponseHandler(c, http.StatusBadRequest, "device id is required")
	}

	var req CommandRequest
	if err := c.Bind(&req); err != nil {
		return utils.ErrorResponseHandler(c, http.StatusBadRequest, "invalid request body")
	}
	if req.Command == "" {
		return utils.ErrorResponseHandler(c, http.StatusBadRequest, "command is required")
	}

	if err := h.dispatcher.SendCommand(targetID, req.Command, req.Data); err != nil {
		if errors.Is(err, wshandler.ErrDeviceNotConnected) {
			return utils.ErrorResponseHandler(c, http.StatusNotFound, "device not connected")
		}
		logger.Error("Failed to route command",
			logger.String("target_id", targetID),
			logger.String("command", req.Command),
			logger.Err(err))
		return utils.ErrorResponseHandler(c, http.StatusInternalServerError, "failed to route command")
	}

	return utils.SuccessResponse(c, http.StatusOK, "Command delivered", map[string]interface{}{
		"target_id": targetID,
		"command":   req.Command,
	})
}

// GetHistory returns the archived fixes for a device, newest first.
func (h *TrackingHandler) GetHistory(c echo.Context) error {
	userID := c.Param("id")
	if userID == "" {
		return utils.ErrorResponseHandler(c, http.StatusBadRequest, "device id is required")
	}

	limit := utils.ParseLimitParam(c.QueryParam("limit"), 0)

	fixes, err := h.trackingUC.LocationHistory(c.Request().Context(), userID, limit)
	if err != nil {
		logger.Error("Failed to load location history",
			logger.String("user_id", userID),
			logger.Err(err))
		return utils.ErrorResponseHandler(c, http.StatusInternalServerError, "failed to load history")
	}

	return utils.SuccessResponse(c, http.StatusOK, "Location history retrieved", map[string]interface{}{
		"user_id": userID,
		"fixes":   fixes,
	})
}
