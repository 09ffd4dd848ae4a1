package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/safeyatra/safeyatra/internal/pkg/middleware"
	"github.com/safeyatra/safeyatra/internal/pkg/models"
	"github.com/safeyatra/safeyatra/services/tracking/handler/http"
	"github.com/safeyatra/safeyatra/services/tracking/handler/nats"
	"github.com/safeyatra/safeyatra/services/tracking/handler/websocket"
)

// Handler coordinates all protocol handlers for the tracking service
type Handler struct {
	trackingHandler *http.TrackingHandler
	dispatcher      *websocket.Dispatcher
	natsHandler     *nats.Handler
	cfg             *models.Config
}

// NewHandler creates and initializes all handlers
func NewHandler(
	trackingHandler *http.TrackingHandler,
	dispatcher *websocket.Dispatcher,
	natsHandler *nats.Handler,
	cfg *models.Config,
) *Handler {
	return &Handler{
		trackingHandler: trackingHandler,
		dispatcher:      dispatcher,
		natsHandler:     natsHandler,
		cfg:             cfg,
	}
}

// InitNATSConsumers starts the NATS subscriptions for the tracking service.
func (h *Handler) InitNATSConsumers() error {
	return h.natsHandler.InitConsumers()
}

// RegisterRoutes registers all protocol handlers and their routes
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	// Operator REST surface, JWT protected
	protected := e.Group("/tracking", middleware.JWTMiddleware(h.cfg.JWT))
	protected.GET("/devices", h.trackingHandler.ListDevices)
	protected.POST("/devices/:id/command", h.trackingHandler.SendCommand)
	protected.GET("/devices/:id/history", h.trackingHandler.GetHistory)

	// WebSocket endpoint; authentication happens during the upgrade
	// handshake so a bad token never reaches the dispatcher.
	e.GET("/ws/tracking", h.dispatcher.HandleWebSocket)
}
