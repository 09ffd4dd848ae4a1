package health

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Response is the payload returned by the health endpoints.
type Response struct {
	Status    string    `json:"status"`
	Service   string    `json:"service"`
	Timestamp time.Time `json:"timestamp"`
}

// RegisterHealthEndpoints registers liveness and readiness endpoints.
func RegisterHealthEndpoints(e *echo.Echo, serviceName string) {
	handler := func(c echo.Context) error {
		return c.JSON(http.StatusOK, Response{
			Status:    "ok",
			Service:   serviceName,
			Timestamp: time.Now(),
		})
	}

	e.GET("/health", handler)
	e.GET("/health/live", handler)
	e.GET("/health/ready", handler)
}
