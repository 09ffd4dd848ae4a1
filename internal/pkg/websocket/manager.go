package websocket

import (
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	jwtpkg "github.com/safeyatra/safeyatra/internal/pkg/jwt"
	"github.com/safeyatra/safeyatra/internal/pkg/logger"
	"github.com/safeyatra/safeyatra/internal/pkg/models"
)

// Identity is the authenticated party behind a websocket connection.
type Identity struct {
	UserID   string
	UserName string
	Role     string
}

// Manager authenticates and upgrades tracking connections. Connection state
// is owned by the caller; the manager only guards the door.
type Manager struct {
	cfg      models.JWTConfig
	upgrader websocket.Upgrader
}

// NewManager creates a new WebSocket manager
func NewManager(jwtConfig models.JWTConfig) *Manager {
	return &Manager{
		cfg: jwtConfig,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// HandleConnection authenticates the request, upgrades it and hands the
// connection to handleClient. Auth failures reject the request before any
// registration happens.
func (m *Manager) HandleConnection(c echo.Context, handleClient func(*Identity, *websocket.Conn) error) error {
	identity, err := m.authenticate(c)
	if err != nil {
		return err
	}

	ws, err := m.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer ws.Close()

	return handleClient(identity, ws)
}

// authenticate validates the bearer token. Mobile clients present it as a
// "token" query parameter since websocket dial APIs cannot always set
// headers; the Authorization header is accepted as well.
func (m *Manager) authenticate(c echo.Context) (*Identity, error) {
	tokenString := c.QueryParam("token")
	if tokenString == "" {
		authHeader := c.Request().Header.Get("Authorization")
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			tokenString = parts[1]
		}
	}
	if tokenString == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Missing bearer token")
	}

	claims, err := jwtpkg.ValidateToken(tokenString, m.cfg.Secret)
	if err != nil {
		logger.Warn("Token validation failed", logger.Err(err))
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
	}

	if claims.UserID == "" || !models.ValidUserType(claims.Role) {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Invalid user credentials in token")
	}

	return &Identity{
		UserID:   claims.UserID,
		UserName: claims.UserName,
		Role:     claims.Role,
	}, nil
}
