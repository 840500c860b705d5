package chat

import (
	"realtime-chat-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// Handler upgrades authenticated HTTP requests into chat sessions.
type Handler struct {
	hub    *Hub
	auth   Authenticator
	logger logger.ILogger
}

func NewHandler(hub *Hub, auth Authenticator, log logger.ILogger) *Handler {
	return &Handler{
		hub:    hub,
		auth:   auth,
		logger: log,
	}
}

func (h *Handler) RegisterRoutes(router fiber.Router) {
	router.Get("/chat/ws", h.ServeWs)
}

// ServeWs authenticates the handshake and hands the connection to the hub.
// A rejected handshake never mutates the registry.
func (h *Handler) ServeWs(ctx *fiber.Ctx) error {
	// Browsers can't set headers on websocket dials, so the token rides the
	// query string; tooling may use the Authorization header instead.
	tokenStr := ctx.Query("token")
	if tokenStr == "" {
		authHeader := ctx.Get("Authorization")
		if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
			tokenStr = authHeader[7:]
		}
	}

	identity, err := h.auth.Authenticate(tokenStr)
	if err != nil {
		h.logger.Warn("Handler", "Rejected websocket handshake", map[string]interface{}{"error": err.Error()})
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Authentication failed"})
	}

	if !websocket.IsWebSocketUpgrade(ctx) {
		return fiber.ErrUpgradeRequired
	}

	return websocket.New(func(conn *websocket.Conn) {
		client := NewClient(h.hub, conn, identity)
		h.hub.register <- client

		go client.writePump()
		client.readPump()
	})(ctx)
}
