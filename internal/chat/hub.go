package chat

import (
	"context"
	"encoding/json"
	"time"

	"realtime-chat-be/internal/dto"
	"realtime-chat-be/internal/pkg/logger"
)

const historyTimeout = 10 * time.Second

// HistoryProvider answers history and conversation-list queries from the
// durable store.
type HistoryProvider interface {
	Conversation(ctx context.Context, userA, userB string) ([]dto.MessageResponse, error)
	Broadcasts(ctx context.Context) ([]dto.MessageResponse, error)
	Correspondents(ctx context.Context, identity string) ([]string, error)
}

// Hub orchestrates connection lifecycle: it owns the register/unregister
// transitions, keeps the presence registry consistent, and pushes presence
// and conversation-list updates. Each connection moves Connecting →
// Authenticating → Active → Closed; the hub only ever sees Active
// connections and their teardown.
type Hub struct {
	registry *Registry
	router   *Router
	history  HistoryProvider

	register   chan *Client
	unregister chan *Client
	events     chan dto.ServerEvent

	logger logger.ILogger
}

func NewHub(registry *Registry, router *Router, history HistoryProvider, log logger.ILogger) *Hub {
	return &Hub{
		registry:   registry,
		router:     router,
		history:    history,
		register:   make(chan *Client),
		unregister: make(chan *Client),
		events:     make(chan dto.ServerEvent, 64),
		logger:     log,
	}
}

func (h *Hub) Registry() *Registry {
	return h.registry
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.handleRegister(client)
		case client := <-h.unregister:
			h.handleUnregister(client)
		case event := <-h.events:
			h.deliverAll(event)
		}
	}
}

func (h *Hub) handleRegister(client *Client) {
	prior, replaced := h.registry.Register(client.Identity(), client)
	if replaced {
		// Reconnect: the stale connection is evicted explicitly rather than
		// left to fail on its next write.
		prior.Close()
		h.logger.Info("Hub", "Replaced stale connection", map[string]interface{}{"identity": client.Identity()})
	}

	h.logger.Info("Hub", "Client registered", map[string]interface{}{
		"identity": client.Identity(),
		"online":   h.registry.Len(),
	})

	h.broadcastPresence()

	// Conversation list is computed from the store; keep the lifecycle loop
	// free of I/O.
	go h.sendConversations(client)
}

func (h *Hub) handleUnregister(client *Client) {
	removed := h.registry.Unregister(client.Identity(), client)
	client.Close()

	if removed {
		h.logger.Info("Hub", "Client unregistered", map[string]interface{}{
			"identity": client.Identity(),
			"online":   h.registry.Len(),
		})
		h.broadcastPresence()
	}
}

// BroadcastEvent delivers an event to every active connection. Used by the
// relay that carries delete notifications from the REST path.
func (h *Hub) BroadcastEvent(event dto.ServerEvent) {
	h.events <- event
}

func (h *Hub) deliverAll(event dto.ServerEvent) {
	for _, c := range h.registry.Conns() {
		if !c.Deliver(event) {
			h.logger.Warn("Hub", "Event delivery dropped", map[string]interface{}{"identity": c.Identity()})
		}
	}
}

func (h *Hub) broadcastPresence() {
	h.deliverAll(dto.ServerEvent{
		Type: dto.EventUsers,
		Data: h.registry.Identities(),
	})
}

func (h *Hub) sendConversations(client *Client) {
	ctx, cancel := context.WithTimeout(context.Background(), historyTimeout)
	defer cancel()

	names, err := h.history.Correspondents(ctx, client.Identity())
	if err != nil {
		h.logger.Error("Hub", "Failed to load conversation list", map[string]interface{}{
			"identity": client.Identity(),
			"error":    err.Error(),
		})
		return
	}

	client.Deliver(dto.ServerEvent{
		Type: dto.EventConversations,
		Data: names,
	})
}

// HandleFrame dispatches one inbound frame from a client's read pump.
func (h *Hub) HandleFrame(client *Client, raw []byte) {
	var frame dto.ClientFrame
	if err := json.Unmarshal(raw, &frame); err != nil {
		h.logger.Warn("Hub", "Malformed frame", map[string]interface{}{"identity": client.Identity()})
		return
	}

	switch frame.Type {
	case dto.FrameSendMessage:
		var payload dto.SendMessagePayload
		if err := json.Unmarshal(frame.Data, &payload); err != nil {
			h.logger.Warn("Hub", "Malformed send_message payload", map[string]interface{}{"identity": client.Identity()})
			return
		}
		// Persistence is not tied to the connection lifetime: a disconnect
		// mid-flight must not cancel the append.
		h.router.Route(context.Background(), client, payload)

	case dto.FrameGetMessages:
		var payload dto.HistoryRequestPayload
		if err := json.Unmarshal(frame.Data, &payload); err != nil {
			h.logger.Warn("Hub", "Malformed get_messages payload", map[string]interface{}{"identity": client.Identity()})
			return
		}
		h.sendHistory(client, payload.Peer)

	case dto.FrameGetUsers:
		client.Deliver(dto.ServerEvent{
			Type: dto.EventUsers,
			Data: h.registry.Identities(),
		})

	default:
		h.logger.Warn("Hub", "Unknown frame type", map[string]interface{}{
			"identity": client.Identity(),
			"type":     frame.Type,
		})
	}
}

func (h *Hub) sendHistory(client *Client, peer string) {
	ctx, cancel := context.WithTimeout(context.Background(), historyTimeout)
	defer cancel()

	var (
		messages []dto.MessageResponse
		err      error
	)
	if peer == "" {
		messages, err = h.history.Broadcasts(ctx)
	} else {
		messages, err = h.history.Conversation(ctx, client.Identity(), peer)
	}
	if err != nil {
		h.logger.Error("Hub", "Failed to load history", map[string]interface{}{
			"identity": client.Identity(),
			"peer":     peer,
			"error":    err.Error(),
		})
		client.Deliver(dto.ServerEvent{
			Type: dto.EventError,
			Data: dto.ErrorPayload{Message: "Could not retrieve message history."},
		})
		return
	}

	client.Deliver(dto.ServerEvent{
		Type: dto.EventMessageHistory,
		Data: dto.HistoryPayload{Peer: peer, Messages: messages},
	})
}
