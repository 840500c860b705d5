package chat

import (
	"context"
	"strings"
	"time"

	"realtime-chat-be/internal/dto"
	"realtime-chat-be/internal/entity"
	"realtime-chat-be/internal/mapper"
	"realtime-chat-be/internal/pkg/logger"

	"github.com/google/uuid"
)

// MessageStore persists messages durably. Append assigns id and timestamp
// when unset and is atomic: readers never observe a partial write.
type MessageStore interface {
	Append(ctx context.Context, message *entity.Message) error
}

// Router is the message-routing core: it validates a send intent, persists
// it, then delivers to the live connections the presence registry names.
// Persistence strictly precedes delivery; a client must never see a message
// that a history reload would not reproduce.
type Router struct {
	store    MessageStore
	registry *Registry
	mapper   *mapper.MessageMapper
	logger   logger.ILogger
}

func NewRouter(store MessageStore, registry *Registry, log logger.ILogger) *Router {
	return &Router{
		store:    store,
		registry: registry,
		mapper:   mapper.NewMessageMapper(),
		logger:   log,
	}
}

// Route processes one send intent from an authenticated, live connection.
func (rt *Router) Route(ctx context.Context, sender Conn, payload dto.SendMessagePayload) {
	text := strings.TrimSpace(payload.Text)
	if text == "" && len(payload.Media) == 0 {
		// Empty intents are dropped silently: no persistence, no error.
		rt.logger.Debug("Router", "Dropped empty message", map[string]interface{}{"sender": sender.Identity()})
		return
	}

	msg := &entity.Message{
		Id:         uuid.New(),
		SenderName: sender.Identity(),
		Text:       text,
		Media:      toAttachments(payload.Media),
		Timestamp:  time.Now(),
	}
	if payload.Recipient != "" {
		recipient := payload.Recipient
		msg.RecipientName = &recipient
	}

	if err := rt.store.Append(ctx, msg); err != nil {
		rt.logger.Error("Router", "Failed to persist message", map[string]interface{}{
			"sender": sender.Identity(),
			"error":  err.Error(),
		})
		// Storage failures are surfaced to the originator only; nothing is
		// delivered because nothing was persisted.
		sender.Deliver(dto.ServerEvent{
			Type: dto.EventError,
			Data: dto.ErrorPayload{Message: "Failed to send message. Please try again."},
		})
		return
	}

	event := dto.ServerEvent{
		Type: dto.EventChatMessage,
		Data: dto.DeliveredMessage{
			MessageResponse: rt.mapper.MessageToResponse(msg),
			Private:         !msg.IsBroadcast(),
			Recipient:       msg.RecipientName,
		},
	}

	if msg.IsBroadcast() {
		rt.deliverBroadcast(event)
		return
	}
	rt.deliverPrivate(sender, *msg.RecipientName, event)
}

// deliverBroadcast sends to every registered connection, the sender's own
// included: the sender sees its broadcast echoed instead of duplicating it
// locally.
func (rt *Router) deliverBroadcast(event dto.ServerEvent) {
	for _, c := range rt.registry.Conns() {
		if !c.Deliver(event) {
			rt.logger.Warn("Router", "Broadcast delivery dropped", map[string]interface{}{"recipient": c.Identity()})
		}
	}
}

// deliverPrivate sends to the recipient and echoes to the sender so both
// views are reconstructed from the same delivery path. An offline recipient
// means no live delivery at all; the message is already persisted and shows
// up in history.
func (rt *Router) deliverPrivate(sender Conn, recipient string, event dto.ServerEvent) {
	target, online := rt.registry.Lookup(recipient)
	if !online {
		rt.logger.Debug("Router", "Recipient offline, persisted only", map[string]interface{}{"recipient": recipient})
		return
	}

	if !target.Deliver(event) {
		rt.logger.Warn("Router", "Private delivery dropped", map[string]interface{}{"recipient": recipient})
	}
	if !sender.Deliver(event) {
		rt.logger.Warn("Router", "Sender echo dropped", map[string]interface{}{"sender": sender.Identity()})
	}
}

func toAttachments(payloads []dto.MediaAttachmentPayload) []entity.MediaAttachment {
	if len(payloads) == 0 {
		return nil
	}
	media := make([]entity.MediaAttachment, len(payloads))
	for i, p := range payloads {
		media[i] = entity.MediaAttachment{
			Filename:     p.Filename,
			OriginalName: p.OriginalName,
			Mimetype:     p.Mimetype,
			Size:         p.Size,
			Url:          p.Url,
		}
	}
	return media
}
