package service

import (
	"context"
	"encoding/json"

	"realtime-chat-be/internal/chat"
	"realtime-chat-be/internal/dto"
	"realtime-chat-be/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// IRelayService forwards bus events to the live connections. The REST delete
// path publishes; every viewer gets told to drop the message from its view.
type IRelayService interface {
	Consume(ctx context.Context) error
}

type relayService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	hub       *chat.Hub
	logger    logger.ILogger
}

func NewRelayService(pubSub *gochannel.GoChannel, topicName string, hub *chat.Hub, log logger.ILogger) IRelayService {
	return &relayService{
		pubSub:    pubSub,
		topicName: topicName,
		hub:       hub,
		logger:    log,
	}
}

func (s *relayService) Consume(ctx context.Context) error {
	messages, err := s.pubSub.Subscribe(ctx, s.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			s.processMessage(msg)
		}
	}()

	return nil
}

func (s *relayService) processMessage(msg *message.Message) {
	var event dto.MessageDeletedEvent
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		s.logger.Error("Relay", "Failed to unmarshal delete event", map[string]interface{}{"error": err.Error()})
		msg.Ack() // invalid payloads are not retried
		return
	}

	s.hub.BroadcastEvent(dto.ServerEvent{
		Type: dto.EventMessageDeleted,
		Data: dto.MessageDeletedPayload{Id: event.MessageId.String()},
	})
	msg.Ack()
}
