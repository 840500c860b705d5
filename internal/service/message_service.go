package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"realtime-chat-be/internal/apperror"
	"realtime-chat-be/internal/dto"
	"realtime-chat-be/internal/entity"
	"realtime-chat-be/internal/mapper"
	"realtime-chat-be/internal/pkg/logger"
	"realtime-chat-be/internal/repository/specification"
	"realtime-chat-be/internal/repository/unitofwork"
	"realtime-chat-be/pkg/events"
	pktNats "realtime-chat-be/pkg/nats"

	"github.com/google/uuid"
)

// MediaRemover unlinks stored media behind a descriptor URL.
type MediaRemover interface {
	Remove(url string) error
}

// IMessageService is the durable message log plus the conversation index.
// It also implements chat.MessageStore and chat.HistoryProvider.
type IMessageService interface {
	Append(ctx context.Context, message *entity.Message) error
	Conversation(ctx context.Context, userA, userB string) ([]dto.MessageResponse, error)
	Broadcasts(ctx context.Context) ([]dto.MessageResponse, error)
	Correspondents(ctx context.Context, identity string) ([]string, error)
	Delete(ctx context.Context, id uuid.UUID, requester string) error
}

type messageService struct {
	uowFactory       unitofwork.RepositoryFactory
	media            MediaRemover
	publisherService IPublisherService
	eventPublisher   *pktNats.Publisher
	mapper           *mapper.MessageMapper
	logger           logger.ILogger
}

func NewMessageService(
	uowFactory unitofwork.RepositoryFactory,
	media MediaRemover,
	publisherService IPublisherService,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) IMessageService {
	return &messageService{
		uowFactory:       uowFactory,
		media:            media,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
		mapper:           mapper.NewMessageMapper(),
		logger:           log,
	}
}

// Append persists one message, assigning id and timestamp when unset.
// Storage failures surface as ErrStorageUnavailable so the router can tell
// the sender without ever delivering an unpersisted message.
func (s *messageService) Append(ctx context.Context, message *entity.Message) error {
	if message.Id == uuid.Nil {
		message.Id = uuid.New()
	}
	if message.Timestamp.IsZero() {
		message.Timestamp = time.Now()
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.MessageRepository().Create(ctx, message); err != nil {
		return fmt.Errorf("%w: %v", apperror.ErrStorageUnavailable, err)
	}
	return nil
}

func (s *messageService) Conversation(ctx context.Context, userA, userB string) ([]dto.MessageResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	messages, err := uow.MessageRepository().FindAll(ctx,
		specification.ByConversationPair{UserA: userA, UserB: userB},
		specification.OrderByTimestampAsc{},
	)
	if err != nil {
		return nil, err
	}
	return s.toResponses(messages), nil
}

func (s *messageService) Broadcasts(ctx context.Context) ([]dto.MessageResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	messages, err := uow.MessageRepository().FindAll(ctx,
		specification.BroadcastOnly{},
		specification.OrderByTimestampAsc{},
	)
	if err != nil {
		return nil, err
	}
	return s.toResponses(messages), nil
}

// Correspondents lists historical conversation partners independent of who
// is online right now, so conversations with offline users stay visible.
func (s *messageService) Correspondents(ctx context.Context, identity string) ([]string, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.MessageRepository().DistinctCorrespondents(ctx, identity)
}

// Delete removes a message its sender no longer wants, unlinks its stored
// media, and notifies live viewers through the in-process bus.
func (s *messageService) Delete(ctx context.Context, id uuid.UUID, requester string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	existing, err := uow.MessageRepository().FindOne(ctx, specification.ByMessageID{ID: id})
	if err != nil {
		return err
	}
	if existing == nil {
		return apperror.ErrNotFound
	}
	if existing.SenderName != requester {
		return apperror.ErrForbidden
	}

	deleted, err := uow.MessageRepository().DeleteById(ctx, id)
	if err != nil {
		return err
	}

	// File unlink failures must not resurrect the message; log and move on.
	for _, attachment := range deleted.Media {
		if err := s.media.Remove(attachment.Url); err != nil {
			s.logger.Warn("MessageService", "Failed to remove media file", map[string]interface{}{
				"url":   attachment.Url,
				"error": err.Error(),
			})
		}
	}

	s.notifyDeleted(ctx, deleted)
	return nil
}

func (s *messageService) notifyDeleted(ctx context.Context, deleted *entity.Message) {
	payload, err := json.Marshal(dto.MessageDeletedEvent{
		MessageId: deleted.Id,
		DeletedBy: deleted.SenderName,
	})
	if err != nil {
		return
	}

	if err := s.publisherService.Publish(ctx, payload); err != nil {
		s.logger.Error("MessageService", "Failed to publish delete notification", map[string]interface{}{
			"message_id": deleted.Id,
			"error":      err.Error(),
		})
	}

	if s.eventPublisher != nil {
		evt := events.BaseEvent{
			Type:       events.TypeMessageDeleted,
			Data:       map[string]interface{}{"message_id": deleted.Id.String(), "sender": deleted.SenderName},
			OccurredAt: time.Now(),
		}
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.logger.Warn("MessageService", "Failed to publish NATS event", map[string]interface{}{"error": err.Error()})
		}
	}
}

func (s *messageService) toResponses(messages []*entity.Message) []dto.MessageResponse {
	responses := make([]dto.MessageResponse, len(messages))
	for i, m := range messages {
		responses[i] = s.mapper.MessageToResponse(m)
	}
	return responses
}
