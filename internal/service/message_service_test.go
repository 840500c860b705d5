package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"realtime-chat-be/internal/apperror"
	"realtime-chat-be/internal/dto"
	"realtime-chat-be/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMessageService(factory *fakeRepositoryFactory) (IMessageService, *fakeMediaRemover, *fakePublisher) {
	media := &fakeMediaRemover{}
	publisher := &fakePublisher{}
	svc := NewMessageService(factory, media, publisher, nil, nopLogger{})
	return svc, media, publisher
}

func privateMessage(sender, recipient, text string) *entity.Message {
	return &entity.Message{
		Id:            uuid.New(),
		SenderName:    sender,
		RecipientName: &recipient,
		Text:          text,
		Timestamp:     time.Now(),
	}
}

func TestAppendAssignsIdAndTimestamp(t *testing.T) {
	factory := newFakeFactory()
	svc, _, _ := newTestMessageService(factory)

	msg := &entity.Message{SenderName: "alice", Text: "hi"}
	require.NoError(t, svc.Append(context.Background(), msg))

	assert.NotEqual(t, uuid.Nil, msg.Id)
	assert.False(t, msg.Timestamp.IsZero())
	assert.Len(t, factory.uow.messages.messages, 1)
}

func TestAppendWrapsStorageFailure(t *testing.T) {
	factory := newFakeFactory()
	factory.uow.messages.createErr = errors.New("connection refused")
	svc, _, _ := newTestMessageService(factory)

	err := svc.Append(context.Background(), &entity.Message{SenderName: "alice", Text: "hi"})
	assert.True(t, errors.Is(err, apperror.ErrStorageUnavailable))
}

func TestConversationFiltersBothDirections(t *testing.T) {
	factory := newFakeFactory()
	factory.uow.messages.messages = []*entity.Message{
		privateMessage("alice", "bob", "one"),
		privateMessage("bob", "alice", "two"),
		privateMessage("alice", "carol", "other pair"),
		{Id: uuid.New(), SenderName: "alice", Text: "broadcast"},
	}
	svc, _, _ := newTestMessageService(factory)

	messages, err := svc.Conversation(context.Background(), "alice", "bob")
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "one", messages[0].Text)
	assert.Equal(t, "two", messages[1].Text)
}

func TestBroadcastsExcludePrivateMessages(t *testing.T) {
	factory := newFakeFactory()
	factory.uow.messages.messages = []*entity.Message{
		privateMessage("alice", "bob", "private"),
		{Id: uuid.New(), SenderName: "alice", Text: "to everyone"},
	}
	svc, _, _ := newTestMessageService(factory)

	messages, err := svc.Broadcasts(context.Background())
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "to everyone", messages[0].Text)
}

func TestDeleteRequiresExistingMessage(t *testing.T) {
	factory := newFakeFactory()
	svc, _, _ := newTestMessageService(factory)

	err := svc.Delete(context.Background(), uuid.New(), "alice")
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
}

func TestDeleteRequiresOwnership(t *testing.T) {
	factory := newFakeFactory()
	msg := privateMessage("alice", "bob", "mine")
	factory.uow.messages.messages = []*entity.Message{msg}
	svc, _, _ := newTestMessageService(factory)

	err := svc.Delete(context.Background(), msg.Id, "bob")
	assert.True(t, errors.Is(err, apperror.ErrForbidden))
	assert.Len(t, factory.uow.messages.messages, 1, "message survives")
}

func TestDeleteUnlinksMediaAndPublishes(t *testing.T) {
	factory := newFakeFactory()
	msg := privateMessage("alice", "bob", "with media")
	msg.Media = []entity.MediaAttachment{
		{Filename: "a.png", Url: "/api/media/files/a.png"},
		{Filename: "b.png", Url: "/api/media/files/b.png"},
	}
	factory.uow.messages.messages = []*entity.Message{msg}
	svc, media, publisher := newTestMessageService(factory)

	require.NoError(t, svc.Delete(context.Background(), msg.Id, "alice"))

	assert.Empty(t, factory.uow.messages.messages)
	assert.ElementsMatch(t, []string{"/api/media/files/a.png", "/api/media/files/b.png"}, media.removed)

	require.Len(t, publisher.published, 1)
	var event dto.MessageDeletedEvent
	require.NoError(t, json.Unmarshal(publisher.published[0], &event))
	assert.Equal(t, msg.Id, event.MessageId)
	assert.Equal(t, "alice", event.DeletedBy)
}

func TestDeleteSurvivesMediaRemovalFailure(t *testing.T) {
	factory := newFakeFactory()
	msg := privateMessage("alice", "bob", "with media")
	msg.Media = []entity.MediaAttachment{{Filename: "a.png", Url: "/api/media/files/a.png"}}
	factory.uow.messages.messages = []*entity.Message{msg}

	media := &fakeMediaRemover{err: errors.New("disk error")}
	publisher := &fakePublisher{}
	svc := NewMessageService(factory, media, publisher, nil, nopLogger{})

	// Unlink failures are logged, never surfaced.
	require.NoError(t, svc.Delete(context.Background(), msg.Id, "alice"))
	assert.Len(t, publisher.published, 1)
}

func TestCorrespondents(t *testing.T) {
	factory := newFakeFactory()
	factory.uow.messages.correspondents = []string{"bob", "carol"}
	svc, _, _ := newTestMessageService(factory)

	names, err := svc.Correspondents(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"bob", "carol"}, names)
}
