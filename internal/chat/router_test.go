package chat

import (
	"context"
	"errors"
	"testing"

	"realtime-chat-be/internal/dto"
	"realtime-chat-be/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	appended []*entity.Message
	err      error
}

func (s *fakeStore) Append(_ context.Context, message *entity.Message) error {
	if s.err != nil {
		return s.err
	}
	s.appended = append(s.appended, message)
	return nil
}

func newTestRouter(store *fakeStore) (*Router, *Registry) {
	registry := NewRegistry()
	return NewRouter(store, registry, nopLogger{}), registry
}

func TestRouteDropsEmptyMessage(t *testing.T) {
	store := &fakeStore{}
	router, registry := newTestRouter(store)

	alice := newFakeConn("alice")
	registry.Register("alice", alice)

	router.Route(context.Background(), alice, dto.SendMessagePayload{Text: "   "})

	assert.Empty(t, store.appended)
	assert.Empty(t, alice.Events())
}

func TestRouteBroadcastReachesEveryone(t *testing.T) {
	store := &fakeStore{}
	router, registry := newTestRouter(store)

	alice := newFakeConn("alice")
	bob := newFakeConn("bob")
	carol := newFakeConn("carol")
	registry.Register("alice", alice)
	registry.Register("bob", bob)
	registry.Register("carol", carol)

	router.Route(context.Background(), alice, dto.SendMessagePayload{Text: "hello everyone"})

	require.Len(t, store.appended, 1)
	assert.Nil(t, store.appended[0].RecipientName)

	for _, c := range []*fakeConn{alice, bob, carol} {
		events := c.Events()
		require.Len(t, events, 1, "conn %s", c.Identity())
		assert.Equal(t, dto.EventChatMessage, events[0].Type)

		delivered := events[0].Data.(dto.DeliveredMessage)
		assert.False(t, delivered.Private)
		assert.Equal(t, "hello everyone", delivered.Text)
		assert.Equal(t, "alice", delivered.SenderName)
	}
}

func TestRoutePrivateReachesRecipientAndSenderOnly(t *testing.T) {
	store := &fakeStore{}
	router, registry := newTestRouter(store)

	alice := newFakeConn("alice")
	bob := newFakeConn("bob")
	carol := newFakeConn("carol")
	registry.Register("alice", alice)
	registry.Register("bob", bob)
	registry.Register("carol", carol)

	router.Route(context.Background(), alice, dto.SendMessagePayload{Text: "psst", Recipient: "bob"})

	require.Len(t, store.appended, 1)
	require.NotNil(t, store.appended[0].RecipientName)
	assert.Equal(t, "bob", *store.appended[0].RecipientName)

	require.Len(t, bob.Events(), 1)
	require.Len(t, alice.Events(), 1, "sender gets the echo")
	assert.Empty(t, carol.Events(), "third parties see nothing")

	delivered := bob.Events()[0].Data.(dto.DeliveredMessage)
	assert.True(t, delivered.Private)
}

func TestRouteOfflineRecipientPersistsOnly(t *testing.T) {
	store := &fakeStore{}
	router, registry := newTestRouter(store)

	alice := newFakeConn("alice")
	registry.Register("alice", alice)

	router.Route(context.Background(), alice, dto.SendMessagePayload{Text: "are you there", Recipient: "bob"})

	// Persisted for history, but nobody is told now, not even the sender.
	require.Len(t, store.appended, 1)
	assert.Empty(t, alice.Events())
}

func TestRouteStorageFailureNotifiesSenderOnly(t *testing.T) {
	store := &fakeStore{err: errors.New("db down")}
	router, registry := newTestRouter(store)

	alice := newFakeConn("alice")
	bob := newFakeConn("bob")
	registry.Register("alice", alice)
	registry.Register("bob", bob)

	router.Route(context.Background(), alice, dto.SendMessagePayload{Text: "hello"})

	assert.Empty(t, store.appended)
	assert.Empty(t, bob.Events(), "nothing persisted, nothing delivered")

	events := alice.Events()
	require.Len(t, events, 1)
	assert.Equal(t, dto.EventError, events[0].Type)
}

func TestRouteCarriesMediaAttachments(t *testing.T) {
	store := &fakeStore{}
	router, registry := newTestRouter(store)

	alice := newFakeConn("alice")
	registry.Register("alice", alice)

	router.Route(context.Background(), alice, dto.SendMessagePayload{
		Media: []dto.MediaAttachmentPayload{
			{Filename: "a.png", OriginalName: "photo.png", Mimetype: "image/png", Size: 42, Url: "/api/media/files/a.png"},
		},
	})

	require.Len(t, store.appended, 1)
	require.Len(t, store.appended[0].Media, 1)
	assert.Equal(t, "a.png", store.appended[0].Media[0].Filename)
	assert.Equal(t, "", store.appended[0].Text)
}
