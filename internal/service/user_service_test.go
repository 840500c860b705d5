package service

import (
	"context"
	"testing"
	"time"

	"realtime-chat-be/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchEmptyQueryReturnsNothing(t *testing.T) {
	svc := NewUserService(newFakeFactory())

	users, err := svc.Search(context.Background(), "   ")
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestSearchMapsUsers(t *testing.T) {
	factory := newFakeFactory()
	factory.uow.users.users = []*entity.User{
		{Id: uuid.New(), Name: "alice", Email: "alice@example.com", CreatedAt: time.Now()},
	}
	svc := NewUserService(factory)

	users, err := svc.Search(context.Background(), "ali")
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "alice", users[0].Name)
	assert.Equal(t, "alice@example.com", users[0].Email)
}
