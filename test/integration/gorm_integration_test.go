package integration

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"realtime-chat-be/internal/entity"
	"realtime-chat-be/internal/repository/specification"
	"realtime-chat-be/internal/repository/unitofwork"
	"realtime-chat-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormConnection(t *testing.T) {
	// Load .env from root
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	// Verify Wiring
	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(context.Background())

	assert.NotNil(t, uow.UserRepository())
	assert.NotNil(t, uow.MessageRepository())

	// Basic Ping
	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)

	t.Run("Check User Repository", func(t *testing.T) {
		count, err := uow.UserRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("User count: %d", count)
	})

	t.Run("Check Message Repository", func(t *testing.T) {
		count, err := uow.MessageRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("Message count: %d", count)
	})

	t.Run("Message Round Trip With Media", func(t *testing.T) {
		ctx := context.Background()
		sender := "it-sender-" + uuid.New().String()[:8]
		recipient := "it-recipient-" + uuid.New().String()[:8]

		msg := &entity.Message{
			Id:            uuid.New(),
			SenderName:    sender,
			RecipientName: &recipient,
			Text:          "integration round trip",
			Media: []entity.MediaAttachment{
				{Filename: "it.png", OriginalName: "it.png", Mimetype: "image/png", Size: 1, Url: "/api/media/files/it.png"},
			},
			Timestamp: time.Now(),
		}
		require.NoError(t, uow.MessageRepository().Create(ctx, msg))

		found, err := uow.MessageRepository().FindOne(ctx, specification.ByMessageID{ID: msg.Id})
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, msg.Text, found.Text)
		require.Len(t, found.Media, 1)
		assert.Equal(t, "it.png", found.Media[0].Filename)

		conversation, err := uow.MessageRepository().FindAll(ctx,
			specification.ByConversationPair{UserA: recipient, UserB: sender},
			specification.OrderByTimestampAsc{},
		)
		require.NoError(t, err)
		assert.Len(t, conversation, 1)

		correspondents, err := uow.MessageRepository().DistinctCorrespondents(ctx, sender)
		require.NoError(t, err)
		assert.Contains(t, correspondents, recipient)

		deleted, err := uow.MessageRepository().DeleteById(ctx, msg.Id)
		require.NoError(t, err)
		require.Len(t, deleted.Media, 1)

		gone, err := uow.MessageRepository().FindOne(ctx, specification.ByMessageID{ID: msg.Id})
		require.NoError(t, err)
		assert.Nil(t, gone)
	})
}
