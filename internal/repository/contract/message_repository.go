package contract

import (
	"context"

	"realtime-chat-be/internal/entity"
	"realtime-chat-be/internal/repository/specification"

	"github.com/google/uuid"
)

// MessageRepository is the durable append-only message log.
type MessageRepository interface {
	// Create persists a fully-formed message together with its attachment
	// rows in one transaction. Readers never observe a partial write.
	Create(ctx context.Context, message *entity.Message) error

	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Message, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Message, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// DeleteById removes the message and its attachment rows, returning the
	// deleted message so the caller can clean up stored media files.
	// Returns apperror.ErrNotFound when no such message exists.
	DeleteById(ctx context.Context, id uuid.UUID) (*entity.Message, error)

	// DistinctCorrespondents returns every identity the given one has
	// exchanged non-broadcast messages with, as a single aggregate query.
	DistinctCorrespondents(ctx context.Context, identity string) ([]string, error)
}
