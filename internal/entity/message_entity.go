package entity

import (
	"time"

	"github.com/google/uuid"
)

// MediaAttachment is an opaque pointer into the media store. The core never
// inspects attachment bytes, only the descriptor.
type MediaAttachment struct {
	Filename     string
	OriginalName string
	Mimetype     string
	Size         int64
	Url          string
}

// Message is one persisted chat message. RecipientName nil means broadcast.
// Invariant: Text non-empty OR Media non-empty. Immutable except for deletion.
type Message struct {
	Id            uuid.UUID
	SenderName    string
	RecipientName *string
	Text          string
	Media         []MediaAttachment
	Timestamp     time.Time
}

func (m *Message) IsBroadcast() bool {
	return m.RecipientName == nil
}
