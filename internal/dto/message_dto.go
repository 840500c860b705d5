package dto

import (
	"time"

	"github.com/google/uuid"
)

type MediaAttachmentPayload struct {
	Filename     string `json:"filename" validate:"required"`
	OriginalName string `json:"originalName"`
	Mimetype     string `json:"mimetype" validate:"required"`
	Size         int64  `json:"size" validate:"required,gt=0"`
	Url          string `json:"url" validate:"required"`
}

type MessageResponse struct {
	Id            uuid.UUID                `json:"id"`
	SenderName    string                   `json:"senderName"`
	RecipientName *string                  `json:"recipientName"`
	Text          string                   `json:"text"`
	Media         []MediaAttachmentPayload `json:"media,omitempty"`
	Timestamp     time.Time                `json:"timestamp"`
}

// DeliveredMessage is the live delivery event: the persisted message plus
// display fields denormalized for the client.
type DeliveredMessage struct {
	MessageResponse
	Private   bool    `json:"private"`
	Recipient *string `json:"recipient"`
}

// MessageDeletedEvent travels over the in-process bus from the REST delete
// path to the websocket hub.
type MessageDeletedEvent struct {
	MessageId uuid.UUID `json:"message_id"`
	DeletedBy string    `json:"deleted_by"`
}
