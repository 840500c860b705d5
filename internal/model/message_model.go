package model

import (
	"time"

	"github.com/google/uuid"
)

// Message rows are append-only: no updates, hard delete only.
// RecipientName NULL marks a broadcast message.
type Message struct {
	Id            uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SenderName    string         `gorm:"type:varchar(255);not null;index:idx_messages_pair,priority:1"`
	RecipientName *string        `gorm:"type:varchar(255);index:idx_messages_pair,priority:2;index:idx_messages_recipient"`
	Text          string         `gorm:"type:text;not null"`
	Media         []MessageMedia `gorm:"foreignKey:MessageId;constraint:OnDelete:CASCADE"`
	Timestamp     time.Time      `gorm:"not null;index"`
}

func (Message) TableName() string {
	return "messages"
}

type MessageMedia struct {
	Id           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	MessageId    uuid.UUID `gorm:"type:uuid;not null;index"`
	Filename     string    `gorm:"type:varchar(255);not null"`
	OriginalName string    `gorm:"type:varchar(255)"`
	Mimetype     string    `gorm:"type:varchar(127);not null"`
	Size         int64     `gorm:"not null"`
	Url          string    `gorm:"type:text;not null"`
	Position     int       `gorm:"not null;default:0"`
}

func (MessageMedia) TableName() string {
	return "message_media"
}
