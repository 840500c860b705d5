package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is an account in the directory. Name is the chat identity: unique,
// case-sensitive, and the sole addressing key for presence and messages.
type User struct {
	Id           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
