package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByMessageID struct {
	ID uuid.UUID
}

func (s ByMessageID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("id = ?", s.ID)
}

// ByConversationPair matches non-broadcast messages exchanged between two
// identities, in either direction.
type ByConversationPair struct {
	UserA string
	UserB string
}

func (s ByConversationPair) Apply(db *gorm.DB) *gorm.DB {
	return db.Where(
		"(sender_name = ? AND recipient_name = ?) OR (sender_name = ? AND recipient_name = ?)",
		s.UserA, s.UserB, s.UserB, s.UserA,
	)
}

// BroadcastOnly matches messages addressed to everyone (NULL recipient).
type BroadcastOnly struct{}

func (s BroadcastOnly) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("recipient_name IS NULL")
}

// OrderByTimestampAsc sorts by assignment time. The backing store is never
// assumed to preserve insertion order.
type OrderByTimestampAsc struct{}

func (s OrderByTimestampAsc) Apply(db *gorm.DB) *gorm.DB {
	return db.Order("timestamp ASC")
}
