package entity

import (
	"time"

	"github.com/google/uuid"
)

// IdempotencyKey records a console submission that already reached the
// backend successfully, so a repeated submission can be answered without
// calling it again.
type IdempotencyKey struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Key          string    `gorm:"uniqueIndex:idx_idempotency_key_session;size:255;not null"`
	SessionID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_idempotency_key_session"`
	Endpoint     string    `gorm:"size:255;not null"` // e.g. "POST /merchant"
	ResponseCode int       `gorm:"not null"`
	Location     string    `gorm:"size:2048"` // redirect target of the original response
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	ExpiresAt    time.Time `gorm:"not null;index"`
}

// TableName returns the table name for IdempotencyKey
func (IdempotencyKey) TableName() string {
	return "idempotency_keys"
}

// IsExpired checks if the idempotency key has expired
func (i *IdempotencyKey) IsExpired() bool {
	return time.Now().After(i.ExpiresAt)
}
