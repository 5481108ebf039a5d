package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SessionScope returns a GORM scope that filters rows by console session
func SessionScope(sessionID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if sessionID == uuid.Nil {
			// no session, no rows
			return db.Where("1 = 0")
		}
		return db.Where("session_id = ?", sessionID)
	}
}
