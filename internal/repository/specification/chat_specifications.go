package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BySessionKey filters chat messages by their conversation key
// (notebook id or legal case id).
type BySessionKey struct {
	SessionKey uuid.UUID
}

func (s BySessionKey) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("session_key = ?", s.SessionKey)
}
