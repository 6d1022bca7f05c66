package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SessionEntry is one key-value pair of a visitor session, backing the
// pending-event relay across requests.
type SessionEntry struct {
	ID        string    `json:"id" gorm:"type:uuid;primary_key"`
	SessionID string    `json:"session_id" gorm:"uniqueIndex:idx_session_entry;not null"`
	EntryKey  string    `json:"entry_key" gorm:"uniqueIndex:idx_session_entry;not null"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *SessionEntry) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return nil
}
