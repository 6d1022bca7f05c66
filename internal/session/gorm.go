package session

import (
	"errors"

	"sealtrack/internal/models"

	"gorm.io/gorm"
)

// GormStore persists session entries in the session_entries table, so a
// relay written during one request survives to the next page load.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Get(sessionID, key string) (string, bool, error) {
	var entry models.SessionEntry
	err := s.db.Where("session_id = ? AND entry_key = ?", sessionID, key).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return entry.Value, true, nil
}

func (s *GormStore) Set(sessionID, key, value string) error {
	var entry models.SessionEntry
	return s.db.Where("session_id = ? AND entry_key = ?", sessionID, key).
		Assign(models.SessionEntry{Value: value}).
		FirstOrCreate(&entry).Error
}

func (s *GormStore) Delete(sessionID, key string) error {
	return s.db.Where("session_id = ? AND entry_key = ?", sessionID, key).
		Delete(&models.SessionEntry{}).Error
}
