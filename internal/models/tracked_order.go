package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TrackedOrder is the persisted duplicate-suppression flag: one row per
// order whose purchase event has been emitted. Rows are never cleared.
type TrackedOrder struct {
	ID        string    `json:"id" gorm:"type:uuid;primary_key"`
	OrderID   string    `json:"order_id" gorm:"uniqueIndex;not null"`
	Platform  string    `json:"platform"`
	CreatedAt time.Time `json:"created_at"`
}

func (t *TrackedOrder) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	return nil
}
