package tracking

import (
	"errors"
	"strings"

	"sealtrack/internal/models"

	"gorm.io/gorm"
)

// Gate ensures a purchase event fires at most once per order. It is
// best-effort and non-transactional: two concurrent requests for the
// same order can both pass, which is accepted for a low-stakes
// observability signal.
type Gate interface {
	ShouldEmit(orderID string) (bool, error)
	MarkEmitted(orderID string) error
}

// MemoryGate keeps flags in process memory.
type MemoryGate struct {
	tracked map[string]bool
}

func NewMemoryGate() *MemoryGate {
	return &MemoryGate{tracked: make(map[string]bool)}
}

func (g *MemoryGate) ShouldEmit(orderID string) (bool, error) {
	return !g.tracked[orderID], nil
}

func (g *MemoryGate) MarkEmitted(orderID string) error {
	g.tracked[orderID] = true
	return nil
}

// GormGate persists flags as tracked_orders rows, the server-side
// equivalent of marking the order's metadata. Order IDs are namespaced
// as "<platform>:<id>" so platforms with overlapping numeric IDs cannot
// collide.
type GormGate struct {
	db *gorm.DB
}

func NewGormGate(db *gorm.DB) *GormGate {
	return &GormGate{db: db}
}

func (g *GormGate) ShouldEmit(orderID string) (bool, error) {
	var row models.TrackedOrder
	err := g.db.Where("order_id = ?", orderID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return false, nil
}

func (g *GormGate) MarkEmitted(orderID string) error {
	platform := ""
	if i := strings.Index(orderID, ":"); i > 0 {
		platform = orderID[:i]
	}
	return g.db.Create(&models.TrackedOrder{
		OrderID:  orderID,
		Platform: platform,
	}).Error
}
