package models

import (
	"time"

	"github.com/google/uuid"
)

// Category groups products within a single supermarket.
type Category struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	SupermarketID uuid.UUID `gorm:"column:supermarket_id;type:uuid;not null"`
	Name          string    `gorm:"column:name;not null"`
	IsActive      bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
