package models

import (
	"time"

	"github.com/google/uuid"
)

// Supermarket is a tenant: the visibility boundary for categories and products.
type Supermarket struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Name      string    `gorm:"column:name;not null;uniqueIndex"`
	LogoURL   *string   `gorm:"column:logo_url"`
	IsActive  bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
