package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/pricepal-backend/pkg/types"
)

// Branch is a physical store location owned by exactly one supermarket.
type Branch struct {
	ID            uuid.UUID      `gorm:"column:id;type:uuid;primaryKey"`
	SupermarketID uuid.UUID      `gorm:"column:supermarket_id;type:uuid;not null"`
	Name          string         `gorm:"column:name;not null"`
	Location      types.Location `gorm:"column:location;type:jsonb;serializer:json"`
	IsActive      bool           `gorm:"column:is_active;not null;default:true"`
	CreatedAt     time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
