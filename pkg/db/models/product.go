package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/pricepal-backend/pkg/enums"
	"github.com/angelmondragon/pricepal-backend/pkg/textnorm"
)

var hundred = decimal.NewFromInt(100)

// Product is a branch-owned catalog listing.
type Product struct {
	ID                uuid.UUID               `gorm:"column:id;type:uuid;primaryKey"`
	SupermarketID     uuid.UUID               `gorm:"column:supermarket_id;type:uuid;not null"`
	BranchID          uuid.UUID               `gorm:"column:branch_id;type:uuid;not null"`
	CategoryID        uuid.UUID               `gorm:"column:category_id;type:uuid;not null"`
	SKU               string                  `gorm:"column:sku;not null;uniqueIndex"`
	Name              string                  `gorm:"column:name;not null"`
	Description       string                  `gorm:"column:description;not null;default:''"`
	Brand             *string                 `gorm:"column:brand"`
	SearchName        string                  `gorm:"column:search_name;not null;default:''"`
	SearchBrand       string                  `gorm:"column:search_brand;not null;default:''"`
	SearchDescription string                  `gorm:"column:search_description;not null;default:''"`
	UnitPrice         decimal.Decimal         `gorm:"column:unit_price;type:numeric(12,2);not null"`
	Discount          int                     `gorm:"column:discount;not null;default:0"`
	DiscountPrice     decimal.Decimal         `gorm:"column:discount_price;type:numeric(12,2);not null"`
	Stock             int                     `gorm:"column:stock;not null;default:0"`
	Unit              enums.UnitOfMeasurement `gorm:"column:unit;not null;default:'piece'"`
	Images            pq.StringArray          `gorm:"column:images;type:text[];not null"`
	IsActive          bool                    `gorm:"column:is_active;not null;default:true"`
	CreatedAt         time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}

// BrandName returns the brand or an empty string.
func (p *Product) BrandName() string {
	if p == nil || p.Brand == nil {
		return ""
	}
	return *p.Brand
}

// ComputeDiscountPrice applies the percentage discount to the unit price.
func (p *Product) ComputeDiscountPrice() decimal.Decimal {
	discount := p.Discount
	if discount < 0 {
		discount = 0
	}
	if discount > 100 {
		discount = 100
	}
	remaining := decimal.NewFromInt(int64(100 - discount))
	return p.UnitPrice.Mul(remaining).Div(hundred).Round(2)
}

// BeforeSave keeps the cached discount price and folded search text aligned
// with the editable columns.
func (p *Product) BeforeSave(tx *gorm.DB) error {
	if p.Unit != "" {
		unit, err := enums.ParseUnitOfMeasurement(string(p.Unit))
		if err != nil {
			return fmt.Errorf("product %s: %w", p.SKU, err)
		}
		p.Unit = unit
	}
	p.DiscountPrice = p.ComputeDiscountPrice()
	p.SearchName = textnorm.SearchText(p.Name)
	p.SearchBrand = textnorm.SearchText(p.BrandName())
	p.SearchDescription = textnorm.SearchText(p.Description)
	return nil
}
