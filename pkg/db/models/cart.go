package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Cart is the single cart owned by a customer.
type Cart struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	CustomerID  uuid.UUID       `gorm:"column:customer_id;type:uuid;not null;uniqueIndex"`
	TotalAmount decimal.Decimal `gorm:"column:total_amount;type:numeric(12,2);not null;default:0"`
	Items       []CartItem      `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// CartItem is one (product, branch) line; Price caches unit price times quantity.
type CartItem struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	CartID    uuid.UUID       `gorm:"column:cart_id;type:uuid;not null"`
	ProductID uuid.UUID       `gorm:"column:product_id;type:uuid;not null"`
	BranchID  uuid.UUID       `gorm:"column:branch_id;type:uuid;not null"`
	Quantity  int             `gorm:"column:quantity;not null"`
	Price     decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	Position  int             `gorm:"column:position;not null;default:0"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// FindItem returns the index of the line for the pair, or -1.
func (c *Cart) FindItem(productID, branchID uuid.UUID) int {
	for i := range c.Items {
		if c.Items[i].ProductID == productID && c.Items[i].BranchID == branchID {
			return i
		}
	}
	return -1
}

// RecomputeTotal sums line prices into TotalAmount.
func (c *Cart) RecomputeTotal() {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.Price)
	}
	c.TotalAmount = total
}

// BeforeSave recomputes the total on every persist.
func (c *Cart) BeforeSave(tx *gorm.DB) error {
	c.RecomputeTotal()
	return nil
}

// LinePrice is the cached line total for a quantity of a unit price.
func LinePrice(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity))).Round(2)
}
