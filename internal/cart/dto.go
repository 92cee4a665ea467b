package cart

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/pricepal-backend/pkg/db/models"
)

// CartDTO is the API view of a cart.
type CartDTO struct {
	ID          uuid.UUID     `json:"id"`
	CustomerID  uuid.UUID     `json:"customer_id"`
	TotalAmount float64       `json:"total_amount"`
	Items       []CartItemDTO `json:"items"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// CartItemDTO is one cart line; Price is the line total.
type CartItemDTO struct {
	ProductID uuid.UUID `json:"product_id"`
	BranchID  uuid.UUID `json:"branch_id"`
	Quantity  int       `json:"quantity"`
	Price     float64   `json:"price"`
}

// FromModel maps a persisted cart to its DTO.
func FromModel(c *models.Cart) *CartDTO {
	if c == nil {
		return nil
	}
	items := make([]CartItemDTO, 0, len(c.Items))
	for _, item := range c.Items {
		items = append(items, CartItemDTO{
			ProductID: item.ProductID,
			BranchID:  item.BranchID,
			Quantity:  item.Quantity,
			Price:     item.Price.InexactFloat64(),
		})
	}
	return &CartDTO{
		ID:          c.ID,
		CustomerID:  c.CustomerID,
		TotalAmount: c.TotalAmount.InexactFloat64(),
		Items:       items,
		UpdatedAt:   c.UpdatedAt,
	}
}
