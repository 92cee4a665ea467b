package cart

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/pricepal-backend/pkg/db/models"
)

// CartRepository defines the persistence surface required by the cart service.
type CartRepository interface {
	WithTx(tx *gorm.DB) CartRepository
	FindByCustomer(ctx context.Context, customerID uuid.UUID) (*models.Cart, error)
	Create(ctx context.Context, cart *models.Cart) (*models.Cart, error)
	Save(ctx context.Context, cart *models.Cart) (*models.Cart, error)
	ReplaceItems(ctx context.Context, cartID uuid.UUID, items []models.CartItem) error
}
