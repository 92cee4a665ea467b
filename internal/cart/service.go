package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/pricepal-backend/pkg/db"
	"github.com/angelmondragon/pricepal-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/pricepal-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type productLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// MergeMode selects how resolved shopping-list lines land in the cart.
type MergeMode string

const (
	// MergeAdditive appends missing pairs and leaves existing lines untouched.
	MergeAdditive MergeMode = "additive"
	// MergeReplace empties the cart before inserting the lines.
	MergeReplace MergeMode = "replace"
)

// Line is one resolved product to merge at quantity 1.
type Line struct {
	ProductID uuid.UUID
	BranchID  uuid.UUID
	UnitPrice decimal.Decimal
}

// ItemInput identifies a cart line and, for add/update, its quantity.
type ItemInput struct {
	ProductID uuid.UUID
	BranchID  uuid.UUID
	Quantity  int
}

// Service exposes cart operations for a single customer.
type Service interface {
	GetCart(ctx context.Context, customerID uuid.UUID) (*models.Cart, error)
	AddItem(ctx context.Context, customerID uuid.UUID, input ItemInput) (*models.Cart, error)
	UpdateItem(ctx context.Context, customerID uuid.UUID, input ItemInput) (*models.Cart, error)
	RemoveItem(ctx context.Context, customerID uuid.UUID, input ItemInput) (*models.Cart, error)
	Clear(ctx context.Context, customerID uuid.UUID) (*models.Cart, error)
	MergeLines(ctx context.Context, customerID uuid.UUID, lines []Line, mode MergeMode) (*models.Cart, error)
}

type service struct {
	repo     CartRepository
	tx       txRunner
	products productLoader
}

// NewService constructs a cart service with the provided dependencies.
func NewService(repo CartRepository, tx txRunner, products productLoader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	return &service{
		repo:     repo,
		tx:       tx,
		products: products,
	}, nil
}

func (s *service) GetCart(ctx context.Context, customerID uuid.UUID) (*models.Cart, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}
	return s.getOrCreate(ctx, customerID)
}

func (s *service) AddItem(ctx context.Context, customerID uuid.UUID, input ItemInput) (*models.Cart, error) {
	product, err := s.purchasable(ctx, input)
	if err != nil {
		return nil, err
	}

	return s.mutate(ctx, customerID, true, func(cart *models.Cart) error {
		price := models.LinePrice(product.UnitPrice, input.Quantity)
		if idx := cart.FindItem(product.ID, product.BranchID); idx >= 0 {
			cart.Items[idx].Quantity = input.Quantity
			cart.Items[idx].Price = price
			return nil
		}
		cart.Items = append(cart.Items, models.CartItem{
			ProductID: product.ID,
			BranchID:  product.BranchID,
			Quantity:  input.Quantity,
			Price:     price,
		})
		return nil
	})
}

func (s *service) UpdateItem(ctx context.Context, customerID uuid.UUID, input ItemInput) (*models.Cart, error) {
	product, err := s.purchasable(ctx, input)
	if err != nil {
		return nil, err
	}

	return s.mutate(ctx, customerID, false, func(cart *models.Cart) error {
		idx := cart.FindItem(product.ID, product.BranchID)
		if idx < 0 {
			return pkgerrors.New(pkgerrors.CodeNotFound, "item not found in cart")
		}
		cart.Items[idx].Quantity = input.Quantity
		cart.Items[idx].Price = models.LinePrice(product.UnitPrice, input.Quantity)
		return nil
	})
}

func (s *service) RemoveItem(ctx context.Context, customerID uuid.UUID, input ItemInput) (*models.Cart, error) {
	if input.ProductID == uuid.Nil || input.BranchID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product_id and branch_id are required")
	}
	return s.mutate(ctx, customerID, false, func(cart *models.Cart) error {
		idx := cart.FindItem(input.ProductID, input.BranchID)
		if idx < 0 {
			return pkgerrors.New(pkgerrors.CodeNotFound, "item not found in cart")
		}
		cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)
		return nil
	})
}

func (s *service) Clear(ctx context.Context, customerID uuid.UUID) (*models.Cart, error) {
	return s.mutate(ctx, customerID, false, func(cart *models.Cart) error {
		cart.Items = []models.CartItem{}
		return nil
	})
}

// MergeLines writes resolved lines into the cart. Pairs already present keep
// their quantity; a pair repeated within lines lands once.
func (s *service) MergeLines(ctx context.Context, customerID uuid.UUID, lines []Line, mode MergeMode) (*models.Cart, error) {
	if mode != MergeAdditive && mode != MergeReplace {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown merge mode %q", mode))
	}
	return s.mutate(ctx, customerID, true, func(cart *models.Cart) error {
		if mode == MergeReplace {
			cart.Items = []models.CartItem{}
		}
		for _, line := range lines {
			if cart.FindItem(line.ProductID, line.BranchID) >= 0 {
				continue
			}
			cart.Items = append(cart.Items, models.CartItem{
				ProductID: line.ProductID,
				BranchID:  line.BranchID,
				Quantity:  1,
				Price:     models.LinePrice(line.UnitPrice, 1),
			})
		}
		return nil
	})
}

// mutate runs read-modify-write on the cart inside a transaction. Concurrent
// writers for the same customer are last-write-wins.
func (s *service) mutate(ctx context.Context, customerID uuid.UUID, create bool, fn func(cart *models.Cart) error) (*models.Cart, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}

	if create {
		if _, err := s.getOrCreate(ctx, customerID); err != nil {
			return nil, err
		}
	}

	var saved *models.Cart
	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		cart, err := txRepo.FindByCustomer(ctx, customerID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
		}
		if err != nil {
			return wrapStoreError(err, "load cart")
		}

		if err := fn(cart); err != nil {
			return err
		}

		if _, err := txRepo.Save(ctx, cart); err != nil {
			return wrapStoreError(err, "save cart")
		}
		saved, err = txRepo.FindByCustomer(ctx, customerID)
		return wrapStoreError(err, "reload cart")
	}); err != nil {
		return nil, err
	}
	return saved, nil
}

// getOrCreate runs outside the mutation transaction so a lost create race can re-read.
func (s *service) getOrCreate(ctx context.Context, customerID uuid.UUID) (*models.Cart, error) {
	repo := s.repo
	cart, err := repo.FindByCustomer(ctx, customerID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, wrapStoreError(err, "load cart")
	}

	created, err := repo.Create(ctx, &models.Cart{CustomerID: customerID, TotalAmount: decimal.Zero})
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			cart, err := repo.FindByCustomer(ctx, customerID)
			return cart, wrapStoreError(err, "load cart")
		}
		return nil, wrapStoreError(err, "create cart")
	}
	created.Items = []models.CartItem{}
	return created, nil
}

// purchasable validates the input against the live product row.
func (s *service) purchasable(ctx context.Context, input ItemInput) (*models.Product, error) {
	if input.ProductID == uuid.Nil || input.BranchID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product_id and branch_id are required")
	}
	if input.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	product, err := s.products.FindByID(ctx, input.ProductID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	if product.BranchID != input.BranchID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "branch_id does not own this product")
	}
	if input.Quantity > product.Stock {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "requested quantity exceeds available stock").
			WithDetails(map[string]any{"available": product.Stock})
	}
	return product, nil
}

func wrapStoreError(err error, msg string) error {
	if err == nil {
		return nil
	}
	if pkgerrors.As(err) != nil {
		return err
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, msg)
}
