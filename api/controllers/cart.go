package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/angelmondragon/pricepal-backend/api/responses"
	"github.com/angelmondragon/pricepal-backend/api/validators"
	cartsvc "github.com/angelmondragon/pricepal-backend/internal/cart"
	"github.com/angelmondragon/pricepal-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/pricepal-backend/pkg/errors"
	"github.com/angelmondragon/pricepal-backend/pkg/logger"
)

type cartItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	BranchID  uuid.UUID `json:"branch_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,min=1"`
}

func (r cartItemRequest) toInput() cartsvc.ItemInput {
	return cartsvc.ItemInput{ProductID: r.ProductID, BranchID: r.BranchID, Quantity: r.Quantity}
}

type cartItemRefRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	BranchID  uuid.UUID `json:"branch_id" validate:"required"`
}

// CartFetch returns the caller's cart, creating an empty one on first access.
func CartFetch(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return cartHandler(svc, logg, func(r *http.Request, customerID uuid.UUID) (*models.Cart, error) {
		return svc.GetCart(r.Context(), customerID)
	})
}

// CartAddItem adds a product line, or sets the quantity of an existing one.
func CartAddItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return cartHandler(svc, logg, func(r *http.Request, customerID uuid.UUID) (*models.Cart, error) {
		var payload cartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			return nil, err
		}
		return svc.AddItem(r.Context(), customerID, payload.toInput())
	})
}

// CartUpdateItem changes the quantity of an existing line.
func CartUpdateItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return cartHandler(svc, logg, func(r *http.Request, customerID uuid.UUID) (*models.Cart, error) {
		var payload cartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			return nil, err
		}
		return svc.UpdateItem(r.Context(), customerID, payload.toInput())
	})
}

// CartRemoveItem deletes a line from the cart.
func CartRemoveItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return cartHandler(svc, logg, func(r *http.Request, customerID uuid.UUID) (*models.Cart, error) {
		var payload cartItemRefRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			return nil, err
		}
		return svc.RemoveItem(r.Context(), customerID, cartsvc.ItemInput{ProductID: payload.ProductID, BranchID: payload.BranchID})
	})
}

// CartClear empties the caller's cart.
func CartClear(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return cartHandler(svc, logg, func(r *http.Request, customerID uuid.UUID) (*models.Cart, error) {
		return svc.Clear(r.Context(), customerID)
	})
}

func cartHandler(svc cartsvc.Service, logg *logger.Logger, fn func(r *http.Request, customerID uuid.UUID) (*models.Cart, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		customerID, _, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := fn(r, customerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, cartsvc.FromModel(record))
	}
}
