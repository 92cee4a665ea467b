package controllers

import (
	"net/http"

	"github.com/angelmondragon/pricepal-backend/api/responses"
	"github.com/angelmondragon/pricepal-backend/api/validators"
	"github.com/angelmondragon/pricepal-backend/internal/shoppinglist"
	pkgerrors "github.com/angelmondragon/pricepal-backend/pkg/errors"
	"github.com/angelmondragon/pricepal-backend/pkg/logger"
)

const maxListLength = 5000

type shoppingListRequest struct {
	List string `json:"list" validate:"required,max=5000"`
}

// ShoppingListProcess resolves a list and adds the cheapest matches to the cart.
func ShoppingListProcess(svc shoppinglist.Service, logg *logger.Logger) http.HandlerFunc {
	return shoppingListHandler(svc, logg, false)
}

// ShoppingListUpdate resolves a list and replaces the cart contents with the matches.
func ShoppingListUpdate(svc shoppinglist.Service, logg *logger.Logger) http.HandlerFunc {
	return shoppingListHandler(svc, logg, true)
}

// ShoppingListClear empties the caller's cart.
func ShoppingListClear(svc shoppinglist.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "shopping list service unavailable"))
			return
		}

		customerID, _, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cart, err := svc.Clear(r.Context(), customerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"cart": cart})
	}
}

func shoppingListHandler(svc shoppinglist.Service, logg *logger.Logger, replace bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "shopping list service unavailable"))
			return
		}

		customerID, _, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload shoppingListRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list := validators.SanitizeString(payload.List, maxListLength)
		var result *shoppinglist.Result
		if replace {
			result, err = svc.Update(r.Context(), customerID, list)
		} else {
			result, err = svc.Process(r.Context(), customerID, list)
		}
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}
