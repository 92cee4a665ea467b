package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/angelmondragon/pricepal-backend/api/responses"
	"github.com/angelmondragon/pricepal-backend/api/validators"
	"github.com/angelmondragon/pricepal-backend/internal/search"
	pkgerrors "github.com/angelmondragon/pricepal-backend/pkg/errors"
	"github.com/angelmondragon/pricepal-backend/pkg/logger"
)

const maxQueryLength = 500

type searchProductsRequest struct {
	Query        string `json:"query" validate:"required,max=500"`
	IsVoiceInput bool   `json:"is_voice_input"`
}

// SearchProducts runs a free-text product search within the caller's tenant scope.
func SearchProducts(svc search.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "search service unavailable"))
			return
		}

		scope, err := scopeFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload searchProductsRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Query(r.Context(), search.QueryInput{
			Query:   validators.SanitizeString(payload.Query, maxQueryLength),
			IsVoice: payload.IsVoiceInput,
			Scope:   scope,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// SearchProductDetail returns a single enriched product.
func SearchProductDetail(svc search.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "search service unavailable"))
			return
		}

		scope, err := scopeFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := uuid.Parse(strings.TrimSpace(chi.URLParam(r, "productId")))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		detail, err := svc.ProductDetail(r.Context(), productID, scope)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, detail)
	}
}
