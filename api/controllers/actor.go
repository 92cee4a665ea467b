package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/angelmondragon/pricepal-backend/api/middleware"
	"github.com/angelmondragon/pricepal-backend/internal/search"
	"github.com/angelmondragon/pricepal-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/pricepal-backend/pkg/errors"
)

func actorFromRequest(r *http.Request) (uuid.UUID, enums.Role, error) {
	ctx := r.Context()
	rawUser := middleware.UserIDFromContext(ctx)
	if rawUser == "" {
		return uuid.Nil, "", pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	userID, err := uuid.Parse(rawUser)
	if err != nil {
		return uuid.Nil, "", pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user id")
	}
	role, err := enums.ParseRole(middleware.RoleFromContext(ctx))
	if err != nil {
		return uuid.Nil, "", pkgerrors.Wrap(pkgerrors.CodeForbidden, err, "invalid role")
	}
	return userID, role, nil
}

// scopeFromRequest builds the tenant scope for the caller: customers see every
// supermarket, tenant roles only their own.
func scopeFromRequest(r *http.Request) (search.TenantScope, error) {
	_, role, err := actorFromRequest(r)
	if err != nil {
		return search.TenantScope{}, err
	}
	if !role.IsTenantScoped() {
		return search.AllTenants(role), nil
	}

	raw := middleware.SupermarketIDFromContext(r.Context())
	if raw == "" {
		return search.TenantScope{}, pkgerrors.New(pkgerrors.CodeForbidden, "supermarket context missing")
	}
	supermarketID, err := uuid.Parse(raw)
	if err != nil {
		return search.TenantScope{}, pkgerrors.Wrap(pkgerrors.CodeForbidden, err, "invalid supermarket id")
	}
	return search.ForSupermarket(supermarketID, role), nil
}
