package search

import (
	"github.com/google/uuid"

	"github.com/angelmondragon/pricepal-backend/pkg/enums"
)

// TenantScope restricts catalog visibility. A nil SupermarketID sees every tenant.
type TenantScope struct {
	SupermarketID *uuid.UUID
	Role          enums.Role
}

// AllTenants is the customer-facing scope.
func AllTenants(role enums.Role) TenantScope {
	return TenantScope{Role: role}
}

// ForSupermarket limits results to one tenant's catalog.
func ForSupermarket(id uuid.UUID, role enums.Role) TenantScope {
	return TenantScope{SupermarketID: &id, Role: role}
}

// IsScoped reports whether the scope is limited to a single tenant.
func (s TenantScope) IsScoped() bool {
	return s.SupermarketID != nil
}

// Allows reports whether a product owned by supermarketID is visible.
func (s TenantScope) Allows(supermarketID uuid.UUID) bool {
	return !s.IsScoped() || *s.SupermarketID == supermarketID
}

// CacheKey is a stable string form used in result cache keys.
func (s TenantScope) CacheKey() string {
	if !s.IsScoped() {
		return "all"
	}
	return s.SupermarketID.String()
}
