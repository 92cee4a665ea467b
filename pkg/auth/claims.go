package auth

import (
	"github.com/angelmondragon/pricepal-backend/pkg/enums"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload captures the identity the auth service signs into a JWT.
type AccessTokenPayload struct {
	UserID        uuid.UUID
	Role          enums.Role
	SupermarketID *uuid.UUID
	BranchID      *uuid.UUID
	JTI           string
}

// AccessTokenClaims represents the typed JWT presented by clients.
type AccessTokenClaims struct {
	UserID        uuid.UUID  `json:"user_id"`
	Role          enums.Role `json:"role"`
	SupermarketID *uuid.UUID `json:"supermarket_id,omitempty"`
	BranchID      *uuid.UUID `json:"branch_id,omitempty"`
	jwt.RegisteredClaims
}
