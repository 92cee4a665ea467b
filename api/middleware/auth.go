package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/angelmondragon/pricepal-backend/api/responses"
	pkgAuth "github.com/angelmondragon/pricepal-backend/pkg/auth"
	"github.com/angelmondragon/pricepal-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/pricepal-backend/pkg/errors"
	"github.com/angelmondragon/pricepal-backend/pkg/logger"
)

// Auth validates a bearer token and seeds the request context with the claims.
func Auth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			token := raw
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[7:])
			}
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgAuth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			ctx := context.WithValue(r.Context(), ctxUserID, claims.UserID.String())
			ctx = context.WithValue(ctx, ctxRole, string(claims.Role))
			if claims.SupermarketID != nil {
				ctx = context.WithValue(ctx, ctxSupermarketID, claims.SupermarketID.String())
			}
			if claims.BranchID != nil {
				ctx = context.WithValue(ctx, ctxBranchID, claims.BranchID.String())
			}

			if logg != nil {
				ctx = logg.WithUserID(ctx, claims.UserID.String())
				ctx = logg.WithActorRole(ctx, string(claims.Role))
				if claims.SupermarketID != nil {
					ctx = logg.WithSupermarketID(ctx, claims.SupermarketID.String())
				}
				if claims.BranchID != nil {
					ctx = logg.WithBranchID(ctx, claims.BranchID.String())
				}
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
