package middleware

import "context"

type contextKey string

const (
	ctxUserID        contextKey = "user_id"
	ctxRole          contextKey = "actor_role"
	ctxSupermarketID contextKey = "supermarket_id"
	ctxBranchID      contextKey = "branch_id"
)

func UserIDFromContext(ctx context.Context) string {
	return stringValue(ctx, ctxUserID)
}

func RoleFromContext(ctx context.Context) string {
	return stringValue(ctx, ctxRole)
}

func SupermarketIDFromContext(ctx context.Context) string {
	return stringValue(ctx, ctxSupermarketID)
}

func BranchIDFromContext(ctx context.Context) string {
	return stringValue(ctx, ctxBranchID)
}

func stringValue(ctx context.Context, key contextKey) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(key).(string); ok {
		return v
	}
	return ""
}

// WithUserID injects the user identifier into the context.
func WithUserID(ctx context.Context, userID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxUserID, userID)
}

// WithRole injects the actor role into the context.
func WithRole(ctx context.Context, role string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxRole, role)
}

// WithSupermarketID injects the tenant identifier into the context for downstream handlers.
func WithSupermarketID(ctx context.Context, supermarketID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxSupermarketID, supermarketID)
}
