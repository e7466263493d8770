package auth

import "context"

type contextKey string

const ctxKeyClaims contextKey = "auth_claims"

// ContextWithClaims stores decoded claims for downstream handlers.
func ContextWithClaims(ctx context.Context, c *UnverifiedClaims) context.Context {
	return context.WithValue(ctx, ctxKeyClaims, c)
}

// ClaimsFromContext returns the claims stored by the auth middleware, or nil.
func ClaimsFromContext(ctx context.Context) *UnverifiedClaims {
	if c, ok := ctx.Value(ctxKeyClaims).(*UnverifiedClaims); ok {
		return c
	}
	return nil
}
