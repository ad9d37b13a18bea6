package api

import (
	"context"

	"github.com/rpupo63/photo-portfolio/auth"
)

type keyType string

const claimsKey keyType = "claims"

// ctxWithClaims adds the verified token claims to the context
func ctxWithClaims(ctx context.Context, claims *auth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// ctxGetClaims retrieves the verified token claims from the context
func ctxGetClaims(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*auth.Claims)
	return claims, ok && claims != nil
}
