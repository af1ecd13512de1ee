package auth

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"
)

type contextKey string

const claimsKey contextKey = "claims"

var ErrNoClaims = errors.New("no authenticated user in context")

// CurrentClaims retrieves the caller's identity from the context. Returns
// ErrNoClaims when the request was not authenticated.
func CurrentClaims(ctx context.Context) (Claims, error) {
	claims, ok := ctx.Value(claimsKey).(Claims)
	if !ok {
		log.Trace("claims not found in context")
		return Claims{}, ErrNoClaims
	}
	return claims, nil
}

// CurrentUserID retrieves the caller's account id from the context.
func CurrentUserID(ctx context.Context) (string, error) {
	claims, err := CurrentClaims(ctx)
	if err != nil {
		return "", err
	}
	return claims.UserID, nil
}

func WithClaims(ctx context.Context, claims Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}
