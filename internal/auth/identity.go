// Package auth resolves admin identities. Nothing here hard-codes a user:
// credentials come from configuration and tokens are verified on every call.
package auth

import (
	"context"

	"github.com/samims/ecowatt/internal/model"
)

type Identity struct {
	UserID string     `json:"user_id"`
	Email  string     `json:"email"`
	Role   model.Role `json:"role"`
}

// IdentityResolver turns a bearer token into an identity.
type IdentityResolver interface {
	Resolve(ctx context.Context, token string) (*Identity, error)
}

// Authenticator checks login credentials.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (*Identity, error)
}

type ctxKey struct{}

func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(*Identity)
	return id, ok && id != nil
}
