package auth

import (
	"context"

	"github.com/aryan0dhankhar/projectmatch/internal/domain"
)

// Identity is the authenticated caller attached to a request
type Identity struct {
	UserID int64
	Email  string
	Role   domain.Role
}

type identityKey struct{}

// WithIdentity returns a copy of ctx carrying id
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFrom returns the caller identity, if the request was authenticated
func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}
