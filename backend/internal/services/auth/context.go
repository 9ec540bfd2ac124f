package auth

import (
	"context"

	"github.com/TLN1/linkr-back/backend/internal/domain/enums"
)

type identityKey struct{}

// Identity is the authenticated actor attached to a request context.
type Identity struct {
	UserID int64
	SID    string
	Role   enums.Role
}

func WithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(identityKey{}).(Identity)
	if !ok || identity.UserID <= 0 {
		return Identity{}, false
	}
	return identity, true
}
