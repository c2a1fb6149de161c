package domain

import "context"

// Owner is the authenticated caller identity attached to a request. The ID is
// the external identity reference wallets are keyed by.
type Owner struct {
	ID    string
	Email string
}

type ownerContextKey struct{}

// ContextWithOwner attaches the caller identity to a context.
func ContextWithOwner(ctx context.Context, owner *Owner) context.Context {
	return context.WithValue(ctx, ownerContextKey{}, owner)
}

// OwnerFromContext extracts the caller identity from a context.
func OwnerFromContext(ctx context.Context) (*Owner, bool) {
	owner, ok := ctx.Value(ownerContextKey{}).(*Owner)
	return owner, ok
}
