package access

import "context"

// Identity is the authenticated identity-provider subject attached to a request.
type Identity struct {
	ExternalID string
}

type identityContextKey struct{}
type systemContextKey struct{}

// ContextWithIdentity attaches the authenticated identity to the context.
func ContextWithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, &identity)
}

// IdentityFromContext extracts the authenticated identity from the context.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	if ctx == nil {
		return Identity{}, false
	}
	v, ok := ctx.Value(identityContextKey{}).(*Identity)
	if !ok || v == nil || v.ExternalID == "" {
		return Identity{}, false
	}
	return *v, true
}

// WithSystemCaller marks the context as belonging to an in-process job.
// System callers act with the admin role.
func WithSystemCaller(ctx context.Context) context.Context {
	return context.WithValue(ctx, systemContextKey{}, true)
}

func isSystem(ctx context.Context) bool {
	v, _ := ctx.Value(systemContextKey{}).(bool)
	return v
}
