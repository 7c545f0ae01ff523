package auth

import (
	"context"
	"strings"
)

// Identity is the authenticated practitioner attached to a request. It is
// what round activity stamps record; handlers never read token claims
// directly.
type Identity struct {
	UserID string
	Name   string
	Email  string
}

// DisplayName returns the identity's name, falling back to the title-cased
// local part of the email address ("jdoe@x.org" -> "Jdoe").
func (i *Identity) DisplayName() string {
	if i.Name != "" {
		return i.Name
	}
	local, _, _ := strings.Cut(i.Email, "@")
	if local == "" {
		return ""
	}
	return strings.ToUpper(local[:1]) + local[1:]
}

type contextKey string

const identityKey contextKey = "identity"

// WithIdentity returns a context carrying the given identity.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFromContext returns the request identity, or nil for anonymous
// callers.
func IdentityFromContext(ctx context.Context) *Identity {
	id, _ := ctx.Value(identityKey).(*Identity)
	return id
}

// UserIDFromContext returns the authenticated user ID, or "" if anonymous.
func UserIDFromContext(ctx context.Context) string {
	if id := IdentityFromContext(ctx); id != nil {
		return id.UserID
	}
	return ""
}
