package auth

import "context"

// Principal is the authenticated caller of a request
type Principal struct {
	UserID  string
	Email   string
	TokenID string
	IsAdmin bool
}

// CurrentUser returns the caller's user id
func (p *Principal) CurrentUser() string {
	if p == nil {
		return ""
	}
	return p.UserID
}

// IsPrivileged reports whether the caller holds the admin role
func (p *Principal) IsPrivileged() bool {
	return p != nil && p.IsAdmin
}

type principalKey struct{}

// WithPrincipal returns a copy of ctx carrying p
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// FromContext returns the principal stored in ctx, or nil for anonymous requests
func FromContext(ctx context.Context) *Principal {
	p, _ := ctx.Value(principalKey{}).(*Principal)
	return p
}
