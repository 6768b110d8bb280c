package mqttacl

import (
	"context"
)

// Context keys for mqttacl values.
type contextKey string

const (
	contextKeyPrincipal contextKey = "mqttacl:principal"
	contextKeyClientID  contextKey = "mqttacl:client_id"
	contextKeyChecker   contextKey = "mqttacl:checker"
)

// WithPrincipal adds a principal to the context.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, contextKeyPrincipal, p)
}

// PrincipalFromContext retrieves the principal from context. Returns
// nil (anonymous) if not set.
func PrincipalFromContext(ctx context.Context) *Principal {
	if v := ctx.Value(contextKeyPrincipal); v != nil {
		if p, ok := v.(*Principal); ok {
			return p
		}
	}
	return nil
}

// WithClientID adds a client identifier to the context.
func WithClientID(ctx context.Context, clientID string) context.Context {
	return context.WithValue(ctx, contextKeyClientID, clientID)
}

// ClientIDFromContext retrieves the client identifier from context.
// Returns empty string if not set.
func ClientIDFromContext(ctx context.Context) string {
	if v := ctx.Value(contextKeyClientID); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// WithChecker adds a Checker to the context.
func WithChecker(ctx context.Context, c *Checker) context.Context {
	return context.WithValue(ctx, contextKeyChecker, c)
}

// CheckerFromContext retrieves the Checker from context. Returns nil
// if not set.
func CheckerFromContext(ctx context.Context) *Checker {
	if v := ctx.Value(contextKeyChecker); v != nil {
		if c, ok := v.(*Checker); ok {
			return c
		}
	}
	return nil
}
