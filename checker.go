package mqttacl

import "context"

// Checker binds an Engine to one principal for repeated checks. It is
// typically created once per connection and stored in context for use
// in broker callbacks.
type Checker struct {
	engine    *Engine
	principal *Principal
	secret    string
}

// NewChecker creates a Checker. principal may be nil for anonymous
// clients; secret may be empty.
func NewChecker(engine *Engine, principal *Principal, secret string) *Checker {
	return &Checker{
		engine:    engine,
		principal: principal,
		secret:    secret,
	}
}

// Principal returns the principal this checker is for, nil when
// anonymous.
func (c *Checker) Principal() *Principal {
	return c.principal
}

// CanPublish reports whether the principal may publish to the topic.
//
// Example:
//
//	if checker.CanPublish(ctx, "sensors/livingroom/temp") {
//	    // deliver the message
//	}
func (c *Checker) CanPublish(ctx context.Context, topicName string) bool {
	ok, _ := c.engine.CheckACL(ctx, topicName, AccessPublish, c.principal, c.secret)
	return ok
}

// CanSubscribe reports whether the principal may subscribe with the
// topic filter.
func (c *Checker) CanSubscribe(ctx context.Context, filterName string) bool {
	ok, _ := c.engine.CheckACL(ctx, filterName, AccessSubscribe, c.principal, c.secret)
	return ok
}

// CanConnect reports whether the principal may connect with the client
// identifier.
func (c *Checker) CanConnect(ctx context.Context, clientID string) bool {
	ok, _ := c.engine.CheckConnect(ctx, clientID, c.principal, c.secret)
	return ok
}

// Can reports whether the principal may perform access on the topic.
func (c *Checker) Can(ctx context.Context, topicName string, access AccessKind) bool {
	ok, _ := c.engine.CheckACL(ctx, topicName, access, c.principal, c.secret)
	return ok
}
