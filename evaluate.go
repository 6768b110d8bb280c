package mqttacl

import (
	"context"
	"log/slog"
)

// Engine is the access-control decision core. It is stateless and
// read-only over the store: checks may run fully in parallel, and
// repeated checks against an unchanged store return identical results.
// Any store failure makes the check deny (fail-closed).
type Engine struct {
	store    RuleStore
	cfg      Config
	resolver *Resolver
}

// NewEngine creates an Engine over a store. A nil logger falls back to
// slog.Default.
func NewEngine(store RuleStore, cfg Config, logger *slog.Logger) *Engine {
	return &Engine{
		store:    store,
		cfg:      cfg,
		resolver: NewResolver(store, logger),
	}
}

// Config returns the engine's configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Resolver returns the engine's rule resolver.
func (e *Engine) Resolver() *Resolver {
	return e.resolver
}

// Evaluate computes the decision for a resolved rule. It is a pure
// function of its inputs:
//
//   - a public rule (no users, no groups, no secret) decides by its
//     Allow flag alone
//   - a named principal that belongs to the rule's user or group set
//     gets Allow; one that does not gets the inverse of Allow (the
//     allow-list inversion: a deny rule scoped to a set denies members
//     and admits everyone else)
//   - an anonymous principal against a non-public rule is denied unless
//     a secret decides otherwise
//   - when the rule carries a secret and one was supplied, the
//     constant-time verification result overrides the membership
//     decision
func Evaluate(rule *ACLRule, p *Principal, secret string) bool {
	if rule.IsPublic() {
		return rule.Allow
	}
	allow := false
	if p != nil {
		if rule.hasMember(p) {
			allow = rule.Allow
		} else {
			allow = !rule.Allow
		}
	}
	if rule.Secret != "" && secret != "" {
		allow = rule.CheckSecret(secret)
	}
	return allow
}

// CheckACL decides whether the principal may perform access on the
// topic. The topic must be concrete (it may still be validated as a
// filter for subscribe checks, where brokers pass subscription
// filters). Returns the decision plus the error that forced a deny, if
// any; the decision is authoritative either way.
func (e *Engine) CheckACL(ctx context.Context, topicName string, access AccessKind, p *Principal, secret string) (bool, error) {
	topic, err := NewTopic(topicName, e.cfg.maxTopicLen())
	if err != nil {
		return false, err
	}

	p, err = e.withGroups(ctx, p)
	if err != nil {
		return false, err
	}

	rule, err := e.resolver.Resolve(ctx, topic, access)
	if err != nil {
		return false, err
	}
	if rule == nil {
		return e.defaultDecision(ctx, access, p, secret)
	}
	return Evaluate(rule, p, secret), nil
}

// CheckConnect decides whether a client may connect. The client
// identifier is validated and checked against the identifier registry;
// the optional secret is then verified through the default policy path
// (the subscribe-side broadcast rule is the conventional carrier of a
// connect-time secret).
func (e *Engine) CheckConnect(ctx context.Context, clientID string, p *Principal, secret string) (bool, error) {
	if err := ValidateClientID(clientID, e.cfg.AllowEmptyClientID); err != nil {
		return false, err
	}

	p, err := e.withGroups(ctx, p)
	if err != nil {
		return false, err
	}

	rec, err := e.store.LookupClientID(ctx, clientID)
	if err != nil {
		return false, err
	}
	if rec != nil && !rec.HasPermission(p) {
		return false, nil
	}

	return e.defaultDecision(ctx, AccessSubscribe, p, secret)
}

// defaultDecision applies the policy when no rule governs a topic: the
// broadcast '#' rule when present, otherwise the configured defaults,
// with the anonymous gate short-circuiting before any store access.
func (e *Engine) defaultDecision(ctx context.Context, access AccessKind, p *Principal, secret string) (bool, error) {
	allow := e.cfg.DefaultAllow
	if p == nil {
		allow = allow && e.cfg.DefaultAllowAnonymous
		if !allow && secret == "" {
			return false, nil
		}
	}

	broadcast, err := e.resolver.BroadcastRule(ctx, access)
	if err != nil {
		return false, err
	}
	if broadcast != nil {
		return Evaluate(broadcast, p, secret), nil
	}
	return allow, nil
}

// withGroups returns the principal with group memberships loaded from
// the store when it carries none. The caller's value is never mutated.
func (e *Engine) withGroups(ctx context.Context, p *Principal) (*Principal, error) {
	if p == nil || p.Groups != nil {
		return p, nil
	}
	groups, err := e.store.GroupMembership(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	if groups == nil {
		groups = []string{}
	}
	return &Principal{ID: p.ID, Groups: groups}, nil
}
