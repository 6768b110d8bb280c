package mqttacl

import "context"

// RuleStore provides the engine's view of the authorization data. The
// engine only reads; rule ownership stays with the store. A store
// implementation reports unreachability by returning an error wrapping
// ErrStoreUnavailable — the engine turns any store error into a deny.
type RuleStore interface {
	// ExactRule returns the rule keyed by the literal (topic, access)
	// pair, or ErrRuleNotFound.
	ExactRule(ctx context.Context, topicName string, access AccessKind) (*ACLRule, error)

	// WildcardRules returns all wildcard rules for an access kind.
	WildcardRules(ctx context.Context, access AccessKind) ([]*ACLRule, error)

	// CandidateTopics returns stored non-wildcard topics satisfying the
	// prefilter. Callers verify each with Covers.
	CandidateTopics(ctx context.Context, cf CandidateFilter) ([]Topic, error)

	// GroupMembership returns the group ids a principal belongs to.
	GroupMembership(ctx context.Context, userID string) ([]string, error)

	// LookupClientID returns the registered client identifier record,
	// or nil when the identifier is unknown.
	LookupClientID(ctx context.Context, name string) (*ClientID, error)
}
