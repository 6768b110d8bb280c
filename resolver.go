package mqttacl

import (
	"context"
	"log/slog"
)

// Resolver finds the single rule governing a concrete topic. Exact
// rules dominate wildcards; among covering wildcard rules the most
// specific wins, with a deterministic byte-wise tie-break for filters
// of equal specificity.
type Resolver struct {
	store RuleStore
	log   *slog.Logger
}

// NewResolver creates a Resolver over a store. A nil logger falls back
// to slog.Default.
func NewResolver(store RuleStore, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{store: store, log: logger}
}

// Resolve returns the governing rule for (topic, access), or nil when
// no rule applies. Store failures are returned as-is; callers deny on
// any error.
func (r *Resolver) Resolve(ctx context.Context, topic Topic, access AccessKind) (*ACLRule, error) {
	if !access.Valid() {
		return nil, NewError(ErrInvalidAccess, "access must be subscribe or publish").WithTopic(topic.Name())
	}

	rule, err := r.store.ExactRule(ctx, topic.Name(), access)
	if err == nil {
		return rule, nil
	}
	if !IsRuleNotFound(err) {
		return nil, err
	}

	wildcards, err := r.store.WildcardRules(ctx, access)
	if err != nil {
		return nil, err
	}

	var candidates []*ACLRule
	for _, w := range wildcards {
		if w.Filter().Covers(topic) {
			candidates = append(candidates, w)
		}
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	best := candidates[0]
	for _, c := range candidates[1:] {
		if cmp, _ := CompareSpecificity(c.Filter(), best.Filter()); cmp < 0 {
			best = c
		}
	}

	// Flag candidates the winner beat only by the byte-wise tie-break.
	for _, c := range candidates {
		if c == best {
			continue
		}
		if _, ambiguous := CompareSpecificity(best.Filter(), c.Filter()); ambiguous {
			r.log.Warn("ambiguous rule selection, equal specificity resolved byte-wise",
				"topic", topic.Name(),
				"access", access.String(),
				"selected", best.Topic,
				"rejected", c.Topic)
		}
	}

	return best, nil
}

// BroadcastRule returns the rule registered on the literal '#' filter
// for an access kind, or nil when none exists. It is the default
// policy applied when no other rule governs a topic.
func (r *Resolver) BroadcastRule(ctx context.Context, access AccessKind) (*ACLRule, error) {
	rule, err := r.store.ExactRule(ctx, WildcardMulti, access)
	if err != nil {
		if IsRuleNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return rule, nil
}
