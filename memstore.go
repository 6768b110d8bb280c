package mqttacl

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore is a map-backed RuleStore. It serves embedded brokers
// that load their ACL at startup and the package's own tests; it is
// also the reference for the snapshot semantics the engine assumes: a
// check observes one consistent state of the store.
type MemoryStore struct {
	mu        sync.RWMutex
	rules     map[ruleKey]*ACLRule
	topics    map[string]Topic
	groups    map[string][]string
	clientIDs map[string]*ClientID
}

type ruleKey struct {
	topic  string
	access AccessKind
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		rules:     make(map[ruleKey]*ACLRule),
		topics:    make(map[string]Topic),
		groups:    make(map[string][]string),
		clientIDs: make(map[string]*ClientID),
	}
}

// AddRule registers a rule, enforcing (topic, access) uniqueness. The
// rule's topic is validated and its wildcard/dollar flags derived.
func (m *MemoryStore) AddRule(rule *ACLRule) error {
	if !rule.Access.Valid() {
		return NewError(ErrInvalidAccess, "access must be subscribe or publish")
	}
	t, err := NewTopic(rule.Topic, 0)
	if err != nil {
		return err
	}
	rule.Wildcard = t.IsWildcard()
	rule.Dollar = t.IsDollar()

	m.mu.Lock()
	defer m.mu.Unlock()
	key := ruleKey{topic: rule.Topic, access: rule.Access}
	if _, exists := m.rules[key]; exists {
		return NewError(ErrDuplicateRule, "rule already exists").WithTopic(rule.Topic).WithAccess(rule.Access)
	}
	m.rules[key] = rule
	m.topics[rule.Topic] = t
	return nil
}

// AddTopic registers a topic name without a rule, so it participates
// in candidate enumeration.
func (m *MemoryStore) AddTopic(name string) error {
	t, err := NewTopic(name, 0)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.topics[name] = t
	return nil
}

// SetGroups sets the group memberships for a principal.
func (m *MemoryStore) SetGroups(userID string, groups ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.groups[userID] = groups
}

// AddClientID registers a client identifier record.
func (m *MemoryStore) AddClientID(c *ClientID) error {
	if err := ValidateClientID(c.Name, true); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clientIDs[c.Name] = c
	return nil
}

// ExactRule implements RuleStore.
func (m *MemoryStore) ExactRule(_ context.Context, topicName string, access AccessKind) (*ACLRule, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rule, ok := m.rules[ruleKey{topic: topicName, access: access}]
	if !ok {
		return nil, NewError(ErrRuleNotFound, "no exact rule").WithTopic(topicName).WithAccess(access)
	}
	return rule, nil
}

// WildcardRules implements RuleStore. Results are name-ordered so
// enumeration is deterministic.
func (m *MemoryStore) WildcardRules(_ context.Context, access AccessKind) ([]*ACLRule, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var rules []*ACLRule
	for key, rule := range m.rules {
		if key.access == access && rule.Wildcard {
			rules = append(rules, rule)
		}
	}
	sort.Slice(rules, func(i, j int) bool { return rules[i].Topic < rules[j].Topic })
	return rules, nil
}

// CandidateTopics implements RuleStore.
func (m *MemoryStore) CandidateTopics(_ context.Context, cf CandidateFilter) ([]Topic, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Topic
	for name, t := range m.topics {
		if cf.MatchesName(name) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out, nil
}

// GroupMembership implements RuleStore.
func (m *MemoryStore) GroupMembership(_ context.Context, userID string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.groups[userID], nil
}

// LookupClientID implements RuleStore.
func (m *MemoryStore) LookupClientID(_ context.Context, name string) (*ClientID, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.clientIDs[name], nil
}
