package mqttacl

import (
	"context"

	"github.com/fernandezvara/dbkit"
)

// Service is the database-backed RuleStore plus the management surface
// for rules, topics, client identifiers, and group memberships.
//
// Error Handling:
// All database operations use dbkit's chainable error wrapping to
// provide context about failed operations. Read-path failures surface
// as ErrStoreUnavailable so the engine denies (fail-closed); lookup
// misses surface as ErrRuleNotFound.
//
// Example:
//
//	db, _ := dbkit.New(dbkit.Config{URL: "postgres://..."})
//	service := mqttacl.NewService(db, mqttacl.Config{DefaultAllow: false})
//	engine := mqttacl.NewEngine(service, service.ConfigValue(), nil)
type Service struct {
	db  dbkit.IDB
	cfg Config
}

// Interface compliance check.
var _ RuleStore = (*Service)(nil)

// NewService creates a new Service.
func NewService(db dbkit.IDB, cfg Config) *Service {
	return &Service{db: db, cfg: cfg}
}

// ConfigValue returns the service configuration.
func (s *Service) ConfigValue() Config {
	return s.cfg
}

// Engine returns a decision engine backed by this service.
func (s *Service) Engine() *Engine {
	return NewEngine(s, s.cfg, nil)
}

// ExactRule implements RuleStore.
func (s *Service) ExactRule(ctx context.Context, topicName string, access AccessKind) (*ACLRule, error) {
	var rule ACLRule
	err := dbkit.WithErr1(s.db.NewSelect().Model(&rule).Where("topic = ? AND access = ?", topicName, access).Limit(1).Scan(ctx), "ExactRule").Err()
	if err != nil {
		if dbkit.IsNotFound(err) {
			return nil, NewError(ErrRuleNotFound, "no exact rule").WithTopic(topicName).WithAccess(access)
		}
		return nil, NewError(ErrStoreUnavailable, err.Error()).WithTopic(topicName).WithAccess(access)
	}
	return &rule, nil
}

// WildcardRules implements RuleStore. Results are name-ordered so
// resolution enumerates deterministically.
func (s *Service) WildcardRules(ctx context.Context, access AccessKind) ([]*ACLRule, error) {
	var rules []*ACLRule
	err := dbkit.WithErr1(s.db.NewSelect().Model(&rules).Where("wildcard = ? AND access = ?", true, access).Order("topic ASC").Scan(ctx), "WildcardRules").Err()
	if err != nil {
		return nil, NewError(ErrStoreUnavailable, err.Error()).WithAccess(access)
	}
	return rules, nil
}

// CandidateTopics implements RuleStore: stored non-wildcard topics
// satisfying the prefilter, for later exact verification with Covers.
func (s *Service) CandidateTopics(ctx context.Context, cf CandidateFilter) ([]Topic, error) {
	var stored []StoredTopic
	q := cf.Apply(s.db.NewSelect().Model(&stored)).Order("name ASC")
	err := dbkit.WithErr1(q.Scan(ctx), "CandidateTopics").Err()
	if err != nil {
		return nil, NewError(ErrStoreUnavailable, err.Error())
	}
	topics := make([]Topic, 0, len(stored))
	for i := range stored {
		topics = append(topics, stored[i].Topic())
	}
	return topics, nil
}

// GroupMembership implements RuleStore.
func (s *Service) GroupMembership(ctx context.Context, userID string) ([]string, error) {
	var groups []string
	err := dbkit.WithErr1(s.db.NewRaw("SELECT group_id FROM group_memberships WHERE user_id = ?", userID).Scan(ctx, &groups), "GroupMembership").Err()
	if err != nil {
		if dbkit.IsNotFound(err) {
			return nil, nil
		}
		return nil, NewError(ErrStoreUnavailable, err.Error()).WithUser(userID)
	}
	return groups, nil
}

// LookupClientID implements RuleStore.
func (s *Service) LookupClientID(ctx context.Context, name string) (*ClientID, error) {
	var rec ClientID
	err := dbkit.WithErr1(s.db.NewSelect().Model(&rec).Where("name = ?", name).Limit(1).Scan(ctx), "LookupClientID").Err()
	if err != nil {
		if dbkit.IsNotFound(err) {
			return nil, nil
		}
		return nil, NewError(ErrStoreUnavailable, err.Error()).WithClientID(name)
	}
	return &rec, nil
}

// AddGroupMember links a principal to a group.
func (s *Service) AddGroupMember(ctx context.Context, userID, groupID string) error {
	membership := &GroupMembership{UserID: userID, GroupID: groupID}
	result, err := s.db.NewInsert().Model(membership).Exec(ctx)
	if err != nil {
		if dbkit.IsDuplicate(err) {
			return nil
		}
		return dbkit.WithErr(result, err, "AddGroupMember").Err()
	}
	return nil
}

// RemoveGroupMember unlinks a principal from a group.
func (s *Service) RemoveGroupMember(ctx context.Context, userID, groupID string) error {
	result, err := s.db.NewDelete().Table("group_memberships").Where("user_id = ? AND group_id = ?", userID, groupID).Exec(ctx)
	return dbkit.WithErr(result, err, "RemoveGroupMember").Err()
}
