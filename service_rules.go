package mqttacl

import (
	"context"
	"fmt"

	"github.com/fernandezvara/dbkit"
)

// ============================================================================
// RULE MANAGEMENT
// ============================================================================

// CreateRule stores a new rule. The topic is validated, the rule's
// wildcard/dollar flags are derived from it, and the (topic, access)
// uniqueness constraint is enforced. The topic is also registered in
// the topic store so it participates in candidate enumeration; both
// writes run in one transaction.
//
// Example:
//
//	err := service.CreateRule(ctx, &mqttacl.ACLRule{
//	    Topic:  "sensors/+/temp",
//	    Access: mqttacl.AccessSubscribe,
//	    Allow:  true,
//	    Users:  []string{"user42"},
//	})
func (s *Service) CreateRule(ctx context.Context, rule *ACLRule) error {
	if !rule.Access.Valid() {
		return NewError(ErrInvalidAccess, "access must be subscribe or publish").WithTopic(rule.Topic)
	}
	topic, err := NewTopic(rule.Topic, s.cfg.maxTopicLen())
	if err != nil {
		return err
	}
	rule.Wildcard = topic.IsWildcard()
	rule.Dollar = topic.IsDollar()

	return s.Transaction(ctx, func(ctx context.Context) error {
		if err := s.registerTopic(ctx, topic); err != nil {
			return err
		}

		result, err := s.db.NewInsert().Model(rule).Exec(ctx)
		if err != nil {
			if dbkit.IsDuplicate(err) {
				return NewError(ErrDuplicateRule, "rule already exists").WithTopic(rule.Topic).WithAccess(rule.Access)
			}
			err = dbkit.WithErr(result, err, "CreateRule").Err()
			return NewError(ErrDatabaseError, err.Error()).WithTopic(rule.Topic).WithAccess(rule.Access)
		}
		return nil
	})
}

// CreateRuleWithSecret is CreateRule with a raw secret hashed onto the
// rule first.
func (s *Service) CreateRuleWithSecret(ctx context.Context, rule *ACLRule, rawSecret string) error {
	if err := rule.SetSecret(rawSecret); err != nil {
		return err
	}
	return s.CreateRule(ctx, rule)
}

// UpdateRuleAllow flips the allow flag of an existing rule.
func (s *Service) UpdateRuleAllow(ctx context.Context, topicName string, access AccessKind, allow bool) error {
	result, err := s.db.NewUpdate().Table("acl_rules").
		Set("allow = ?", allow).
		Set("updated_at = current_timestamp").
		Where("topic = ? AND access = ?", topicName, access).
		Exec(ctx)
	if err != nil {
		err = dbkit.WithErr(result, err, "UpdateRuleAllow").Err()
		return NewError(ErrDatabaseError, err.Error()).WithTopic(topicName).WithAccess(access)
	}
	if rows, raErr := result.RowsAffected(); raErr == nil && rows == 0 {
		return NewError(ErrRuleNotFound, "no rule to update").WithTopic(topicName).WithAccess(access)
	}
	return nil
}

// DeleteRule removes the rule for a (topic, access) pair. The topic
// record stays: other rules or candidate queries may still need it.
func (s *Service) DeleteRule(ctx context.Context, topicName string, access AccessKind) error {
	result, err := s.db.NewDelete().Table("acl_rules").
		Where("topic = ? AND access = ?", topicName, access).
		Exec(ctx)
	if err != nil {
		err = dbkit.WithErr(result, err, "DeleteRule").Err()
		return NewError(ErrDatabaseError, err.Error()).WithTopic(topicName).WithAccess(access)
	}
	if rows, raErr := result.RowsAffected(); raErr == nil && rows == 0 {
		return NewError(ErrRuleNotFound, "no rule to delete").WithTopic(topicName).WithAccess(access)
	}
	return nil
}

// Rules returns all rules for an access kind, exact and wildcard,
// name-ordered.
func (s *Service) Rules(ctx context.Context, access AccessKind) ([]*ACLRule, error) {
	var rules []*ACLRule
	err := dbkit.WithErr1(s.db.NewSelect().Model(&rules).Where("access = ?", access).Order("topic ASC").Scan(ctx), "Rules").Err()
	if err != nil {
		return nil, NewError(ErrStoreUnavailable, err.Error()).WithAccess(access)
	}
	return rules, nil
}

// ============================================================================
// CLIENT IDENTIFIERS
// ============================================================================

// RegisterClientID stores a client identifier record.
func (s *Service) RegisterClientID(ctx context.Context, rec *ClientID) error {
	if err := ValidateClientID(rec.Name, s.cfg.AllowEmptyClientID); err != nil {
		return err
	}
	result, err := s.db.NewInsert().Model(rec).Exec(ctx)
	if err != nil {
		if dbkit.IsDuplicate(err) {
			return NewError(ErrInvalidClientID, "client id already registered").WithClientID(rec.Name)
		}
		err = dbkit.WithErr(result, err, "RegisterClientID").Err()
		return NewError(ErrDatabaseError, err.Error()).WithClientID(rec.Name)
	}
	return nil
}

// ============================================================================
// TRANSACTIONS
// ============================================================================

// Transaction executes fn within a database transaction with automatic
// commit/rollback. Nested calls use savepoints.
func (s *Service) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if tx, ok := s.db.(*dbkit.Tx); ok {
		return tx.Transaction(ctx, func(tx *dbkit.Tx) error {
			return fn(ctx)
		})
	}
	if db, ok := s.db.(*dbkit.DBKit); ok {
		return db.Transaction(ctx, func(tx *dbkit.Tx) error {
			return fn(ctx)
		})
	}
	return fmt.Errorf("transaction support requires a dbkit.DBKit or dbkit.Tx instance")
}
