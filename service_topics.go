package mqttacl

import (
	"context"

	"github.com/fernandezvara/dbkit"
)

// ============================================================================
// TOPIC STORE
// ============================================================================

// RegisterTopic validates and stores a topic name. Registering an
// already-known name is not an error.
func (s *Service) RegisterTopic(ctx context.Context, name string) (Topic, error) {
	topic, err := NewTopic(name, s.cfg.maxTopicLen())
	if err != nil {
		return Topic{}, err
	}
	return topic, s.registerTopic(ctx, topic)
}

func (s *Service) registerTopic(ctx context.Context, topic Topic) error {
	stored := &StoredTopic{
		Name:     topic.Name(),
		Wildcard: topic.IsWildcard(),
		Dollar:   topic.IsDollar(),
	}
	result, err := s.db.NewInsert().Model(stored).Exec(ctx)
	if err != nil {
		if dbkit.IsDuplicate(err) {
			return nil
		}
		err = dbkit.WithErr(result, err, "RegisterTopic").Err()
		return NewError(ErrDatabaseError, err.Error()).WithTopic(topic.Name())
	}
	return nil
}

// MatchingTopics returns the stored concrete topics covered by a
// filter, as a finite materialized slice. The candidate prefilter
// bounds the query; each survivor is verified with Covers. A
// non-wildcard filter returns at most its own name.
func (s *Service) MatchingTopics(ctx context.Context, filter Topic) ([]Topic, error) {
	candidates, err := s.CandidateTopics(ctx, NewCandidateFilter(filter))
	if err != nil {
		return nil, err
	}
	matched := candidates[:0]
	for _, c := range candidates {
		if filter.Covers(c) {
			matched = append(matched, c)
		}
	}
	return matched, nil
}

// Topics returns all stored topic names, name-ordered.
func (s *Service) Topics(ctx context.Context) ([]Topic, error) {
	var stored []StoredTopic
	err := dbkit.WithErr1(s.db.NewSelect().Model(&stored).Order("name ASC").Scan(ctx), "Topics").Err()
	if err != nil {
		return nil, NewError(ErrStoreUnavailable, err.Error())
	}
	topics := make([]Topic, 0, len(stored))
	for i := range stored {
		topics = append(topics, stored[i].Topic())
	}
	return topics, nil
}
