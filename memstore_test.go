package mqttacl

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreAddRule(t *testing.T) {
	store := NewMemoryStore()

	rule := &ACLRule{Topic: "a/+/c", Access: AccessSubscribe, Allow: true}
	require.NoError(t, store.AddRule(rule))
	assert.True(t, rule.Wildcard)
	assert.False(t, rule.Dollar)

	dollar := &ACLRule{Topic: "$SYS/#", Access: AccessSubscribe, Allow: false}
	require.NoError(t, store.AddRule(dollar))
	assert.True(t, dollar.Dollar)

	// Same topic, other access kind is a distinct rule.
	require.NoError(t, store.AddRule(&ACLRule{Topic: "a/+/c", Access: AccessPublish, Allow: true}))

	err := store.AddRule(&ACLRule{Topic: "a/+/c", Access: AccessSubscribe, Allow: false})
	assert.ErrorIs(t, err, ErrDuplicateRule)

	err = store.AddRule(&ACLRule{Topic: "a/#/c", Access: AccessSubscribe})
	assert.ErrorIs(t, err, ErrInvalidTopic)

	err = store.AddRule(&ACLRule{Topic: "a/b", Access: AccessKind(0)})
	assert.ErrorIs(t, err, ErrInvalidAccess)
}

func TestMemoryStoreExactRule(t *testing.T) {
	store := newTestStore(t,
		&ACLRule{Topic: "a/b", Access: AccessPublish, Allow: true},
	)

	rule, err := store.ExactRule(context.Background(), "a/b", AccessPublish)
	require.NoError(t, err)
	assert.Equal(t, "a/b", rule.Topic)

	_, err = store.ExactRule(context.Background(), "a/b", AccessSubscribe)
	assert.ErrorIs(t, err, ErrRuleNotFound)

	_, err = store.ExactRule(context.Background(), "a/c", AccessPublish)
	assert.ErrorIs(t, err, ErrRuleNotFound)
}

func TestMemoryStoreWildcardRules(t *testing.T) {
	store := newTestStore(t,
		&ACLRule{Topic: "b/#", Access: AccessSubscribe},
		&ACLRule{Topic: "a/#", Access: AccessSubscribe},
		&ACLRule{Topic: "a/b", Access: AccessSubscribe},
		&ACLRule{Topic: "c/#", Access: AccessPublish},
	)

	rules, err := store.WildcardRules(context.Background(), AccessSubscribe)
	require.NoError(t, err)
	require.Len(t, rules, 2)
	// Name-ordered, concrete rules excluded, other access kinds excluded.
	assert.Equal(t, "a/#", rules[0].Topic)
	assert.Equal(t, "b/#", rules[1].Topic)
}

func TestMemoryStoreCandidateTopics(t *testing.T) {
	store := NewMemoryStore()
	for _, name := range []string{"a", "a/b", "a/b/c", "x/y", "$SYS/broker"} {
		require.NoError(t, store.AddTopic(name))
	}

	topics, err := store.CandidateTopics(context.Background(), NewCandidateFilter(MustTopic("a/#")))
	require.NoError(t, err)
	require.Len(t, topics, 3)
	assert.Equal(t, "a", topics[0].Name())
	assert.Equal(t, "a/b", topics[1].Name())
	assert.Equal(t, "a/b/c", topics[2].Name())

	topics, err = store.CandidateTopics(context.Background(), NewCandidateFilter(MustTopic("#")))
	require.NoError(t, err)
	assert.Len(t, topics, 4) // everything but the dollar topic
}

func TestMemoryStoreGroupsAndClientIDs(t *testing.T) {
	store := NewMemoryStore()
	store.SetGroups("user7", "ops", "dev")

	groups, err := store.GroupMembership(context.Background(), "user7")
	require.NoError(t, err)
	assert.Equal(t, []string{"ops", "dev"}, groups)

	groups, err = store.GroupMembership(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Nil(t, groups)

	require.NoError(t, store.AddClientID(&ClientID{Name: "sensor-1", Users: []string{"user7"}}))
	rec, err := store.LookupClientID(context.Background(), "sensor-1")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.False(t, rec.IsPublic())

	rec, err = store.LookupClientID(context.Background(), "unknown")
	require.NoError(t, err)
	assert.Nil(t, rec)

	err = store.AddClientID(&ClientID{Name: "this-client-id-is-way-too-long"})
	assert.ErrorIs(t, err, ErrInvalidClientID)
}
