package mqttacl

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorWrapping(t *testing.T) {
	err := NewError(ErrRuleNotFound, "no exact rule").
		WithTopic("a/b").
		WithAccess(AccessPublish).
		WithUser("user42").
		WithClientID("sensor-1")

	assert.ErrorIs(t, err, ErrRuleNotFound)
	assert.Equal(t, "a/b", err.Topic)
	assert.Equal(t, AccessPublish, err.Access)
	assert.Equal(t, "user42", err.UserID)
	assert.Equal(t, "sensor-1", err.ClientID)
	assert.Equal(t, "mqttacl: rule not found: no exact rule", err.Error())

	var aclErr *Error
	assert.True(t, errors.As(fmt.Errorf("check failed: %w", err), &aclErr))
	assert.Equal(t, "a/b", aclErr.Topic)
}

func TestErrorWithoutMessage(t *testing.T) {
	err := NewError(ErrInvalidTopic, "")
	assert.Equal(t, ErrInvalidTopic.Error(), err.Error())
}

func TestErrorPredicates(t *testing.T) {
	assert.True(t, IsInvalidTopic(NewError(ErrInvalidTopic, "x")))
	assert.True(t, IsDuplicateRule(NewError(ErrDuplicateRule, "x")))
	assert.True(t, IsRuleNotFound(NewError(ErrRuleNotFound, "x")))
	assert.True(t, IsStoreUnavailable(NewError(ErrStoreUnavailable, "x")))

	assert.False(t, IsRuleNotFound(NewError(ErrStoreUnavailable, "x")))
	assert.False(t, IsRuleNotFound(nil))
	assert.False(t, IsRuleNotFound(errors.New("unrelated")))
}
