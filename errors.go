package mqttacl

import (
	"errors"
	"fmt"
)

// Sentinel errors for ACL operations.
var (
	// ErrInvalidTopic is returned when a topic name fails grammar validation.
	ErrInvalidTopic = errors.New("mqttacl: invalid topic")

	// ErrInvalidAccess is returned when an access kind is neither
	// subscribe nor publish.
	ErrInvalidAccess = errors.New("mqttacl: invalid access kind")

	// ErrInvalidClientID is returned when a client identifier fails validation.
	ErrInvalidClientID = errors.New("mqttacl: invalid client id")

	// ErrRuleNotFound is returned when no rule exists for a lookup.
	ErrRuleNotFound = errors.New("mqttacl: rule not found")

	// ErrDuplicateRule is returned when a rule already exists for a
	// (topic, access) pair.
	ErrDuplicateRule = errors.New("mqttacl: duplicate rule")

	// ErrStoreUnavailable is returned when the backing store cannot be
	// reached. Permission checks treat it as deny.
	ErrStoreUnavailable = errors.New("mqttacl: store unavailable")

	// ErrDatabaseError is returned when a database operation fails.
	ErrDatabaseError = errors.New("mqttacl: database error")
)

// Error wraps a sentinel error with additional context.
type Error struct {
	Err      error      // Underlying sentinel error
	Message  string     // Additional context
	Topic    string     // Topic or filter involved
	Access   AccessKind // Access kind involved (if applicable)
	UserID   string     // Principal involved (if applicable)
	ClientID string     // Client identifier involved (if applicable)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Message)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is checks if the error matches a target error.
func (e *Error) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewError creates a new Error with context.
func NewError(err error, message string) *Error {
	return &Error{
		Err:     err,
		Message: message,
	}
}

// WithTopic adds the topic or filter name to the error.
func (e *Error) WithTopic(topic string) *Error {
	e.Topic = topic
	return e
}

// WithAccess adds the access kind to the error.
func (e *Error) WithAccess(access AccessKind) *Error {
	e.Access = access
	return e
}

// WithUser adds the principal to the error.
func (e *Error) WithUser(userID string) *Error {
	e.UserID = userID
	return e
}

// WithClientID adds the client identifier to the error.
func (e *Error) WithClientID(clientID string) *Error {
	e.ClientID = clientID
	return e
}

// IsInvalidTopic checks if an error is due to topic validation.
func IsInvalidTopic(err error) bool {
	return errors.Is(err, ErrInvalidTopic)
}

// IsDuplicateRule checks if an error is due to a (topic, access) collision.
func IsDuplicateRule(err error) bool {
	return errors.Is(err, ErrDuplicateRule)
}

// IsRuleNotFound checks if an error is a missing-rule condition.
func IsRuleNotFound(err error) bool {
	return errors.Is(err, ErrRuleNotFound)
}

// IsStoreUnavailable checks if an error is a store-availability failure.
func IsStoreUnavailable(err error) bool {
	return errors.Is(err, ErrStoreUnavailable)
}
