package mqttacl

// Config holds the policy knobs for the decision engine. The zero
// value is the strictest configuration: no empty client identifiers,
// deny when no rule applies, deny anonymous principals.
type Config struct {
	// AllowEmptyClientID permits clients to connect without a client
	// identifier.
	AllowEmptyClientID bool

	// DefaultAllow is the decision when no rule (including the
	// broadcast '#' rule) governs a topic.
	DefaultAllow bool

	// DefaultAllowAnonymous gates DefaultAllow for anonymous
	// principals. Both flags must be set for an anonymous check to pass
	// by default.
	DefaultAllowAnonymous bool

	// MaxTopicLength overrides DefaultMaxTopicLength when positive.
	MaxTopicLength int
}

// maxTopicLen returns the effective topic length limit.
func (c Config) maxTopicLen() int {
	if c.MaxTopicLength > 0 {
		return c.MaxTopicLength
	}
	return DefaultMaxTopicLength
}
