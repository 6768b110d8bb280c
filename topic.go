package mqttacl

import (
	"strings"
	"unicode/utf8"
)

// MQTT topic grammar tokens.
const (
	// TopicSep separates topic levels.
	TopicSep = "/"

	// WildcardMulti matches any number of remaining levels. Only valid
	// as the final level of a filter.
	WildcardMulti = "#"

	// WildcardSingle matches exactly one level.
	WildcardSingle = "+"

	// DollarPrefix marks broker-internal topics ($SYS/...). Filters
	// starting with a wildcard never match dollar topics (MQTT-4.7.2-1).
	DollarPrefix = "$"
)

// DefaultMaxTopicLength is the maximum accepted topic name length.
// The MQTT wire format allows 65535, but stored ACL topics are capped
// lower, matching the storage schema.
const DefaultMaxTopicLength = 1024

// Topic is a validated MQTT topic name or topic filter. It is an
// immutable value; all predicates are pure functions of the name.
type Topic struct {
	name string
}

// NewTopic validates name and returns it as a Topic.
//
// Validation rules:
//   - non-empty (use NewTopicAllowEmpty where the configuration permits
//     empty names)
//   - valid UTF-8, no NUL bytes
//   - at most maxLen bytes (DefaultMaxTopicLength when maxLen <= 0)
//   - '+' must occupy a whole level
//   - '#' must occupy a whole level and must be the last level
func NewTopic(name string, maxLen int) (Topic, error) {
	if name == "" {
		return Topic{}, NewError(ErrInvalidTopic, "topic cannot be empty")
	}
	return newTopic(name, maxLen)
}

// NewTopicAllowEmpty is NewTopic without the non-empty requirement.
func NewTopicAllowEmpty(name string, maxLen int) (Topic, error) {
	if name == "" {
		return Topic{}, nil
	}
	return newTopic(name, maxLen)
}

func newTopic(name string, maxLen int) (Topic, error) {
	if maxLen <= 0 {
		maxLen = DefaultMaxTopicLength
	}
	if len(name) > maxLen {
		return Topic{}, NewError(ErrInvalidTopic, "topic exceeds maximum length").WithTopic(name)
	}
	if strings.Contains(name, "\x00") {
		return Topic{}, NewError(ErrInvalidTopic, "topic contains null byte").WithTopic(name)
	}
	if !utf8.ValidString(name) {
		return Topic{}, NewError(ErrInvalidTopic, "topic is not valid UTF-8").WithTopic(name)
	}

	levels := strings.Split(name, TopicSep)
	for i, level := range levels {
		if strings.Contains(level, WildcardSingle) && level != WildcardSingle {
			return Topic{}, NewError(ErrInvalidTopic, "single-level wildcard '+' must occupy an entire level").WithTopic(name)
		}
		if strings.Contains(level, WildcardMulti) {
			if level != WildcardMulti {
				return Topic{}, NewError(ErrInvalidTopic, "multi-level wildcard '#' must occupy an entire level").WithTopic(name)
			}
			if i != len(levels)-1 {
				return Topic{}, NewError(ErrInvalidTopic, "multi-level wildcard '#' must be the last level").WithTopic(name)
			}
		}
	}

	return Topic{name: name}, nil
}

// MustTopic is NewTopic with a panic on invalid input. For use in
// tests and static rule tables.
func MustTopic(name string) Topic {
	t, err := NewTopic(name, 0)
	if err != nil {
		panic(err)
	}
	return t
}

// Name returns the topic name.
func (t Topic) Name() string {
	return t.name
}

// String implements fmt.Stringer.
func (t Topic) String() string {
	return t.name
}

// IsZero reports whether t is the zero (empty) topic.
func (t Topic) IsZero() bool {
	return t.name == ""
}

// IsWildcard reports whether t contains '#' or '+' anywhere, i.e.
// whether it is a topic filter rather than a concrete topic name.
func (t Topic) IsWildcard() bool {
	return strings.Contains(t.name, WildcardMulti) || strings.Contains(t.name, WildcardSingle)
}

// IsDollar reports whether t is a broker-internal topic ($SYS/... and
// friends).
func (t Topic) IsDollar() bool {
	return strings.HasPrefix(t.name, DollarPrefix)
}

// Levels returns the topic levels, splitting on '/'.
func (t Topic) Levels() []string {
	return strings.Split(t.name, TopicSep)
}

// Equals reports byte-for-byte name equality. Wildcard characters are
// not interpreted; "a/#" equals "a/#" and nothing else.
func (t Topic) Equals(other Topic) bool {
	return t.name == other.name
}

// Covers reports whether t, interpreted as a topic filter, matches
// other. It is the MQTT subscription matching relation extended to
// filter-vs-filter comparison (used for rule specificity):
//
//   - literal equality always covers, wildcards or not
//   - a non-wildcard filter covers only its own name
//   - dollar and non-dollar topics never cover each other; a dollar
//     filter must match its first level literally
//   - '+' matches exactly one level, but never the '#' token of a
//     wildcard operand
//   - '#' matches all remaining levels
//
// Covers is not symmetric and is not a total order.
func (t Topic) Covers(other Topic) bool {
	if t.name == other.name {
		return true
	}
	if !t.IsWildcard() {
		return false
	}
	if t.IsDollar() != other.IsDollar() {
		return false
	}

	mine := strings.Split(t.name, TopicSep)
	theirs := strings.Split(other.name, TopicSep)

	// $-prefixed filters never wildcard their first level.
	if t.IsDollar() && mine[0] != theirs[0] {
		return false
	}

	// A trailing '#' absorbs any remainder, including zero levels
	// ("a/#" covers "a"); without it the level counts must agree.
	if mine[len(mine)-1] == WildcardMulti {
		if len(theirs) < len(mine)-1 {
			return false
		}
	} else if len(theirs) != len(mine) {
		return false
	}

	for i, level := range mine {
		switch level {
		case WildcardSingle:
			if other.IsWildcard() && theirs[i] == WildcardMulti {
				return false
			}
		case WildcardMulti:
			return true
		default:
			if level != theirs[i] {
				return false
			}
		}
	}
	return true
}

// CompareSpecificity orders two filters for rule resolution. It
// returns a negative value when a is preferred over b (narrower
// match), positive when b is preferred, and falls back to byte-wise
// name comparison so the order is total and deterministic.
//
// The boolean result reports whether the pair was ambiguous: neither
// filter covers the other, so only the lexicographic fallback decided.
func CompareSpecificity(a, b Topic) (int, bool) {
	if a.name == b.name {
		return 0, false
	}
	aCoversB := a.Covers(b)
	bCoversA := b.Covers(a)
	switch {
	case bCoversA && !aCoversB:
		// b is broader, a is the narrower match.
		return -1, false
	case aCoversB && !bCoversA:
		return 1, false
	}
	return strings.Compare(a.name, b.name), !aCoversB && !bCoversA
}
