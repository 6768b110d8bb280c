package mqttacl

import (
	"strings"

	"github.com/uptrace/bun"
)

// CandidateFilter is a cheap necessary (never sufficient) condition
// derived from a wildcard filter's literal segments. It bounds the set
// of stored topics that could possibly be covered by the filter before
// the exact Covers check runs: the stored name must carry the literal
// prefix before the first '+', the literal suffix after the last '+'
// (when the filter does not end in '#'), and every interior literal
// chunk, in the same dollar class and free of wildcards itself.
type CandidateFilter struct {
	dollar      bool
	singleLevel bool // filter is the bare "+": one level, no separator
	prefix      string
	suffix      string
	contains    []string
}

// NewCandidateFilter derives the prefilter conditions from a filter
// topic. Non-wildcard filters yield an exact-name condition (the
// prefix is the whole name and Covers degenerates to equality).
func NewCandidateFilter(filter Topic) CandidateFilter {
	cf := CandidateFilter{dollar: filter.IsDollar()}

	name := filter.Name()
	multi := strings.HasSuffix(name, WildcardMulti)
	if multi {
		// Drop the '#' and its separator: the wildcard absorbs zero or
		// more levels, so "a/#" must still admit the stored name "a".
		name = strings.TrimSuffix(strings.TrimSuffix(name, WildcardMulti), TopicSep)
	}

	chunks := strings.Split(name, WildcardSingle)
	switch {
	case multi && name == WildcardSingle:
		// "+/#" covers every topic in its dollar class; no conditions.
	case len(chunks) == 1:
		// No single-level wildcard: the remaining text is a pure prefix
		// ("" for the bare "#" filter, which matches everything in its
		// dollar class).
		cf.prefix = name
	case name == WildcardSingle:
		cf.singleLevel = true
	default:
		cf.prefix = chunks[0]
		if !multi {
			cf.suffix = chunks[len(chunks)-1]
		} else if last := chunks[len(chunks)-1]; last != "" {
			cf.contains = append(cf.contains, last)
		}
		seen := make(map[string]bool)
		for _, chunk := range chunks[1 : len(chunks)-1] {
			if chunk == "" || seen[chunk] {
				continue
			}
			seen[chunk] = true
			cf.contains = append(cf.contains, chunk)
		}
	}
	return cf
}

// MatchesName reports whether a stored topic name satisfies the
// prefilter conditions. Callers still verify with Covers.
func (cf CandidateFilter) MatchesName(name string) bool {
	t := Topic{name: name}
	if t.IsWildcard() || t.IsDollar() != cf.dollar {
		return false
	}
	if cf.singleLevel {
		return !strings.Contains(name, TopicSep)
	}
	if cf.prefix != "" && !strings.HasPrefix(name, cf.prefix) {
		return false
	}
	if cf.suffix != "" && !strings.HasSuffix(name, cf.suffix) {
		return false
	}
	for _, chunk := range cf.contains {
		if !strings.Contains(name, chunk) {
			return false
		}
	}
	return true
}

// Apply adds the prefilter conditions to a stored-topic SELECT.
func (cf CandidateFilter) Apply(q *bun.SelectQuery) *bun.SelectQuery {
	q = q.Where("wildcard = ?", false).Where("dollar = ?", cf.dollar)
	if cf.singleLevel {
		return q.Where("name NOT LIKE ?", "%"+TopicSep+"%")
	}
	if cf.prefix != "" {
		q = q.Where("name LIKE ?", escapeLike(cf.prefix)+"%")
	}
	if cf.suffix != "" {
		q = q.Where("name LIKE ?", "%"+escapeLike(cf.suffix))
	}
	for _, chunk := range cf.contains {
		q = q.Where("name LIKE ?", "%"+escapeLike(chunk)+"%")
	}
	return q
}

// escapeLike escapes SQL LIKE metacharacters in a literal chunk.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}
