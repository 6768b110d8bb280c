package mqttacl

import (
	"time"

	"github.com/uptrace/bun"
)

// AccessKind identifies the operation a rule governs. The integer
// values match the historical storage encoding (1 subscribe, 2
// publish) so existing rows port directly.
type AccessKind int

const (
	AccessSubscribe AccessKind = 1
	AccessPublish   AccessKind = 2
)

// String implements fmt.Stringer.
func (a AccessKind) String() string {
	switch a {
	case AccessSubscribe:
		return "subscribe"
	case AccessPublish:
		return "publish"
	}
	return "unknown"
}

// Valid reports whether a is a known access kind.
func (a AccessKind) Valid() bool {
	return a == AccessSubscribe || a == AccessPublish
}

// StoredTopic is a topic name registered in the store, with its
// wildcard and dollar classification materialized for indexed
// candidate queries. The flags are always derived from the name, never
// set independently.
type StoredTopic struct {
	bun.BaseModel `bun:"table:topics,alias:t"`

	ID        string    `bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	Name      string    `bun:"name,notnull,unique"`
	Wildcard  bool      `bun:"wildcard,notnull,default:false"`
	Dollar    bool      `bun:"dollar,notnull,default:false"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

// Topic returns the stored name as a Topic value. The store only
// accepts validated names, so no error path here.
func (st *StoredTopic) Topic() Topic {
	return Topic{name: st.Name}
}

// ACLRule governs one (topic filter, access kind) pair. At most one
// rule exists per pair. An empty user and group set with no secret
// makes the rule public: it applies regardless of identity.
type ACLRule struct {
	bun.BaseModel `bun:"table:acl_rules,alias:ar"`

	ID        string     `bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	Allow     bool       `bun:"allow,notnull,default:true"`
	Topic     string     `bun:"topic,notnull"`
	Wildcard  bool       `bun:"wildcard,notnull,default:false"`
	Dollar    bool       `bun:"dollar,notnull,default:false"`
	Access    AccessKind `bun:"access,notnull"`
	Users     []string   `bun:"users,type:text[]"`
	Groups    []string   `bun:"groups,type:text[]"`
	Secret    string     `bun:"secret"` // bcrypt hash, meaningful for connect-time checks only
	CreatedAt time.Time  `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time  `bun:"updated_at,notnull,default:current_timestamp"`
}

// Filter returns the rule's topic as a Topic value.
func (r *ACLRule) Filter() Topic {
	return Topic{name: r.Topic}
}

// IsPublic reports whether the rule applies independent of identity.
func (r *ACLRule) IsPublic() bool {
	return len(r.Users) == 0 && len(r.Groups) == 0 && r.Secret == ""
}

// hasMember reports whether the principal is named by the rule, either
// directly or through group membership.
func (r *ACLRule) hasMember(p *Principal) bool {
	if p == nil {
		return false
	}
	for _, u := range r.Users {
		if u == p.ID {
			return true
		}
	}
	for _, g := range r.Groups {
		if p.InGroup(g) {
			return true
		}
	}
	return false
}

// ClientID is a registered MQTT client identifier with an optional
// user/group allow set. An empty set makes the identifier public.
type ClientID struct {
	bun.BaseModel `bun:"table:client_ids,alias:ci"`

	ID        string    `bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	Name      string    `bun:"name,unique"`
	Users     []string  `bun:"users,type:text[]"`
	Groups    []string  `bun:"groups,type:text[]"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

// MaxClientIDLength is the MQTT 3.1 server-must-accept client
// identifier length, used as the storage limit.
const MaxClientIDLength = 23

// IsPublic reports whether any principal may use this client identifier.
func (c *ClientID) IsPublic() bool {
	return len(c.Users) == 0 && len(c.Groups) == 0
}

// HasPermission reports whether the principal may connect with this
// client identifier. Public identifiers admit everyone, including
// anonymous principals.
func (c *ClientID) HasPermission(p *Principal) bool {
	if c.IsPublic() {
		return true
	}
	if p == nil {
		return false
	}
	for _, u := range c.Users {
		if u == p.ID {
			return true
		}
	}
	for _, g := range c.Groups {
		if p.InGroup(g) {
			return true
		}
	}
	return false
}

// ValidateClientID checks a client identifier against the storage
// limits. Empty identifiers are rejected unless allowEmpty is set.
func ValidateClientID(name string, allowEmpty bool) error {
	if name == "" {
		if allowEmpty {
			return nil
		}
		return NewError(ErrInvalidClientID, "empty client id not allowed")
	}
	if len(name) > MaxClientIDLength {
		return NewError(ErrInvalidClientID, "client id exceeds maximum length").WithClientID(name)
	}
	return nil
}

// GroupMembership links a principal to a group.
type GroupMembership struct {
	bun.BaseModel `bun:"table:group_memberships,alias:gm"`

	ID        string    `bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	UserID    string    `bun:"user_id,notnull"`
	GroupID   string    `bun:"group_id,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

// Principal is an authenticated identity plus its group memberships.
// A nil *Principal means anonymous.
type Principal struct {
	ID     string
	Groups []string
}

// NewPrincipal creates a Principal.
func NewPrincipal(id string, groups ...string) *Principal {
	return &Principal{ID: id, Groups: groups}
}

// InGroup reports whether the principal belongs to the group.
func (p *Principal) InGroup(groupID string) bool {
	if p == nil {
		return false
	}
	for _, g := range p.Groups {
		if g == groupID {
			return true
		}
	}
	return false
}
