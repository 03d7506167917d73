package database

import "fmt"

// Domain identifies one per-user sub-collection.
type Domain string

const (
	DomainNotes     Domain = "notes"
	DomainTodos     Domain = "todos"
	DomainTemplates Domain = "templates"
	DomainStreaks   Domain = "task_streaks"
)

// TenantKey addresses a single user's collection for a single domain.
// Every per-user read and write goes through a key, so a handle acquired
// for one user can never address another user's table.
type TenantKey struct {
	Username string
	Domain   Domain
}

// Validate rejects keys that must never reach storage: empty usernames and
// usernames containing characters unsafe for a table identifier.
func (k TenantKey) Validate() error {
	if k.Username == "" {
		return Invalidf("username is required in request")
	}
	for _, r := range k.Username {
		if !isIdentChar(r) {
			return Invalidf("username contains invalid character %q", r)
		}
	}
	switch k.Domain {
	case DomainNotes, DomainTodos, DomainTemplates, DomainStreaks:
		return nil
	default:
		return Invalidf("unknown storage domain %q", string(k.Domain))
	}
}

// table returns the backing table name, e.g. "alice_todos". The username
// charset is enforced by Validate since the name is interpolated into DDL.
func (k TenantKey) table() string {
	return fmt.Sprintf("%s_%s", k.Username, k.Domain)
}

func isIdentChar(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '_' || r == '-' || r == '.' || r == '@':
		return true
	}
	return false
}
