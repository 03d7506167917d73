package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTenantKey_Validate_EmptyUsername(t *testing.T) {
	key := TenantKey{Username: "", Domain: DomainTodos}

	err := key.Validate()
	require.Error(t, err)

	var verr *ValidationError
	assert.ErrorAs(t, err, &verr, "empty username should be a validation error")
}

func TestTenantKey_Validate_UnsafeCharacters(t *testing.T) {
	for _, username := range []string{`alice"; DROP TABLE users;--`, "bob todos", "eve`x"} {
		key := TenantKey{Username: username, Domain: DomainTodos}

		err := key.Validate()
		var verr *ValidationError
		assert.ErrorAs(t, err, &verr, "username %q should be rejected", username)
	}
}

func TestTenantKey_Validate_AllowsEmailUsernames(t *testing.T) {
	key := TenantKey{Username: "alice@example.com", Domain: DomainNotes}
	assert.NoError(t, key.Validate())
}

func TestTenantKey_Validate_UnknownDomain(t *testing.T) {
	key := TenantKey{Username: "alice", Domain: Domain("secrets")}

	err := key.Validate()
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestTenantKey_Table(t *testing.T) {
	tests := []struct {
		key  TenantKey
		want string
	}{
		{TenantKey{Username: "alice", Domain: DomainTodos}, "alice_todos"},
		{TenantKey{Username: "alice", Domain: DomainTemplates}, "alice_templates"},
		{TenantKey{Username: "alice", Domain: DomainStreaks}, "alice_task_streaks"},
		{TenantKey{Username: "bob", Domain: DomainNotes}, "bob_notes"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, tc.key.table())
	}
}
