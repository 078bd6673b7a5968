package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)

	assert.NotEqual(t, "s3cret", hash)
	assert.True(t, CheckPassword(hash, "s3cret"))
	assert.False(t, CheckPassword(hash, "wrong"))
	assert.False(t, CheckPassword("not-a-hash", "s3cret"))

	other, err := HashPassword("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, hash, other)
}

func TestRoleCapabilities(t *testing.T) {
	tests := []struct {
		role        Role
		manageBooks bool
		manageUsers bool
		viewStats   bool
	}{
		{RoleAdmin, true, true, true},
		{RoleLibrarian, true, false, false},
		{RolePatron, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.role.String(), func(t *testing.T) {
			assert.Equal(t, tt.manageBooks, tt.role.CanManageBooks())
			assert.Equal(t, tt.manageUsers, tt.role.CanManageUsers())
			assert.Equal(t, tt.viewStats, tt.role.CanViewStats())
			assert.Equal(t, tt.manageUsers, tt.role.CanAssignRoles())

			parsed, ok := ParseRole(tt.role.String())
			assert.True(t, ok)
			assert.Equal(t, tt.role, parsed)
		})
	}
}

func TestRoleIDs(t *testing.T) {
	ids := RoleIDs{Admin: 1, Librarian: 2, Patron: 3}

	assert.Equal(t, RoleAdmin, ids.Resolve(1))
	assert.Equal(t, RoleLibrarian, ids.Resolve(2))
	assert.Equal(t, RolePatron, ids.Resolve(3))
	assert.Equal(t, RolePatron, ids.Resolve(42))

	assert.Equal(t, uint(1), ids.ID(RoleAdmin))
	assert.Equal(t, uint(3), ids.ID(RolePatron))
	assert.True(t, ids.Known(2))
	assert.False(t, ids.Known(4))

	_, ok := ParseRole("superuser")
	assert.False(t, ok)
}

func TestTokenRoundTrip(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Hour)

	token, err := issuer.Issue(Identity{UserID: 42, Role: RoleLibrarian})
	require.NoError(t, err)

	id, err := issuer.Parse("Bearer " + token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), id.UserID)
	assert.Equal(t, RoleLibrarian, id.Role)

	id, err = issuer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), id.UserID)
}

func TestTokenRejected(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Hour)
	token, err := issuer.Issue(Identity{UserID: 1, Role: RoleAdmin})
	require.NoError(t, err)

	_, err = NewIssuer("other-secret", time.Hour).Parse(token)
	assert.Error(t, err)

	_, err = issuer.Parse("")
	assert.Error(t, err)

	_, err = issuer.Parse("Bearer garbage")
	assert.Error(t, err)

	expired := NewIssuer("test-secret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, err := expired.Issue(Identity{UserID: 1, Role: RoleAdmin})
	require.NoError(t, err)
	_, err = issuer.Parse(old)
	assert.Error(t, err)
}
