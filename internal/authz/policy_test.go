package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

func user(role string) *domain.User {
	return &domain.User{ID: "u-1", Role: domain.Role(role)}
}

func TestRoleChecksIgnoreCase(t *testing.T) {
	cases := []struct {
		role    string
		isStaff bool
		isAdmin bool
	}{
		{"user", false, false},
		{"staff", true, false},
		{"Staff", true, false},
		{"STAFF", true, false},
		{"admin", true, true},
		{"Admin", true, true},
		{"", false, false},
		{"manager", false, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.isStaff, IsStaff(user(tc.role)), "IsStaff(%q)", tc.role)
		assert.Equal(t, tc.isAdmin, IsAdmin(user(tc.role)), "IsAdmin(%q)", tc.role)
	}
}

func TestTicketPolicies(t *testing.T) {
	owner := user("user")
	ticket := &domain.Ticket{ID: "t-1", OwnerID: owner.ID}
	staff := &domain.User{ID: "u-2", Role: domain.RoleStaff}
	other := &domain.User{ID: "u-3", Role: domain.RoleUser}

	assert.True(t, CanReadTicket(owner, ticket))
	assert.True(t, CanReadTicket(staff, ticket))
	assert.False(t, CanReadTicket(other, ticket))

	assert.True(t, CanUpdateTicket(owner, ticket))
	assert.False(t, CanUpdateTicket(staff, ticket))
	assert.True(t, CanDeleteTicket(owner, ticket))
	assert.False(t, CanDeleteTicket(staff, ticket))

	assert.True(t, CanAssign(staff))
	assert.False(t, CanAssign(owner))
	assert.True(t, CanChangeStatus(staff))
	assert.False(t, CanChangeStatus(other))
}

func TestNilSafety(t *testing.T) {
	assert.False(t, IsStaff(nil))
	assert.False(t, CanReadTicket(nil, &domain.Ticket{}))
	assert.False(t, CanReadTicket(user("admin"), nil))
}
