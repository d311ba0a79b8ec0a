// Package authz is the single authorization gate for lifecycle operations.
// Every role or ownership decision lives here; handlers and services never
// compare role strings themselves. Role comparison is case-insensitive.
package authz

import (
	"strings"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

func hasRole(u *domain.User, roles ...domain.Role) bool {
	if u == nil {
		return false
	}
	actual := strings.ToLower(string(u.Role))
	for _, role := range roles {
		if actual == string(role) {
			return true
		}
	}
	return false
}

// IsStaff reports whether the user is support staff or an administrator.
func IsStaff(u *domain.User) bool {
	return hasRole(u, domain.RoleStaff, domain.RoleAdmin)
}

// IsAdmin reports whether the user is an administrator.
func IsAdmin(u *domain.User) bool {
	return hasRole(u, domain.RoleAdmin)
}

// CanReadTicket allows the owner plus any staff or admin.
func CanReadTicket(u *domain.User, t *domain.Ticket) bool {
	if u == nil || t == nil {
		return false
	}
	return t.OwnerID == u.ID || IsStaff(u)
}

// CanUpdateTicket restricts field updates to the ticket's creator.
func CanUpdateTicket(u *domain.User, t *domain.Ticket) bool {
	return u != nil && t != nil && t.OwnerID == u.ID
}

// CanDeleteTicket restricts deletion to the ticket's creator.
func CanDeleteTicket(u *domain.User, t *domain.Ticket) bool {
	return u != nil && t != nil && t.OwnerID == u.ID
}

// CanAssign allows staff and admins to claim or release tickets.
func CanAssign(u *domain.User) bool {
	return IsStaff(u)
}

// CanChangeStatus allows staff and admins to move tickets between statuses.
func CanChangeStatus(u *domain.User) bool {
	return IsStaff(u)
}

// CanManageCategories allows admins to create, update and delete categories.
func CanManageCategories(u *domain.User) bool {
	return IsAdmin(u)
}

// CanManageUsers allows admins to administer accounts.
func CanManageUsers(u *domain.User) bool {
	return IsAdmin(u)
}

// CanAuthorArticles allows staff and admins to write knowledge base entries.
func CanAuthorArticles(u *domain.User) bool {
	return IsStaff(u)
}
