package domain

import (
	"strings"
	"time"
)

// Role enumerates the access levels of an account.
type Role string

const (
	RoleUser  Role = "user"
	RoleStaff Role = "staff"
	RoleAdmin Role = "admin"
)

// ParseRole validates a raw role value, ignoring case.
func ParseRole(raw string) (Role, bool) {
	switch Role(strings.ToLower(raw)) {
	case RoleUser, RoleStaff, RoleAdmin:
		return Role(strings.ToLower(raw)), true
	}
	return "", false
}

// User models an account of any role: ticket submitters, support staff
// and administrators share one table.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
