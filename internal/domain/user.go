package domain

import (
	"strings"
	"time"
)

// Role enumerates account roles. Only agents and admins may be assigned
// tickets.
type Role string

const (
	RoleUser  Role = "user"
	RoleAgent Role = "agent"
	RoleAdmin Role = "admin"
)

// ValidRole reports whether r is a known role.
func ValidRole(r Role) bool {
	switch r {
	case RoleUser, RoleAgent, RoleAdmin:
		return true
	}
	return false
}

// IsStaff reports whether the role grants staff visibility (internal
// comments, cross-user listings).
func (r Role) IsStaff() bool {
	return r == RoleAgent || r == RoleAdmin
}

// User is an account that can report tickets, and with the right role be
// assigned them.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Profile extends a User with display and role data. One profile per user.
type Profile struct {
	UserID     string
	FirstName  string
	LastName   string
	Role       Role
	Phone      string
	Department string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// FullName joins first and last name, trimming when either is empty.
func (p *Profile) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// DisplayName returns the user's full name, falling back to the login
// username when no name is set.
func DisplayName(user *User, profile *Profile) string {
	if profile != nil {
		if name := profile.FullName(); name != "" {
			return name
		}
	}
	return user.Username
}
