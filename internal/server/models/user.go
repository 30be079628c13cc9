// Package models holds the records persisted by the server and returned by
// its HTTP API.
package models

import (
	"strings"
	"time"
)

type Role string

const (
	RoleStudent Role = "student"
	RoleStaff   Role = "staff"
	RoleAdmin   Role = "admin"
)

// Roles lists every known role.
var Roles = []Role{RoleStudent, RoleStaff, RoleAdmin}

func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleStaff, RoleAdmin:
		return true
	}
	return false
}

// User is a stored account. PasswordHash never leaves the server.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	Name         string    `json:"name"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// DisplayName returns Name, or the local part of Email when Name is empty.
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return DefaultName(u.Email)
}

func (u *User) Identity() *Identity {
	return &Identity{ID: u.ID, Email: u.Email, Role: u.Role, Name: u.DisplayName()}
}

func (u *User) Summary() UserSummary {
	return NewUserSummary(u.ID, u.Name, u.Email)
}

// DefaultName derives a display name from an email address.
func DefaultName(email string) string {
	local, _, _ := strings.Cut(email, "@")
	return local
}

// Identity is the authenticated caller attached to a request.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
	Name  string `json:"name,omitempty"`
}

// HasRole reports whether the identity holds one of roles.
func (i *Identity) HasRole(roles ...Role) bool {
	for _, r := range roles {
		if i.Role == r {
			return true
		}
	}
	return false
}

// IsPrivileged reports whether the identity is staff or admin.
func (i *Identity) IsPrivileged() bool {
	return i.HasRole(RoleStaff, RoleAdmin)
}

// NewUserSummary builds a summary, deriving the name from email when the
// stored name is empty.
func NewUserSummary(id, name, email string) UserSummary {
	if name == "" {
		name = DefaultName(email)
	}
	return UserSummary{ID: id, Name: name, Email: email}
}

// UserSummary is the public projection of a user embedded in other records.
type UserSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
