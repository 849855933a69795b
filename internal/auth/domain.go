package auth

import (
	"fmt"
	"time"
)

// Role is the fixed role enumeration for dashboard accounts.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
	RoleLeader Role = "leader"
	RoleDivisi Role = "divisi"
)

// ParseRole validates a role string coming from storage or the wire.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleOwner, RoleAdmin, RoleLeader, RoleDivisi:
		return Role(s), nil
	}
	return "", fmt.Errorf("auth: unknown role %q", s)
}

// Identity is the authenticated actor's snapshot held for the session.
type Identity struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Nama     string `json:"nama"`
	Role     Role   `json:"role"`
	Active   bool   `json:"-"`
}

// Status renders the account status the way the wire contract expects.
func (i Identity) Status() string {
	if i.Active {
		return "active"
	}
	return "inactive"
}

// User represents a stored user account.
type User struct {
	ID           int64
	Username     string
	Nama         string
	Role         Role
	PasswordHash string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Identity derives the session snapshot from the stored account.
func (u User) Identity() Identity {
	return Identity{
		ID:       u.ID,
		Username: u.Username,
		Nama:     u.Nama,
		Role:     u.Role,
		Active:   u.IsActive,
	}
}
