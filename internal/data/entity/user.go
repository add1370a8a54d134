package entity

import "github.com/google/uuid"

type UserRole string

const (
	RoleAgent1  UserRole = "agent1"
	RoleAgent2  UserRole = "agent2"
	RoleAccount UserRole = "account"
	RoleAdmin   UserRole = "admin"
)

// IsAgent reports whether the role only sees its own bookings.
func (r UserRole) IsAgent() bool {
	return r == RoleAgent1 || r == RoleAgent2
}

type User struct {
	Base
	Email        string   `db:"email"`
	Name         string   `db:"name"`
	PasswordHash string   `db:"password_hash"`
	Role         UserRole `db:"role"`
	IsActive     bool     `db:"is_active"`
}

// Actor is the authenticated caller of an operation. Name and role are
// captured at request time and copied into audit entries as-is.
type Actor struct {
	ID    uuid.UUID
	Name  string
	Email string
	Role  UserRole
}

func (u *User) Actor() Actor {
	return Actor{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}
