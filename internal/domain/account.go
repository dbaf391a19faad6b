package domain

import "github.com/google/uuid"

type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

// Account is a user known to the identity service. Its ID is what clients
// record as their author.
type Account struct {
	ID       uuid.UUID
	Username string
	Role     Role
}

// IsAdmin returns true if the account bypasses ownership checks
func (a *Account) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// Actor returns the account as the caller of a mutating operation
func (a *Account) Actor() Actor {
	return Actor{ID: a.ID, IsAdmin: a.IsAdmin()}
}

// Actor is the authenticated caller of a mutating operation.
type Actor struct {
	ID      uuid.UUID
	IsAdmin bool
}

// CanMutate reports whether actor may change or remove a resource created by
// authorID. Admins may mutate anything; everybody else only what they authored.
func CanMutate(actor Actor, authorID uuid.UUID) bool {
	if actor.IsAdmin {
		return true
	}
	return actor.ID != uuid.Nil && actor.ID == authorID
}
