// Package domain contains core concepts of the chat system.
// This file defines Identity, the authenticated participant attached to a
// session. Verification of credentials lives in the auth package.
package domain

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Identity is the result of a successful credential verification.
type Identity struct {
	UserID   string
	Username string
	Role     string
}

func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}
