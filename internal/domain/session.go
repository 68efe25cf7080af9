package domain

import "github.com/google/uuid"

// Session is the authenticated caller of an operation. A nil *Session means
// the request carried no valid identity.
type Session struct {
	UserID uuid.UUID
	Role   Role
}

// HasRole reports whether the session exists and carries the given role
func (s *Session) HasRole(role Role) bool {
	return s != nil && s.Role == role
}
