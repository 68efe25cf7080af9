package service

import "marketplace/internal/domain"

// requireRole enforces the check order every mutation follows: missing
// session first, then role.
func requireRole(session *domain.Session, role domain.Role) error {
	if session == nil {
		return ErrUnauthenticated
	}
	if !session.HasRole(role) {
		return &UnauthorizedError{Required: role}
	}
	return nil
}

func requireAdmin(session *domain.Session) error {
	return requireRole(session, domain.RoleAdmin)
}

func requireSeller(session *domain.Session) error {
	return requireRole(session, domain.RoleSeller)
}
