package auth

import (
	"aruanda-service/internal/model"
)

// Resource names understood by Session.CanEdit.
const (
	ResourceTemples = "temples"
	ResourceProfile = "profile"
)

// Session is the authenticated principal derived from a validated token.
// A master admin session carries no temple.
type Session struct {
	UserID     string
	Email      string
	Name       string
	Role       string
	TempleID   string
	TempleName string
}

// IsMasterAdmin reports whether the session belongs to the cross-tenant
// super-user.
func (s *Session) IsMasterAdmin() bool {
	return s.Role == model.RoleMasterAdmin
}

// IsTempleAdmin reports whether the session belongs to a temple-scoped
// administrator.
func (s *Session) IsTempleAdmin() bool {
	return s.Role == model.RoleTempleAdmin
}

// IsAdmin reports whether either administrative role holds.
func (s *Session) IsAdmin() bool {
	return s.IsMasterAdmin() || s.IsTempleAdmin()
}

// CanEdit applies the role/resource edit matrix: the master admin edits
// anything, a temple admin everything except the temple directory, and any
// authenticated principal their own profile.
func (s *Session) CanEdit(resource string) bool {
	if s == nil {
		return false
	}
	if s.IsMasterAdmin() {
		return true
	}
	if s.IsTempleAdmin() && resource != ResourceTemples {
		return true
	}
	return resource == ResourceProfile
}
