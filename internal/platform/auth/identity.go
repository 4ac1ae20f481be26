package auth

import (
	"context"

	"github.com/google/uuid"
)

// Identity is the resolved caller identity, passed explicitly into services
// that need it so they can be tested without a request object.
type Identity struct {
	UserID    string
	StudentID uuid.UUID // uuid.Nil unless the caller is a student
	Roles     []string
}

// IsStudent reports whether the caller is an authenticated student.
func (id Identity) IsStudent() bool {
	return id.StudentID != uuid.Nil
}

// HasRole reports whether the caller holds the given role. Admins hold every
// role implicitly.
func (id Identity) HasRole(role string) bool {
	for _, r := range id.Roles {
		if r == role || r == "admin" {
			return true
		}
	}
	return false
}

// IdentityFromContext assembles the caller identity from request context
// values set by the auth middleware.
func IdentityFromContext(ctx context.Context) Identity {
	return Identity{
		UserID:    UserIDFromContext(ctx),
		StudentID: StudentIDFromContext(ctx),
		Roles:     RolesFromContext(ctx),
	}
}
