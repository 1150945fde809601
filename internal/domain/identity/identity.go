// Package identity describes the role provider consulted for authorization.
// Actor ids are the authenticated user ids.
package identity

import "context"

type Role string

const (
	RoleSuperAdmin    Role = "super_admin"
	RoleAdmin         Role = "admin"
	RoleHR            Role = "hr"
	RoleManager       Role = "manager"
	RoleDeputyManager Role = "deputy_manager"
	RoleEmployee      Role = "employee"
)

// AdminTier roles bypass department scoping.
var AdminTier = []Role{RoleSuperAdmin, RoleAdmin, RoleHR}

type Position string

const (
	PositionManager       Position = "manager"
	PositionDeputyManager Position = "deputy_manager"
	PositionStaff         Position = "staff"
)

// IsApprover reports whether the position may approve requests of its department.
func (p Position) IsApprover() bool {
	return p == PositionManager || p == PositionDeputyManager
}

// HasAny reports whether roles intersects wanted.
func HasAny(roles []Role, wanted ...Role) bool {
	for _, r := range roles {
		for _, w := range wanted {
			if r == w {
				return true
			}
		}
	}
	return false
}

type Provider interface {
	RolesOf(ctx context.Context, actorID string) ([]Role, error)
	// DepartmentOf returns nil when the actor has no department assignment.
	DepartmentOf(ctx context.Context, actorID string) (*string, error)
	PositionOf(ctx context.Context, actorID string) (Position, error)
}
