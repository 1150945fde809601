// Package authz centralizes every approval and payroll administration decision.
package authz

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-payroll/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll/internal/domain/identity"
)

// Target is anything owned by an employee: approvable requests, salary slips.
type Target interface {
	OwnerEmployeeID() string
	// OwnerDepartmentID may be nil when the projection did not load it.
	OwnerDepartmentID() *string
}

// Scope tells which pending requests an actor may act on.
type Scope struct {
	All          bool
	DepartmentID *string
}

// None reports an actor with no approval rights.
func (s Scope) None() bool {
	return !s.All && s.DepartmentID == nil
}

type Resolver struct {
	provider  identity.Provider
	employees employee.EmployeeRepository
}

func NewResolver(provider identity.Provider, employeeRepository employee.EmployeeRepository) *Resolver {
	return &Resolver{
		provider:  provider,
		employees: employeeRepository,
	}
}

// IsAdmin reports whether the actor holds an admin-tier role.
func (r *Resolver) IsAdmin(ctx context.Context, actorID string) (bool, error) {
	roles, err := r.provider.RolesOf(ctx, actorID)
	if err != nil {
		return false, fmt.Errorf("failed to resolve roles: %w", err)
	}
	return identity.HasAny(roles, identity.AdminTier...), nil
}

// ScopeOf resolves the actor's approval scope: every request for the admin tier,
// the actor's department for a manager or deputy manager, nothing otherwise.
func (r *Resolver) ScopeOf(ctx context.Context, actorID string) (Scope, error) {
	admin, err := r.IsAdmin(ctx, actorID)
	if err != nil {
		return Scope{}, err
	}
	if admin {
		return Scope{All: true}, nil
	}

	position, err := r.provider.PositionOf(ctx, actorID)
	if err != nil {
		return Scope{}, fmt.Errorf("failed to resolve position: %w", err)
	}
	if !position.IsApprover() {
		return Scope{}, nil
	}

	departmentID, err := r.provider.DepartmentOf(ctx, actorID)
	if err != nil {
		return Scope{}, fmt.Errorf("failed to resolve department: %w", err)
	}
	if departmentID == nil || *departmentID == "" {
		return Scope{}, nil
	}
	return Scope{DepartmentID: departmentID}, nil
}

// CanApprove gates approve and reject for every request kind. Cancel does not use it.
func (r *Resolver) CanApprove(ctx context.Context, actorID string, target Target) (bool, error) {
	scope, err := r.ScopeOf(ctx, actorID)
	if err != nil {
		return false, err
	}
	if scope.All {
		return true, nil
	}
	if scope.None() {
		return false, nil
	}

	targetDepartment := target.OwnerDepartmentID()
	if targetDepartment == nil {
		owner, err := r.employees.GetByID(ctx, target.OwnerEmployeeID())
		if err != nil {
			if errors.Is(err, employee.ErrEmployeeNotFound) {
				return false, nil
			}
			return false, fmt.Errorf("failed to get request owner: %w", err)
		}
		targetDepartment = owner.DepartmentID
	}

	return targetDepartment != nil && *targetDepartment == *scope.DepartmentID, nil
}
