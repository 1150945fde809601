package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-payroll/internal/domain/identity"
	"github.com/cmlabs-hris/hris-payroll/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type identityProvider struct {
	db *database.DB
}

// NewIdentityProvider reads roles from user_roles and the department and
// position tag from the actor's employee row.
func NewIdentityProvider(db *database.DB) identity.Provider {
	return &identityProvider{db: db}
}

// RolesOf implements identity.Provider.
func (p *identityProvider) RolesOf(ctx context.Context, actorID string) ([]identity.Role, error) {
	q := GetQuerier(ctx, p.db)

	rows, err := q.Query(ctx, `SELECT role FROM user_roles WHERE user_id = $1 ORDER BY role`, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to query roles: %w", err)
	}
	defer rows.Close()

	var roles []identity.Role
	for rows.Next() {
		var role identity.Role
		if err := rows.Scan(&role); err != nil {
			return nil, fmt.Errorf("failed to scan role: %w", err)
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

// DepartmentOf implements identity.Provider.
func (p *identityProvider) DepartmentOf(ctx context.Context, actorID string) (*string, error) {
	q := GetQuerier(ctx, p.db)

	var departmentID *string
	err := q.QueryRow(ctx, `SELECT department_id FROM employees WHERE user_id = $1`, actorID).Scan(&departmentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get department: %w", err)
	}
	return departmentID, nil
}

// PositionOf implements identity.Provider. Actors without an employee row or
// position are staff.
func (p *identityProvider) PositionOf(ctx context.Context, actorID string) (identity.Position, error) {
	q := GetQuerier(ctx, p.db)

	query := `
		SELECT COALESCE(p.tag, 'staff')
		FROM employees e
		LEFT JOIN positions p ON p.id = e.position_id
		WHERE e.user_id = $1
	`

	var position identity.Position
	err := q.QueryRow(ctx, query, actorID).Scan(&position)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return identity.PositionStaff, nil
		}
		return "", fmt.Errorf("failed to get position: %w", err)
	}
	return position, nil
}
