package payroll

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-payroll/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll/internal/domain/payroll"
)

// AdminChecker reports whether an actor holds an admin-tier role.
type AdminChecker interface {
	IsAdmin(ctx context.Context, actorID string) (bool, error)
}

type Service struct {
	slipRepo      payroll.SlipRepository
	complaintRepo payroll.ComplaintRepository
	employeeRepo  employee.EmployeeRepository
	ledger        attendance.Ledger
	admins        AdminChecker
	now           func() time.Time
}

func NewService(
	slipRepo payroll.SlipRepository,
	complaintRepo payroll.ComplaintRepository,
	employeeRepo employee.EmployeeRepository,
	ledger attendance.Ledger,
	admins AdminChecker,
) *Service {
	return &Service{
		slipRepo:      slipRepo,
		complaintRepo: complaintRepo,
		employeeRepo:  employeeRepo,
		ledger:        ledger,
		admins:        admins,
		now:           time.Now,
	}
}

func (s *Service) requireAdmin(ctx context.Context, actorID string) error {
	admin, err := s.admins.IsAdmin(ctx, actorID)
	if err != nil {
		return err
	}
	if !admin {
		return payroll.ErrNotAdmin
	}
	return nil
}

func (s *Service) isAdmin(ctx context.Context, actorID string) (bool, error) {
	return s.admins.IsAdmin(ctx, actorID)
}

// actorEmployee maps the authenticated user to their employee record.
func (s *Service) actorEmployee(ctx context.Context, actorID string) (employee.Employee, error) {
	emp, err := s.employeeRepo.GetByUserID(ctx, actorID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.Employee{}, payroll.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee by user ID: %w", err)
	}
	return emp, nil
}

// ownsOrAdmin reports whether the actor may read a record of employeeID.
func (s *Service) ownsOrAdmin(ctx context.Context, actorID, employeeID string) (bool, error) {
	emp, err := s.employeeRepo.GetByUserID(ctx, actorID)
	switch {
	case err == nil && emp.ID == employeeID:
		return true, nil
	case err != nil && !errors.Is(err, employee.ErrEmployeeNotFound):
		return false, fmt.Errorf("failed to get employee by user ID: %w", err)
	}
	return s.isAdmin(ctx, actorID)
}
