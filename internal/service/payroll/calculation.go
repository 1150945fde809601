package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/hris-payroll/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

// Calculate computes the employee's slip for the period from base salary and
// attendance. With persist the slip is upserted: a new slip starts pending and
// an existing one keeps its status, approver and payer. Without persist the
// projection is returned untouched by storage.
//
// Overtime pay uses the overtime hours recorded on attendance rows; approved
// overtime requests are not consulted.
func (s *Service) Calculate(ctx context.Context, actorID string, req payroll.CalculateRequest) (payroll.SalarySlip, error) {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return payroll.SalarySlip{}, err
	}
	if err := req.Validate(); err != nil {
		return payroll.SalarySlip{}, err
	}
	persist := req.ShouldPersist()

	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return payroll.SalarySlip{}, payroll.ErrEmployeeNotFound
		}
		return payroll.SalarySlip{}, fmt.Errorf("failed to get employee: %w", err)
	}

	slip, err := s.slipRepo.GetByEmployeePeriod(ctx, emp.ID, req.PeriodMonth, req.PeriodYear)
	switch {
	case errors.Is(err, payroll.ErrSlipNotFound):
		slip = payroll.SalarySlip{
			EmployeeID:  emp.ID,
			PeriodMonth: req.PeriodMonth,
			PeriodYear:  req.PeriodYear,
			Status:      payroll.SlipStatusDraft,
		}
		if persist {
			slip.Status = payroll.SlipStatusPending
		}
	case err != nil:
		return payroll.SalarySlip{}, fmt.Errorf("failed to get salary slip for period: %w", err)
	case persist && slip.Status.IsSettled():
		return payroll.SalarySlip{}, payroll.ErrSlipLocked
	}

	from, to := attendance.MonthRange(req.PeriodYear, req.PeriodMonth)
	records, err := s.ledger.AttendanceFor(ctx, emp.ID, from, to)
	if err != nil {
		return payroll.SalarySlip{}, fmt.Errorf("failed to get attendance: %w", err)
	}
	summary := payroll.Summarize(records)

	slip.WorkDays = payroll.WorkDaysInMonth(req.PeriodYear, req.PeriodMonth)
	slip.ActualWorkDays = summary.ActualWorkDays
	slip.LateDays = summary.LateDays
	slip.EarlyLeaveDays = summary.EarlyLeaveDays
	slip.OvertimeHours = summary.OvertimeHours
	slip.BaseSalary = emp.BaseSalary

	// Omitted adjustments keep the values of an existing slip.
	slip.Bonus = orDefault(req.Bonus, slip.Bonus)
	slip.Allowance = orDefault(req.Allowance, slip.Allowance)
	slip.Deductions = orDefault(req.Deductions, slip.Deductions)
	if req.Note != nil {
		slip.Note = req.Note
	}

	slip.Apply(payroll.Compute(payroll.Inputs{
		BaseSalary:     slip.BaseSalary,
		WorkDays:       slip.WorkDays,
		ActualWorkDays: slip.ActualWorkDays,
		OvertimeHours:  slip.OvertimeHours,
		Bonus:          slip.Bonus,
		Allowance:      slip.Allowance,
		Deductions:     slip.Deductions,
	}))

	if !persist {
		return slip, nil
	}

	saved, err := s.slipRepo.Upsert(ctx, slip)
	if err != nil {
		if errors.Is(err, payroll.ErrSlipLocked) {
			return payroll.SalarySlip{}, err
		}
		return payroll.SalarySlip{}, fmt.Errorf("failed to save salary slip: %w", err)
	}

	slog.Info("salary slip calculated",
		"slip_id", saved.ID,
		"employee_id", saved.EmployeeID,
		"period", fmt.Sprintf("%04d-%02d", saved.PeriodYear, saved.PeriodMonth),
		"status", saved.Status,
		"net_salary", saved.NetSalary.String(),
	)
	return saved, nil
}

// UpdateAdjustments overwrites the supplied amounts of an unsettled slip and
// recomputes insurance, taxable income, tax and net salary from them.
func (s *Service) UpdateAdjustments(ctx context.Context, actorID string, req payroll.UpdateAdjustmentsRequest) (payroll.SalarySlip, error) {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return payroll.SalarySlip{}, err
	}
	if err := req.Validate(); err != nil {
		return payroll.SalarySlip{}, err
	}

	slip, err := s.slipRepo.GetByID(ctx, req.ID)
	if err != nil {
		return payroll.SalarySlip{}, err
	}
	if slip.Status.IsSettled() {
		return payroll.SalarySlip{}, payroll.ErrSlipLocked
	}

	slip.BaseSalary = orDefault(req.BaseSalary, slip.BaseSalary)
	slip.OvertimePay = orDefault(req.OvertimePay, slip.OvertimePay)
	slip.Bonus = orDefault(req.Bonus, slip.Bonus)
	slip.Allowance = orDefault(req.Allowance, slip.Allowance)
	slip.Deductions = orDefault(req.Deductions, slip.Deductions)
	if req.Note != nil {
		slip.Note = req.Note
	}

	overtimePay := slip.OvertimePay
	slip.Apply(payroll.Compute(payroll.Inputs{
		BaseSalary:     slip.BaseSalary,
		WorkDays:       slip.WorkDays,
		ActualWorkDays: slip.ActualWorkDays,
		OvertimeHours:  slip.OvertimeHours,
		Bonus:          slip.Bonus,
		Allowance:      slip.Allowance,
		Deductions:     slip.Deductions,
		OvertimePay:    &overtimePay,
	}))

	if err := s.slipRepo.UpdateAmounts(ctx, slip); err != nil {
		if errors.Is(err, payroll.ErrSlipLocked) || errors.Is(err, payroll.ErrSlipNotFound) {
			return payroll.SalarySlip{}, err
		}
		return payroll.SalarySlip{}, fmt.Errorf("failed to update salary slip: %w", err)
	}

	slog.Info("salary slip adjusted", "slip_id", slip.ID, "actor_id", actorID, "net_salary", slip.NetSalary.String())
	return s.slipRepo.GetByID(ctx, slip.ID)
}

func orDefault(v *decimal.Decimal, fallback decimal.Decimal) decimal.Decimal {
	if v != nil {
		return *v
	}
	return fallback
}
