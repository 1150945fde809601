package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/cmlabs-hris/hris-payroll/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type salarySlipRepositoryImpl struct {
	db *database.DB
}

func NewSalarySlipRepository(db *database.DB) payroll.SlipRepository {
	return &salarySlipRepositoryImpl{db: db}
}

func settledStatuses() []string {
	out := make([]string, 0, len(payroll.SettledStatuses))
	for _, s := range payroll.SettledStatuses {
		out = append(out, string(s))
	}
	return out
}

func (r *salarySlipRepositoryImpl) selectBuilder() squirrel.SelectBuilder {
	return r.db.Sq.Select(
		"s.id", "s.employee_id", "s.period_month", "s.period_year",
		"s.work_days", "s.actual_work_days", "s.late_days", "s.early_leave_days", "s.overtime_hours",
		"s.base_salary", "s.actual_base_pay", "s.overtime_pay", "s.insurance", "s.taxable_income",
		"s.tax", "s.net_salary", "s.bonus", "s.allowance", "s.deductions", "s.note",
		"s.status", "s.approved_by", "s.approved_at", "s.paid_by", "s.paid_at", "s.employee_feedback",
		"s.created_at", "s.updated_at",
		"e.full_name as employee_name", "e.employee_code", "e.department_id", "d.name as department_name",
	).
		From("salary_slips s").
		Join("employees e ON e.id = s.employee_id").
		LeftJoin("departments d ON d.id = e.department_id")
}

func scanSlip(row pgx.Row) (payroll.SalarySlip, error) {
	var s payroll.SalarySlip
	err := row.Scan(
		&s.ID, &s.EmployeeID, &s.PeriodMonth, &s.PeriodYear,
		&s.WorkDays, &s.ActualWorkDays, &s.LateDays, &s.EarlyLeaveDays, &s.OvertimeHours,
		&s.BaseSalary, &s.ActualBasePay, &s.OvertimePay, &s.Insurance, &s.TaxableIncome,
		&s.Tax, &s.NetSalary, &s.Bonus, &s.Allowance, &s.Deductions, &s.Note,
		&s.Status, &s.ApprovedBy, &s.ApprovedAt, &s.PaidBy, &s.PaidAt, &s.EmployeeFeedback,
		&s.CreatedAt, &s.UpdatedAt,
		&s.EmployeeName, &s.EmployeeCode, &s.DepartmentID, &s.DepartmentName,
	)
	return s, err
}

// GetByID implements payroll.SlipRepository.
func (r *salarySlipRepositoryImpl) GetByID(ctx context.Context, id string) (payroll.SalarySlip, error) {
	return r.getOne(ctx, squirrel.Eq{"s.id": id})
}

// GetByEmployeePeriod implements payroll.SlipRepository.
func (r *salarySlipRepositoryImpl) GetByEmployeePeriod(ctx context.Context, employeeID string, month, year int) (payroll.SalarySlip, error) {
	return r.getOne(ctx, squirrel.Eq{
		"s.employee_id":  employeeID,
		"s.period_month": month,
		"s.period_year":  year,
	})
}

func (r *salarySlipRepositoryImpl) getOne(ctx context.Context, where squirrel.Eq) (payroll.SalarySlip, error) {
	q := GetQuerier(ctx, r.db)

	query, args, err := r.selectBuilder().Where(where).ToSql()
	if err != nil {
		return payroll.SalarySlip{}, fmt.Errorf("failed to build select query: %w", err)
	}

	slip, err := scanSlip(q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.SalarySlip{}, payroll.ErrSlipNotFound
		}
		return payroll.SalarySlip{}, fmt.Errorf("failed to get salary slip: %w", err)
	}
	return slip, nil
}

// ListByEmployee implements payroll.SlipRepository.
func (r *salarySlipRepositoryImpl) ListByEmployee(ctx context.Context, employeeID string) ([]payroll.SalarySlip, error) {
	return r.list(ctx, r.selectBuilder().
		Where(squirrel.Eq{"s.employee_id": employeeID}).
		OrderBy("s.period_year DESC", "s.period_month DESC", "s.created_at DESC"))
}

// List implements payroll.SlipRepository.
func (r *salarySlipRepositoryImpl) List(ctx context.Context, filter payroll.SlipFilter) ([]payroll.SalarySlip, int64, error) {
	filter = filter.Normalize()
	q := GetQuerier(ctx, r.db)

	where := squirrel.Eq{}
	if filter.PeriodMonth != nil {
		where["s.period_month"] = *filter.PeriodMonth
	}
	if filter.PeriodYear != nil {
		where["s.period_year"] = *filter.PeriodYear
	}
	if filter.Status != nil {
		where["s.status"] = *filter.Status
	}
	if filter.DepartmentID != nil {
		where["e.department_id"] = *filter.DepartmentID
	}

	countQuery, countArgs, err := r.db.Sq.Select("COUNT(*)").
		From("salary_slips s").
		Join("employees e ON e.id = s.employee_id").
		Where(where).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var total int64
	if err := q.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count salary slips: %w", err)
	}

	slips, err := r.list(ctx, r.selectBuilder().
		Where(where).
		OrderBy("s.period_year DESC", "s.period_month DESC", "s.created_at DESC").
		Limit(uint64(filter.PageSize)).
		Offset(uint64((filter.Page-1)*filter.PageSize)))
	if err != nil {
		return nil, 0, err
	}
	return slips, total, nil
}

// Upsert implements payroll.SlipRepository. The conflict update only fires
// while the stored slip is unsettled; otherwise no row comes back.
func (r *salarySlipRepositoryImpl) Upsert(ctx context.Context, slip payroll.SalarySlip) (payroll.SalarySlip, error) {
	query, args, err := r.db.Sq.Insert("salary_slips").
		Columns(
			"employee_id", "period_month", "period_year",
			"work_days", "actual_work_days", "late_days", "early_leave_days", "overtime_hours",
			"base_salary", "actual_base_pay", "overtime_pay", "insurance", "taxable_income",
			"tax", "net_salary", "bonus", "allowance", "deductions", "note", "status",
		).
		Values(
			slip.EmployeeID, slip.PeriodMonth, slip.PeriodYear,
			slip.WorkDays, slip.ActualWorkDays, slip.LateDays, slip.EarlyLeaveDays, slip.OvertimeHours,
			slip.BaseSalary, slip.ActualBasePay, slip.OvertimePay, slip.Insurance, slip.TaxableIncome,
			slip.Tax, slip.NetSalary, slip.Bonus, slip.Allowance, slip.Deductions, slip.Note, slip.Status,
		).
		Suffix(`
			ON CONFLICT ON CONSTRAINT salary_slips_employee_period_key DO UPDATE SET
				work_days = EXCLUDED.work_days,
				actual_work_days = EXCLUDED.actual_work_days,
				late_days = EXCLUDED.late_days,
				early_leave_days = EXCLUDED.early_leave_days,
				overtime_hours = EXCLUDED.overtime_hours,
				base_salary = EXCLUDED.base_salary,
				actual_base_pay = EXCLUDED.actual_base_pay,
				overtime_pay = EXCLUDED.overtime_pay,
				insurance = EXCLUDED.insurance,
				taxable_income = EXCLUDED.taxable_income,
				tax = EXCLUDED.tax,
				net_salary = EXCLUDED.net_salary,
				bonus = EXCLUDED.bonus,
				allowance = EXCLUDED.allowance,
				deductions = EXCLUDED.deductions,
				note = EXCLUDED.note,
				updated_at = NOW()
			WHERE salary_slips.status <> ALL(?)
			RETURNING id`, settledStatuses()).
		ToSql()
	if err != nil {
		return payroll.SalarySlip{}, fmt.Errorf("failed to build upsert query: %w", err)
	}

	var saved payroll.SalarySlip
	err = WithTransaction(ctx, r.db, func(ctx context.Context) error {
		q := GetQuerier(ctx, r.db)

		var id string
		if err := q.QueryRow(ctx, query, args...).Scan(&id); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return payroll.ErrSlipLocked
			}
			return fmt.Errorf("failed to upsert salary slip: %w", err)
		}

		var err error
		saved, err = r.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return payroll.SalarySlip{}, err
	}
	return saved, nil
}

// UpdateAmounts implements payroll.SlipRepository.
func (r *salarySlipRepositoryImpl) UpdateAmounts(ctx context.Context, slip payroll.SalarySlip) error {
	q := GetQuerier(ctx, r.db)

	query, args, err := r.db.Sq.Update("salary_slips").
		Set("base_salary", slip.BaseSalary).
		Set("actual_base_pay", slip.ActualBasePay).
		Set("overtime_pay", slip.OvertimePay).
		Set("insurance", slip.Insurance).
		Set("taxable_income", slip.TaxableIncome).
		Set("tax", slip.Tax).
		Set("net_salary", slip.NetSalary).
		Set("bonus", slip.Bonus).
		Set("allowance", slip.Allowance).
		Set("deductions", slip.Deductions).
		Set("note", slip.Note).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": slip.ID}).
		Where(squirrel.NotEq{"status": settledStatuses()}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update query: %w", err)
	}

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update salary slip: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}
	if _, err := r.GetByID(ctx, slip.ID); err != nil {
		return err
	}
	return payroll.ErrSlipLocked
}

// Transition implements payroll.SlipRepository.
func (r *salarySlipRepositoryImpl) Transition(ctx context.Context, id string, from []payroll.SlipStatus, change payroll.SlipChange) error {
	q := GetQuerier(ctx, r.db)

	fromStatuses := make([]string, 0, len(from))
	for _, s := range from {
		fromStatuses = append(fromStatuses, string(s))
	}

	builder := r.db.Sq.Update("salary_slips").
		Set("status", change.To).
		Set("updated_at", change.At).
		Where(squirrel.Eq{"id": id, "status": fromStatuses})
	switch change.To {
	case payroll.SlipStatusApproved:
		builder = builder.Set("approved_by", change.ActorID).Set("approved_at", change.At)
	case payroll.SlipStatusPaid:
		builder = builder.Set("paid_by", change.ActorID).Set("paid_at", change.At)
	}
	if change.Note != nil {
		builder = builder.Set("note", *change.Note)
	}
	if change.Feedback != nil {
		builder = builder.Set("employee_feedback", *change.Feedback)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update query: %w", err)
	}

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update salary slip status: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	return payroll.ErrSlipStale
}

func (r *salarySlipRepositoryImpl) list(ctx context.Context, builder squirrel.SelectBuilder) ([]payroll.SalarySlip, error) {
	q := GetQuerier(ctx, r.db)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query salary slips: %w", err)
	}
	defer rows.Close()

	slips := []payroll.SalarySlip{}
	for rows.Next() {
		slip, err := scanSlip(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan salary slip: %w", err)
		}
		slips = append(slips, slip)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return slips, nil
}
