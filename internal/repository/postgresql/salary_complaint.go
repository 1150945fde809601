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

// onePendingComplaint is the partial unique index over pending complaints.
const onePendingComplaint = "salary_complaints_one_pending_key"

type salaryComplaintRepositoryImpl struct {
	db *database.DB
}

func NewSalaryComplaintRepository(db *database.DB) payroll.ComplaintRepository {
	return &salaryComplaintRepositoryImpl{db: db}
}

func (r *salaryComplaintRepositoryImpl) selectBuilder() squirrel.SelectBuilder {
	return r.db.Sq.Select(
		"c.id", "c.employee_id", "c.period_month", "c.period_year", "c.salary_slip_id",
		"c.type", "c.content", "c.status", "c.resolved_by", "c.response", "c.resolved_at",
		"c.created_at", "c.updated_at",
		"e.full_name as employee_name", "rv.full_name as resolver_name",
	).
		From("salary_complaints c").
		Join("employees e ON e.id = c.employee_id").
		LeftJoin("employees rv ON rv.user_id = c.resolved_by")
}

func scanComplaint(row pgx.Row) (payroll.SalaryComplaint, error) {
	var c payroll.SalaryComplaint
	err := row.Scan(
		&c.ID, &c.EmployeeID, &c.PeriodMonth, &c.PeriodYear, &c.SalarySlipID,
		&c.Type, &c.Content, &c.Status, &c.ResolvedBy, &c.Response, &c.ResolvedAt,
		&c.CreatedAt, &c.UpdatedAt,
		&c.EmployeeName, &c.ResolverName,
	)
	return c, err
}

// Create implements payroll.ComplaintRepository.
func (r *salaryComplaintRepositoryImpl) Create(ctx context.Context, complaint payroll.SalaryComplaint) (payroll.SalaryComplaint, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO salary_complaints (employee_id, period_month, period_year, salary_slip_id, type, content, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	var id string
	err := q.QueryRow(ctx, query,
		complaint.EmployeeID, complaint.PeriodMonth, complaint.PeriodYear, complaint.SalarySlipID,
		complaint.Type, complaint.Content, complaint.Status,
	).Scan(&id)
	if err != nil {
		if database.IsUniqueViolation(err, onePendingComplaint) {
			return payroll.SalaryComplaint{}, payroll.ErrComplaintExists
		}
		return payroll.SalaryComplaint{}, fmt.Errorf("failed to create salary complaint: %w", err)
	}

	return r.GetByID(ctx, id)
}

// GetByID implements payroll.ComplaintRepository.
func (r *salaryComplaintRepositoryImpl) GetByID(ctx context.Context, id string) (payroll.SalaryComplaint, error) {
	q := GetQuerier(ctx, r.db)

	query, args, err := r.selectBuilder().Where(squirrel.Eq{"c.id": id}).ToSql()
	if err != nil {
		return payroll.SalaryComplaint{}, fmt.Errorf("failed to build select query: %w", err)
	}

	c, err := scanComplaint(q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.SalaryComplaint{}, payroll.ErrComplaintNotFound
		}
		return payroll.SalaryComplaint{}, fmt.Errorf("failed to get salary complaint: %w", err)
	}
	return c, nil
}

// ListByEmployee implements payroll.ComplaintRepository.
func (r *salaryComplaintRepositoryImpl) ListByEmployee(ctx context.Context, employeeID string) ([]payroll.SalaryComplaint, error) {
	return r.list(ctx, r.selectBuilder().
		Where(squirrel.Eq{"c.employee_id": employeeID}).
		OrderBy("c.created_at DESC"))
}

// List implements payroll.ComplaintRepository.
func (r *salaryComplaintRepositoryImpl) List(ctx context.Context, filter payroll.ComplaintFilter) ([]payroll.SalaryComplaint, int64, error) {
	filter = filter.Normalize()
	q := GetQuerier(ctx, r.db)

	where := squirrel.Eq{}
	if filter.Status != nil {
		where["c.status"] = *filter.Status
	}

	countQuery, countArgs, err := r.db.Sq.Select("COUNT(*)").From("salary_complaints c").Where(where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var total int64
	if err := q.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count salary complaints: %w", err)
	}

	complaints, err := r.list(ctx, r.selectBuilder().
		Where(where).
		OrderBy("c.created_at DESC").
		Limit(uint64(filter.PageSize)).
		Offset(uint64((filter.Page-1)*filter.PageSize)))
	if err != nil {
		return nil, 0, err
	}
	return complaints, total, nil
}

// Transition implements payroll.ComplaintRepository.
func (r *salaryComplaintRepositoryImpl) Transition(ctx context.Context, id string, from []payroll.ComplaintStatus, change payroll.ComplaintChange) error {
	if change.To == payroll.ComplaintStatusPending {
		return payroll.ErrComplaintStale
	}
	q := GetQuerier(ctx, r.db)

	fromStatuses := make([]string, 0, len(from))
	for _, s := range from {
		fromStatuses = append(fromStatuses, string(s))
	}

	builder := r.db.Sq.Update("salary_complaints").
		Set("status", change.To).
		Set("updated_at", change.At).
		Where(squirrel.Eq{"id": id, "status": fromStatuses})
	if change.To == payroll.ComplaintStatusResolved || change.To == payroll.ComplaintStatusRejected {
		builder = builder.
			Set("resolved_by", change.ActorID).
			Set("resolved_at", change.At).
			Set("response", change.Response)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update query: %w", err)
	}

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update salary complaint status: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	return payroll.ErrComplaintStale
}

func (r *salaryComplaintRepositoryImpl) list(ctx context.Context, builder squirrel.SelectBuilder) ([]payroll.SalaryComplaint, error) {
	q := GetQuerier(ctx, r.db)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query salary complaints: %w", err)
	}
	defer rows.Close()

	complaints := []payroll.SalaryComplaint{}
	for rows.Next() {
		c, err := scanComplaint(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan salary complaint: %w", err)
		}
		complaints = append(complaints, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return complaints, nil
}
