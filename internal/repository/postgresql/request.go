package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/cmlabs-hris/hris-payroll/internal/domain/approval"
	"github.com/cmlabs-hris/hris-payroll/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

// requestCodec maps the payload of one request kind onto its table.
type requestCodec[P any] struct {
	table string

	// insert columns and the matching values
	columns []string
	values  func(p P) []interface{}

	// select expressions, aliased on r, and the matching scan targets
	selects []string
	targets func(p *P) []interface{}
}

// requestRepository stores approvable requests of one kind. The table layout
// shared by every kind lives here; the payload columns come from the codec.
type requestRepository[P any] struct {
	db    *database.DB
	codec requestCodec[P]
}

func (r *requestRepository[P]) selectBuilder() squirrel.SelectBuilder {
	columns := []string{"r.id", "r.employee_id"}
	columns = append(columns, r.codec.selects...)
	columns = append(columns,
		"r.reason", "r.status", "r.approved_by", "r.approved_at", "r.reject_reason",
		"r.created_at", "r.updated_at",
		"e.full_name as employee_name", "e.department_id", "d.name as department_name",
		"ap.full_name as approver_name",
	)

	return r.db.Sq.Select(columns...).
		From(r.codec.table + " r").
		Join("employees e ON e.id = r.employee_id").
		LeftJoin("departments d ON d.id = e.department_id").
		LeftJoin("employees ap ON ap.user_id = r.approved_by")
}

func (r *requestRepository[P]) scan(row pgx.Row) (approval.Request[P], error) {
	var req approval.Request[P]

	dest := []interface{}{&req.ID, &req.EmployeeID}
	dest = append(dest, r.codec.targets(&req.Payload)...)
	dest = append(dest,
		&req.Reason, &req.Status, &req.ApprovedBy, &req.ApprovedAt, &req.RejectReason,
		&req.CreatedAt, &req.UpdatedAt,
		&req.EmployeeName, &req.DepartmentID, &req.DepartmentName,
		&req.ApproverName,
	)

	err := row.Scan(dest...)
	return req, err
}

func (r *requestRepository[P]) Create(ctx context.Context, request approval.Request[P]) (approval.Request[P], error) {
	q := GetQuerier(ctx, r.db)

	columns := []string{"employee_id"}
	columns = append(columns, r.codec.columns...)
	columns = append(columns, "reason", "status")

	values := []interface{}{request.EmployeeID}
	values = append(values, r.codec.values(request.Payload)...)
	values = append(values, request.Reason, request.Status)

	query, args, err := r.db.Sq.Insert(r.codec.table).
		Columns(columns...).
		Values(values...).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return approval.Request[P]{}, fmt.Errorf("failed to build insert query: %w", err)
	}

	var id string
	if err := q.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return approval.Request[P]{}, fmt.Errorf("failed to create %s: %w", r.codec.table, err)
	}

	return r.GetByID(ctx, id)
}

func (r *requestRepository[P]) GetByID(ctx context.Context, id string) (approval.Request[P], error) {
	q := GetQuerier(ctx, r.db)

	query, args, err := r.selectBuilder().Where(squirrel.Eq{"r.id": id}).ToSql()
	if err != nil {
		return approval.Request[P]{}, fmt.Errorf("failed to build select query: %w", err)
	}

	req, err := r.scan(q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return approval.Request[P]{}, approval.ErrRequestNotFound
		}
		return approval.Request[P]{}, fmt.Errorf("failed to get %s: %w", r.codec.table, err)
	}
	return req, nil
}

func (r *requestRepository[P]) ListByEmployee(ctx context.Context, employeeID string) ([]approval.Request[P], error) {
	return r.list(ctx, r.selectBuilder().
		Where(squirrel.Eq{"r.employee_id": employeeID}).
		OrderBy("r.created_at DESC"))
}

func (r *requestRepository[P]) ListPending(ctx context.Context, departmentID *string) ([]approval.Request[P], error) {
	builder := r.selectBuilder().Where(squirrel.Eq{"r.status": approval.StatusPending})
	if departmentID != nil {
		builder = builder.Where(squirrel.Eq{"e.department_id": *departmentID})
	}
	return r.list(ctx, builder.OrderBy("r.created_at DESC"))
}

func (r *requestRepository[P]) List(ctx context.Context, filter approval.Filter) ([]approval.Request[P], int64, error) {
	filter = filter.Normalize()
	q := GetQuerier(ctx, r.db)

	where := squirrel.And{}
	if filter.Status != nil {
		where = append(where, squirrel.Eq{"r.status": *filter.Status})
	}
	if filter.DepartmentID != nil {
		where = append(where, squirrel.Eq{"e.department_id": *filter.DepartmentID})
	}

	countQuery, countArgs, err := r.db.Sq.Select("COUNT(*)").
		From(r.codec.table + " r").
		Join("employees e ON e.id = r.employee_id").
		Where(where).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var total int64
	if err := q.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count %s: %w", r.codec.table, err)
	}

	items, err := r.list(ctx, r.selectBuilder().
		Where(where).
		OrderBy("r.created_at DESC").
		Limit(uint64(filter.PageSize)).
		Offset(uint64(filter.Offset())))
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Transition implements the compare-and-set on status.
func (r *requestRepository[P]) Transition(ctx context.Context, id string, from approval.Status, change approval.Change) error {
	q := GetQuerier(ctx, r.db)

	builder := r.db.Sq.Update(r.codec.table).
		Set("status", change.To).
		Set("updated_at", change.At).
		Where(squirrel.Eq{"id": id, "status": from})
	if change.To == approval.StatusApproved || change.To == approval.StatusRejected {
		builder = builder.
			Set("approved_by", change.ActorID).
			Set("approved_at", change.At).
			Set("reject_reason", change.RejectReason)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update query: %w", err)
	}

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update %s status: %w", r.codec.table, err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	var exists bool
	existsQuery := fmt.Sprintf(`SELECT EXISTS(SELECT 1 FROM %s WHERE id = $1)`, r.codec.table)
	if err := q.QueryRow(ctx, existsQuery, id).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check %s: %w", r.codec.table, err)
	}
	if !exists {
		return approval.ErrRequestNotFound
	}
	return approval.ErrStaleStatus
}

func (r *requestRepository[P]) list(ctx context.Context, builder squirrel.SelectBuilder) ([]approval.Request[P], error) {
	q := GetQuerier(ctx, r.db)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", r.codec.table, err)
	}
	defer rows.Close()

	requests := []approval.Request[P]{}
	for rows.Next() {
		req, err := r.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", r.codec.table, err)
		}
		requests = append(requests, req)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return requests, nil
}
