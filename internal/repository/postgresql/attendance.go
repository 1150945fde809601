package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-payroll/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll/internal/pkg/database"
)

type attendanceLedger struct {
	db *database.DB
}

func NewAttendanceLedger(db *database.DB) attendance.Ledger {
	return &attendanceLedger{db: db}
}

// AttendanceFor implements attendance.Ledger.
func (a *attendanceLedger) AttendanceFor(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.Record, error) {
	if !to.After(from) {
		return nil, attendance.ErrInvalidRange
	}
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT employee_id, date, clock_in, clock_out, status, overtime_hours
		FROM attendances
		WHERE employee_id = $1 AND date >= $2 AND date < $3
		ORDER BY date
	`

	rows, err := q.Query(ctx, query, employeeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance: %w", err)
	}
	defer rows.Close()

	var records []attendance.Record
	for rows.Next() {
		var rec attendance.Record
		if err := rows.Scan(&rec.EmployeeID, &rec.Date, &rec.ClockIn, &rec.ClockOut, &rec.Status, &rec.OvertimeHours); err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}
