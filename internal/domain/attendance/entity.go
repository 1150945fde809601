package attendance

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusOnTime     Status = "on_time"
	StatusLate       Status = "late"
	StatusEarlyLeave Status = "early_leave"
	StatusAbsent     Status = "absent"
	StatusLeave      Status = "leave"
)

// Record is one employee-day as supplied by the attendance ledger.
type Record struct {
	EmployeeID    string
	Date          time.Time
	ClockIn       *time.Time
	ClockOut      *time.Time
	Status        Status
	OvertimeHours decimal.Decimal
}

// Worked reports whether the day has both a clock-in and a clock-out.
func (r Record) Worked() bool {
	return r.ClockIn != nil && r.ClockOut != nil
}

// MonthRange returns the first day of the month and the first day of the next one.
func MonthRange(year, month int) (from, to time.Time) {
	from = time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 1, 0)
}
