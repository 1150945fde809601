package leave

import (
	"time"

	"github.com/cmlabs-hris/hris-payroll/internal/domain/approval"
)

type Type string

const (
	TypeAnnual    Type = "annual"
	TypeSick      Type = "sick"
	TypePersonal  Type = "personal"
	TypeUnpaid    Type = "unpaid"
	TypeMaternity Type = "maternity"
	TypeOther     Type = "other"
)

var Types = []string{
	string(TypeAnnual),
	string(TypeSick),
	string(TypePersonal),
	string(TypeUnpaid),
	string(TypeMaternity),
	string(TypeOther),
}

// Payload is the leave-specific part of an approvable request.
type Payload struct {
	Type      Type
	StartDate time.Time
	EndDate   time.Time
	TotalDays int
}

func (Payload) Kind() approval.Kind { return approval.KindLeave }

// Prepare checks the date range and computes the inclusive calendar day count.
func (p Payload) Prepare() (Payload, error) {
	p.StartDate = truncateDay(p.StartDate)
	p.EndDate = truncateDay(p.EndDate)
	if p.EndDate.Before(p.StartDate) {
		return p, ErrEndBeforeStart
	}
	p.TotalDays = DaysBetween(p.StartDate, p.EndDate)
	return p, nil
}

// DaysBetween counts calendar days from start to end inclusive, never less than one.
func DaysBetween(start, end time.Time) int {
	days := int(truncateDay(end).Sub(truncateDay(start)).Hours()/24) + 1
	if days < 1 {
		return 1
	}
	return days
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type Request = approval.Request[Payload]

type Repository = approval.Repository[Payload]
