package overtime

import (
	"time"

	"github.com/cmlabs-hris/hris-payroll/internal/domain/approval"
	"github.com/cmlabs-hris/hris-payroll/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// DefaultMultiplier applies when the employee does not state one.
var DefaultMultiplier = decimal.NewFromFloat(1.5)

// Payload is the overtime-specific part of an approvable request. StartTime and
// EndTime are same-day "HH:MM" clock times.
type Payload struct {
	Date       time.Time
	StartTime  string
	EndTime    string
	Hours      decimal.Decimal
	Multiplier decimal.Decimal
}

func (Payload) Kind() approval.Kind { return approval.KindOvertime }

// Prepare checks that the shift ends after it starts and derives its length in hours.
func (p Payload) Prepare() (Payload, error) {
	start, ok := validator.IsValidClock(p.StartTime)
	if !ok {
		return p, ErrInvalidClock
	}
	end, ok := validator.IsValidClock(p.EndTime)
	if !ok {
		return p, ErrInvalidClock
	}
	if end <= start {
		return p, ErrEndNotAfterStart
	}

	y, m, d := p.Date.Date()
	p.Date = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	p.Hours = HoursBetween(start, end)
	if p.Multiplier.IsZero() {
		p.Multiplier = DefaultMultiplier
	}
	return p, nil
}

// HoursBetween returns end-start in hours at minute precision.
func HoursBetween(start, end time.Duration) decimal.Decimal {
	minutes := int64((end - start) / time.Minute)
	return decimal.NewFromInt(minutes).Div(decimal.NewFromInt(60)).Round(2)
}

type Request = approval.Request[Payload]

type Repository = approval.Repository[Payload]
