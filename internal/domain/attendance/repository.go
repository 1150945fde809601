package attendance

import (
	"context"
	"time"
)

// Ledger supplies attendance rows; capture happens elsewhere.
type Ledger interface {
	// AttendanceFor returns rows with from <= date < to ordered by date.
	AttendanceFor(ctx context.Context, employeeID string, from, to time.Time) ([]Record, error)
}
