package overtime

import "github.com/cmlabs-hris/hris-payroll/internal/domain/apperr"

var (
	ErrInvalidClock      = apperr.New(apperr.KindInvalidInput, "start_time and end_time must be HH:MM")
	ErrEndNotAfterStart  = apperr.New(apperr.KindInvalidInput, "end_time must be after start_time")
	ErrInvalidMultiplier = apperr.New(apperr.KindInvalidInput, "multiplier must be positive")
)
