package leave

import "github.com/cmlabs-hris/hris-payroll/internal/domain/apperr"

var (
	ErrEndBeforeStart = apperr.New(apperr.KindInvalidInput, "end_date must not be before start_date")
)
