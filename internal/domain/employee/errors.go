package employee

import "github.com/cmlabs-hris/hris-payroll/internal/domain/apperr"

var (
	ErrEmployeeNotFound = apperr.New(apperr.KindNotFound, "employee not found")
)
