package approval

import (
	"github.com/cmlabs-hris/hris-payroll/internal/domain/apperr"
	"github.com/cmlabs-hris/hris-payroll/internal/pkg/validator"
)

// MaxReasonLength bounds free-text reasons on requests and rejections.
const MaxReasonLength = 1000

// RejectRequest is the body of a reject call; the reason is optional.
type RejectRequest struct {
	Reason string `json:"reason"`
}

func (r *RejectRequest) Validate() error {
	if len(r.Reason) > MaxReasonLength {
		return apperr.Invalid(validator.ValidationErrors{{Field: "reason", Message: "reason must not exceed 1000 characters"}})
	}
	return nil
}
