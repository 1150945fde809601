package overtime

import (
	"time"

	"github.com/cmlabs-hris/hris-payroll/internal/domain/apperr"
	"github.com/cmlabs-hris/hris-payroll/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreateRequest struct {
	Date       string           `json:"date"`
	StartTime  string           `json:"start_time"`
	EndTime    string           `json:"end_time"`
	Reason     string           `json:"reason"`
	Multiplier *decimal.Decimal `json:"multiplier,omitempty"`
}

func (r *CreateRequest) Validate() error {
	var errs validator.ValidationErrors

	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs.Add("date", "date must be in YYYY-MM-DD format")
	}
	if _, ok := validator.IsValidClock(r.StartTime); !ok {
		errs.Add("start_time", "start_time must be in HH:MM format")
	}
	if _, ok := validator.IsValidClock(r.EndTime); !ok {
		errs.Add("end_time", "end_time must be in HH:MM format")
	}
	if validator.IsEmpty(r.Reason) {
		errs.Add("reason", "reason is required")
	} else if len(r.Reason) > 1000 {
		errs.Add("reason", "reason must not exceed 1000 characters")
	}
	if r.Multiplier != nil && !r.Multiplier.IsPositive() {
		errs.Add("multiplier", ErrInvalidMultiplier.Message)
	}

	return apperr.Invalid(errs)
}

// Payload converts a validated request.
func (r *CreateRequest) Payload() Payload {
	date, _ := time.Parse(validator.DateLayout, r.Date)
	p := Payload{
		Date:      date,
		StartTime: r.StartTime,
		EndTime:   r.EndTime,
	}
	if r.Multiplier != nil {
		p.Multiplier = *r.Multiplier
	}
	return p
}

type Response struct {
	ID             string          `json:"id"`
	EmployeeID     string          `json:"employee_id"`
	EmployeeName   *string         `json:"employee_name,omitempty"`
	DepartmentID   *string         `json:"department_id,omitempty"`
	DepartmentName *string         `json:"department_name,omitempty"`
	Date           string          `json:"date"`
	StartTime      string          `json:"start_time"`
	EndTime        string          `json:"end_time"`
	Hours          decimal.Decimal `json:"hours"`
	Multiplier     decimal.Decimal `json:"multiplier"`
	Reason         string          `json:"reason"`
	Status         string          `json:"status"`
	ApprovedBy     *string         `json:"approved_by,omitempty"`
	ApproverName   *string         `json:"approver_name,omitempty"`
	ApprovedAt     *time.Time      `json:"approved_at,omitempty"`
	RejectReason   *string         `json:"reject_reason,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func ToResponse(r Request) Response {
	return Response{
		ID:             r.ID,
		EmployeeID:     r.EmployeeID,
		EmployeeName:   r.EmployeeName,
		DepartmentID:   r.DepartmentID,
		DepartmentName: r.DepartmentName,
		Date:           r.Payload.Date.Format(validator.DateLayout),
		StartTime:      r.Payload.StartTime,
		EndTime:        r.Payload.EndTime,
		Hours:          r.Payload.Hours,
		Multiplier:     r.Payload.Multiplier,
		Reason:         r.Reason,
		Status:         string(r.Status),
		ApprovedBy:     r.ApprovedBy,
		ApproverName:   r.ApproverName,
		ApprovedAt:     r.ApprovedAt,
		RejectReason:   r.RejectReason,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}
