package leave

import (
	"time"

	"github.com/cmlabs-hris/hris-payroll/internal/domain/apperr"
	"github.com/cmlabs-hris/hris-payroll/internal/pkg/validator"
)

const maxReasonLength = 1000

type CreateRequest struct {
	LeaveType string `json:"leave_type"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Reason    string `json:"reason"`
}

func (r *CreateRequest) Validate() error {
	var errs validator.ValidationErrors

	// Leave type
	if validator.IsEmpty(r.LeaveType) {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_type",
			Message: "leave_type is required",
		})
	} else if !validator.IsInSlice(r.LeaveType, Types) {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_type",
			Message: "leave_type must be one of annual, sick, personal, unpaid, maternity, other",
		})
	}

	// Dates
	if _, ok := validator.IsValidDate(r.StartDate); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be in YYYY-MM-DD format",
		})
	}
	if _, ok := validator.IsValidDate(r.EndDate); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be in YYYY-MM-DD format",
		})
	}

	// Reason
	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason is required",
		})
	}
	if len(r.Reason) > maxReasonLength {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason must not exceed 1000 characters",
		})
	}

	return apperr.Invalid(errs)
}

// Payload converts a validated request.
func (r *CreateRequest) Payload() Payload {
	start, _ := time.Parse(validator.DateLayout, r.StartDate)
	end, _ := time.Parse(validator.DateLayout, r.EndDate)
	return Payload{
		Type:      Type(r.LeaveType),
		StartDate: start,
		EndDate:   end,
	}
}

// Response is the JSON shape of a leave request.
type Response struct {
	ID             string     `json:"id"`
	EmployeeID     string     `json:"employee_id"`
	EmployeeName   *string    `json:"employee_name,omitempty"`
	DepartmentID   *string    `json:"department_id,omitempty"`
	DepartmentName *string    `json:"department_name,omitempty"`
	LeaveType      Type       `json:"leave_type"`
	StartDate      string     `json:"start_date"`
	EndDate        string     `json:"end_date"`
	TotalDays      int        `json:"total_days"`
	Reason         string     `json:"reason"`
	Status         string     `json:"status"`
	ApprovedBy     *string    `json:"approved_by,omitempty"`
	ApproverName   *string    `json:"approver_name,omitempty"`
	ApprovedAt     *time.Time `json:"approved_at,omitempty"`
	RejectReason   *string    `json:"reject_reason,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func ToResponse(r Request) Response {
	return Response{
		ID:             r.ID,
		EmployeeID:     r.EmployeeID,
		EmployeeName:   r.EmployeeName,
		DepartmentID:   r.DepartmentID,
		DepartmentName: r.DepartmentName,
		LeaveType:      r.Payload.Type,
		StartDate:      r.Payload.StartDate.Format(validator.DateLayout),
		EndDate:        r.Payload.EndDate.Format(validator.DateLayout),
		TotalDays:      r.Payload.TotalDays,
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
