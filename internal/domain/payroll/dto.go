package payroll

import (
	"time"

	"github.com/cmlabs-hris/hris-payroll/internal/domain/apperr"
	"github.com/cmlabs-hris/hris-payroll/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== SALARY SLIP DTOs ==========

type CalculateRequest struct {
	EmployeeID  string           `json:"employee_id"`
	PeriodMonth int              `json:"period_month"`
	PeriodYear  int              `json:"period_year"`
	Bonus       *decimal.Decimal `json:"bonus,omitempty"`
	Allowance   *decimal.Decimal `json:"allowance,omitempty"`
	Deductions  *decimal.Decimal `json:"deductions,omitempty"`
	Note        *string          `json:"note,omitempty"`
	Persist     *bool            `json:"persist,omitempty"` // defaults to true
}

func (r *CalculateRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "must be a valid UUID"})
	}
	if !validator.IsValidPeriod(r.PeriodMonth, r.PeriodYear) {
		errs = append(errs, validator.ValidationError{Field: "period_month", Message: "period must be a month 1-12 of a year from 2000"})
	}
	validateMoney(&errs, "bonus", r.Bonus)
	validateMoney(&errs, "allowance", r.Allowance)
	validateMoney(&errs, "deductions", r.Deductions)

	return apperr.Invalid(errs)
}

// ShouldPersist reports whether the computed slip is saved.
func (r *CalculateRequest) ShouldPersist() bool {
	return r.Persist == nil || *r.Persist
}

type UpdateAdjustmentsRequest struct {
	ID          string           `json:"-"`
	BaseSalary  *decimal.Decimal `json:"base_salary,omitempty"`
	OvertimePay *decimal.Decimal `json:"overtime_pay,omitempty"`
	Bonus       *decimal.Decimal `json:"bonus,omitempty"`
	Allowance   *decimal.Decimal `json:"allowance,omitempty"`
	Deductions  *decimal.Decimal `json:"deductions,omitempty"`
	Note        *string          `json:"note,omitempty"`
}

func (r *UpdateAdjustmentsRequest) Validate() error {
	var errs validator.ValidationErrors

	validateMoney(&errs, "base_salary", r.BaseSalary)
	validateMoney(&errs, "overtime_pay", r.OvertimePay)
	validateMoney(&errs, "bonus", r.Bonus)
	validateMoney(&errs, "allowance", r.Allowance)
	validateMoney(&errs, "deductions", r.Deductions)

	return apperr.Invalid(errs)
}

func validateMoney(errs *validator.ValidationErrors, field string, v *decimal.Decimal) {
	if v != nil && v.IsNegative() {
		errs.Add(field, "must be non-negative")
	}
}

type PayRequest struct {
	Note *string `json:"note,omitempty"`
}

type ConfirmRequest struct {
	Accepted *bool   `json:"accepted"`
	Note     *string `json:"note,omitempty"`
}

func (r *ConfirmRequest) Validate() error {
	var errs validator.ValidationErrors
	if r.Accepted == nil {
		errs.Add("accepted", "is required")
	}
	return apperr.Invalid(errs)
}

type SalarySlipResponse struct {
	ID               string          `json:"id,omitempty"`
	EmployeeID       string          `json:"employee_id"`
	EmployeeName     *string         `json:"employee_name,omitempty"`
	EmployeeCode     *string         `json:"employee_code,omitempty"`
	DepartmentName   *string         `json:"department_name,omitempty"`
	PeriodMonth      int             `json:"period_month"`
	PeriodYear       int             `json:"period_year"`
	WorkDays         int             `json:"work_days"`
	ActualWorkDays   int             `json:"actual_work_days"`
	LateDays         int             `json:"late_days"`
	EarlyLeaveDays   int             `json:"early_leave_days"`
	OvertimeHours    decimal.Decimal `json:"overtime_hours"`
	BaseSalary       decimal.Decimal `json:"base_salary"`
	ActualBasePay    decimal.Decimal `json:"actual_base_pay"`
	OvertimePay      decimal.Decimal `json:"overtime_pay"`
	Bonus            decimal.Decimal `json:"bonus"`
	Allowance        decimal.Decimal `json:"allowance"`
	Deductions       decimal.Decimal `json:"deductions"`
	Insurance        decimal.Decimal `json:"insurance"`
	TaxableIncome    decimal.Decimal `json:"taxable_income"`
	Tax              decimal.Decimal `json:"tax"`
	NetSalary        decimal.Decimal `json:"net_salary"`
	Note             *string         `json:"note,omitempty"`
	EmployeeFeedback *string         `json:"employee_feedback,omitempty"`
	Status           string          `json:"status"`
	ApprovedBy       *string         `json:"approved_by,omitempty"`
	ApprovedAt       *time.Time      `json:"approved_at,omitempty"`
	PaidBy           *string         `json:"paid_by,omitempty"`
	PaidAt           *time.Time      `json:"paid_at,omitempty"`
}

func ToSlipResponse(s SalarySlip) SalarySlipResponse {
	return SalarySlipResponse{
		ID:               s.ID,
		EmployeeID:       s.EmployeeID,
		EmployeeName:     s.EmployeeName,
		EmployeeCode:     s.EmployeeCode,
		DepartmentName:   s.DepartmentName,
		PeriodMonth:      s.PeriodMonth,
		PeriodYear:       s.PeriodYear,
		WorkDays:         s.WorkDays,
		ActualWorkDays:   s.ActualWorkDays,
		LateDays:         s.LateDays,
		EarlyLeaveDays:   s.EarlyLeaveDays,
		OvertimeHours:    s.OvertimeHours,
		BaseSalary:       s.BaseSalary,
		ActualBasePay:    s.ActualBasePay,
		OvertimePay:      s.OvertimePay,
		Bonus:            s.Bonus,
		Allowance:        s.Allowance,
		Deductions:       s.Deductions,
		Insurance:        s.Insurance,
		TaxableIncome:    s.TaxableIncome,
		Tax:              s.Tax,
		NetSalary:        s.NetSalary,
		Note:             s.Note,
		EmployeeFeedback: s.EmployeeFeedback,
		Status:           string(s.Status),
		ApprovedBy:       s.ApprovedBy,
		ApprovedAt:       s.ApprovedAt,
		PaidBy:           s.PaidBy,
		PaidAt:           s.PaidAt,
	}
}

// ========== COMPLAINT DTOs ==========

type CreateComplaintRequest struct {
	PeriodMonth  int     `json:"period_month"`
	PeriodYear   int     `json:"period_year"`
	Type         string  `json:"type"`
	Content      string  `json:"content"`
	SalarySlipID *string `json:"salary_slip_id,omitempty"`
}

func (r *CreateComplaintRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidPeriod(r.PeriodMonth, r.PeriodYear) {
		errs = append(errs, validator.ValidationError{Field: "period_month", Message: "period must be a month 1-12 of a year from 2000"})
	}
	if !validator.IsInSlice(r.Type, ComplaintTypes) {
		errs = append(errs, validator.ValidationError{Field: "type", Message: "must be one of not_paid, wrong_amount, missing_ot, missing_bonus, other"})
	}
	if validator.IsEmpty(r.Content) {
		errs = append(errs, validator.ValidationError{Field: "content", Message: "is required"})
	}
	if r.SalarySlipID != nil && !validator.IsValidUUID(*r.SalarySlipID) {
		errs = append(errs, validator.ValidationError{Field: "salary_slip_id", Message: "must be a valid UUID"})
	}

	return apperr.Invalid(errs)
}

type ResolveComplaintRequest struct {
	Status   string `json:"status"`
	Response string `json:"response"`
}

func (r *ResolveComplaintRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Status != string(ComplaintStatusResolved) && r.Status != string(ComplaintStatusRejected) {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "must be 'resolved' or 'rejected'"})
	}
	if validator.IsEmpty(r.Response) {
		errs = append(errs, validator.ValidationError{Field: "response", Message: "is required"})
	}

	return apperr.Invalid(errs)
}

type SalaryComplaintResponse struct {
	ID           string     `json:"id"`
	EmployeeID   string     `json:"employee_id"`
	EmployeeName *string    `json:"employee_name,omitempty"`
	PeriodMonth  int        `json:"period_month"`
	PeriodYear   int        `json:"period_year"`
	SalarySlipID *string    `json:"salary_slip_id,omitempty"`
	Type         string     `json:"type"`
	Content      string     `json:"content"`
	Status       string     `json:"status"`
	ResolvedBy   *string    `json:"resolved_by,omitempty"`
	ResolverName *string    `json:"resolver_name,omitempty"`
	Response     *string    `json:"response,omitempty"`
	ResolvedAt   *time.Time `json:"resolved_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

func ToComplaintResponse(c SalaryComplaint) SalaryComplaintResponse {
	return SalaryComplaintResponse{
		ID:           c.ID,
		EmployeeID:   c.EmployeeID,
		EmployeeName: c.EmployeeName,
		PeriodMonth:  c.PeriodMonth,
		PeriodYear:   c.PeriodYear,
		SalarySlipID: c.SalarySlipID,
		Type:         string(c.Type),
		Content:      c.Content,
		Status:       string(c.Status),
		ResolvedBy:   c.ResolvedBy,
		ResolverName: c.ResolverName,
		Response:     c.Response,
		ResolvedAt:   c.ResolvedAt,
		CreatedAt:    c.CreatedAt,
	}
}
