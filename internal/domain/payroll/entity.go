package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// SlipStatus enum
type SlipStatus string

const (
	SlipStatusDraft       SlipStatus = "draft"
	SlipStatusPending     SlipStatus = "pending"
	SlipStatusApproved    SlipStatus = "approved"
	SlipStatusPaid        SlipStatus = "paid"
	SlipStatusConfirmed   SlipStatus = "confirmed"
	SlipStatusComplaining SlipStatus = "complaining"
	SlipStatusCancelled   SlipStatus = "cancelled"
)

var SlipStatuses = []string{
	string(SlipStatusDraft),
	string(SlipStatusPending),
	string(SlipStatusApproved),
	string(SlipStatusPaid),
	string(SlipStatusConfirmed),
	string(SlipStatusComplaining),
	string(SlipStatusCancelled),
}

// SettledStatuses are past payment (or cancelled); their amounts are frozen.
var SettledStatuses = []SlipStatus{
	SlipStatusPaid,
	SlipStatusConfirmed,
	SlipStatusComplaining,
	SlipStatusCancelled,
}

// IsSettled reports whether recalculation and adjustment are refused.
func (s SlipStatus) IsSettled() bool {
	for _, st := range SettledStatuses {
		if s == st {
			return true
		}
	}
	return false
}

// SalarySlip - one employee's payroll record for one period
type SalarySlip struct {
	ID          string
	EmployeeID  string
	PeriodMonth int
	PeriodYear  int

	// Snapshot taken at calculation time
	WorkDays       int
	ActualWorkDays int
	LateDays       int
	EarlyLeaveDays int
	OvertimeHours  decimal.Decimal
	BaseSalary     decimal.Decimal

	// Computed
	ActualBasePay decimal.Decimal
	OvertimePay   decimal.Decimal
	Insurance     decimal.Decimal
	TaxableIncome decimal.Decimal
	Tax           decimal.Decimal
	NetSalary     decimal.Decimal

	// Admin supplied
	Bonus      decimal.Decimal
	Allowance  decimal.Decimal
	Deductions decimal.Decimal
	Note       *string

	Status           SlipStatus
	ApprovedBy       *string
	ApprovedAt       *time.Time
	PaidBy           *string
	PaidAt           *time.Time
	EmployeeFeedback *string

	CreatedAt time.Time
	UpdatedAt time.Time

	// Joined fields
	EmployeeName   *string
	EmployeeCode   *string
	DepartmentID   *string
	DepartmentName *string
}

// Apply copies a computed breakdown onto the slip.
func (s *SalarySlip) Apply(b Breakdown) {
	s.ActualBasePay = b.ActualBasePay
	s.OvertimePay = b.OvertimePay
	s.Insurance = b.Insurance
	s.TaxableIncome = b.TaxableIncome
	s.Tax = b.Tax
	s.NetSalary = b.NetSalary
}

// SlipChange is the mutation applied by a lifecycle transition.
type SlipChange struct {
	To       SlipStatus
	ActorID  *string
	At       time.Time
	Note     *string
	Feedback *string
}

type SlipFilter struct {
	PeriodMonth  *int
	PeriodYear   *int
	Status       *SlipStatus
	DepartmentID *string
	Page         int
	PageSize     int
}

// ComplaintType enum
type ComplaintType string

const (
	ComplaintTypeNotPaid      ComplaintType = "not_paid"
	ComplaintTypeWrongAmount  ComplaintType = "wrong_amount"
	ComplaintTypeMissingOT    ComplaintType = "missing_ot"
	ComplaintTypeMissingBonus ComplaintType = "missing_bonus"
	ComplaintTypeOther        ComplaintType = "other"
)

var ComplaintTypes = []string{
	string(ComplaintTypeNotPaid),
	string(ComplaintTypeWrongAmount),
	string(ComplaintTypeMissingOT),
	string(ComplaintTypeMissingBonus),
	string(ComplaintTypeOther),
}

// ComplaintStatus enum
type ComplaintStatus string

const (
	ComplaintStatusPending    ComplaintStatus = "pending"
	ComplaintStatusInProgress ComplaintStatus = "in_progress"
	ComplaintStatusResolved   ComplaintStatus = "resolved"
	ComplaintStatusRejected   ComplaintStatus = "rejected"
)

var ComplaintStatuses = []string{
	string(ComplaintStatusPending),
	string(ComplaintStatusInProgress),
	string(ComplaintStatusResolved),
	string(ComplaintStatusRejected),
}

// IsOpen reports whether a resolver may still act on the complaint.
func (s ComplaintStatus) IsOpen() bool {
	return s == ComplaintStatusPending || s == ComplaintStatusInProgress
}

// SalaryComplaint - an employee dispute about one period's pay
type SalaryComplaint struct {
	ID           string
	EmployeeID   string
	PeriodMonth  int
	PeriodYear   int
	SalarySlipID *string
	Type         ComplaintType
	Content      string
	Status       ComplaintStatus
	ResolvedBy   *string
	Response     *string
	ResolvedAt   *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Joined fields
	EmployeeName *string
	ResolverName *string
}

type ComplaintChange struct {
	To       ComplaintStatus
	ActorID  *string
	At       time.Time
	Response *string
}

type ComplaintFilter struct {
	Status   *ComplaintStatus
	Page     int
	PageSize int
}

type SlipPage struct {
	Items      []SalarySlip
	TotalCount int64
	Page       int
	PageSize   int
}

type ComplaintPage struct {
	Items      []SalaryComplaint
	TotalCount int64
	Page       int
	PageSize   int
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

func normalizePage(page, pageSize int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize
}

func (f SlipFilter) Normalize() SlipFilter {
	f.Page, f.PageSize = normalizePage(f.Page, f.PageSize)
	return f
}

func (f ComplaintFilter) Normalize() ComplaintFilter {
	f.Page, f.PageSize = normalizePage(f.Page, f.PageSize)
	return f
}
