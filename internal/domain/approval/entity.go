package approval

import "time"

type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition may leave s.
func (s Status) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected || s == StatusCancelled
}

// CanTransition encodes the shared state machine: pending -> {approved, rejected, cancelled}.
func CanTransition(from, to Status) bool {
	return from == StatusPending && to.IsTerminal()
}

// Kind names the request variant, used for logging and storage routing.
type Kind string

const (
	KindLeave    Kind = "leave"
	KindOvertime Kind = "overtime"
)

// Payload is implemented by each request variant. Prepare validates the
// variant's ordering rule and returns the payload with its derived quantity
// (leave days, overtime hours) filled in; that quantity is stored and never
// recomputed.
type Payload[P any] interface {
	Kind() Kind
	Prepare() (P, error)
}

// Request is an Approvable Request over payload P.
type Request[P any] struct {
	ID         string
	EmployeeID string
	Payload    P
	Reason     string

	Status       Status
	ApprovedBy   *string
	ApprovedAt   *time.Time
	RejectReason *string

	CreatedAt time.Time
	UpdatedAt time.Time

	// Detail projection
	EmployeeName   *string
	DepartmentID   *string
	DepartmentName *string
	ApproverName   *string
}

// OwnerEmployeeID and OwnerDepartmentID let the authorization resolver treat
// every request kind alike.
func (r Request[P]) OwnerEmployeeID() string { return r.EmployeeID }

func (r Request[P]) OwnerDepartmentID() *string { return r.DepartmentID }

// Change is the mutation applied by a status transition.
type Change struct {
	To           Status
	ActorID      *string
	At           time.Time
	RejectReason *string
}

type Filter struct {
	DepartmentID *string
	Status       *Status
	Page         int
	PageSize     int
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Normalize applies paging defaults.
func (f Filter) Normalize() Filter {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.PageSize <= 0 {
		f.PageSize = DefaultPageSize
	}
	if f.PageSize > MaxPageSize {
		f.PageSize = MaxPageSize
	}
	return f
}

func (f Filter) Offset() int {
	return (f.Page - 1) * f.PageSize
}

type PagedResult[T any] struct {
	Items      []T
	TotalCount int64
	Page       int
	PageSize   int
}

// TotalPages is derived from TotalCount and PageSize.
func (p PagedResult[T]) TotalPages() int {
	if p.PageSize <= 0 {
		return 0
	}
	return int((p.TotalCount + int64(p.PageSize) - 1) / int64(p.PageSize))
}
