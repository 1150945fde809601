package payroll

import "context"

// SlipRepository persists salary slips, unique per (employee, month, year).
type SlipRepository interface {
	GetByID(ctx context.Context, id string) (SalarySlip, error)
	GetByEmployeePeriod(ctx context.Context, employeeID string, month, year int) (SalarySlip, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]SalarySlip, error)
	List(ctx context.Context, filter SlipFilter) ([]SalarySlip, int64, error)

	// Upsert inserts the slip or overwrites the computed fields of the existing
	// one for the same period, atomically. Status, approver and payer of an
	// existing slip are kept. Returns ErrSlipLocked when the stored slip is settled.
	Upsert(ctx context.Context, slip SalarySlip) (SalarySlip, error)

	// UpdateAmounts overwrites base salary, computed and admin-supplied amounts
	// and the note, unless the slip became settled meanwhile (ErrSlipLocked).
	UpdateAmounts(ctx context.Context, slip SalarySlip) error

	// Transition is a compare-and-set: ErrSlipStale when the stored status is not in from.
	Transition(ctx context.Context, id string, from []SlipStatus, change SlipChange) error
}

// ComplaintRepository persists complaints. At most one pending complaint may
// exist per (employee, month, year); Create returns ErrComplaintExists otherwise.
type ComplaintRepository interface {
	Create(ctx context.Context, complaint SalaryComplaint) (SalaryComplaint, error)
	GetByID(ctx context.Context, id string) (SalaryComplaint, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]SalaryComplaint, error)
	List(ctx context.Context, filter ComplaintFilter) ([]SalaryComplaint, int64, error)
	Transition(ctx context.Context, id string, from []ComplaintStatus, change ComplaintChange) error
}
