package payroll

import "github.com/cmlabs-hris/hris-payroll/internal/domain/apperr"

var (
	ErrSlipNotFound          = apperr.New(apperr.KindNotFound, "salary slip not found")
	ErrSlipLocked            = apperr.New(apperr.KindInvalidState, "salary slip is settled and can no longer be recalculated or edited")
	ErrSlipNotPending        = apperr.New(apperr.KindInvalidState, "salary slip must be pending to approve")
	ErrSlipNotApproved       = apperr.New(apperr.KindInvalidState, "salary slip must be approved to pay")
	ErrSlipNotPaid           = apperr.New(apperr.KindInvalidState, "salary slip must be paid to confirm or complain")
	ErrSlipNotCancellable    = apperr.New(apperr.KindInvalidState, "salary slip can no longer be cancelled")
	ErrSlipStale             = apperr.New(apperr.KindInvalidState, "salary slip status changed concurrently")
	ErrComplaintNotFound     = apperr.New(apperr.KindNotFound, "salary complaint not found")
	ErrComplaintExists       = apperr.New(apperr.KindConflict, "a pending complaint already exists for this period")
	ErrComplaintClosed       = apperr.New(apperr.KindInvalidState, "salary complaint is already closed")
	ErrComplaintNotPending   = apperr.New(apperr.KindInvalidState, "salary complaint must be pending to start review")
	ErrComplaintStale        = apperr.New(apperr.KindInvalidState, "salary complaint status changed concurrently")
	ErrInvalidResolution     = apperr.New(apperr.KindInvalidInput, "resolution status must be resolved or rejected")
	ErrSlipNotComplainable   = apperr.New(apperr.KindInvalidState, "complaints can only reference a paid salary slip")
	ErrComplaintSlipMismatch = apperr.New(apperr.KindInvalidInput, "salary slip period does not match the complaint period")
	ErrEmployeeNotFound      = apperr.New(apperr.KindNotFound, "employee not found")
	ErrNotAdmin              = apperr.New(apperr.KindForbidden, "payroll administration requires an admin role")
)
