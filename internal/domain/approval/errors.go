package approval

import "github.com/cmlabs-hris/hris-payroll/internal/domain/apperr"

var (
	ErrRequestNotFound     = apperr.New(apperr.KindNotFound, "request not found")
	ErrRequestNotPending   = apperr.New(apperr.KindInvalidState, "request is no longer pending")
	ErrNotAllowedToApprove = apperr.New(apperr.KindForbidden, "not allowed to approve this request")
	ErrEmployeeNotFound    = apperr.New(apperr.KindNotFound, "no employee record for this account")
	ErrInvalidStatusFilter = apperr.New(apperr.KindInvalidInput, "invalid status filter")
	ErrStaleStatus         = apperr.New(apperr.KindInvalidState, "request status changed concurrently")
	ErrAdminOnly           = apperr.New(apperr.KindForbidden, "listing all requests requires an admin role")
)
