// Package approval runs the shared pending -> approved/rejected/cancelled state
// machine for every approvable request kind.
package approval

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-payroll/internal/domain/approval"
	"github.com/cmlabs-hris/hris-payroll/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll/internal/service/authz"
)

// Authorizer is the subset of the authorization resolver the engine consults.
type Authorizer interface {
	IsAdmin(ctx context.Context, actorID string) (bool, error)
	ScopeOf(ctx context.Context, actorID string) (authz.Scope, error)
	CanApprove(ctx context.Context, actorID string, target authz.Target) (bool, error)
}

type Engine[P approval.Payload[P]] struct {
	repository         approval.Repository[P]
	employeeRepository employee.EmployeeRepository
	authorizer         Authorizer
	now                func() time.Time
}

func NewEngine[P approval.Payload[P]](repository approval.Repository[P], employeeRepository employee.EmployeeRepository, authorizer Authorizer) *Engine[P] {
	return &Engine[P]{
		repository:         repository,
		employeeRepository: employeeRepository,
		authorizer:         authorizer,
		now:                time.Now,
	}
}

func (e *Engine[P]) kind() approval.Kind {
	var p P
	return p.Kind()
}

// Create files a new pending request on behalf of the actor's own employee record.
func (e *Engine[P]) Create(ctx context.Context, actorID string, payload P, reason string) (approval.Request[P], error) {
	emp, err := e.actorEmployee(ctx, actorID)
	if err != nil {
		return approval.Request[P]{}, err
	}

	prepared, err := payload.Prepare()
	if err != nil {
		return approval.Request[P]{}, err
	}

	created, err := e.repository.Create(ctx, approval.Request[P]{
		EmployeeID: emp.ID,
		Payload:    prepared,
		Reason:     reason,
		Status:     approval.StatusPending,
	})
	if err != nil {
		return approval.Request[P]{}, fmt.Errorf("failed to create %s request: %w", e.kind(), err)
	}

	slog.Info("request created", "kind", e.kind(), "request_id", created.ID, "employee_id", emp.ID)
	return created, nil
}

// Get returns the detail projection. Requests neither owned by the actor nor
// within their approval scope are reported as not found.
func (e *Engine[P]) Get(ctx context.Context, actorID, id string) (approval.Request[P], error) {
	request, err := e.repository.GetByID(ctx, id)
	if err != nil {
		return approval.Request[P]{}, err
	}

	emp, err := e.employeeRepository.GetByUserID(ctx, actorID)
	if err == nil && emp.ID == request.EmployeeID {
		return request, nil
	}
	if err != nil && !errors.Is(err, employee.ErrEmployeeNotFound) {
		return approval.Request[P]{}, fmt.Errorf("failed to get employee by user ID: %w", err)
	}

	allowed, err := e.authorizer.CanApprove(ctx, actorID, request)
	if err != nil {
		return approval.Request[P]{}, err
	}
	if !allowed {
		return approval.Request[P]{}, approval.ErrRequestNotFound
	}
	return request, nil
}

// ListMine returns the actor's own requests, newest first.
func (e *Engine[P]) ListMine(ctx context.Context, actorID string) ([]approval.Request[P], error) {
	emp, err := e.actorEmployee(ctx, actorID)
	if err != nil {
		return nil, err
	}
	return e.repository.ListByEmployee(ctx, emp.ID)
}

// ListPendingForApproval returns what the actor may decide on; an actor
// without approval rights gets an empty list.
func (e *Engine[P]) ListPendingForApproval(ctx context.Context, actorID string) ([]approval.Request[P], error) {
	scope, err := e.authorizer.ScopeOf(ctx, actorID)
	if err != nil {
		return nil, err
	}
	switch {
	case scope.All:
		return e.repository.ListPending(ctx, nil)
	case scope.None():
		return []approval.Request[P]{}, nil
	default:
		return e.repository.ListPending(ctx, scope.DepartmentID)
	}
}

// ListAll is the administrative, filterable listing.
func (e *Engine[P]) ListAll(ctx context.Context, actorID string, filter approval.Filter) (approval.PagedResult[approval.Request[P]], error) {
	admin, err := e.authorizer.IsAdmin(ctx, actorID)
	if err != nil {
		return approval.PagedResult[approval.Request[P]]{}, err
	}
	if !admin {
		return approval.PagedResult[approval.Request[P]]{}, approval.ErrAdminOnly
	}
	if filter.Status != nil && !filter.Status.IsValid() {
		return approval.PagedResult[approval.Request[P]]{}, approval.ErrInvalidStatusFilter
	}

	filter = filter.Normalize()
	items, total, err := e.repository.List(ctx, filter)
	if err != nil {
		return approval.PagedResult[approval.Request[P]]{}, fmt.Errorf("failed to list %s requests: %w", e.kind(), err)
	}
	return approval.PagedResult[approval.Request[P]]{
		Items:      items,
		TotalCount: total,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
	}, nil
}

func (e *Engine[P]) Approve(ctx context.Context, id, actorID string) (approval.Request[P], error) {
	return e.decide(ctx, id, actorID, approval.StatusApproved, nil)
}

// Reject stores reason only when it is non-empty.
func (e *Engine[P]) Reject(ctx context.Context, id, actorID string, reason string) (approval.Request[P], error) {
	var rejectReason *string
	if reason != "" {
		rejectReason = &reason
	}
	return e.decide(ctx, id, actorID, approval.StatusRejected, rejectReason)
}

func (e *Engine[P]) decide(ctx context.Context, id, actorID string, to approval.Status, reason *string) (approval.Request[P], error) {
	request, err := e.repository.GetByID(ctx, id)
	if err != nil {
		return approval.Request[P]{}, err
	}
	if request.Status != approval.StatusPending {
		return approval.Request[P]{}, approval.ErrRequestNotPending
	}

	allowed, err := e.authorizer.CanApprove(ctx, actorID, request)
	if err != nil {
		return approval.Request[P]{}, err
	}
	if !allowed {
		return approval.Request[P]{}, approval.ErrNotAllowedToApprove
	}

	change := approval.Change{
		To:           to,
		ActorID:      &actorID,
		At:           e.now(),
		RejectReason: reason,
	}
	if err := e.transition(ctx, id, change); err != nil {
		return approval.Request[P]{}, err
	}

	slog.Info("request decided", "kind", e.kind(), "request_id", id, "status", to, "actor_id", actorID)
	return e.repository.GetByID(ctx, id)
}

// Cancel is open only to the request's author while it is pending.
func (e *Engine[P]) Cancel(ctx context.Context, id, actorID string) (approval.Request[P], error) {
	emp, err := e.actorEmployee(ctx, actorID)
	if err != nil {
		return approval.Request[P]{}, err
	}

	request, err := e.repository.GetByID(ctx, id)
	if err != nil {
		return approval.Request[P]{}, err
	}
	if request.EmployeeID != emp.ID {
		return approval.Request[P]{}, approval.ErrRequestNotFound
	}
	if request.Status != approval.StatusPending {
		return approval.Request[P]{}, approval.ErrRequestNotPending
	}

	change := approval.Change{To: approval.StatusCancelled, ActorID: &actorID, At: e.now()}
	if err := e.transition(ctx, id, change); err != nil {
		return approval.Request[P]{}, err
	}

	slog.Info("request cancelled", "kind", e.kind(), "request_id", id, "employee_id", emp.ID)
	return e.repository.GetByID(ctx, id)
}

func (e *Engine[P]) transition(ctx context.Context, id string, change approval.Change) error {
	if !approval.CanTransition(approval.StatusPending, change.To) {
		return approval.ErrRequestNotPending
	}
	err := e.repository.Transition(ctx, id, approval.StatusPending, change)
	if errors.Is(err, approval.ErrStaleStatus) {
		// Another caller decided first.
		return approval.ErrRequestNotPending
	}
	if err != nil && !errors.Is(err, approval.ErrRequestNotFound) {
		return fmt.Errorf("failed to update %s request status: %w", e.kind(), err)
	}
	return err
}

func (e *Engine[P]) actorEmployee(ctx context.Context, actorID string) (employee.Employee, error) {
	emp, err := e.employeeRepository.GetByUserID(ctx, actorID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.Employee{}, approval.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee by user ID: %w", err)
	}
	return emp, nil
}
