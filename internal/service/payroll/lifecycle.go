package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/hris-payroll/internal/domain/payroll"
)

// ========== READ ==========

// GetSlip is open to the slip's employee and to admins; anyone else gets not found.
func (s *Service) GetSlip(ctx context.Context, actorID, id string) (payroll.SalarySlip, error) {
	slip, err := s.slipRepo.GetByID(ctx, id)
	if err != nil {
		return payroll.SalarySlip{}, err
	}
	ok, err := s.ownsOrAdmin(ctx, actorID, slip.EmployeeID)
	if err != nil {
		return payroll.SalarySlip{}, err
	}
	if !ok {
		return payroll.SalarySlip{}, payroll.ErrSlipNotFound
	}
	return slip, nil
}

func (s *Service) ListMySlips(ctx context.Context, actorID string) ([]payroll.SalarySlip, error) {
	emp, err := s.actorEmployee(ctx, actorID)
	if err != nil {
		return nil, err
	}
	return s.slipRepo.ListByEmployee(ctx, emp.ID)
}

func (s *Service) ListSlips(ctx context.Context, actorID string, filter payroll.SlipFilter) (payroll.SlipPage, error) {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return payroll.SlipPage{}, err
	}
	filter = filter.Normalize()
	items, total, err := s.slipRepo.List(ctx, filter)
	if err != nil {
		return payroll.SlipPage{}, fmt.Errorf("failed to list salary slips: %w", err)
	}
	return payroll.SlipPage{Items: items, TotalCount: total, Page: filter.Page, PageSize: filter.PageSize}, nil
}

// ========== LIFECYCLE ==========

func (s *Service) Approve(ctx context.Context, actorID, id string) (payroll.SalarySlip, error) {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return payroll.SalarySlip{}, err
	}
	change := payroll.SlipChange{To: payroll.SlipStatusApproved, ActorID: &actorID, At: s.now()}
	return s.advance(ctx, id, []payroll.SlipStatus{payroll.SlipStatusPending}, change, payroll.ErrSlipNotPending)
}

// Pay marks an approved slip paid; a non-nil note replaces the stored one.
func (s *Service) Pay(ctx context.Context, actorID, id string, note *string) (payroll.SalarySlip, error) {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return payroll.SalarySlip{}, err
	}
	change := payroll.SlipChange{To: payroll.SlipStatusPaid, ActorID: &actorID, At: s.now(), Note: note}
	return s.advance(ctx, id, []payroll.SlipStatus{payroll.SlipStatusApproved}, change, payroll.ErrSlipNotApproved)
}

// Cancel withdraws a slip that has not been paid yet.
func (s *Service) Cancel(ctx context.Context, actorID, id string) (payroll.SalarySlip, error) {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return payroll.SalarySlip{}, err
	}
	from := []payroll.SlipStatus{payroll.SlipStatusDraft, payroll.SlipStatusPending, payroll.SlipStatusApproved}
	change := payroll.SlipChange{To: payroll.SlipStatusCancelled, ActorID: &actorID, At: s.now()}
	return s.advance(ctx, id, from, change, payroll.ErrSlipNotCancellable)
}

// Confirm settles a paid slip from the employee's side: accepted moves it to
// confirmed, otherwise to complaining. The note is kept as employee feedback.
func (s *Service) Confirm(ctx context.Context, actorID, id string, accepted bool, note *string) (payroll.SalarySlip, error) {
	emp, err := s.actorEmployee(ctx, actorID)
	if err != nil {
		return payroll.SalarySlip{}, err
	}

	slip, err := s.slipRepo.GetByID(ctx, id)
	if err != nil {
		return payroll.SalarySlip{}, err
	}
	if slip.EmployeeID != emp.ID {
		return payroll.SalarySlip{}, payroll.ErrSlipNotFound
	}

	to := payroll.SlipStatusComplaining
	if accepted {
		to = payroll.SlipStatusConfirmed
	}
	from := []payroll.SlipStatus{payroll.SlipStatusPaid, payroll.SlipStatusComplaining}
	change := payroll.SlipChange{To: to, At: s.now(), Feedback: note}
	return s.advance(ctx, id, from, change, payroll.ErrSlipNotPaid)
}

// advance applies a compare-and-set transition; wrongState is returned when the
// slip is not in one of from, whether seen upfront or lost to a concurrent writer.
func (s *Service) advance(ctx context.Context, id string, from []payroll.SlipStatus, change payroll.SlipChange, wrongState error) (payroll.SalarySlip, error) {
	slip, err := s.slipRepo.GetByID(ctx, id)
	if err != nil {
		return payroll.SalarySlip{}, err
	}
	if !hasStatus(from, slip.Status) {
		return payroll.SalarySlip{}, wrongState
	}

	if err := s.slipRepo.Transition(ctx, id, from, change); err != nil {
		switch {
		case errors.Is(err, payroll.ErrSlipStale):
			return payroll.SalarySlip{}, wrongState
		case errors.Is(err, payroll.ErrSlipNotFound):
			return payroll.SalarySlip{}, err
		}
		return payroll.SalarySlip{}, fmt.Errorf("failed to update salary slip status: %w", err)
	}

	slog.Info("salary slip status changed", "slip_id", id, "from", slip.Status, "to", change.To)
	return s.slipRepo.GetByID(ctx, id)
}

func hasStatus[S comparable](set []S, s S) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}
