package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/hris-payroll/internal/domain/payroll"
)

// complainable slip statuses
var complainable = []payroll.SlipStatus{
	payroll.SlipStatusPaid,
	payroll.SlipStatusComplaining,
	payroll.SlipStatusConfirmed,
}

// CreateComplaint opens a pending complaint for the actor's own pay period.
// A second pending complaint for the same period is a conflict.
func (s *Service) CreateComplaint(ctx context.Context, actorID string, req payroll.CreateComplaintRequest) (payroll.SalaryComplaint, error) {
	if err := req.Validate(); err != nil {
		return payroll.SalaryComplaint{}, err
	}
	emp, err := s.actorEmployee(ctx, actorID)
	if err != nil {
		return payroll.SalaryComplaint{}, err
	}

	if req.SalarySlipID != nil {
		slip, err := s.slipRepo.GetByID(ctx, *req.SalarySlipID)
		if err != nil {
			return payroll.SalaryComplaint{}, err
		}
		if slip.EmployeeID != emp.ID {
			return payroll.SalaryComplaint{}, payroll.ErrSlipNotFound
		}
		if slip.PeriodMonth != req.PeriodMonth || slip.PeriodYear != req.PeriodYear {
			return payroll.SalaryComplaint{}, payroll.ErrComplaintSlipMismatch
		}
		if !hasStatus(complainable, slip.Status) {
			return payroll.SalaryComplaint{}, payroll.ErrSlipNotComplainable
		}
	}

	complaint, err := s.complaintRepo.Create(ctx, payroll.SalaryComplaint{
		EmployeeID:   emp.ID,
		PeriodMonth:  req.PeriodMonth,
		PeriodYear:   req.PeriodYear,
		SalarySlipID: req.SalarySlipID,
		Type:         payroll.ComplaintType(req.Type),
		Content:      req.Content,
		Status:       payroll.ComplaintStatusPending,
	})
	if err != nil {
		if errors.Is(err, payroll.ErrComplaintExists) {
			return payroll.SalaryComplaint{}, err
		}
		return payroll.SalaryComplaint{}, fmt.Errorf("failed to create salary complaint: %w", err)
	}

	slog.Info("salary complaint created", "complaint_id", complaint.ID, "employee_id", emp.ID, "type", complaint.Type)
	return complaint, nil
}

// StartReview marks a pending complaint as being worked on.
func (s *Service) StartReview(ctx context.Context, actorID, id string) (payroll.SalaryComplaint, error) {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return payroll.SalaryComplaint{}, err
	}
	change := payroll.ComplaintChange{To: payroll.ComplaintStatusInProgress, ActorID: &actorID, At: s.now()}
	return s.moveComplaint(ctx, id, []payroll.ComplaintStatus{payroll.ComplaintStatusPending}, change, payroll.ErrComplaintNotPending)
}

// ResolveComplaint closes an open complaint. The slip's own status is left as is.
func (s *Service) ResolveComplaint(ctx context.Context, actorID, id string, req payroll.ResolveComplaintRequest) (payroll.SalaryComplaint, error) {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return payroll.SalaryComplaint{}, err
	}
	status := payroll.ComplaintStatus(req.Status)
	if status != payroll.ComplaintStatusResolved && status != payroll.ComplaintStatusRejected {
		return payroll.SalaryComplaint{}, payroll.ErrInvalidResolution
	}
	if err := req.Validate(); err != nil {
		return payroll.SalaryComplaint{}, err
	}

	response := req.Response
	change := payroll.ComplaintChange{To: status, ActorID: &actorID, At: s.now(), Response: &response}
	from := []payroll.ComplaintStatus{payroll.ComplaintStatusPending, payroll.ComplaintStatusInProgress}
	return s.moveComplaint(ctx, id, from, change, payroll.ErrComplaintClosed)
}

func (s *Service) moveComplaint(ctx context.Context, id string, from []payroll.ComplaintStatus, change payroll.ComplaintChange, wrongState error) (payroll.SalaryComplaint, error) {
	complaint, err := s.complaintRepo.GetByID(ctx, id)
	if err != nil {
		return payroll.SalaryComplaint{}, err
	}
	if !hasStatus(from, complaint.Status) {
		return payroll.SalaryComplaint{}, wrongState
	}

	if err := s.complaintRepo.Transition(ctx, id, from, change); err != nil {
		switch {
		case errors.Is(err, payroll.ErrComplaintStale):
			return payroll.SalaryComplaint{}, wrongState
		case errors.Is(err, payroll.ErrComplaintNotFound):
			return payroll.SalaryComplaint{}, err
		}
		return payroll.SalaryComplaint{}, fmt.Errorf("failed to update salary complaint status: %w", err)
	}

	slog.Info("salary complaint status changed", "complaint_id", id, "from", complaint.Status, "to", change.To)
	return s.complaintRepo.GetByID(ctx, id)
}

func (s *Service) GetComplaint(ctx context.Context, actorID, id string) (payroll.SalaryComplaint, error) {
	complaint, err := s.complaintRepo.GetByID(ctx, id)
	if err != nil {
		return payroll.SalaryComplaint{}, err
	}
	ok, err := s.ownsOrAdmin(ctx, actorID, complaint.EmployeeID)
	if err != nil {
		return payroll.SalaryComplaint{}, err
	}
	if !ok {
		return payroll.SalaryComplaint{}, payroll.ErrComplaintNotFound
	}
	return complaint, nil
}

func (s *Service) ListMyComplaints(ctx context.Context, actorID string) ([]payroll.SalaryComplaint, error) {
	emp, err := s.actorEmployee(ctx, actorID)
	if err != nil {
		return nil, err
	}
	return s.complaintRepo.ListByEmployee(ctx, emp.ID)
}

func (s *Service) ListComplaints(ctx context.Context, actorID string, filter payroll.ComplaintFilter) (payroll.ComplaintPage, error) {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return payroll.ComplaintPage{}, err
	}
	filter = filter.Normalize()
	items, total, err := s.complaintRepo.List(ctx, filter)
	if err != nil {
		return payroll.ComplaintPage{}, fmt.Errorf("failed to list salary complaints: %w", err)
	}
	return payroll.ComplaintPage{Items: items, TotalCount: total, Page: filter.Page, PageSize: filter.PageSize}, nil
}
