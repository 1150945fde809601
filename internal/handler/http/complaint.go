package http

import (
	"net/http"

	"github.com/cmlabs-hris/hris-payroll/internal/domain/apperr"
	"github.com/cmlabs-hris/hris-payroll/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-payroll/internal/pkg/validator"
)

type ComplaintHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	ListMine(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	StartReview(w http.ResponseWriter, r *http.Request)
	Resolve(w http.ResponseWriter, r *http.Request)
}

type complaintHandlerImpl struct {
	payrollService PayrollService
}

func NewComplaintHandler(payrollService PayrollService) ComplaintHandler {
	return &complaintHandlerImpl{payrollService: payrollService}
}

// Create implements ComplaintHandler.
func (h *complaintHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req payroll.CreateComplaintRequest
	if !decodeJSON(w, r, "CreateComplaint", &req) {
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	complaint, err := h.payrollService.CreateComplaint(r.Context(), actorID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Salary complaint submitted", payroll.ToComplaintResponse(complaint))
}

// Get implements ComplaintHandler.
func (h *complaintHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actorFrom(w, r)
	if !ok {
		return
	}

	id, ok := pathID(w, r, payroll.ErrComplaintNotFound)
	if !ok {
		return
	}

	complaint, err := h.payrollService.GetComplaint(r.Context(), actorID, id)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, payroll.ToComplaintResponse(complaint))
}

// ListMine implements ComplaintHandler.
func (h *complaintHandlerImpl) ListMine(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actorFrom(w, r)
	if !ok {
		return
	}

	complaints, err := h.payrollService.ListMyComplaints(r.Context(), actorID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, toComplaintResponses(complaints))
}

// List implements ComplaintHandler.
func (h *complaintHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var errs validator.ValidationErrors
	var filter payroll.ComplaintFilter
	filter.Page, filter.PageSize = pageParams(r, &errs)
	if status := optionalString(r, "status"); status != nil {
		if !validator.IsInSlice(*status, payroll.ComplaintStatuses) {
			errs.Add("status", "unknown complaint status")
		}
		s := payroll.ComplaintStatus(*status)
		filter.Status = &s
	}
	if err := apperr.Invalid(errs); err != nil {
		response.HandleError(w, err)
		return
	}

	page, err := h.payrollService.ListComplaints(r.Context(), actorID, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMeta(w, toComplaintResponses(page.Items), response.NewMeta(page.Page, page.PageSize, page.TotalCount))
}

// StartReview implements ComplaintHandler.
func (h *complaintHandlerImpl) StartReview(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actorFrom(w, r)
	if !ok {
		return
	}

	id, ok := pathID(w, r, payroll.ErrComplaintNotFound)
	if !ok {
		return
	}

	complaint, err := h.payrollService.StartReview(r.Context(), actorID, id)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Salary complaint in review", payroll.ToComplaintResponse(complaint))
}

// Resolve implements ComplaintHandler.
func (h *complaintHandlerImpl) Resolve(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actorFrom(w, r)
	if !ok {
		return
	}

	id, ok := pathID(w, r, payroll.ErrComplaintNotFound)
	if !ok {
		return
	}

	var req payroll.ResolveComplaintRequest
	if !decodeJSON(w, r, "ResolveComplaint", &req) {
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	complaint, err := h.payrollService.ResolveComplaint(r.Context(), actorID, id, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Salary complaint closed", payroll.ToComplaintResponse(complaint))
}

func toComplaintResponses(complaints []payroll.SalaryComplaint) []payroll.SalaryComplaintResponse {
	out := make([]payroll.SalaryComplaintResponse, 0, len(complaints))
	for _, c := range complaints {
		out = append(out, payroll.ToComplaintResponse(c))
	}
	return out
}
