package http

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/hris-payroll/internal/domain/apperr"
	"github.com/cmlabs-hris/hris-payroll/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-payroll/internal/pkg/payslip"
	"github.com/cmlabs-hris/hris-payroll/internal/pkg/validator"
)

// PayrollService is the salary slip and complaint workflow.
type PayrollService interface {
	Calculate(ctx context.Context, actorID string, req payroll.CalculateRequest) (payroll.SalarySlip, error)
	UpdateAdjustments(ctx context.Context, actorID string, req payroll.UpdateAdjustmentsRequest) (payroll.SalarySlip, error)
	GetSlip(ctx context.Context, actorID, id string) (payroll.SalarySlip, error)
	ListMySlips(ctx context.Context, actorID string) ([]payroll.SalarySlip, error)
	ListSlips(ctx context.Context, actorID string, filter payroll.SlipFilter) (payroll.SlipPage, error)
	Approve(ctx context.Context, actorID, id string) (payroll.SalarySlip, error)
	Pay(ctx context.Context, actorID, id string, note *string) (payroll.SalarySlip, error)
	Cancel(ctx context.Context, actorID, id string) (payroll.SalarySlip, error)
	Confirm(ctx context.Context, actorID, id string, accepted bool, note *string) (payroll.SalarySlip, error)

	CreateComplaint(ctx context.Context, actorID string, req payroll.CreateComplaintRequest) (payroll.SalaryComplaint, error)
	StartReview(ctx context.Context, actorID, id string) (payroll.SalaryComplaint, error)
	ResolveComplaint(ctx context.Context, actorID, id string, req payroll.ResolveComplaintRequest) (payroll.SalaryComplaint, error)
	GetComplaint(ctx context.Context, actorID, id string) (payroll.SalaryComplaint, error)
	ListMyComplaints(ctx context.Context, actorID string) ([]payroll.SalaryComplaint, error)
	ListComplaints(ctx context.Context, actorID string, filter payroll.ComplaintFilter) (payroll.ComplaintPage, error)
}

type SalaryHandler interface {
	Calculate(w http.ResponseWriter, r *http.Request)
	UpdateAdjustments(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	DownloadPDF(w http.ResponseWriter, r *http.Request)
	ListMine(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Pay(w http.ResponseWriter, r *http.Request)
	Confirm(w http.ResponseWriter, r *http.Request)
	Cancel(w http.ResponseWriter, r *http.Request)
}

type salaryHandlerImpl struct {
	payrollService PayrollService
	companyName    string
}

func NewSalaryHandler(payrollService PayrollService, companyName string) SalaryHandler {
	return &salaryHandlerImpl{payrollService: payrollService, companyName: companyName}
}

// Calculate implements SalaryHandler.
func (h *salaryHandlerImpl) Calculate(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req payroll.CalculateRequest
	if !decodeJSON(w, r, "Calculate", &req) {
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	slip, err := h.payrollService.Calculate(r.Context(), actorID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if !req.ShouldPersist() {
		response.SuccessWithMessage(w, "Salary preview calculated", payroll.ToSlipResponse(slip))
		return
	}
	response.SuccessWithMessage(w, "Salary calculated successfully", payroll.ToSlipResponse(slip))
}

// UpdateAdjustments implements SalaryHandler.
func (h *salaryHandlerImpl) UpdateAdjustments(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actorFrom(w, r)
	if !ok {
		return
	}

	id, ok := pathID(w, r, payroll.ErrSlipNotFound)
	if !ok {
		return
	}

	var req payroll.UpdateAdjustmentsRequest
	if !decodeJSON(w, r, "UpdateAdjustments", &req) {
		return
	}
	req.ID = id
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	slip, err := h.payrollService.UpdateAdjustments(r.Context(), actorID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Salary slip updated successfully", payroll.ToSlipResponse(slip))
}

// Get implements SalaryHandler.
func (h *salaryHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actorFrom(w, r)
	if !ok {
		return
	}

	id, ok := pathID(w, r, payroll.ErrSlipNotFound)
	if !ok {
		return
	}

	slip, err := h.payrollService.GetSlip(r.Context(), actorID, id)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, payroll.ToSlipResponse(slip))
}

// DownloadPDF implements SalaryHandler.
func (h *salaryHandlerImpl) DownloadPDF(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actorFrom(w, r)
	if !ok {
		return
	}

	id, ok := pathID(w, r, payroll.ErrSlipNotFound)
	if !ok {
		return
	}

	slip, err := h.payrollService.GetSlip(r.Context(), actorID, id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := payslip.Render(&buf, slip, h.companyName); err != nil {
		slog.Error("DownloadPDF render error", "error", err, "slip_id", slip.ID)
		response.InternalServerError(w, "Failed to render payslip")
		return
	}

	filename := fmt.Sprintf("payslip-%d-%02d-%s.pdf", slip.PeriodYear, slip.PeriodMonth, slip.ID)
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// ListMine implements SalaryHandler.
func (h *salaryHandlerImpl) ListMine(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actorFrom(w, r)
	if !ok {
		return
	}

	slips, err := h.payrollService.ListMySlips(r.Context(), actorID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, toSlipResponses(slips))
}

// List implements SalaryHandler.
func (h *salaryHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var errs validator.ValidationErrors
	filter := payroll.SlipFilter{DepartmentID: uuidParam(r, "department_id", &errs)}
	filter.Page, filter.PageSize = pageParams(r, &errs)
	if month := intParam(r, "month", &errs); month != 0 {
		filter.PeriodMonth = &month
	}
	if year := intParam(r, "year", &errs); year != 0 {
		filter.PeriodYear = &year
	}
	if status := optionalString(r, "status"); status != nil {
		if !validator.IsInSlice(*status, payroll.SlipStatuses) {
			errs.Add("status", "unknown salary slip status")
		}
		s := payroll.SlipStatus(*status)
		filter.Status = &s
	}
	if err := apperr.Invalid(errs); err != nil {
		response.HandleError(w, err)
		return
	}

	page, err := h.payrollService.ListSlips(r.Context(), actorID, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMeta(w, toSlipResponses(page.Items), response.NewMeta(page.Page, page.PageSize, page.TotalCount))
}

// Approve implements SalaryHandler.
func (h *salaryHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actorFrom(w, r)
	if !ok {
		return
	}

	id, ok := pathID(w, r, payroll.ErrSlipNotFound)
	if !ok {
		return
	}

	slip, err := h.payrollService.Approve(r.Context(), actorID, id)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Salary slip approved successfully", payroll.ToSlipResponse(slip))
}

// Pay implements SalaryHandler.
func (h *salaryHandlerImpl) Pay(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actorFrom(w, r)
	if !ok {
		return
	}

	id, ok := pathID(w, r, payroll.ErrSlipNotFound)
	if !ok {
		return
	}

	var req payroll.PayRequest
	if !decodeJSON(w, r, "Pay", &req) {
		return
	}

	slip, err := h.payrollService.Pay(r.Context(), actorID, id, req.Note)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Salary slip marked as paid", payroll.ToSlipResponse(slip))
}

// Confirm implements SalaryHandler.
func (h *salaryHandlerImpl) Confirm(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actorFrom(w, r)
	if !ok {
		return
	}

	id, ok := pathID(w, r, payroll.ErrSlipNotFound)
	if !ok {
		return
	}

	var req payroll.ConfirmRequest
	if !decodeJSON(w, r, "Confirm", &req) {
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	slip, err := h.payrollService.Confirm(r.Context(), actorID, id, *req.Accepted, req.Note)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Salary slip feedback recorded", payroll.ToSlipResponse(slip))
}

// Cancel implements SalaryHandler.
func (h *salaryHandlerImpl) Cancel(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actorFrom(w, r)
	if !ok {
		return
	}

	id, ok := pathID(w, r, payroll.ErrSlipNotFound)
	if !ok {
		return
	}

	slip, err := h.payrollService.Cancel(r.Context(), actorID, id)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Salary slip cancelled", payroll.ToSlipResponse(slip))
}

func toSlipResponses(slips []payroll.SalarySlip) []payroll.SalarySlipResponse {
	out := make([]payroll.SalarySlipResponse, 0, len(slips))
	for _, s := range slips {
		out = append(out, payroll.ToSlipResponse(s))
	}
	return out
}
