package http

import (
	"context"
	"net/http"

	"github.com/cmlabs-hris/hris-payroll/internal/domain/apperr"
	"github.com/cmlabs-hris/hris-payroll/internal/domain/approval"
	"github.com/cmlabs-hris/hris-payroll/internal/domain/leave"
	"github.com/cmlabs-hris/hris-payroll/internal/domain/overtime"
	"github.com/cmlabs-hris/hris-payroll/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-payroll/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

// RequestEngine is the approval workflow for one request kind.
type RequestEngine[P any] interface {
	Create(ctx context.Context, actorID string, payload P, reason string) (approval.Request[P], error)
	Get(ctx context.Context, actorID, id string) (approval.Request[P], error)
	ListMine(ctx context.Context, actorID string) ([]approval.Request[P], error)
	ListPendingForApproval(ctx context.Context, actorID string) ([]approval.Request[P], error)
	ListAll(ctx context.Context, actorID string, filter approval.Filter) (approval.PagedResult[approval.Request[P]], error)
	Approve(ctx context.Context, id, actorID string) (approval.Request[P], error)
	Reject(ctx context.Context, id, actorID string, reason string) (approval.Request[P], error)
	Cancel(ctx context.Context, id, actorID string) (approval.Request[P], error)
}

// RequestHandler serves the approval routes of one request kind.
type RequestHandler[P any] struct {
	engine RequestEngine[P]
	noun   string

	// decodeCreate reads and validates the create body.
	decodeCreate func(w http.ResponseWriter, r *http.Request) (P, string, bool)
	present      func(approval.Request[P]) interface{}
}

func NewLeaveRequestHandler(engine RequestEngine[leave.Payload]) *RequestHandler[leave.Payload] {
	return &RequestHandler[leave.Payload]{
		engine: engine,
		noun:   "Leave request",
		decodeCreate: func(w http.ResponseWriter, r *http.Request) (leave.Payload, string, bool) {
			var req leave.CreateRequest
			if !decodeJSON(w, r, "CreateLeaveRequest", &req) {
				return leave.Payload{}, "", false
			}
			if err := req.Validate(); err != nil {
				response.HandleError(w, err)
				return leave.Payload{}, "", false
			}
			return req.Payload(), req.Reason, true
		},
		present: func(req leave.Request) interface{} { return leave.ToResponse(req) },
	}
}

func NewOvertimeRequestHandler(engine RequestEngine[overtime.Payload]) *RequestHandler[overtime.Payload] {
	return &RequestHandler[overtime.Payload]{
		engine: engine,
		noun:   "Overtime request",
		decodeCreate: func(w http.ResponseWriter, r *http.Request) (overtime.Payload, string, bool) {
			var req overtime.CreateRequest
			if !decodeJSON(w, r, "CreateOvertimeRequest", &req) {
				return overtime.Payload{}, "", false
			}
			if err := req.Validate(); err != nil {
				response.HandleError(w, err)
				return overtime.Payload{}, "", false
			}
			return req.Payload(), req.Reason, true
		},
		present: func(req overtime.Request) interface{} { return overtime.ToResponse(req) },
	}
}

// Routes mounts the handler under a chi router.
func (h *RequestHandler[P]) Routes(r chi.Router) {
	r.Post("/", h.Create)
	r.Get("/", h.ListAll)
	r.Get("/mine", h.ListMine)
	r.Get("/pending", h.ListPending)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Post("/approve", h.Approve)
		r.Post("/reject", h.Reject)
		r.Post("/cancel", h.Cancel)
	})
}

func (h *RequestHandler[P]) Create(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actorFrom(w, r)
	if !ok {
		return
	}
	payload, reason, ok := h.decodeCreate(w, r)
	if !ok {
		return
	}

	created, err := h.engine.Create(r.Context(), actorID, payload, reason)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, h.noun+" submitted successfully", h.present(created))
}

func (h *RequestHandler[P]) Get(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actorFrom(w, r)
	if !ok {
		return
	}

	id, ok := pathID(w, r, approval.ErrRequestNotFound)
	if !ok {
		return
	}

	req, err := h.engine.Get(r.Context(), actorID, id)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, h.present(req))
}

func (h *RequestHandler[P]) ListMine(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actorFrom(w, r)
	if !ok {
		return
	}

	requests, err := h.engine.ListMine(r.Context(), actorID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, h.presentAll(requests))
}

func (h *RequestHandler[P]) ListPending(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actorFrom(w, r)
	if !ok {
		return
	}

	requests, err := h.engine.ListPendingForApproval(r.Context(), actorID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, h.presentAll(requests))
}

func (h *RequestHandler[P]) ListAll(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var errs validator.ValidationErrors
	filter := approval.Filter{DepartmentID: uuidParam(r, "department_id", &errs)}
	filter.Page, filter.PageSize = pageParams(r, &errs)
	if status := optionalString(r, "status"); status != nil {
		s := approval.Status(*status)
		filter.Status = &s
	}
	if err := apperr.Invalid(errs); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.engine.ListAll(r.Context(), actorID, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMeta(w, h.presentAll(result.Items), response.NewMeta(result.Page, result.PageSize, result.TotalCount))
}

func (h *RequestHandler[P]) Approve(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actorFrom(w, r)
	if !ok {
		return
	}

	id, ok := pathID(w, r, approval.ErrRequestNotFound)
	if !ok {
		return
	}

	req, err := h.engine.Approve(r.Context(), id, actorID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, h.noun+" approved successfully", h.present(req))
}

func (h *RequestHandler[P]) Reject(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actorFrom(w, r)
	if !ok {
		return
	}

	id, ok := pathID(w, r, approval.ErrRequestNotFound)
	if !ok {
		return
	}

	var body approval.RejectRequest
	if !decodeJSON(w, r, "RejectRequest", &body) {
		return
	}
	if err := body.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	req, err := h.engine.Reject(r.Context(), id, actorID, body.Reason)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, h.noun+" rejected successfully", h.present(req))
}

func (h *RequestHandler[P]) Cancel(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actorFrom(w, r)
	if !ok {
		return
	}

	id, ok := pathID(w, r, approval.ErrRequestNotFound)
	if !ok {
		return
	}

	req, err := h.engine.Cancel(r.Context(), id, actorID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, h.noun+" cancelled successfully", h.present(req))
}

func (h *RequestHandler[P]) presentAll(requests []approval.Request[P]) []interface{} {
	out := make([]interface{}, 0, len(requests))
	for _, req := range requests {
		out = append(out, h.present(req))
	}
	return out
}
