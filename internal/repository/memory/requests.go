package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-payroll/internal/domain/approval"
	"github.com/google/uuid"
)

type storedRequest[P any] struct {
	seq     int64
	request approval.Request[P]
}

// RequestRepository stores one kind of approvable request.
type RequestRepository[P any] struct {
	mu        sync.Mutex
	seq       int64
	rows      map[string]*storedRequest[P]
	directory *Directory
}

func NewRequestRepository[P any](directory *Directory) *RequestRepository[P] {
	return &RequestRepository[P]{
		rows:      make(map[string]*storedRequest[P]),
		directory: directory,
	}
}

func (r *RequestRepository[P]) Create(ctx context.Context, request approval.Request[P]) (approval.Request[P], error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	request.ID = uuid.NewString()
	now := time.Now()
	request.CreatedAt, request.UpdatedAt = now, now
	r.rows[request.ID] = &storedRequest[P]{seq: r.seq, request: request}
	return r.detail(request), nil
}

func (r *RequestRepository[P]) GetByID(ctx context.Context, id string) (approval.Request[P], error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	row, ok := r.rows[id]
	if !ok {
		return approval.Request[P]{}, approval.ErrRequestNotFound
	}
	return r.detail(row.request), nil
}

func (r *RequestRepository[P]) ListByEmployee(ctx context.Context, employeeID string) ([]approval.Request[P], error) {
	return r.collect(func(req approval.Request[P]) bool {
		return req.EmployeeID == employeeID
	}), nil
}

func (r *RequestRepository[P]) ListPending(ctx context.Context, departmentID *string) ([]approval.Request[P], error) {
	return r.collect(func(req approval.Request[P]) bool {
		if req.Status != approval.StatusPending {
			return false
		}
		return departmentID == nil || (req.DepartmentID != nil && *req.DepartmentID == *departmentID)
	}), nil
}

func (r *RequestRepository[P]) List(ctx context.Context, filter approval.Filter) ([]approval.Request[P], int64, error) {
	filter = filter.Normalize()
	all := r.collect(func(req approval.Request[P]) bool {
		if filter.Status != nil && req.Status != *filter.Status {
			return false
		}
		if filter.DepartmentID != nil && (req.DepartmentID == nil || *req.DepartmentID != *filter.DepartmentID) {
			return false
		}
		return true
	})
	return page(all, filter.Offset(), filter.PageSize), int64(len(all)), nil
}

func (r *RequestRepository[P]) Transition(ctx context.Context, id string, from approval.Status, change approval.Change) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	row, ok := r.rows[id]
	if !ok {
		return approval.ErrRequestNotFound
	}
	if row.request.Status != from {
		return approval.ErrStaleStatus
	}

	row.request.Status = change.To
	row.request.UpdatedAt = change.At
	switch change.To {
	case approval.StatusApproved:
		row.request.ApprovedBy = change.ActorID
		at := change.At
		row.request.ApprovedAt = &at
	case approval.StatusRejected:
		row.request.ApprovedBy = change.ActorID
		at := change.At
		row.request.ApprovedAt = &at
		row.request.RejectReason = change.RejectReason
	}
	return nil
}

// collect returns the detail projection of matching rows, newest first.
func (r *RequestRepository[P]) collect(match func(approval.Request[P]) bool) []approval.Request[P] {
	r.mu.Lock()
	rows := make([]*storedRequest[P], 0, len(r.rows))
	for _, row := range r.rows {
		rows = append(rows, &storedRequest[P]{seq: row.seq, request: r.detail(row.request)})
	}
	r.mu.Unlock()

	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].request.CreatedAt.Equal(rows[j].request.CreatedAt) {
			return rows[i].request.CreatedAt.After(rows[j].request.CreatedAt)
		}
		return rows[i].seq > rows[j].seq
	})

	out := make([]approval.Request[P], 0, len(rows))
	for _, row := range rows {
		if match(row.request) {
			out = append(out, row.request)
		}
	}
	return out
}

func (r *RequestRepository[P]) detail(req approval.Request[P]) approval.Request[P] {
	p := r.directory.project(req.EmployeeID)
	req.EmployeeName = p.employeeName
	req.DepartmentID = p.departmentID
	req.DepartmentName = p.departmentName
	req.ApproverName = r.directory.nameOfUser(req.ApprovedBy)
	return req
}

func page[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}
