package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-payroll/internal/domain/payroll"
	"github.com/google/uuid"
)

type periodKey struct {
	employeeID string
	month      int
	year       int
}

type SlipRepository struct {
	mu        sync.Mutex
	slips     map[string]payroll.SalarySlip
	byPeriod  map[periodKey]string
	directory *Directory
}

func NewSlipRepository(directory *Directory) *SlipRepository {
	return &SlipRepository{
		slips:     make(map[string]payroll.SalarySlip),
		byPeriod:  make(map[periodKey]string),
		directory: directory,
	}
}

func (r *SlipRepository) GetByID(ctx context.Context, id string) (payroll.SalarySlip, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.slips[id]
	if !ok {
		return payroll.SalarySlip{}, payroll.ErrSlipNotFound
	}
	return r.detail(s), nil
}

func (r *SlipRepository) GetByEmployeePeriod(ctx context.Context, employeeID string, month, year int) (payroll.SalarySlip, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byPeriod[periodKey{employeeID, month, year}]
	if !ok {
		return payroll.SalarySlip{}, payroll.ErrSlipNotFound
	}
	return r.detail(r.slips[id]), nil
}

func (r *SlipRepository) ListByEmployee(ctx context.Context, employeeID string) ([]payroll.SalarySlip, error) {
	return r.collect(func(s payroll.SalarySlip) bool { return s.EmployeeID == employeeID }), nil
}

func (r *SlipRepository) List(ctx context.Context, filter payroll.SlipFilter) ([]payroll.SalarySlip, int64, error) {
	filter = filter.Normalize()
	all := r.collect(func(s payroll.SalarySlip) bool {
		switch {
		case filter.PeriodMonth != nil && s.PeriodMonth != *filter.PeriodMonth:
			return false
		case filter.PeriodYear != nil && s.PeriodYear != *filter.PeriodYear:
			return false
		case filter.Status != nil && s.Status != *filter.Status:
			return false
		case filter.DepartmentID != nil && (s.DepartmentID == nil || *s.DepartmentID != *filter.DepartmentID):
			return false
		}
		return true
	})
	return page(all, (filter.Page-1)*filter.PageSize, filter.PageSize), int64(len(all)), nil
}

func (r *SlipRepository) Upsert(ctx context.Context, slip payroll.SalarySlip) (payroll.SalarySlip, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	key := periodKey{slip.EmployeeID, slip.PeriodMonth, slip.PeriodYear}
	id, exists := r.byPeriod[key]
	if !exists {
		slip.ID = uuid.NewString()
		slip.CreatedAt, slip.UpdatedAt = now, now
		r.slips[slip.ID] = slip
		r.byPeriod[key] = slip.ID
		return r.detail(slip), nil
	}

	current := r.slips[id]
	if current.Status.IsSettled() {
		return payroll.SalarySlip{}, payroll.ErrSlipLocked
	}
	current.WorkDays = slip.WorkDays
	current.ActualWorkDays = slip.ActualWorkDays
	current.LateDays = slip.LateDays
	current.EarlyLeaveDays = slip.EarlyLeaveDays
	current.OvertimeHours = slip.OvertimeHours
	current.BaseSalary = slip.BaseSalary
	current.ActualBasePay = slip.ActualBasePay
	current.OvertimePay = slip.OvertimePay
	current.Insurance = slip.Insurance
	current.TaxableIncome = slip.TaxableIncome
	current.Tax = slip.Tax
	current.NetSalary = slip.NetSalary
	current.Bonus = slip.Bonus
	current.Allowance = slip.Allowance
	current.Deductions = slip.Deductions
	current.Note = slip.Note
	current.UpdatedAt = now
	r.slips[id] = current
	return r.detail(current), nil
}

func (r *SlipRepository) UpdateAmounts(ctx context.Context, slip payroll.SalarySlip) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.slips[slip.ID]
	if !ok {
		return payroll.ErrSlipNotFound
	}
	if current.Status.IsSettled() {
		return payroll.ErrSlipLocked
	}
	current.BaseSalary = slip.BaseSalary
	current.ActualBasePay = slip.ActualBasePay
	current.OvertimePay = slip.OvertimePay
	current.Insurance = slip.Insurance
	current.TaxableIncome = slip.TaxableIncome
	current.Tax = slip.Tax
	current.NetSalary = slip.NetSalary
	current.Bonus = slip.Bonus
	current.Allowance = slip.Allowance
	current.Deductions = slip.Deductions
	current.Note = slip.Note
	current.UpdatedAt = time.Now()
	r.slips[slip.ID] = current
	return nil
}

func (r *SlipRepository) Transition(ctx context.Context, id string, from []payroll.SlipStatus, change payroll.SlipChange) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.slips[id]
	if !ok {
		return payroll.ErrSlipNotFound
	}
	if !containsStatus(from, s.Status) {
		return payroll.ErrSlipStale
	}

	s.Status = change.To
	s.UpdatedAt = change.At
	at := change.At
	switch change.To {
	case payroll.SlipStatusApproved:
		s.ApprovedBy, s.ApprovedAt = change.ActorID, &at
	case payroll.SlipStatusPaid:
		s.PaidBy, s.PaidAt = change.ActorID, &at
	}
	if change.Note != nil {
		s.Note = change.Note
	}
	if change.Feedback != nil {
		s.EmployeeFeedback = change.Feedback
	}
	r.slips[id] = s
	return nil
}

func (r *SlipRepository) collect(match func(payroll.SalarySlip) bool) []payroll.SalarySlip {
	r.mu.Lock()
	out := make([]payroll.SalarySlip, 0, len(r.slips))
	for _, s := range r.slips {
		s = r.detail(s)
		if match(s) {
			out = append(out, s)
		}
	}
	r.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].PeriodYear != out[j].PeriodYear {
			return out[i].PeriodYear > out[j].PeriodYear
		}
		if out[i].PeriodMonth != out[j].PeriodMonth {
			return out[i].PeriodMonth > out[j].PeriodMonth
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (r *SlipRepository) detail(s payroll.SalarySlip) payroll.SalarySlip {
	p := r.directory.project(s.EmployeeID)
	s.EmployeeName = p.employeeName
	s.EmployeeCode = p.employeeCode
	s.DepartmentID = p.departmentID
	s.DepartmentName = p.departmentName
	return s
}

func containsStatus[S comparable](set []S, s S) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}

type ComplaintRepository struct {
	mu         sync.Mutex
	seq        int64
	complaints map[string]payroll.SalaryComplaint
	order      map[string]int64
	directory  *Directory
}

func NewComplaintRepository(directory *Directory) *ComplaintRepository {
	return &ComplaintRepository{
		complaints: make(map[string]payroll.SalaryComplaint),
		order:      make(map[string]int64),
		directory:  directory,
	}
}

func (r *ComplaintRepository) Create(ctx context.Context, c payroll.SalaryComplaint) (payroll.SalaryComplaint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.complaints {
		if existing.Status == payroll.ComplaintStatusPending &&
			existing.EmployeeID == c.EmployeeID &&
			existing.PeriodMonth == c.PeriodMonth &&
			existing.PeriodYear == c.PeriodYear {
			return payroll.SalaryComplaint{}, payroll.ErrComplaintExists
		}
	}

	r.seq++
	c.ID = uuid.NewString()
	now := time.Now()
	c.CreatedAt, c.UpdatedAt = now, now
	r.complaints[c.ID] = c
	r.order[c.ID] = r.seq
	return r.detail(c), nil
}

func (r *ComplaintRepository) GetByID(ctx context.Context, id string) (payroll.SalaryComplaint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.complaints[id]
	if !ok {
		return payroll.SalaryComplaint{}, payroll.ErrComplaintNotFound
	}
	return r.detail(c), nil
}

func (r *ComplaintRepository) ListByEmployee(ctx context.Context, employeeID string) ([]payroll.SalaryComplaint, error) {
	return r.collect(func(c payroll.SalaryComplaint) bool { return c.EmployeeID == employeeID }), nil
}

func (r *ComplaintRepository) List(ctx context.Context, filter payroll.ComplaintFilter) ([]payroll.SalaryComplaint, int64, error) {
	filter = filter.Normalize()
	all := r.collect(func(c payroll.SalaryComplaint) bool {
		return filter.Status == nil || c.Status == *filter.Status
	})
	return page(all, (filter.Page-1)*filter.PageSize, filter.PageSize), int64(len(all)), nil
}

func (r *ComplaintRepository) Transition(ctx context.Context, id string, from []payroll.ComplaintStatus, change payroll.ComplaintChange) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.complaints[id]
	if !ok {
		return payroll.ErrComplaintNotFound
	}
	if !containsStatus(from, c.Status) {
		return payroll.ErrComplaintStale
	}
	if change.To == payroll.ComplaintStatusPending {
		return payroll.ErrComplaintStale
	}

	c.Status = change.To
	c.UpdatedAt = change.At
	if change.To == payroll.ComplaintStatusResolved || change.To == payroll.ComplaintStatusRejected {
		at := change.At
		c.ResolvedBy, c.ResolvedAt, c.Response = change.ActorID, &at, change.Response
	}
	r.complaints[id] = c
	return nil
}

func (r *ComplaintRepository) collect(match func(payroll.SalaryComplaint) bool) []payroll.SalaryComplaint {
	r.mu.Lock()
	type row struct {
		seq int64
		c   payroll.SalaryComplaint
	}
	rows := make([]row, 0, len(r.complaints))
	for id, c := range r.complaints {
		c = r.detail(c)
		if match(c) {
			rows = append(rows, row{seq: r.order[id], c: c})
		}
	}
	r.mu.Unlock()

	sort.Slice(rows, func(i, j int) bool { return rows[i].seq > rows[j].seq })
	out := make([]payroll.SalaryComplaint, 0, len(rows))
	for _, rw := range rows {
		out = append(out, rw.c)
	}
	return out
}

func (r *ComplaintRepository) detail(c payroll.SalaryComplaint) payroll.SalaryComplaint {
	c.EmployeeName = r.directory.project(c.EmployeeID).employeeName
	c.ResolverName = r.directory.nameOfUser(c.ResolvedBy)
	return c
}
