package payroll_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-payroll/internal/domain/apperr"
	"github.com/cmlabs-hris/hris-payroll/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll/internal/domain/identity"
	"github.com/cmlabs-hris/hris-payroll/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll/internal/repository/memory"
	"github.com/cmlabs-hris/hris-payroll/internal/service/authz"
	payrollsvc "github.com/cmlabs-hris/hris-payroll/internal/service/payroll"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	adminUser    = "user-admin"
	employeeUser = "user-employee"
	otherUser    = "user-other"

	// April 2024 has 22 weekdays.
	month = 4
	year  = 2024
)

type fixture struct {
	svc       *payrollsvc.Service
	directory *memory.Directory
	employee  employee.Employee
	other     employee.Employee
}

func strPtr(s string) *string { return &s }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal { d := dec(s); return &d }

func boolPtr(b bool) *bool { return &b }

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := memory.NewDirectory()
	dir.AddDepartment("dept-ops", "Operations")

	emp := dir.AddEmployee(employee.Employee{
		UserID:       strPtr(employeeUser),
		EmployeeCode: "EMP-001",
		FullName:     "Siti Rahma",
		DepartmentID: strPtr("dept-ops"),
		BaseSalary:   dec("20000000"),
	})
	other := dir.AddEmployee(employee.Employee{
		UserID:     strPtr(otherUser),
		FullName:   "Budi",
		BaseSalary: dec("8000000"),
	})
	dir.Grant(adminUser, identity.PositionStaff, identity.RoleAdmin)
	dir.Grant(employeeUser, identity.PositionStaff, identity.RoleEmployee)
	dir.Grant(otherUser, identity.PositionManager, identity.RoleManager)

	svc := payrollsvc.NewService(
		memory.NewSlipRepository(dir),
		memory.NewComplaintRepository(dir),
		dir,
		dir,
		authz.NewResolver(dir, dir),
	)
	return &fixture{svc: svc, directory: dir, employee: emp, other: other}
}

// attendFullMonth records a clocked-in, clocked-out day for every weekday.
func (f *fixture) attendFullMonth(employeeID string, overtimeOnFirstDay string) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	for d := first; d.Month() == first.Month(); d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			continue
		}
		in, out := d.Add(8*time.Hour), d.Add(17*time.Hour)
		rec := attendance.Record{EmployeeID: employeeID, Date: d, ClockIn: &in, ClockOut: &out, Status: attendance.StatusOnTime}
		if d.Day() == 1 && overtimeOnFirstDay != "" {
			rec.OvertimeHours = dec(overtimeOnFirstDay)
		}
		f.directory.RecordAttendance(rec)
	}
}

func (f *fixture) calculate(t *testing.T, persist bool) payroll.SalarySlip {
	t.Helper()
	slip, err := f.svc.Calculate(context.Background(), adminUser, payroll.CalculateRequest{
		EmployeeID:  f.employee.ID,
		PeriodMonth: month,
		PeriodYear:  year,
		Persist:     boolPtr(persist),
	})
	require.NoError(t, err)
	return slip
}

func assertDec(t *testing.T, want string, got decimal.Decimal, field string) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "%s: want %s, got %s", field, want, got)
}

func TestCalculate_FullMonth(t *testing.T) {
	f := newFixture(t)
	f.attendFullMonth(f.employee.ID, "")

	slip := f.calculate(t, true)

	assert.NotEmpty(t, slip.ID)
	assert.Equal(t, payroll.SlipStatusPending, slip.Status)
	assert.Equal(t, 22, slip.WorkDays)
	assert.Equal(t, 22, slip.ActualWorkDays)
	assertDec(t, "20000000", slip.ActualBasePay, "actual base pay")
	assertDec(t, "2100000", slip.Insurance, "insurance")
	assertDec(t, "17900000", slip.TaxableIncome, "taxable income")
	assertDec(t, "1040000", slip.Tax, "tax")
	assertDec(t, "16860000", slip.NetSalary, "net salary")
	require.NotNil(t, slip.EmployeeName)
	assert.Equal(t, "Siti Rahma", *slip.EmployeeName)
}

func TestCalculate_PreviewDoesNotPersist(t *testing.T) {
	f := newFixture(t)
	f.attendFullMonth(f.employee.ID, "2")

	preview := f.calculate(t, false)
	assert.Empty(t, preview.ID)
	assert.Equal(t, payroll.SlipStatusDraft, preview.Status)
	// 20M * 1.5 * 2 / (22 * 8)
	assertDec(t, "340909.09", preview.OvertimePay, "overtime pay")

	mine, err := f.svc.ListMySlips(context.Background(), employeeUser)
	require.NoError(t, err)
	assert.Empty(t, mine)
}

func TestCalculate_RecalculationIsIdempotentAndKeepsStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.attendFullMonth(f.employee.ID, "3.5")

	first := f.calculate(t, true)
	approved, err := f.svc.Approve(ctx, adminUser, first.ID)
	require.NoError(t, err)

	second := f.calculate(t, true)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, payroll.SlipStatusApproved, second.Status)
	assert.Equal(t, approved.ApprovedBy, second.ApprovedBy)
	assert.Equal(t, first.WorkDays, second.WorkDays)
	assert.Equal(t, first.ActualWorkDays, second.ActualWorkDays)
	for name, pair := range map[string][2]decimal.Decimal{
		"overtime pay":   {first.OvertimePay, second.OvertimePay},
		"insurance":      {first.Insurance, second.Insurance},
		"taxable income": {first.TaxableIncome, second.TaxableIncome},
		"tax":            {first.Tax, second.Tax},
		"net salary":     {first.NetSalary, second.NetSalary},
	} {
		assert.True(t, pair[0].Equal(pair[1]), name)
	}
}

func TestCalculate_KeepsAdjustmentsWhenOmitted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.attendFullMonth(f.employee.ID, "")

	_, err := f.svc.Calculate(ctx, adminUser, payroll.CalculateRequest{
		EmployeeID: f.employee.ID, PeriodMonth: month, PeriodYear: year,
		Bonus: decPtr("1000000"), Note: strPtr("Q1 bonus"),
	})
	require.NoError(t, err)

	again := f.calculate(t, true)
	assertDec(t, "1000000", again.Bonus, "bonus")
	require.NotNil(t, again.Note)
	assert.Equal(t, "Q1 bonus", *again.Note)
}

func TestCalculate_Guards(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Calculate(ctx, employeeUser, payroll.CalculateRequest{EmployeeID: f.employee.ID, PeriodMonth: month, PeriodYear: year})
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	_, err = f.svc.Calculate(ctx, adminUser, payroll.CalculateRequest{EmployeeID: "6f1d7a5e-9b8c-4d3e-a2f1-0c9b8a7d6e5f", PeriodMonth: month, PeriodYear: year})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = f.svc.Calculate(ctx, adminUser, payroll.CalculateRequest{EmployeeID: f.employee.ID, PeriodMonth: 13, PeriodYear: year})
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	_, err = f.svc.Calculate(ctx, adminUser, payroll.CalculateRequest{EmployeeID: f.employee.ID, PeriodMonth: month, PeriodYear: year, Bonus: decPtr("-1")})
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}

func paidSlip(t *testing.T, f *fixture) payroll.SalarySlip {
	t.Helper()
	ctx := context.Background()
	f.attendFullMonth(f.employee.ID, "")
	slip := f.calculate(t, true)
	_, err := f.svc.Approve(ctx, adminUser, slip.ID)
	require.NoError(t, err)
	paid, err := f.svc.Pay(ctx, adminUser, slip.ID, strPtr("transferred"))
	require.NoError(t, err)
	return paid
}

func TestLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.attendFullMonth(f.employee.ID, "")
	slip := f.calculate(t, true)

	_, err := f.svc.Pay(ctx, adminUser, slip.ID, nil)
	assert.ErrorIs(t, err, payroll.ErrSlipNotApproved)

	_, err = f.svc.Approve(ctx, employeeUser, slip.ID)
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	approved, err := f.svc.Approve(ctx, adminUser, slip.ID)
	require.NoError(t, err)
	assert.Equal(t, payroll.SlipStatusApproved, approved.Status)
	require.NotNil(t, approved.ApprovedAt)

	_, err = f.svc.Approve(ctx, adminUser, slip.ID)
	assert.ErrorIs(t, err, apperr.ErrInvalidState)

	_, err = f.svc.Confirm(ctx, employeeUser, slip.ID, true, nil)
	assert.ErrorIs(t, err, payroll.ErrSlipNotPaid)

	paid, err := f.svc.Pay(ctx, adminUser, slip.ID, strPtr("paid via bank transfer"))
	require.NoError(t, err)
	assert.Equal(t, payroll.SlipStatusPaid, paid.Status)
	require.NotNil(t, paid.PaidBy)
	assert.Equal(t, adminUser, *paid.PaidBy)
	assert.Equal(t, "paid via bank transfer", *paid.Note)

	_, err = f.svc.Cancel(ctx, adminUser, slip.ID)
	assert.ErrorIs(t, err, payroll.ErrSlipNotCancellable)

	_, err = f.svc.Confirm(ctx, otherUser, slip.ID, true, nil)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	complaining, err := f.svc.Confirm(ctx, employeeUser, slip.ID, false, strPtr("overtime missing"))
	require.NoError(t, err)
	assert.Equal(t, payroll.SlipStatusComplaining, complaining.Status)
	assert.Equal(t, "overtime missing", *complaining.EmployeeFeedback)

	confirmed, err := f.svc.Confirm(ctx, employeeUser, slip.ID, true, strPtr("all good now"))
	require.NoError(t, err)
	assert.Equal(t, payroll.SlipStatusConfirmed, confirmed.Status)

	_, err = f.svc.Confirm(ctx, employeeUser, slip.ID, false, nil)
	assert.ErrorIs(t, err, apperr.ErrInvalidState)
}

func TestSettledSlipIsFrozen(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	paid := paidSlip(t, f)

	_, err := f.svc.UpdateAdjustments(ctx, adminUser, payroll.UpdateAdjustmentsRequest{ID: paid.ID, Bonus: decPtr("1")})
	assert.ErrorIs(t, err, payroll.ErrSlipLocked)

	_, err = f.svc.Calculate(ctx, adminUser, payroll.CalculateRequest{EmployeeID: f.employee.ID, PeriodMonth: month, PeriodYear: year})
	assert.ErrorIs(t, err, apperr.ErrInvalidState)

	preview := f.calculate(t, false)
	assert.Equal(t, paid.ID, preview.ID)
	assert.Equal(t, payroll.SlipStatusPaid, preview.Status)

	stored, err := f.svc.GetSlip(ctx, employeeUser, paid.ID)
	require.NoError(t, err)
	assert.True(t, paid.NetSalary.Equal(stored.NetSalary))
}

func TestCancel(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.attendFullMonth(f.employee.ID, "")
	slip := f.calculate(t, true)

	cancelled, err := f.svc.Cancel(ctx, adminUser, slip.ID)
	require.NoError(t, err)
	assert.Equal(t, payroll.SlipStatusCancelled, cancelled.Status)

	_, err = f.svc.Approve(ctx, adminUser, slip.ID)
	assert.ErrorIs(t, err, apperr.ErrInvalidState)
}

func TestUpdateAdjustments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.attendFullMonth(f.employee.ID, "")
	slip := f.calculate(t, true)

	updated, err := f.svc.UpdateAdjustments(ctx, adminUser, payroll.UpdateAdjustmentsRequest{
		ID:          slip.ID,
		BaseSalary:  decPtr("10000000"),
		OvertimePay: decPtr("500000"),
		Bonus:       decPtr("1000000"),
		Note:        strPtr("corrected base"),
	})
	require.NoError(t, err)

	assertDec(t, "10000000", updated.ActualBasePay, "actual base pay")
	assertDec(t, "500000", updated.OvertimePay, "overtime pay")
	assertDec(t, "1050000", updated.Insurance, "insurance follows the new base salary")
	// 10M + 0.5M + 1M - 1.05M
	assertDec(t, "10450000", updated.TaxableIncome, "taxable income")
	assertDec(t, "295000", updated.Tax, "tax")
	assertDec(t, "10155000", updated.NetSalary, "net salary")
	assert.Equal(t, payroll.SlipStatusPending, updated.Status)
	assert.Equal(t, "corrected base", *updated.Note)

	_, err = f.svc.UpdateAdjustments(ctx, otherUser, payroll.UpdateAdjustmentsRequest{ID: slip.ID})
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	_, err = f.svc.UpdateAdjustments(ctx, adminUser, payroll.UpdateAdjustmentsRequest{ID: "missing"})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestReadAccess(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.attendFullMonth(f.employee.ID, "")
	slip := f.calculate(t, true)

	_, err := f.svc.GetSlip(ctx, employeeUser, slip.ID)
	assert.NoError(t, err)
	_, err = f.svc.GetSlip(ctx, adminUser, slip.ID)
	assert.NoError(t, err)
	_, err = f.svc.GetSlip(ctx, otherUser, slip.ID)
	assert.ErrorIs(t, err, payroll.ErrSlipNotFound)

	_, err = f.svc.ListSlips(ctx, employeeUser, payroll.SlipFilter{})
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	m, y := month, year
	page, err := f.svc.ListSlips(ctx, adminUser, payroll.SlipFilter{PeriodMonth: &m, PeriodYear: &y})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.TotalCount)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, payroll.DefaultPageSize, page.PageSize)

	dept := "dept-other"
	page, err = f.svc.ListSlips(ctx, adminUser, payroll.SlipFilter{DepartmentID: &dept})
	require.NoError(t, err)
	assert.Zero(t, page.TotalCount)
}

func TestComplaints(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	paid := paidSlip(t, f)

	req := payroll.CreateComplaintRequest{
		PeriodMonth:  month,
		PeriodYear:   year,
		Type:         string(payroll.ComplaintTypeMissingOT),
		Content:      "Saturday overtime is not on my slip",
		SalarySlipID: &paid.ID,
	}
	complaint, err := f.svc.CreateComplaint(ctx, employeeUser, req)
	require.NoError(t, err)
	assert.Equal(t, payroll.ComplaintStatusPending, complaint.Status)

	_, err = f.svc.CreateComplaint(ctx, employeeUser, req)
	assert.ErrorIs(t, err, payroll.ErrComplaintExists)
	assert.ErrorIs(t, err, apperr.ErrConflict)

	// someone else's slip is invisible
	_, err = f.svc.CreateComplaint(ctx, otherUser, req)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = f.svc.ResolveComplaint(ctx, employeeUser, complaint.ID, payroll.ResolveComplaintRequest{Status: "resolved", Response: "ok"})
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	_, err = f.svc.ResolveComplaint(ctx, adminUser, complaint.ID, payroll.ResolveComplaintRequest{Status: "pending", Response: "ok"})
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	reviewing, err := f.svc.StartReview(ctx, adminUser, complaint.ID)
	require.NoError(t, err)
	assert.Equal(t, payroll.ComplaintStatusInProgress, reviewing.Status)

	_, err = f.svc.StartReview(ctx, adminUser, complaint.ID)
	assert.ErrorIs(t, err, apperr.ErrInvalidState)

	// a new pending complaint is allowed once the first is no longer pending
	second, err := f.svc.CreateComplaint(ctx, employeeUser, payroll.CreateComplaintRequest{
		PeriodMonth: month, PeriodYear: year, Type: "other", Content: "also the bonus",
	})
	require.NoError(t, err)

	resolved, err := f.svc.ResolveComplaint(ctx, adminUser, complaint.ID, payroll.ResolveComplaintRequest{Status: "resolved", Response: "paid in next period"})
	require.NoError(t, err)
	assert.Equal(t, payroll.ComplaintStatusResolved, resolved.Status)
	require.NotNil(t, resolved.ResolvedBy)
	assert.Equal(t, adminUser, *resolved.ResolvedBy)
	require.NotNil(t, resolved.ResolvedAt)

	_, err = f.svc.ResolveComplaint(ctx, adminUser, complaint.ID, payroll.ResolveComplaintRequest{Status: "rejected", Response: "again"})
	assert.ErrorIs(t, err, payroll.ErrComplaintClosed)

	// resolution leaves the slip alone
	slip, err := f.svc.GetSlip(ctx, employeeUser, paid.ID)
	require.NoError(t, err)
	assert.Equal(t, payroll.SlipStatusPaid, slip.Status)

	mine, err := f.svc.ListMyComplaints(ctx, employeeUser)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, second.ID, mine[0].ID)

	pending := payroll.ComplaintStatusPending
	page, err := f.svc.ListComplaints(ctx, adminUser, payroll.ComplaintFilter{Status: &pending})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.TotalCount)

	_, err = f.svc.GetComplaint(ctx, otherUser, complaint.ID)
	assert.ErrorIs(t, err, payroll.ErrComplaintNotFound)
}

func TestCreateComplaint_RequiresPaidSlip(t *testing.T) {
	f := newFixture(t)
	f.attendFullMonth(f.employee.ID, "")
	slip := f.calculate(t, true)

	_, err := f.svc.CreateComplaint(context.Background(), employeeUser, payroll.CreateComplaintRequest{
		PeriodMonth: month, PeriodYear: year, Type: "not_paid", Content: "where is it", SalarySlipID: &slip.ID,
	})
	assert.ErrorIs(t, err, payroll.ErrSlipNotComplainable)
}

func TestCreateComplaint_WithoutSlipForUnpaidPeriod(t *testing.T) {
	f := newFixture(t)

	complaint, err := f.svc.CreateComplaint(context.Background(), employeeUser, payroll.CreateComplaintRequest{
		PeriodMonth: month, PeriodYear: year, Type: "not_paid", Content: "no slip was issued",
	})
	require.NoError(t, err)
	assert.Nil(t, complaint.SalarySlipID)
	assert.Equal(t, payroll.ComplaintStatusPending, complaint.Status)
}

func TestCreateComplaint_ConcurrentAtMostOnePending(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	const workers = 12
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		created   int
		conflicts int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.CreateComplaint(ctx, employeeUser, payroll.CreateComplaintRequest{
				PeriodMonth: month, PeriodYear: year, Type: "not_paid", Content: "not received",
			})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				created++
			} else if assert.ErrorIs(t, err, apperr.ErrConflict) {
				conflicts++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, created)
	assert.Equal(t, workers-1, conflicts)
}
