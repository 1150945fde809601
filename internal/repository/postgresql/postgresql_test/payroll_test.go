package postgresql_test

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-payroll/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll/internal/repository/postgresql"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSlip(employeeID string, base string) payroll.SalarySlip {
	inputs := payroll.Inputs{
		BaseSalary:     decimal.RequireFromString(base),
		WorkDays:       22,
		ActualWorkDays: 22,
		OvertimeHours:  decimal.Zero,
	}
	slip := payroll.SalarySlip{
		EmployeeID:     employeeID,
		PeriodMonth:    4,
		PeriodYear:     2024,
		WorkDays:       22,
		ActualWorkDays: 22,
		OvertimeHours:  decimal.Zero,
		BaseSalary:     inputs.BaseSalary,
		Status:         payroll.SlipStatusPending,
	}
	slip.Apply(payroll.Compute(inputs))
	return slip
}

func TestSalarySlipRepository_UpsertKeepsStatus(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	s := seedStaff(t, setup)
	repo := postgresql.NewSalarySlipRepository(setup.DB)

	first, err := repo.Upsert(ctx, newSlip(s.employeeID, "15000000"))
	require.NoError(t, err)
	assert.Equal(t, payroll.SlipStatusPending, first.Status)
	assert.True(t, decimal.RequireFromString("15000000").Equal(first.ActualBasePay))
	require.NotNil(t, first.EmployeeCode)
	assert.Equal(t, "EMP-001", *first.EmployeeCode)

	err = repo.Transition(ctx, first.ID, []payroll.SlipStatus{payroll.SlipStatusPending}, payroll.SlipChange{
		To: payroll.SlipStatusApproved, ActorID: &s.managerUser, At: time.Now(),
	})
	require.NoError(t, err)

	again := newSlip(s.employeeID, "16000000")
	again.Status = payroll.SlipStatusPending
	second, err := repo.Upsert(ctx, again)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, payroll.SlipStatusApproved, second.Status)
	assert.True(t, decimal.RequireFromString("16000000").Equal(second.BaseSalary))
	require.NotNil(t, second.ApprovedBy)
}

func TestSalarySlipRepository_SettledSlipIsLocked(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	s := seedStaff(t, setup)
	repo := postgresql.NewSalarySlipRepository(setup.DB)

	slip, err := repo.Upsert(ctx, newSlip(s.employeeID, "15000000"))
	require.NoError(t, err)

	for _, step := range []payroll.SlipStatus{payroll.SlipStatusApproved, payroll.SlipStatusPaid} {
		err := repo.Transition(ctx, slip.ID, []payroll.SlipStatus{payroll.SlipStatusPending, payroll.SlipStatusApproved}, payroll.SlipChange{
			To: step, ActorID: &s.managerUser, At: time.Now(),
		})
		require.NoError(t, err)
	}

	_, err = repo.Upsert(ctx, newSlip(s.employeeID, "20000000"))
	assert.ErrorIs(t, err, payroll.ErrSlipLocked)

	slip.BaseSalary = decimal.RequireFromString("20000000")
	err = repo.UpdateAmounts(ctx, slip)
	assert.ErrorIs(t, err, payroll.ErrSlipLocked)

	err = repo.Transition(ctx, slip.ID, []payroll.SlipStatus{payroll.SlipStatusApproved}, payroll.SlipChange{To: payroll.SlipStatusPaid, At: time.Now()})
	assert.ErrorIs(t, err, payroll.ErrSlipStale)

	err = repo.Transition(ctx, uuid.NewString(), []payroll.SlipStatus{payroll.SlipStatusApproved}, payroll.SlipChange{To: payroll.SlipStatusPaid, At: time.Now()})
	assert.ErrorIs(t, err, payroll.ErrSlipNotFound)

	stored, err := repo.GetByEmployeePeriod(ctx, s.employeeID, 4, 2024)
	require.NoError(t, err)
	assert.Equal(t, payroll.SlipStatusPaid, stored.Status)
	assert.True(t, decimal.RequireFromString("15000000").Equal(stored.BaseSalary))
	assert.NotNil(t, stored.PaidAt)
}

func TestSalarySlipRepository_ListFilters(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	s := seedStaff(t, setup)
	repo := postgresql.NewSalarySlipRepository(setup.DB)

	_, err := repo.Upsert(ctx, newSlip(s.employeeID, "15000000"))
	require.NoError(t, err)

	month, year := 4, 2024
	items, total, err := repo.List(ctx, payroll.SlipFilter{PeriodMonth: &month, PeriodYear: &year, DepartmentID: &s.departmentID})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Len(t, items, 1)

	other := payroll.SlipStatusPaid
	items, total, err = repo.List(ctx, payroll.SlipFilter{Status: &other})
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)
	assert.Empty(t, items)
}

func TestSalaryComplaintRepository_OnePending(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	s := seedStaff(t, setup)
	repo := postgresql.NewSalaryComplaintRepository(setup.DB)

	complaint := payroll.SalaryComplaint{
		EmployeeID:  s.employeeID,
		PeriodMonth: 4,
		PeriodYear:  2024,
		Type:        payroll.ComplaintTypeMissingOT,
		Content:     "overtime on the 12th is missing",
		Status:      payroll.ComplaintStatusPending,
	}

	created, err := repo.Create(ctx, complaint)
	require.NoError(t, err)
	require.NotNil(t, created.EmployeeName)

	_, err = repo.Create(ctx, complaint)
	assert.ErrorIs(t, err, payroll.ErrComplaintExists)

	response := "added to next period"
	err = repo.Transition(ctx, created.ID, []payroll.ComplaintStatus{payroll.ComplaintStatusPending, payroll.ComplaintStatusInProgress}, payroll.ComplaintChange{
		To: payroll.ComplaintStatusResolved, ActorID: &s.managerUser, At: time.Now(), Response: &response,
	})
	require.NoError(t, err)

	resolved, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, payroll.ComplaintStatusResolved, resolved.Status)
	require.NotNil(t, resolved.ResolverName)
	assert.Equal(t, "Sari Dewi", *resolved.ResolverName)

	// no pending complaint left, a new one may be filed
	_, err = repo.Create(ctx, complaint)
	require.NoError(t, err)

	mine, err := repo.ListByEmployee(ctx, s.employeeID)
	require.NoError(t, err)
	assert.Len(t, mine, 2)
}

func TestAttendanceLedger_Range(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	s := seedStaff(t, setup)

	_, err := setup.DB.Exec(ctx, `
		INSERT INTO attendances (employee_id, date, clock_in, clock_out, status, overtime_hours) VALUES
			($1, '2024-03-29', '2024-03-29 08:00+07', '2024-03-29 17:00+07', 'on_time', 0),
			($1, '2024-04-01', '2024-04-01 08:00+07', '2024-04-01 19:00+07', 'late', 2),
			($1, '2024-04-02', NULL, NULL, 'absent', 0),
			($1, '2024-05-01', '2024-05-01 08:00+07', '2024-05-01 17:00+07', 'on_time', 0)
	`, s.employeeID)
	require.NoError(t, err)

	ledger := postgresql.NewAttendanceLedger(setup.DB)
	from, to := attendance.MonthRange(2024, 4)
	records, err := ledger.AttendanceFor(ctx, s.employeeID, from, to)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.True(t, records[0].Worked())
	assert.False(t, records[1].Worked())
	assert.True(t, decimal.NewFromInt(2).Equal(records[0].OvertimeHours))

	_, err = ledger.AttendanceFor(ctx, s.employeeID, to, from)
	assert.ErrorIs(t, err, attendance.ErrInvalidRange)
}
