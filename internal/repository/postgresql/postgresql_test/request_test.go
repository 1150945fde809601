package postgresql_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-payroll/internal/domain/approval"
	"github.com/cmlabs-hris/hris-payroll/internal/domain/identity"
	"github.com/cmlabs-hris/hris-payroll/internal/domain/leave"
	"github.com/cmlabs-hris/hris-payroll/internal/domain/overtime"
	"github.com/cmlabs-hris/hris-payroll/internal/repository/postgresql"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type seededStaff struct {
	departmentID string
	employeeID   string
	userID       string
	managerUser  string
}

func seedStaff(t *testing.T, setup *TestDatabaseSetup) seededStaff {
	t.Helper()
	ctx := context.Background()

	dept, err := setup.SeedDepartment(ctx, "Engineering")
	require.NoError(t, err)
	managerPos, err := setup.SeedPosition(ctx, "Engineering Manager", "manager")
	require.NoError(t, err)

	s := seededStaff{departmentID: dept, userID: uuid.NewString(), managerUser: uuid.NewString()}
	s.employeeID, err = setup.SeedEmployee(ctx, s.userID, "EMP-001", "Budi Santoso", &dept, nil, "15000000")
	require.NoError(t, err)
	_, err = setup.SeedEmployee(ctx, s.managerUser, "EMP-002", "Sari Dewi", &dept, &managerPos, "25000000")
	require.NoError(t, err)
	return s
}

func TestLeaveRequestRepository_CreateAndTransition(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	s := seedStaff(t, setup)
	repo := postgresql.NewLeaveRequestRepository(setup.DB)

	payload, err := leave.Payload{
		Type:      leave.TypeAnnual,
		StartDate: time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC),
	}.Prepare()
	require.NoError(t, err)

	created, err := repo.Create(ctx, leave.Request{
		EmployeeID: s.employeeID,
		Payload:    payload,
		Reason:     "family trip",
		Status:     approval.StatusPending,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, 3, created.Payload.TotalDays)
	assert.Equal(t, leave.TypeAnnual, created.Payload.Type)
	require.NotNil(t, created.EmployeeName)
	assert.Equal(t, "Budi Santoso", *created.EmployeeName)
	require.NotNil(t, created.DepartmentID)
	assert.Equal(t, s.departmentID, *created.DepartmentID)

	pending, err := repo.ListPending(ctx, &s.departmentID)
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	now := time.Now()
	err = repo.Transition(ctx, created.ID, approval.StatusPending, approval.Change{
		To: approval.StatusApproved, ActorID: &s.managerUser, At: now,
	})
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, approval.StatusApproved, got.Status)
	require.NotNil(t, got.ApproverName)
	assert.Equal(t, "Sari Dewi", *got.ApproverName)

	err = repo.Transition(ctx, created.ID, approval.StatusPending, approval.Change{To: approval.StatusRejected, At: now})
	assert.ErrorIs(t, err, approval.ErrStaleStatus)

	err = repo.Transition(ctx, uuid.NewString(), approval.StatusPending, approval.Change{To: approval.StatusRejected, At: now})
	assert.ErrorIs(t, err, approval.ErrRequestNotFound)

	_, err = repo.GetByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, approval.ErrRequestNotFound)
}

func TestLeaveRequestRepository_ConcurrentTransition(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	s := seedStaff(t, setup)
	repo := postgresql.NewLeaveRequestRepository(setup.DB)

	payload, err := leave.Payload{
		Type:      leave.TypeSick,
		StartDate: time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),
	}.Prepare()
	require.NoError(t, err)
	created, err := repo.Create(ctx, leave.Request{EmployeeID: s.employeeID, Payload: payload, Reason: "flu", Status: approval.StatusPending})
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i, to := range []approval.Status{approval.StatusApproved, approval.StatusRejected} {
		wg.Add(1)
		go func(i int, to approval.Status) {
			defer wg.Done()
			results[i] = repo.Transition(ctx, created.ID, approval.StatusPending, approval.Change{To: to, ActorID: &s.managerUser, At: time.Now()})
		}(i, to)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range results {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, approval.ErrStaleStatus)
		}
	}
	assert.Equal(t, 1, succeeded)
}

func TestOvertimeRequestRepository_ClockRoundTrip(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	s := seedStaff(t, setup)
	repo := postgresql.NewOvertimeRequestRepository(setup.DB)

	payload, err := overtime.Payload{
		Date:      time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),
		StartTime: "18:00",
		EndTime:   "21:30",
	}.Prepare()
	require.NoError(t, err)

	created, err := repo.Create(ctx, overtime.Request{EmployeeID: s.employeeID, Payload: payload, Reason: "release", Status: approval.StatusPending})
	require.NoError(t, err)
	assert.Equal(t, "18:00", created.Payload.StartTime)
	assert.Equal(t, "21:30", created.Payload.EndTime)
	assert.True(t, decimal.RequireFromString("3.5").Equal(created.Payload.Hours))
	assert.True(t, overtime.DefaultMultiplier.Equal(created.Payload.Multiplier))

	status := approval.StatusPending
	items, total, err := repo.List(ctx, approval.Filter{Status: &status})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Len(t, items, 1)

	mine, err := repo.ListByEmployee(ctx, s.employeeID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}

func TestIdentityProvider(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	s := seedStaff(t, setup)

	_, err := setup.DB.Exec(ctx, `INSERT INTO user_roles (user_id, role) VALUES ($1, 'manager'), ($1, 'employee')`, s.managerUser)
	require.NoError(t, err)

	provider := postgresql.NewIdentityProvider(setup.DB)

	roles, err := provider.RolesOf(ctx, s.managerUser)
	require.NoError(t, err)
	assert.ElementsMatch(t, []identity.Role{identity.RoleManager, identity.RoleEmployee}, roles)

	position, err := provider.PositionOf(ctx, s.managerUser)
	require.NoError(t, err)
	assert.Equal(t, identity.PositionManager, position)

	position, err = provider.PositionOf(ctx, s.userID)
	require.NoError(t, err)
	assert.Equal(t, identity.PositionStaff, position)

	dept, err := provider.DepartmentOf(ctx, s.userID)
	require.NoError(t, err)
	require.NotNil(t, dept)
	assert.Equal(t, s.departmentID, *dept)

	dept, err = provider.DepartmentOf(ctx, uuid.NewString())
	require.NoError(t, err)
	assert.Nil(t, dept)
}
