// Package memory keeps every repository in process. It backs STORAGE_DRIVER=memory
// and the service tests; uniqueness and compare-and-set run under one lock.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-payroll/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll/internal/domain/identity"
	"github.com/google/uuid"
)

// Directory holds HR master data: employees, departments, roles, positions and attendance.
type Directory struct {
	mu          sync.RWMutex
	employees   map[string]employee.Employee
	departments map[string]string
	roles       map[string][]identity.Role
	positions   map[string]identity.Position
	attendance  map[string][]attendance.Record
}

func NewDirectory() *Directory {
	return &Directory{
		employees:   make(map[string]employee.Employee),
		departments: make(map[string]string),
		roles:       make(map[string][]identity.Role),
		positions:   make(map[string]identity.Position),
		attendance:  make(map[string][]attendance.Record),
	}
}

func (d *Directory) AddDepartment(id, name string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.departments[id] = name
}

// AddEmployee stores e, assigning an ID when empty, and returns the stored record.
func (d *Directory) AddEmployee(e employee.Employee) employee.Employee {
	d.mu.Lock()
	defer d.mu.Unlock()
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	now := time.Now()
	e.CreatedAt, e.UpdatedAt = now, now
	d.employees[e.ID] = e
	return e
}

// Grant sets the roles and position of a user.
func (d *Directory) Grant(userID string, position identity.Position, roles ...identity.Role) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.roles[userID] = roles
	d.positions[userID] = position
}

func (d *Directory) RecordAttendance(records ...attendance.Record) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, r := range records {
		d.attendance[r.EmployeeID] = append(d.attendance[r.EmployeeID], r)
	}
}

func (d *Directory) withDepartmentName(e employee.Employee) employee.Employee {
	if e.DepartmentID != nil {
		if name, ok := d.departments[*e.DepartmentID]; ok {
			e.DepartmentName = &name
		}
	}
	return e
}

func (d *Directory) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	e, ok := d.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return d.withDepartmentName(e), nil
}

func (d *Directory) GetByUserID(ctx context.Context, userID string) (employee.Employee, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	e, ok := d.byUserID(userID)
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return d.withDepartmentName(e), nil
}

func (d *Directory) byUserID(userID string) (employee.Employee, bool) {
	for _, e := range d.employees {
		if e.UserID != nil && *e.UserID == userID {
			return e, true
		}
	}
	return employee.Employee{}, false
}

func (d *Directory) RolesOf(ctx context.Context, actorID string) ([]identity.Role, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	roles := d.roles[actorID]
	return append([]identity.Role(nil), roles...), nil
}

func (d *Directory) DepartmentOf(ctx context.Context, actorID string) (*string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	e, ok := d.byUserID(actorID)
	if !ok {
		return nil, nil
	}
	return e.DepartmentID, nil
}

func (d *Directory) PositionOf(ctx context.Context, actorID string) (identity.Position, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if p, ok := d.positions[actorID]; ok {
		return p, nil
	}
	return identity.PositionStaff, nil
}

func (d *Directory) AttendanceFor(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.Record, error) {
	if !to.After(from) {
		return nil, attendance.ErrInvalidRange
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	var out []attendance.Record
	for _, r := range d.attendance[employeeID] {
		if !r.Date.Before(from) && r.Date.Before(to) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

// projection is the joined employee data shown on requests and slips.
type projection struct {
	employeeName   *string
	employeeCode   *string
	departmentID   *string
	departmentName *string
}

func (d *Directory) project(employeeID string) projection {
	d.mu.RLock()
	defer d.mu.RUnlock()
	e, ok := d.employees[employeeID]
	if !ok {
		return projection{}
	}
	e = d.withDepartmentName(e)
	name, code := e.FullName, e.EmployeeCode
	return projection{
		employeeName:   &name,
		employeeCode:   &code,
		departmentID:   e.DepartmentID,
		departmentName: e.DepartmentName,
	}
}

// nameOfUser resolves a user id (approver, payer, resolver) to an employee name.
func (d *Directory) nameOfUser(userID *string) *string {
	if userID == nil {
		return nil
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	e, ok := d.byUserID(*userID)
	if !ok {
		return nil
	}
	name := e.FullName
	return &name
}
