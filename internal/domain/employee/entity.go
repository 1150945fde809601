package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

// Employee is owned by HR administration and only referenced here.
type Employee struct {
	ID           string
	UserID       *string
	EmployeeCode string
	FullName     string
	DepartmentID *string
	PositionID   *string
	BaseSalary   decimal.Decimal
	JoinDate     time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Joined
	DepartmentName *string
	PositionName   *string
}
