package employee

import (
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/user"
)

type Employee struct {
	ID               string
	EmployeeCode     string
	FullName         string
	Email            *string
	Role             user.Role
	EmploymentStatus EmploymentStatus
	HireDate         time.Time
	ResignationDate  *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type EmploymentStatus string

const (
	EmploymentStatusActive   EmploymentStatus = "active"
	EmploymentStatusInactive EmploymentStatus = "inactive"
)

// IsPayrollEligible reports whether the employee takes part in payroll runs.
// Administrative accounts are excluded.
func (e Employee) IsPayrollEligible() bool {
	return e.EmploymentStatus == EmploymentStatusActive && e.Role != user.RoleAdmin
}
