package employee

import "context"

type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)
	// ListPayrollEligible returns active, non-administrative employees ordered by employee code.
	ListPayrollEligible(ctx context.Context) ([]Employee, error)
	// ListActiveIDs returns ids of every active employee, administrators included.
	ListActiveIDs(ctx context.Context) ([]string, error)
}
