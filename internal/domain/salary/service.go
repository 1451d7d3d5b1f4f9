package salary

import (
	"context"
	"time"
)

type SalaryService interface {
	// SetSalary closes the overlapping record and inserts the new one atomically.
	SetSalary(ctx context.Context, req SetSalaryRequest) (SalaryRecord, error)
	// CurrentSalary returns ErrSalaryNotFound when no record covers asOf.
	CurrentSalary(ctx context.Context, employeeID string, asOf time.Time) (SalaryRecord, error)
	SalaryHistory(ctx context.Context, employeeID string) ([]SalaryRecord, error)
}
