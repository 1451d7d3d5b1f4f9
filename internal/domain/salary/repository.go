package salary

import (
	"context"
	"time"
)

type SalaryRepository interface {
	// LockTimeline serializes timeline changes for one employee until the surrounding transaction ends.
	LockTimeline(ctx context.Context, employeeID string) error
	// ExistsStartingOnOrAfter reports whether any record begins on or after date.
	ExistsStartingOnOrAfter(ctx context.Context, employeeID string, date time.Time) (bool, error)
	// CloseOverlapping sets end_date = effectiveDate - 1 on records that are open or end on/after effectiveDate.
	CloseOverlapping(ctx context.Context, employeeID string, effectiveDate time.Time) (int64, error)
	Create(ctx context.Context, record SalaryRecord) (SalaryRecord, error)
	GetCurrent(ctx context.Context, employeeID string, asOf time.Time) (SalaryRecord, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]SalaryRecord, error)
}
