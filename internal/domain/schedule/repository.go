package schedule

import (
	"context"
	"time"
)

type ShiftRepository interface {
	Create(ctx context.Context, shift Shift) (Shift, error)
	GetByID(ctx context.Context, id string) (Shift, error)
	List(ctx context.Context) ([]Shift, error)
}

type ShiftAssignmentRepository interface {
	// Upsert replaces the shift for (employee, date).
	Upsert(ctx context.Context, assignment ShiftAssignment) (ShiftAssignment, error)
	// GetShiftForDate returns nil, nil when the employee has no shift that day.
	GetShiftForDate(ctx context.Context, employeeID string, date time.Time) (*Shift, error)
}
