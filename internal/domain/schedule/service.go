package schedule

import (
	"context"
	"time"
)

type ScheduleService interface {
	CreateShift(ctx context.Context, req CreateShiftRequest) (Shift, error)
	ListShifts(ctx context.Context) ([]Shift, error)
	AssignShift(ctx context.Context, req AssignShiftRequest) (ShiftAssignment, error)
	ShiftForDate(ctx context.Context, employeeID string, date time.Time) (*Shift, error)
}
