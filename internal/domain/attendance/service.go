package attendance

import (
	"context"
	"time"
)

type AttendanceService interface {
	// RecordClockIn stores the day's attendance with a type derived from the assigned shift.
	RecordClockIn(ctx context.Context, req ClockInRequest) (AttendanceRecord, error)
	ListAttendance(ctx context.Context, filter AttendanceFilter) ([]AttendanceRecord, error)
	// MarkAbsentees records Absent for active employees that never clocked in on date.
	MarkAbsentees(ctx context.Context, date time.Time) (int64, error)
}
