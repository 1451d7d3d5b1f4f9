package attendance

import (
	"context"
	"time"
)

type AttendanceRepository interface {
	// UpsertClockIn inserts a Present row or, when one exists for the day, keeps
	// its time_in and overwrites status and attendance_type.
	UpsertClockIn(ctx context.Context, record AttendanceRecord) (AttendanceRecord, error)

	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (AttendanceRecord, error)
	List(ctx context.Context, filter AttendanceFilter) ([]AttendanceRecord, error)

	// SummarizePeriod counts Present and Overtime rows in [start, end].
	SummarizePeriod(ctx context.Context, employeeID string, start, end time.Time) (PeriodSummary, error)

	// MarkAbsent inserts Absent rows for employees with no record on date.
	MarkAbsent(ctx context.Context, employeeIDs []string, date time.Time) (int64, error)
}
