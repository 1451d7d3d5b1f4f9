package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/calendar"
)

type AttendanceJobs struct {
	attendanceService attendance.AttendanceService
	now               func() time.Time
}

func NewAttendanceJobs(attendanceService attendance.AttendanceService) *AttendanceJobs {
	return &AttendanceJobs{attendanceService: attendanceService, now: time.Now}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler, interval time.Duration) {
	scheduler.AddJob("mark_absent_employees", interval, 0, j.MarkAbsentEmployees)
}

// MarkAbsentEmployees writes Absent records for the previous business day
// for active employees who never clocked in.
func (j *AttendanceJobs) MarkAbsentEmployees(ctx context.Context) error {
	date := calendar.PreviousBusinessDay(calendar.Truncate(j.now().UTC()))

	marked, err := j.attendanceService.MarkAbsentees(ctx, date)
	if err != nil {
		return fmt.Errorf("failed to mark absentees for %s: %w", date.Format(calendar.DateLayout), err)
	}
	slog.Info("Cron: marked absent employees", "date", date.Format(calendar.DateLayout), "count", marked)
	return nil
}
