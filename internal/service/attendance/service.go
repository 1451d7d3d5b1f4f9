package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/schedule"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/calendar"
)

type AttendanceService struct {
	attendanceRepo attendance.AttendanceRepository
	employeeRepo   employee.EmployeeRepository
	shifts         schedule.ShiftAssignmentRepository
}

func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	shifts schedule.ShiftAssignmentRepository,
) *AttendanceService {
	return &AttendanceService{
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
		shifts:         shifts,
	}
}

// RecordClockIn classifies the clock-in against the day's shift. A repeated
// clock-in keeps the first time_in but takes the type of the latest call.
func (s *AttendanceService) RecordClockIn(ctx context.Context, req attendance.ClockInRequest) (attendance.AttendanceRecord, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceRecord{}, err
	}
	if _, err := s.employeeRepo.GetByID(ctx, req.EmployeeID); err != nil {
		return attendance.AttendanceRecord{}, err
	}

	date, timeIn := req.ParsedDate(), req.ParsedTime()

	shift, err := s.shifts.GetShiftForDate(ctx, req.EmployeeID, date)
	if err != nil {
		return attendance.AttendanceRecord{}, fmt.Errorf("failed to load shift: %w", err)
	}
	attendanceType := attendance.Classify(timeIn, shift)

	record, err := s.attendanceRepo.UpsertClockIn(ctx, attendance.AttendanceRecord{
		EmployeeID:     req.EmployeeID,
		Date:           date,
		Status:         attendance.StatusPresent,
		TimeIn:         &timeIn,
		AttendanceType: attendanceType,
	})
	if err != nil {
		return attendance.AttendanceRecord{}, fmt.Errorf("failed to record clock-in: %w", err)
	}

	slog.Debug("Clock-in recorded",
		"employee_id", req.EmployeeID,
		"date", date.Format(calendar.DateLayout),
		"time_in", timeIn.String(),
		"type", attendanceType,
	)
	return record, nil
}

func (s *AttendanceService) ListAttendance(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.AttendanceRecord, error) {
	return s.attendanceRepo.List(ctx, filter)
}

func (s *AttendanceService) MarkAbsentees(ctx context.Context, date time.Time) (int64, error) {
	ids, err := s.employeeRepo.ListActiveIDs(ctx)
	if err != nil {
		return 0, err
	}
	return s.attendanceRepo.MarkAbsent(ctx, ids, calendar.Truncate(date))
}
