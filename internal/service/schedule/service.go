package schedule

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/schedule"
	"github.com/cmlabs-hris/payroll-engine/internal/fixtures"
)

type ScheduleService struct {
	shiftRepo      schedule.ShiftRepository
	assignmentRepo schedule.ShiftAssignmentRepository
	employeeRepo   employee.EmployeeRepository
}

func NewScheduleService(
	shiftRepo schedule.ShiftRepository,
	assignmentRepo schedule.ShiftAssignmentRepository,
	employeeRepo employee.EmployeeRepository,
) *ScheduleService {
	return &ScheduleService{
		shiftRepo:      shiftRepo,
		assignmentRepo: assignmentRepo,
		employeeRepo:   employeeRepo,
	}
}

func (s *ScheduleService) CreateShift(ctx context.Context, req schedule.CreateShiftRequest) (schedule.Shift, error) {
	if err := req.Validate(); err != nil {
		return schedule.Shift{}, err
	}

	// Validate already proved both parse.
	start, _ := schedule.ParseClock(req.StartTime)
	end, _ := schedule.ParseClock(req.EndTime)

	shift, err := s.shiftRepo.Create(ctx, schedule.Shift{Name: req.Name, StartTime: start, EndTime: end})
	if err != nil {
		return schedule.Shift{}, err
	}

	slog.Info("Shift created", "shift_id", shift.ID, "name", shift.Name, "overnight", shift.IsOvernight())
	return shift, nil
}

func (s *ScheduleService) ListShifts(ctx context.Context) ([]schedule.Shift, error) {
	return s.shiftRepo.List(ctx)
}

// AssignShift replaces whatever shift the employee had on that date.
func (s *ScheduleService) AssignShift(ctx context.Context, req schedule.AssignShiftRequest) (schedule.ShiftAssignment, error) {
	if err := req.Validate(); err != nil {
		return schedule.ShiftAssignment{}, err
	}
	if _, err := s.employeeRepo.GetByID(ctx, req.EmployeeID); err != nil {
		return schedule.ShiftAssignment{}, err
	}
	if _, err := s.shiftRepo.GetByID(ctx, req.ShiftID); err != nil {
		return schedule.ShiftAssignment{}, err
	}

	assignment, err := s.assignmentRepo.Upsert(ctx, schedule.ShiftAssignment{
		EmployeeID: req.EmployeeID,
		Date:       req.ParsedDate(),
		ShiftID:    req.ShiftID,
	})
	if err != nil {
		return schedule.ShiftAssignment{}, fmt.Errorf("failed to assign shift: %w", err)
	}
	return assignment, nil
}

func (s *ScheduleService) ShiftForDate(ctx context.Context, employeeID string, date time.Time) (*schedule.Shift, error) {
	return s.assignmentRepo.GetShiftForDate(ctx, employeeID, date)
}

// SeedDefaultShifts creates the built-in shifts, skipping names that already exist.
func (s *ScheduleService) SeedDefaultShifts(ctx context.Context) (int, error) {
	created := 0
	for _, req := range fixtures.DefaultShifts() {
		_, err := s.CreateShift(ctx, req)
		switch {
		case err == nil:
			created++
		case errors.Is(err, schedule.ErrShiftNameExists):
		default:
			return created, fmt.Errorf("failed to seed shift %q: %w", req.Name, err)
		}
	}
	return created, nil
}
