package fixtures

import "github.com/cmlabs-hris/payroll-engine/internal/domain/schedule"

// DefaultShifts are created on startup when no shift with the same name exists.
// Night Shift crosses midnight, so clock-ins after 22:00 or before 06:00 fall inside it.
func DefaultShifts() []schedule.CreateShiftRequest {
	return []schedule.CreateShiftRequest{
		{Name: "Standard Office Hours", StartTime: "09:00", EndTime: "18:00"},
		{Name: "Afternoon Shift", StartTime: "14:00", EndTime: "22:00"},
		{Name: "Night Shift", StartTime: "22:00", EndTime: "06:00"},
	}
}
