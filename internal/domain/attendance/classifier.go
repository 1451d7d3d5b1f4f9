package attendance

import "github.com/cmlabs-hris/payroll-engine/internal/domain/schedule"

// Classify tags a clock-in as Normal when it lands inside the assigned shift
// window, Overtime otherwise. Without an assigned shift every clock-in is Normal.
func Classify(timeIn schedule.ClockTime, shift *schedule.Shift) AttendanceType {
	if shift == nil || shift.Contains(timeIn) {
		return AttendanceTypeNormal
	}
	return AttendanceTypeOvertime
}
