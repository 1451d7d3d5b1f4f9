package attendance

import (
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/schedule"
)

type Status string

const (
	StatusPresent Status = "Present"
	StatusAbsent  Status = "Absent"
)

type AttendanceType string

const (
	AttendanceTypeNormal   AttendanceType = "Normal"
	AttendanceTypeOvertime AttendanceType = "Overtime"
)

// AttendanceRecord is unique per (EmployeeID, Date).
type AttendanceRecord struct {
	ID             string
	EmployeeID     string
	Date           time.Time
	Status         Status
	TimeIn         *schedule.ClockTime
	AttendanceType AttendanceType
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// PeriodSummary aggregates attendance rows over a pay period.
type PeriodSummary struct {
	EmployeeID   string
	PresentDays  int
	OvertimeDays int
}
