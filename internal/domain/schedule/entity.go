package schedule

import (
	"fmt"
	"time"
)

// ClockTime is a wall-clock time of day, stored as seconds since midnight.
type ClockTime int

// ParseClock accepts "15:04" or "15:04:05".
func ParseClock(s string) (ClockTime, error) {
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return ClockTime(t.Hour()*3600 + t.Minute()*60 + t.Second()), nil
		}
	}
	return 0, fmt.Errorf("invalid clock time %q", s)
}

// ClockOf extracts the time of day from t in t's own location.
func ClockOf(t time.Time) ClockTime {
	return ClockTime(t.Hour()*3600 + t.Minute()*60 + t.Second())
}

// Duration returns the offset from midnight.
func (c ClockTime) Duration() time.Duration {
	return time.Duration(c) * time.Second
}

func (c ClockTime) String() string {
	h, m, s := int(c)/3600, int(c)%3600/60, int(c)%60
	if s == 0 {
		return fmt.Sprintf("%02d:%02d", h, m)
	}
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

type Shift struct {
	ID        string
	Name      string
	StartTime ClockTime
	EndTime   ClockTime
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsOvernight reports whether the shift wraps past midnight.
func (s Shift) IsOvernight() bool {
	return s.EndTime < s.StartTime
}

// Contains reports whether t falls within the shift window, both ends inclusive.
func (s Shift) Contains(t ClockTime) bool {
	if s.IsOvernight() {
		return t >= s.StartTime || t <= s.EndTime
	}
	return s.StartTime <= t && t <= s.EndTime
}

// ShiftAssignment maps an employee's working date to a shift. One per (employee, date).
type ShiftAssignment struct {
	ID         string
	EmployeeID string
	Date       time.Time
	ShiftID    string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
