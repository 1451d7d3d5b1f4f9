package attendance

import (
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/schedule"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/validator"
)

type ClockInRequest struct {
	EmployeeID string `json:"employee_id"`
	Date       string `json:"date"`
	Time       string `json:"time"`

	date   time.Time
	timeIn schedule.ClockTime
}

func (r *ClockInRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs.Add("employee_id", "employee_id is required")
	}
	d, ok := validator.IsValidDate(r.Date)
	if !ok {
		errs.Add("date", "date must be in YYYY-MM-DD format")
	}
	c, err := schedule.ParseClock(r.Time)
	if err != nil {
		errs.Add("time", "time must be in HH:MM or HH:MM:SS format")
	}

	if err := errs.Err(); err != nil {
		return err
	}
	r.date, r.timeIn = d, c
	return nil
}

func (r *ClockInRequest) ParsedDate() time.Time          { return r.date }
func (r *ClockInRequest) ParsedTime() schedule.ClockTime { return r.timeIn }

type AttendanceFilter struct {
	EmployeeID string
	From       time.Time
	To         time.Time
}

type AttendanceResponse struct {
	ID             string  `json:"id"`
	EmployeeID     string  `json:"employee_id"`
	Date           string  `json:"date"`
	Status         string  `json:"status"`
	TimeIn         *string `json:"time_in"`
	AttendanceType string  `json:"attendance_type"`
}

func NewAttendanceResponse(r AttendanceRecord) AttendanceResponse {
	resp := AttendanceResponse{
		ID:             r.ID,
		EmployeeID:     r.EmployeeID,
		Date:           r.Date.Format("2006-01-02"),
		Status:         string(r.Status),
		AttendanceType: string(r.AttendanceType),
	}
	if r.TimeIn != nil {
		s := r.TimeIn.String()
		resp.TimeIn = &s
	}
	return resp
}
