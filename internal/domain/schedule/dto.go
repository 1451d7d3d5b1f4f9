package schedule

import (
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/pkg/validator"
)

type CreateShiftRequest struct {
	Name      string `json:"name"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

func (r *CreateShiftRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs.Add("name", "name is required")
	}
	if len(r.Name) > 100 {
		errs.Add("name", "name must not exceed 100 characters")
	}
	if !validator.IsValidClock(r.StartTime) {
		errs.Add("start_time", "start_time must be in HH:MM format")
	}
	if !validator.IsValidClock(r.EndTime) {
		errs.Add("end_time", "end_time must be in HH:MM format")
	}
	if len(errs) == 0 && r.StartTime == r.EndTime {
		errs.Add("end_time", "end_time must differ from start_time")
	}

	return errs.Err()
}

type AssignShiftRequest struct {
	EmployeeID string `json:"employee_id"`
	Date       string `json:"date"`
	ShiftID    string `json:"shift_id"`

	date time.Time
}

func (r *AssignShiftRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs.Add("employee_id", "employee_id is required")
	}
	if validator.IsEmpty(r.ShiftID) {
		errs.Add("shift_id", "shift_id is required")
	}
	d, ok := validator.IsValidDate(r.Date)
	if !ok {
		errs.Add("date", "date must be in YYYY-MM-DD format")
	}

	if err := errs.Err(); err != nil {
		return err
	}
	r.date = d
	return nil
}

func (r *AssignShiftRequest) ParsedDate() time.Time { return r.date }

type ShiftResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Overnight bool   `json:"overnight"`
}

func NewShiftResponse(s Shift) ShiftResponse {
	return ShiftResponse{
		ID:        s.ID,
		Name:      s.Name,
		StartTime: s.StartTime.String(),
		EndTime:   s.EndTime.String(),
		Overnight: s.IsOvernight(),
	}
}
