package leave

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/pkg/validator"
)

type ApplyLeaveRequest struct {
	EmployeeID string  `json:"employee_id"`
	Type       string  `json:"type"`
	StartDate  string  `json:"start_date"`
	EndDate    string  `json:"end_date"`
	Reason     *string `json:"reason,omitempty"`

	startDate time.Time
	endDate   time.Time
}

func (r *ApplyLeaveRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs.Add("employee_id", "employee_id is required")
	}
	if validator.IsEmpty(r.Type) {
		errs.Add("type", "type is required")
	}
	if len(r.Type) > 50 {
		errs.Add("type", "type must not exceed 50 characters")
	}

	start, startOK := validator.IsValidDate(r.StartDate)
	if !startOK {
		errs.Add("start_date", "start_date must be in YYYY-MM-DD format")
	}
	end, endOK := validator.IsValidDate(r.EndDate)
	if !endOK {
		errs.Add("end_date", "end_date must be in YYYY-MM-DD format")
	}
	if startOK && endOK {
		if end.Before(start) {
			errs.Add("end_date", "end_date must not be before start_date")
		} else if start.Year() != end.Year() {
			errs.Add("end_date", "leave must not span two calendar years")
		}
	}

	if err := errs.Err(); err != nil {
		return err
	}
	r.startDate, r.endDate = start, end
	return nil
}

func (r *ApplyLeaveRequest) ParsedStartDate() time.Time { return r.startDate }
func (r *ApplyLeaveRequest) ParsedEndDate() time.Time   { return r.endDate }

type ApplyLeaveResponse struct {
	RequestID string `json:"request_id"`
	TotalDays int    `json:"total_days"`
	Status    string `json:"status"`
}

type DecideLeaveRequest struct {
	RequestID string   `json:"-"`
	Decision  Decision `json:"decision"`
	Reason    *string  `json:"reason,omitempty"`
	DecidedBy string   `json:"-"`
}

func (r *DecideLeaveRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.RequestID) {
		errs.Add("request_id", "request_id is required")
	}
	r.Decision = Decision(strings.ToLower(strings.TrimSpace(string(r.Decision))))
	if r.Decision != DecisionApprove && r.Decision != DecisionReject {
		errs.Add("decision", "decision must be either approve or reject")
	}
	if validator.IsEmpty(r.DecidedBy) {
		errs.Add("decided_by", "decided_by is required")
	}

	return errs.Err()
}

type LeaveBalanceResponse struct {
	EmployeeID string `json:"employee_id"`
	Year       int    `json:"year"`
	Total      int    `json:"total"`
	Used       int    `json:"used"`
	Pending    int    `json:"pending"`
	Available  int    `json:"available"`
}

func NewLeaveBalanceResponse(b LeaveBalance) LeaveBalanceResponse {
	return LeaveBalanceResponse{
		EmployeeID: b.EmployeeID,
		Year:       b.Year,
		Total:      b.TotalDays,
		Used:       b.UsedDays,
		Pending:    b.PendingDays,
		Available:  b.AvailableDays(),
	}
}

type LeaveRequestFilter struct {
	EmployeeID *string
	Status     *LeaveRequestStatus
}

type LeaveRequestResponse struct {
	ID              string     `json:"id"`
	EmployeeID      string     `json:"employee_id"`
	Type            string     `json:"type"`
	StartDate       string     `json:"start_date"`
	EndDate         string     `json:"end_date"`
	TotalDays       int        `json:"total_days"`
	Reason          *string    `json:"reason,omitempty"`
	Status          string     `json:"status"`
	ApprovedBy      *string    `json:"approved_by,omitempty"`
	DecidedAt       *time.Time `json:"decided_at,omitempty"`
	RejectionReason *string    `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

func NewLeaveRequestResponse(r LeaveRequest) LeaveRequestResponse {
	return LeaveRequestResponse{
		ID:              r.ID,
		EmployeeID:      r.EmployeeID,
		Type:            r.Type,
		StartDate:       r.StartDate.Format("2006-01-02"),
		EndDate:         r.EndDate.Format("2006-01-02"),
		TotalDays:       r.TotalDays,
		Reason:          r.Reason,
		Status:          string(r.Status),
		ApprovedBy:      r.ApprovedBy,
		DecidedAt:       r.DecidedAt,
		RejectionReason: r.RejectionReason,
		CreatedAt:       r.CreatedAt,
	}
}
