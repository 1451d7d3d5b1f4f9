package leave

import (
	"strings"
	"time"
)

// DefaultTotalDays is the yearly allowance given to a lazily created balance.
const DefaultTotalDays = 30

type LeaveRequestStatus string

const (
	LeaveRequestStatusPending  LeaveRequestStatus = "Pending"
	LeaveRequestStatusApproved LeaveRequestStatus = "Approved"
	LeaveRequestStatusRejected LeaveRequestStatus = "Rejected"
)

// IsPending compares case- and whitespace-insensitively; legacy rows store " pending" and "PENDING".
func (s LeaveRequestStatus) IsPending() bool {
	return strings.EqualFold(strings.TrimSpace(string(s)), string(LeaveRequestStatusPending))
}

// LeaveBalance is the (total, used, pending) ledger for one employee and year.
type LeaveBalance struct {
	EmployeeID  string
	Year        int
	TotalDays   int
	UsedDays    int
	PendingDays int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (b LeaveBalance) AvailableDays() int {
	return b.TotalDays - b.UsedDays - b.PendingDays
}

type LeaveRequest struct {
	ID              string
	EmployeeID      string
	Type            string
	StartDate       time.Time
	EndDate         time.Time
	TotalDays       int // business days only
	Reason          *string
	Status          LeaveRequestStatus
	ApprovedBy      *string
	DecidedAt       *time.Time
	RejectionReason *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// BalanceYear is the ledger year a request draws from.
func (r LeaveRequest) BalanceYear() int {
	return r.StartDate.Year()
}

type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)
