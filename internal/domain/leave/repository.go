package leave

import (
	"context"
	"time"
)

type LeaveBalanceRepository interface {
	// EnsureBalance creates the (employee, year) row with totalDays when absent and returns it.
	EnsureBalance(ctx context.Context, employeeID string, year int, totalDays int) (LeaveBalance, error)
	Get(ctx context.Context, employeeID string, year int) (LeaveBalance, error)

	// ReservePending adds days to pending only if they fit into the available days.
	// Returns ErrInsufficientBalance otherwise, leaving the row untouched.
	ReservePending(ctx context.Context, employeeID string, year int, days int) error
	// CommitPending moves days from pending to used in one row update.
	CommitPending(ctx context.Context, employeeID string, year int, days int) error
	// ReleasePending returns days from pending to available.
	ReleasePending(ctx context.Context, employeeID string, year int, days int) error

	// SeedYear creates missing rows for the given employees, returning how many were inserted.
	SeedYear(ctx context.Context, employeeIDs []string, year int, totalDays int) (int64, error)
}

type LeaveRequestRepository interface {
	Create(ctx context.Context, request LeaveRequest) (LeaveRequest, error)
	GetByID(ctx context.Context, id string) (LeaveRequest, error)
	List(ctx context.Context, filter LeaveRequestFilter) ([]LeaveRequest, error)

	// TransitionFromPending writes the decision only while the stored status is still pending.
	// Returns ErrLeaveRequestAlreadyProcessed when another decision got there first.
	TransitionFromPending(ctx context.Context, id string, status LeaveRequestStatus, decidedBy string, rejectionReason *string) (LeaveRequest, error)

	// SumApprovedDaysStartingIn totals approved requests whose start date lies in [start, end].
	SumApprovedDaysStartingIn(ctx context.Context, employeeID string, start, end time.Time) (int, error)
}
