package leave

import "context"

type LeaveService interface {
	ApplyLeave(ctx context.Context, req ApplyLeaveRequest) (ApplyLeaveResponse, error)
	DecideLeave(ctx context.Context, req DecideLeaveRequest) (LeaveRequest, error)
	LeaveBalance(ctx context.Context, employeeID string, year int) (LeaveBalance, error)

	GetLeaveRequest(ctx context.Context, id string) (LeaveRequest, error)
	ListLeaveRequests(ctx context.Context, filter LeaveRequestFilter) ([]LeaveRequest, error)

	// SeedBalances creates default balances for every active employee for year.
	SeedBalances(ctx context.Context, year int) (int64, error)
}
