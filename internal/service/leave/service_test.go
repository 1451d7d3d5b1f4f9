package leave

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/leave"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/validator"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type passthroughTx struct{}

func (passthroughTx) WithinTransaction(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}

type fakeEmployees map[string]employee.Employee

func (f fakeEmployees) GetByID(_ context.Context, id string) (employee.Employee, error) {
	e, ok := f[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (f fakeEmployees) ListPayrollEligible(context.Context) ([]employee.Employee, error) {
	return nil, nil
}

func (f fakeEmployees) ListActiveIDs(context.Context) ([]string, error) {
	var ids []string
	for id, e := range f {
		if e.EmploymentStatus == employee.EmploymentStatusActive {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

type balanceKey struct {
	employeeID string
	year       int
}

// fakeStore mirrors the guarded single-row updates of the SQL repositories.
type fakeStore struct {
	mu       sync.Mutex
	balances map[balanceKey]leave.LeaveBalance
	requests map[string]leave.LeaveRequest
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		balances: map[balanceKey]leave.LeaveBalance{},
		requests: map[string]leave.LeaveRequest{},
	}
}

type fakeBalances struct{ *fakeStore }

func (f fakeBalances) EnsureBalance(_ context.Context, employeeID string, year int, totalDays int) (leave.LeaveBalance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := balanceKey{employeeID, year}
	b, ok := f.balances[k]
	if !ok {
		b = leave.LeaveBalance{EmployeeID: employeeID, Year: year, TotalDays: totalDays}
		f.balances[k] = b
	}
	return b, nil
}

func (f fakeBalances) Get(_ context.Context, employeeID string, year int) (leave.LeaveBalance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.balances[balanceKey{employeeID, year}]
	if !ok {
		return leave.LeaveBalance{}, leave.ErrBalanceNotFound
	}
	return b, nil
}

func (f fakeBalances) ReservePending(_ context.Context, employeeID string, year int, days int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := balanceKey{employeeID, year}
	b, ok := f.balances[k]
	if !ok || b.AvailableDays() < days {
		return leave.ErrInsufficientBalance
	}
	b.PendingDays += days
	f.balances[k] = b
	return nil
}

func (f fakeBalances) CommitPending(_ context.Context, employeeID string, year int, days int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := balanceKey{employeeID, year}
	b, ok := f.balances[k]
	if !ok || b.PendingDays < days {
		return leave.ErrBalanceInconsistent
	}
	b.PendingDays -= days
	b.UsedDays += days
	f.balances[k] = b
	return nil
}

func (f fakeBalances) ReleasePending(_ context.Context, employeeID string, year int, days int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := balanceKey{employeeID, year}
	b, ok := f.balances[k]
	if !ok || b.PendingDays < days {
		return leave.ErrBalanceInconsistent
	}
	b.PendingDays -= days
	f.balances[k] = b
	return nil
}

func (f fakeBalances) SeedYear(_ context.Context, employeeIDs []string, year int, totalDays int) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, id := range employeeIDs {
		k := balanceKey{id, year}
		if _, ok := f.balances[k]; !ok {
			f.balances[k] = leave.LeaveBalance{EmployeeID: id, Year: year, TotalDays: totalDays}
			n++
		}
	}
	return n, nil
}

type fakeRequests struct{ *fakeStore }

func (f fakeRequests) Create(_ context.Context, r leave.LeaveRequest) (leave.LeaveRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r.ID = uuid.NewString()
	f.requests[r.ID] = r
	return r, nil
}

func (f fakeRequests) GetByID(_ context.Context, id string) (leave.LeaveRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.requests[id]
	if !ok {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	return r, nil
}

func (f fakeRequests) List(_ context.Context, filter leave.LeaveRequestFilter) ([]leave.LeaveRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []leave.LeaveRequest
	for _, r := range f.requests {
		if filter.EmployeeID != nil && r.EmployeeID != *filter.EmployeeID {
			continue
		}
		if filter.Status != nil && !strings.EqualFold(strings.TrimSpace(string(r.Status)), string(*filter.Status)) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (f fakeRequests) TransitionFromPending(_ context.Context, id string, status leave.LeaveRequestStatus, decidedBy string, reason *string) (leave.LeaveRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.requests[id]
	if !ok {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	if !r.Status.IsPending() {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestAlreadyProcessed
	}
	now := time.Now()
	r.Status, r.ApprovedBy, r.DecidedAt, r.RejectionReason = status, &decidedBy, &now, reason
	f.requests[id] = r
	return r, nil
}

func (f fakeRequests) SumApprovedDaysStartingIn(context.Context, string, time.Time, time.Time) (int, error) {
	return 0, nil
}

func newTestService() (*LeaveService, *fakeStore) {
	store := newFakeStore()
	employees := fakeEmployees{
		"emp-1": {ID: "emp-1", EmploymentStatus: employee.EmploymentStatusActive},
		"emp-2": {ID: "emp-2", EmploymentStatus: employee.EmploymentStatusActive},
		"emp-x": {ID: "emp-x", EmploymentStatus: employee.EmploymentStatusInactive},
	}
	return NewLeaveService(passthroughTx{}, fakeBalances{store}, fakeRequests{store}, employees, 0), store
}

func apply(t *testing.T, svc *LeaveService, start, end string) leave.ApplyLeaveResponse {
	t.Helper()
	resp, err := svc.ApplyLeave(context.Background(), leave.ApplyLeaveRequest{
		EmployeeID: "emp-1", Type: "annual", StartDate: start, EndDate: end,
	})
	require.NoError(t, err)
	return resp
}

func TestApplyLeave(t *testing.T) {
	ctx := context.Background()

	t.Run("reserves business days and creates default balance", func(t *testing.T) {
		svc, _ := newTestService()
		resp := apply(t, svc, "2024-01-01", "2024-01-07")
		assert.Equal(t, 5, resp.TotalDays)
		assert.Equal(t, "Pending", resp.Status)

		b, err := svc.LeaveBalance(ctx, "emp-1", 2024)
		require.NoError(t, err)
		assert.Equal(t, leave.DefaultTotalDays, b.TotalDays)
		assert.Equal(t, 5, b.PendingDays)
		assert.Equal(t, 0, b.UsedDays)
		assert.Equal(t, 25, b.AvailableDays())
	})

	t.Run("insufficient balance leaves ledger untouched", func(t *testing.T) {
		svc, store := newTestService()
		apply(t, svc, "2024-01-01", "2024-01-31") // 23 business days

		_, err := svc.ApplyLeave(ctx, leave.ApplyLeaveRequest{
			EmployeeID: "emp-1", Type: "annual", StartDate: "2024-02-01", EndDate: "2024-02-29",
		})
		assert.ErrorIs(t, err, leave.ErrInsufficientBalance)

		b, err := svc.LeaveBalance(ctx, "emp-1", 2024)
		require.NoError(t, err)
		assert.Equal(t, 23, b.PendingDays)
		assert.Len(t, store.requests, 1)
	})

	t.Run("weekend only range is rejected", func(t *testing.T) {
		svc, _ := newTestService()
		_, err := svc.ApplyLeave(ctx, leave.ApplyLeaveRequest{
			EmployeeID: "emp-1", Type: "annual", StartDate: "2024-01-06", EndDate: "2024-01-07",
		})
		var verrs validator.ValidationErrors
		assert.ErrorAs(t, err, &verrs)
	})

	t.Run("unknown employee", func(t *testing.T) {
		svc, _ := newTestService()
		_, err := svc.ApplyLeave(ctx, leave.ApplyLeaveRequest{
			EmployeeID: "ghost", Type: "annual", StartDate: "2024-01-01", EndDate: "2024-01-02",
		})
		assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
	})
}

func TestDecideLeave(t *testing.T) {
	ctx := context.Background()

	t.Run("approve moves pending to used", func(t *testing.T) {
		svc, _ := newTestService()
		resp := apply(t, svc, "2024-01-01", "2024-01-05")

		decided, err := svc.DecideLeave(ctx, leave.DecideLeaveRequest{RequestID: resp.RequestID, Decision: "Approve", DecidedBy: "hr-1"})
		require.NoError(t, err)
		assert.Equal(t, leave.LeaveRequestStatusApproved, decided.Status)

		b, _ := svc.LeaveBalance(ctx, "emp-1", 2024)
		assert.Equal(t, 0, b.PendingDays)
		assert.Equal(t, 5, b.UsedDays)
	})

	t.Run("reject releases pending and keeps reason", func(t *testing.T) {
		svc, _ := newTestService()
		resp := apply(t, svc, "2024-01-01", "2024-01-05")
		reason := "team offsite"

		decided, err := svc.DecideLeave(ctx, leave.DecideLeaveRequest{RequestID: resp.RequestID, Decision: "reject", Reason: &reason, DecidedBy: "hr-1"})
		require.NoError(t, err)
		assert.Equal(t, leave.LeaveRequestStatusRejected, decided.Status)
		require.NotNil(t, decided.RejectionReason)
		assert.Equal(t, reason, *decided.RejectionReason)

		b, _ := svc.LeaveBalance(ctx, "emp-1", 2024)
		assert.Equal(t, 0, b.PendingDays)
		assert.Equal(t, 0, b.UsedDays)
		assert.Equal(t, 30, b.AvailableDays())
	})

	t.Run("second decision is invalid state", func(t *testing.T) {
		svc, _ := newTestService()
		resp := apply(t, svc, "2024-01-01", "2024-01-05")

		_, err := svc.DecideLeave(ctx, leave.DecideLeaveRequest{RequestID: resp.RequestID, Decision: "approve", DecidedBy: "hr-1"})
		require.NoError(t, err)
		_, err = svc.DecideLeave(ctx, leave.DecideLeaveRequest{RequestID: resp.RequestID, Decision: "reject", DecidedBy: "hr-2"})
		assert.ErrorIs(t, err, leave.ErrLeaveRequestAlreadyProcessed)
	})

	t.Run("legacy pending spelling is decidable", func(t *testing.T) {
		svc, store := newTestService()
		resp := apply(t, svc, "2024-01-01", "2024-01-05")
		r := store.requests[resp.RequestID]
		r.Status = " PENDING "
		store.requests[resp.RequestID] = r

		_, err := svc.DecideLeave(ctx, leave.DecideLeaveRequest{RequestID: resp.RequestID, Decision: "approve", DecidedBy: "hr-1"})
		assert.NoError(t, err)
	})

	t.Run("concurrent approvals settle once", func(t *testing.T) {
		svc, _ := newTestService()
		resp := apply(t, svc, "2024-01-01", "2024-01-05")

		const workers = 8
		var wg sync.WaitGroup
		errs := make([]error, workers)
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = svc.DecideLeave(ctx, leave.DecideLeaveRequest{RequestID: resp.RequestID, Decision: "approve", DecidedBy: "hr-1"})
			}(i)
		}
		wg.Wait()

		succeeded := 0
		for _, err := range errs {
			if err == nil {
				succeeded++
			} else {
				assert.ErrorIs(t, err, leave.ErrLeaveRequestAlreadyProcessed)
			}
		}
		assert.Equal(t, 1, succeeded)

		b, _ := svc.LeaveBalance(ctx, "emp-1", 2024)
		assert.Equal(t, 5, b.UsedDays)
		assert.Equal(t, 0, b.PendingDays)
	})

	t.Run("unknown request", func(t *testing.T) {
		svc, _ := newTestService()
		_, err := svc.DecideLeave(ctx, leave.DecideLeaveRequest{RequestID: "nope", Decision: "approve", DecidedBy: "hr-1"})
		assert.ErrorIs(t, err, leave.ErrLeaveRequestNotFound)
	})
}

func TestLeaveBalanceDefaultsWithoutRow(t *testing.T) {
	svc, store := newTestService()
	b, err := svc.LeaveBalance(context.Background(), "emp-2", 2025)
	require.NoError(t, err)
	assert.Equal(t, 30, b.AvailableDays())
	assert.Empty(t, store.balances)
}

func TestSeedBalances(t *testing.T) {
	svc, store := newTestService()
	apply(t, svc, "2024-01-01", "2024-01-02")

	n, err := svc.SeedBalances(context.Background(), 2024)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n) // emp-1 already had a row; emp-x is inactive
	assert.Len(t, store.balances, 2)
}
