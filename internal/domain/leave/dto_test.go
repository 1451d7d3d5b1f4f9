package leave

import (
	"testing"

	"github.com/cmlabs-hris/payroll-engine/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeaveRequestStatus_IsPending(t *testing.T) {
	cases := map[LeaveRequestStatus]bool{
		"Pending":    true,
		"pending":    true,
		" PENDING  ": true,
		"Approved":   false,
		"Rejected":   false,
		"":           false,
	}
	for status, want := range cases {
		assert.Equal(t, want, status.IsPending(), "status %q", status)
	}
}

func TestLeaveBalance_AvailableDays(t *testing.T) {
	b := LeaveBalance{TotalDays: 30, UsedDays: 4, PendingDays: 6}
	assert.Equal(t, 20, b.AvailableDays())

	resp := NewLeaveBalanceResponse(b)
	assert.Equal(t, 20, resp.Available)
	assert.Equal(t, 30, resp.Total)
}

func TestApplyLeaveRequest_Validate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		req := ApplyLeaveRequest{EmployeeID: "emp-1", Type: "annual", StartDate: "2024-03-04", EndDate: "2024-03-08"}
		require.NoError(t, req.Validate())
		assert.Equal(t, 4, req.ParsedStartDate().Day())
		assert.Equal(t, 8, req.ParsedEndDate().Day())
	})

	t.Run("end before start", func(t *testing.T) {
		req := ApplyLeaveRequest{EmployeeID: "emp-1", Type: "annual", StartDate: "2024-03-08", EndDate: "2024-03-04"}
		var errs validator.ValidationErrors
		require.ErrorAs(t, req.Validate(), &errs)
		assert.Equal(t, "end_date must not be before start_date", errs.ToMap()["end_date"])
	})

	t.Run("spanning years", func(t *testing.T) {
		req := ApplyLeaveRequest{EmployeeID: "emp-1", Type: "annual", StartDate: "2024-12-30", EndDate: "2025-01-02"}
		var errs validator.ValidationErrors
		require.ErrorAs(t, req.Validate(), &errs)
		assert.Contains(t, errs.ToMap(), "end_date")
	})

	t.Run("missing fields", func(t *testing.T) {
		req := ApplyLeaveRequest{}
		var errs validator.ValidationErrors
		require.ErrorAs(t, req.Validate(), &errs)
		m := errs.ToMap()
		assert.Contains(t, m, "employee_id")
		assert.Contains(t, m, "type")
		assert.Contains(t, m, "start_date")
		assert.Contains(t, m, "end_date")
	})
}

func TestDecideLeaveRequest_Validate(t *testing.T) {
	req := DecideLeaveRequest{RequestID: "req-1", Decision: " Approve ", DecidedBy: "u-1"}
	require.NoError(t, req.Validate())
	assert.Equal(t, DecisionApprove, req.Decision)

	bad := DecideLeaveRequest{RequestID: "req-1", Decision: "maybe"}
	var errs validator.ValidationErrors
	require.ErrorAs(t, bad.Validate(), &errs)
	assert.Contains(t, errs.ToMap(), "decision")
	assert.Contains(t, errs.ToMap(), "decided_by")
}
