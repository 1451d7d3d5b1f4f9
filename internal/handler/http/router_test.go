package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/leave"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/salary"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/schedule"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/user"
	"github.com/cmlabs-hris/payroll-engine/internal/handler/http/response"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/jwt"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const handlerTestSecret = "test-secret-key-for-jwt"

type fakeSalaryService struct {
	lastEmployee string
}

func (f *fakeSalaryService) SetSalary(ctx context.Context, req salary.SetSalaryRequest) (salary.SalaryRecord, error) {
	if err := req.Validate(); err != nil {
		return salary.SalaryRecord{}, err
	}
	return salary.SalaryRecord{ID: "sal-1", EmployeeID: req.EmployeeID, BaseSalary: req.BaseSalary, Currency: "USD", EffectiveDate: req.ParsedEffectiveDate()}, nil
}

func (f *fakeSalaryService) CurrentSalary(ctx context.Context, employeeID string, asOf time.Time) (salary.SalaryRecord, error) {
	f.lastEmployee = employeeID
	if employeeID == "emp-missing" {
		return salary.SalaryRecord{}, salary.ErrSalaryNotFound
	}
	return salary.SalaryRecord{ID: "sal-1", EmployeeID: employeeID, BaseSalary: decimal.RequireFromString("3000"), Currency: "USD", EffectiveDate: asOf}, nil
}

func (f *fakeSalaryService) SalaryHistory(ctx context.Context, employeeID string) ([]salary.SalaryRecord, error) {
	return nil, nil
}

type fakeLeaveService struct {
	lastFilter leave.LeaveRequestFilter
	lastDecide leave.DecideLeaveRequest
}

func (f *fakeLeaveService) ApplyLeave(ctx context.Context, req leave.ApplyLeaveRequest) (leave.ApplyLeaveResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.ApplyLeaveResponse{}, err
	}
	return leave.ApplyLeaveResponse{RequestID: "lr-1", TotalDays: 3, Status: string(leave.LeaveRequestStatusPending)}, nil
}

func (f *fakeLeaveService) DecideLeave(ctx context.Context, req leave.DecideLeaveRequest) (leave.LeaveRequest, error) {
	f.lastDecide = req
	if req.RequestID == "lr-done" {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestAlreadyProcessed
	}
	return leave.LeaveRequest{ID: req.RequestID, Status: leave.LeaveRequestStatusApproved}, nil
}

func (f *fakeLeaveService) LeaveBalance(ctx context.Context, employeeID string, year int) (leave.LeaveBalance, error) {
	return leave.LeaveBalance{EmployeeID: employeeID, Year: year, TotalDays: 30}, nil
}

func (f *fakeLeaveService) GetLeaveRequest(ctx context.Context, id string) (leave.LeaveRequest, error) {
	if id == "lr-missing" {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	return leave.LeaveRequest{ID: id, EmployeeID: "emp-2", Status: leave.LeaveRequestStatusPending}, nil
}

func (f *fakeLeaveService) ListLeaveRequests(ctx context.Context, filter leave.LeaveRequestFilter) ([]leave.LeaveRequest, error) {
	f.lastFilter = filter
	return nil, nil
}

func (f *fakeLeaveService) SeedBalances(ctx context.Context, year int) (int64, error) {
	return 0, nil
}

type fakeAttendanceService struct{}

func (fakeAttendanceService) RecordClockIn(ctx context.Context, req attendance.ClockInRequest) (attendance.AttendanceRecord, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceRecord{}, err
	}
	tm := req.ParsedTime()
	return attendance.AttendanceRecord{ID: "att-1", EmployeeID: req.EmployeeID, Date: req.ParsedDate(), Status: attendance.StatusPresent, TimeIn: &tm, AttendanceType: attendance.AttendanceTypeNormal}, nil
}

func (fakeAttendanceService) ListAttendance(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.AttendanceRecord, error) {
	return nil, nil
}

func (fakeAttendanceService) MarkAbsentees(ctx context.Context, date time.Time) (int64, error) {
	return 0, nil
}

type fakeScheduleService struct{}

func (fakeScheduleService) CreateShift(ctx context.Context, req schedule.CreateShiftRequest) (schedule.Shift, error) {
	return schedule.Shift{}, schedule.ErrShiftNameExists
}

func (fakeScheduleService) ListShifts(ctx context.Context) ([]schedule.Shift, error) {
	return []schedule.Shift{{ID: "sh-1", Name: "Morning", StartTime: 9 * 3600, EndTime: 17 * 3600}}, nil
}

func (fakeScheduleService) AssignShift(ctx context.Context, req schedule.AssignShiftRequest) (schedule.ShiftAssignment, error) {
	return schedule.ShiftAssignment{}, nil
}

func (fakeScheduleService) ShiftForDate(ctx context.Context, employeeID string, date time.Time) (*schedule.Shift, error) {
	return nil, nil
}

type fakePayrollService struct {
	lastCreate payroll.CreateRunRequest
}

func (f *fakePayrollService) CreateRun(ctx context.Context, req payroll.CreateRunRequest) (payroll.PayrollRun, error) {
	f.lastCreate = req
	if err := req.Validate(); err != nil {
		return payroll.PayrollRun{}, err
	}
	return payroll.PayrollRun{
		ID:          "run-1",
		RunDate:     req.ParsedRunDate(),
		PeriodStart: req.ParsedPeriodStart(),
		PeriodEnd:   req.ParsedPeriodEnd(),
		Status:      payroll.RunStatusDraft,
		CreatedBy:   req.CreatedBy,
	}, nil
}

func (f *fakePayrollService) ProcessRun(ctx context.Context, runID string) (payroll.PayrollRun, error) {
	return payroll.PayrollRun{}, payroll.ErrRunNotProcessable
}

func (f *fakePayrollService) CancelRun(ctx context.Context, runID string) (payroll.PayrollRun, error) {
	return payroll.PayrollRun{ID: runID, Status: payroll.RunStatusCancelled}, nil
}

func (f *fakePayrollService) GetRun(ctx context.Context, runID string) (payroll.RunDetail, error) {
	return payroll.RunDetail{}, payroll.ErrRunNotFound
}

func (f *fakePayrollService) ListRuns(ctx context.Context, filter payroll.RunFilter) ([]payroll.PayrollRun, error) {
	return nil, nil
}

func (f *fakePayrollService) GetPayslips(ctx context.Context, employeeID string) ([]payroll.Payslip, error) {
	return nil, nil
}

func (f *fakePayrollService) GetPayslip(ctx context.Context, entryID string) (payroll.Payslip, error) {
	return payroll.Payslip{Entry: payroll.PayrollEntry{ID: entryID, EmployeeID: "emp-1", NetPay: decimal.RequireFromString("2805")}}, nil
}

func (f *fakePayrollService) ExportRunRegister(ctx context.Context, runID string, w io.Writer) error {
	_, err := w.Write([]byte("PK-register"))
	return err
}

func (f *fakePayrollService) RenderPayslipPDF(ctx context.Context, entryID string, w io.Writer) error {
	_, err := w.Write([]byte("%PDF-1.3"))
	return err
}

type routerFixture struct {
	router  http.Handler
	jwt     *jwt.JWTService
	salary  *fakeSalaryService
	leave   *fakeLeaveService
	payroll *fakePayrollService
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()
	f := &routerFixture{
		jwt:     jwt.NewJWTService(handlerTestSecret, time.Hour),
		salary:  &fakeSalaryService{},
		leave:   &fakeLeaveService{},
		payroll: &fakePayrollService{},
	}
	f.router = NewRouter(RouterConfig{Env: "test", Version: "test", AllowedOrigins: []string{"*"}, LogLevel: slog.LevelError}, f.jwt, Handlers{
		Salary:     NewSalaryHandler(f.salary),
		Leave:      NewLeaveHandler(f.leave),
		Attendance: NewAttendanceHandler(fakeAttendanceService{}),
		Schedule:   NewScheduleHandler(fakeScheduleService{}),
		Payroll:    NewPayrollHandler(f.payroll),
	})
	return f
}

func (f *routerFixture) do(t *testing.T, role user.Role, employeeID, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		token, _, err := f.jwt.GenerateAccessToken(user.Subject{UserID: "user-" + string(role), EmployeeID: employeeID, Role: role})
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var resp response.Response
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp
}

func TestRouter_RequiresToken(t *testing.T) {
	f := newRouterFixture(t)

	w := f.do(t, "", "", http.MethodGet, "/api/v1/shifts", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_CreateRun(t *testing.T) {
	f := newRouterFixture(t)
	body := map[string]string{"run_date": "2024-02-01", "period_start": "2024-01-01", "period_end": "2024-01-31"}

	t.Run("employee is forbidden", func(t *testing.T) {
		w := f.do(t, user.RoleEmployee, "emp-1", http.MethodPost, "/api/v1/payroll/runs", body)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("finance creates a draft stamped with the caller", func(t *testing.T) {
		w := f.do(t, user.RoleFinance, "emp-9", http.MethodPost, "/api/v1/payroll/runs", body)
		require.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "user-finance", f.payroll.lastCreate.CreatedBy)

		resp := decodeResponse(t, w)
		data := resp.Data.(map[string]interface{})
		assert.Equal(t, "Draft", data["status"])
		assert.Equal(t, "January 2024", data["period_label"])
	})

	t.Run("invalid dates are a validation error", func(t *testing.T) {
		w := f.do(t, user.RoleFinance, "", http.MethodPost, "/api/v1/payroll/runs", map[string]string{"run_date": "nope"})
		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		resp := decodeResponse(t, w)
		assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
		assert.Contains(t, resp.Error.Details, "period_start")
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/payroll/runs", strings.NewReader("{"))
		token, _, err := f.jwt.GenerateAccessToken(user.Subject{UserID: "u", Role: user.RoleFinance})
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		f.router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestRouter_RunTransitionsMapErrors(t *testing.T) {
	f := newRouterFixture(t)

	w := f.do(t, user.RoleAdmin, "", http.MethodPost, "/api/v1/payroll/runs/run-1/process", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = f.do(t, user.RoleAdmin, "", http.MethodPost, "/api/v1/payroll/runs/run-1/cancel", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = f.do(t, user.RoleHR, "", http.MethodGet, "/api/v1/payroll/runs/run-404", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_SalaryOwnership(t *testing.T) {
	f := newRouterFixture(t)

	w := f.do(t, user.RoleEmployee, "emp-1", http.MethodGet, "/api/v1/salaries/emp-2/current", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = f.do(t, user.RoleEmployee, "emp-1", http.MethodGet, "/api/v1/salaries/emp-1/current?as_of=2024-03-15", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "emp-1", f.salary.lastEmployee)

	w = f.do(t, user.RoleHR, "", http.MethodGet, "/api/v1/salaries/emp-missing/current", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = f.do(t, user.RoleHR, "", http.MethodGet, "/api/v1/salaries/emp-1/current?as_of=15-03-2024", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestRouter_Leave(t *testing.T) {
	f := newRouterFixture(t)

	t.Run("employee applies for self by default", func(t *testing.T) {
		w := f.do(t, user.RoleEmployee, "emp-1", http.MethodPost, "/api/v1/leave/requests", map[string]string{
			"type": "annual", "start_date": "2024-03-04", "end_date": "2024-03-06",
		})
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("employee cannot apply for someone else", func(t *testing.T) {
		w := f.do(t, user.RoleEmployee, "emp-1", http.MethodPost, "/api/v1/leave/requests", map[string]string{
			"employee_id": "emp-2", "type": "annual", "start_date": "2024-03-04", "end_date": "2024-03-06",
		})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("employee listing is scoped to self", func(t *testing.T) {
		w := f.do(t, user.RoleEmployee, "emp-1", http.MethodGet, "/api/v1/leave/requests?status=pending", nil)
		require.Equal(t, http.StatusOK, w.Code)
		require.NotNil(t, f.leave.lastFilter.EmployeeID)
		assert.Equal(t, "emp-1", *f.leave.lastFilter.EmployeeID)
	})

	t.Run("another employee's request looks missing", func(t *testing.T) {
		w := f.do(t, user.RoleEmployee, "emp-1", http.MethodGet, "/api/v1/leave/requests/lr-1", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		hidden := w.Body.String()

		w = f.do(t, user.RoleEmployee, "emp-1", http.MethodGet, "/api/v1/leave/requests/lr-missing", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, w.Body.String(), hidden)

		w = f.do(t, user.RoleEmployee, "emp-2", http.MethodGet, "/api/v1/leave/requests/lr-1", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("manager decides with own user id", func(t *testing.T) {
		w := f.do(t, user.RoleManager, "emp-5", http.MethodPost, "/api/v1/leave/requests/lr-1/decision", map[string]string{"decision": "approve"})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "lr-1", f.leave.lastDecide.RequestID)
		assert.Equal(t, "user-manager", f.leave.lastDecide.DecidedBy)
	})

	t.Run("deciding twice conflicts", func(t *testing.T) {
		w := f.do(t, user.RoleManager, "emp-5", http.MethodPost, "/api/v1/leave/requests/lr-done/decision", map[string]string{"decision": "reject"})
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("employee cannot decide", func(t *testing.T) {
		w := f.do(t, user.RoleEmployee, "emp-1", http.MethodPost, "/api/v1/leave/requests/lr-1/decision", map[string]string{"decision": "approve"})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("balance year must be numeric", func(t *testing.T) {
		w := f.do(t, user.RoleHR, "", http.MethodGet, "/api/v1/leave/balances/emp-1?year=abc", nil)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestRouter_ScheduleAndAttendance(t *testing.T) {
	f := newRouterFixture(t)

	w := f.do(t, user.RoleEmployee, "emp-1", http.MethodGet, "/api/v1/shifts", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	shifts := resp.Data.([]interface{})
	require.Len(t, shifts, 1)
	assert.Equal(t, "09:00", shifts[0].(map[string]interface{})["start_time"])

	w = f.do(t, user.RoleHR, "", http.MethodPost, "/api/v1/shifts", map[string]string{"name": "Morning", "start_time": "09:00", "end_time": "17:00"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = f.do(t, user.RoleEmployee, "emp-1", http.MethodPost, "/api/v1/shifts", map[string]string{"name": "Night"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = f.do(t, user.RoleEmployee, "emp-1", http.MethodPost, "/api/v1/attendance/clock-in", map[string]string{"date": "2024-03-04", "time": "08:55"})
	require.Equal(t, http.StatusCreated, w.Code)
	resp = decodeResponse(t, w)
	assert.Equal(t, "emp-1", resp.Data.(map[string]interface{})["employee_id"])
}

func TestRouter_PayslipDownloads(t *testing.T) {
	f := newRouterFixture(t)

	w := f.do(t, user.RoleEmployee, "emp-1", http.MethodGet, "/api/v1/payroll/payslips/entry-1/pdf", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, response.ContentTypePDF, w.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(w.Body.String(), "%PDF-"))

	w = f.do(t, user.RoleEmployee, "emp-2", http.MethodGet, "/api/v1/payroll/payslips/entry-1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = f.do(t, user.RoleFinance, "", http.MethodGet, "/api/v1/payroll/runs/run-1/register.xlsx", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, response.ContentTypeXLSX, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "payroll-register-run-1.xlsx")
}

func TestRouter_ListQueries(t *testing.T) {
	f := newRouterFixture(t)

	w := f.do(t, user.RoleFinance, "", http.MethodGet, "/api/v1/payroll/runs?status=Draft&limit=10", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = f.do(t, user.RoleFinance, "", http.MethodGet, "/api/v1/payroll/runs?limit=abc", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	// HR has no employee record of its own, so the filter must be explicit.
	w = f.do(t, user.RoleHR, "", http.MethodGet, "/api/v1/attendance", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = f.do(t, user.RoleHR, "", http.MethodGet, "/api/v1/attendance?employee_id=emp-1&from=2024-03-01&to=2024-03-31", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = f.do(t, user.RoleEmployee, "emp-1", http.MethodGet, "/api/v1/attendance?employee_id=emp-2", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
