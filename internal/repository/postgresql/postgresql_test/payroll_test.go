package postgresql_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/salary"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/schedule"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/calendar"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/lock"
	"github.com/cmlabs-hris/payroll-engine/internal/repository/postgresql"
	payrollService "github.com/cmlabs-hris/payroll-engine/internal/service/payroll"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayrollRun_EndToEnd(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	empID := createTestEmployee(t, ctx, "EMP-001", "employee")
	createTestEmployee(t, ctx, "ADM-001", "admin")

	salaryRepo := postgresql.NewSalaryRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	payrollRepo := postgresql.NewPayrollRepository(db)

	_, err := salaryRepo.Create(ctx, salary.SalaryRecord{
		EmployeeID:    empID,
		BaseSalary:    decimal.RequireFromString("3000"),
		Allowances:    decimal.RequireFromString("200"),
		Deductions:    decimal.RequireFromString("50"),
		Currency:      "USD",
		EffectiveDate: date(t, "2024-01-01"),
	})
	require.NoError(t, err)

	// 18 business days present in February, the last two as overtime.
	clock := schedule.ClockTime(9 * 3600)
	present := 0
	for d := date(t, "2024-02-01"); present < 18; d = d.AddDate(0, 0, 1) {
		if !calendar.IsBusinessDay(d) {
			continue
		}
		present++
		kind := attendance.AttendanceTypeNormal
		if present > 16 {
			kind = attendance.AttendanceTypeOvertime
		}
		_, err := attendanceRepo.UpsertClockIn(ctx, attendance.AttendanceRecord{
			EmployeeID: empID, Date: d, Status: attendance.StatusPresent, TimeIn: &clock, AttendanceType: kind,
		})
		require.NoError(t, err)
	}

	svc := payrollService.NewPayrollService(
		postgresql.NewTxManager(db),
		payrollRepo,
		postgresql.NewEmployeeRepository(db),
		salaryRepo,
		attendanceRepo,
		postgresql.NewLeaveRequestRepository(db),
		lock.NoopLocker{},
		payrollService.Options{TaxSource: payrollService.TaxSourceTable, RunLockTTL: time.Minute},
	)

	run, err := svc.CreateRun(ctx, payroll.CreateRunRequest{
		RunDate:     "2024-03-01",
		PeriodStart: "2024-02-01",
		PeriodEnd:   "2024-02-28",
		CreatedBy:   "finance-user",
	})
	require.NoError(t, err)
	assert.Equal(t, payroll.RunStatusDraft, run.Status)
	assert.Equal(t, 1, run.TotalEmployees)
	assert.True(t, run.TotalNetPay.Equal(decimal.RequireFromString("2805")), "net %s", run.TotalNetPay)

	detail, err := svc.GetRun(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, detail.Entries, 1)
	entry := detail.Entries[0]
	assert.Equal(t, 20, entry.WorkingDays)
	assert.Equal(t, 18, entry.AttendanceDays)
	assert.Equal(t, 2, entry.OvertimeDays)
	assert.True(t, entry.GrossPay.Equal(decimal.RequireFromString("3300")), "gross %s", entry.GrossPay)
	assert.True(t, entry.TaxAmount.Equal(decimal.RequireFromString("495")), "tax %s", entry.TaxAmount)
	require.NotNil(t, entry.EmployeeCode)
	assert.Equal(t, "EMP-001", *entry.EmployeeCode)

	completed, err := svc.ProcessRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, payroll.RunStatusCompleted, completed.Status)
	assert.NotNil(t, completed.ProcessedAt)

	_, err = svc.CancelRun(ctx, run.ID)
	assert.ErrorIs(t, err, payroll.ErrRunNotProcessable)

	slips, err := svc.GetPayslips(ctx, empID)
	require.NoError(t, err)
	require.Len(t, slips, 1)
	assert.Equal(t, "2024-02-01 to 2024-02-28", slips[0].PeriodLabel())

	var buf bytes.Buffer
	require.NoError(t, svc.ExportRunRegister(ctx, run.ID, &buf))
	assert.NotZero(t, buf.Len())
}

func TestPayrollRepository_TaxTableSeeded(t *testing.T) {
	db := setupTestDB(t)
	brackets, err := postgresql.NewPayrollRepository(db).ListTaxBrackets(context.Background())
	require.NoError(t, err)
	require.Len(t, brackets, 3)
	assert.Nil(t, brackets[2].UpTo)
	assert.True(t, brackets[0].Rate.Equal(decimal.RequireFromString("0.15")))
}

func TestPayrollRepository_RunNotFound(t *testing.T) {
	db := setupTestDB(t)
	_, err := postgresql.NewPayrollRepository(db).GetRunByID(context.Background(), "0190b2f0-0000-7000-8000-000000000000")
	assert.ErrorIs(t, err, payroll.ErrRunNotFound)
}
