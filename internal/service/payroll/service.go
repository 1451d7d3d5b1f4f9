package payroll

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/leave"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/salary"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/calendar"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/database"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/export"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/lock"
	"github.com/shopspring/decimal"
)

const (
	TaxSourceBrackets = "brackets"
	TaxSourceTable    = "table"
)

// Options tunes run computation. Zero values fall back to the built-in defaults.
type Options struct {
	TaxSource          string
	OvertimeMultiplier decimal.Decimal
	DefaultCurrency    string
	RunLockTTL         time.Duration
}

type PayrollServiceImpl struct {
	tx             database.Transactor
	payrollRepo    payroll.PayrollRepository
	employeeRepo   employee.EmployeeRepository
	salaryRepo     salary.SalaryRepository
	attendanceRepo attendance.AttendanceRepository
	leaveRepo      leave.LeaveRequestRepository
	locker         lock.Locker
	opts           Options
}

func NewPayrollService(
	tx database.Transactor,
	payrollRepo payroll.PayrollRepository,
	employeeRepo employee.EmployeeRepository,
	salaryRepo salary.SalaryRepository,
	attendanceRepo attendance.AttendanceRepository,
	leaveRepo leave.LeaveRequestRepository,
	locker lock.Locker,
	opts Options,
) *PayrollServiceImpl {
	if locker == nil {
		locker = lock.NoopLocker{}
	}
	if opts.OvertimeMultiplier.IsZero() {
		opts.OvertimeMultiplier = payroll.DefaultOvertimeMultiplier
	}
	if opts.DefaultCurrency == "" {
		opts.DefaultCurrency = "USD"
	}
	if opts.RunLockTTL <= 0 {
		opts.RunLockTTL = 5 * time.Minute
	}
	return &PayrollServiceImpl{
		tx:             tx,
		payrollRepo:    payrollRepo,
		employeeRepo:   employeeRepo,
		salaryRepo:     salaryRepo,
		attendanceRepo: attendanceRepo,
		leaveRepo:      leaveRepo,
		locker:         locker,
		opts:           opts,
	}
}

// ========== RUNS ==========

// CreateRun computes one entry per eligible employee and stores the run with its
// totals in a single transaction. A failure leaves nothing behind.
func (s *PayrollServiceImpl) CreateRun(ctx context.Context, req payroll.CreateRunRequest) (payroll.PayrollRun, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayrollRun{}, err
	}
	periodStart, periodEnd := req.ParsedPeriodStart(), req.ParsedPeriodEnd()

	lockKey := fmt.Sprintf("payroll-run:%s:%s", periodStart.Format(calendar.DateLayout), periodEnd.Format(calendar.DateLayout))
	release, err := s.locker.Acquire(ctx, lockKey, s.opts.RunLockTTL)
	if err != nil {
		if errors.Is(err, lock.ErrNotObtained) {
			return payroll.PayrollRun{}, payroll.ErrRunInProgress
		}
		return payroll.PayrollRun{}, fmt.Errorf("failed to acquire run lock: %w", err)
	}
	defer release(context.WithoutCancel(ctx))

	employees, err := s.employeeRepo.ListPayrollEligible(ctx)
	if err != nil {
		return payroll.PayrollRun{}, fmt.Errorf("failed to load employees: %w", err)
	}
	if len(employees) == 0 {
		return payroll.PayrollRun{}, payroll.ErrNoEligibleEmployees
	}

	workingDays := calendar.BusinessDaysBetween(periodStart, periodEnd)
	if workingDays == 0 {
		return payroll.PayrollRun{}, payroll.ErrNoWorkingDays
	}

	tax, err := s.taxCalculator(ctx)
	if err != nil {
		return payroll.PayrollRun{}, err
	}

	var run payroll.PayrollRun
	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		var err error
		run, err = s.payrollRepo.CreateRun(txCtx, payroll.PayrollRun{
			RunDate:       req.ParsedRunDate(),
			PeriodStart:   periodStart,
			PeriodEnd:     periodEnd,
			TotalGrossPay: decimal.Zero,
			TotalTax:      decimal.Zero,
			TotalNetPay:   decimal.Zero,
			Status:        payroll.RunStatusDraft,
			CreatedBy:     req.CreatedBy,
		})
		if err != nil {
			return err
		}

		totals := payroll.RunTotals{}
		for _, emp := range employees {
			in, err := s.entryInput(txCtx, emp, periodStart, periodEnd, workingDays)
			if err != nil {
				return err
			}

			entry := payroll.ComputeEntry(in, tax)
			entry.RunID = run.ID
			if err := totals.Add(entry); err != nil {
				return fmt.Errorf("employee %s: %w", emp.ID, err)
			}
			if _, err := s.payrollRepo.CreateEntry(txCtx, entry); err != nil {
				return fmt.Errorf("employee %s: %w", emp.ID, err)
			}
		}

		if err := s.payrollRepo.UpdateRunTotals(txCtx, run.ID, totals); err != nil {
			return err
		}
		run.TotalEmployees = totals.TotalEmployees
		run.TotalGrossPay = totals.TotalGrossPay.Round(2)
		run.TotalTax = totals.TotalTax.Round(2)
		run.TotalNetPay = totals.TotalNetPay.Round(2)
		return nil
	})
	if err != nil {
		return payroll.PayrollRun{}, fmt.Errorf("failed to create payroll run: %w", err)
	}

	slog.Info("Payroll run created",
		"run_id", run.ID,
		"period_start", periodStart.Format(calendar.DateLayout),
		"period_end", periodEnd.Format(calendar.DateLayout),
		"employees", run.TotalEmployees,
		"total_net_pay", run.TotalNetPay.StringFixed(2),
	)
	return run, nil
}

func (s *PayrollServiceImpl) entryInput(ctx context.Context, emp employee.Employee, start, end time.Time, workingDays int) (payroll.EntryInput, error) {
	in := payroll.EntryInput{
		EmployeeID:         emp.ID,
		Currency:           s.opts.DefaultCurrency,
		WorkingDays:        workingDays,
		OvertimeMultiplier: s.opts.OvertimeMultiplier,
	}

	rec, err := s.salaryRepo.GetCurrent(ctx, emp.ID, start)
	switch {
	case err == nil:
		in.BaseSalary, in.Allowances, in.Deductions, in.Currency = rec.BaseSalary, rec.Allowances, rec.Deductions, rec.Currency
	case errors.Is(err, salary.ErrSalaryNotFound):
		slog.Warn("No salary record for payroll period; using zero components", "employee_id", emp.ID)
	default:
		return payroll.EntryInput{}, fmt.Errorf("failed to load salary for %s: %w", emp.ID, err)
	}

	summary, err := s.attendanceRepo.SummarizePeriod(ctx, emp.ID, start, end)
	if err != nil {
		return payroll.EntryInput{}, fmt.Errorf("failed to summarize attendance for %s: %w", emp.ID, err)
	}
	in.PresentDays, in.OvertimeDays = summary.PresentDays, summary.OvertimeDays

	in.LeaveDays, err = s.leaveRepo.SumApprovedDaysStartingIn(ctx, emp.ID, start, end)
	if err != nil {
		return payroll.EntryInput{}, fmt.Errorf("failed to sum leave days for %s: %w", emp.ID, err)
	}

	return in, nil
}

func (s *PayrollServiceImpl) taxCalculator(ctx context.Context) (payroll.TaxCalculator, error) {
	if s.opts.TaxSource != TaxSourceTable {
		return payroll.DefaultTaxBrackets, nil
	}
	brackets, err := s.payrollRepo.ListTaxBrackets(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load tax table: %w", err)
	}
	if len(brackets) == 0 {
		slog.Warn("Tax table is empty; falling back to default brackets")
		return payroll.DefaultTaxBrackets, nil
	}
	return brackets, nil
}

func (s *PayrollServiceImpl) ProcessRun(ctx context.Context, runID string) (payroll.PayrollRun, error) {
	run, err := s.payrollRepo.TransitionRun(ctx, runID, payroll.RunStatusCompleted, payroll.ProcessableStatuses)
	if err != nil {
		return payroll.PayrollRun{}, err
	}
	slog.Info("Payroll run completed", "run_id", run.ID)
	return run, nil
}

func (s *PayrollServiceImpl) CancelRun(ctx context.Context, runID string) (payroll.PayrollRun, error) {
	run, err := s.payrollRepo.TransitionRun(ctx, runID, payroll.RunStatusCancelled, payroll.ProcessableStatuses)
	if err != nil {
		return payroll.PayrollRun{}, err
	}
	slog.Info("Payroll run cancelled", "run_id", run.ID)
	return run, nil
}

func (s *PayrollServiceImpl) GetRun(ctx context.Context, runID string) (payroll.RunDetail, error) {
	run, err := s.payrollRepo.GetRunByID(ctx, runID)
	if err != nil {
		return payroll.RunDetail{}, err
	}
	entries, err := s.payrollRepo.ListEntriesByRun(ctx, runID)
	if err != nil {
		return payroll.RunDetail{}, err
	}
	return payroll.RunDetail{Run: run, Entries: entries}, nil
}

func (s *PayrollServiceImpl) ListRuns(ctx context.Context, filter payroll.RunFilter) ([]payroll.PayrollRun, error) {
	return s.payrollRepo.ListRuns(ctx, filter)
}

// ========== PAYSLIPS ==========

func (s *PayrollServiceImpl) GetPayslips(ctx context.Context, employeeID string) ([]payroll.Payslip, error) {
	if _, err := s.employeeRepo.GetByID(ctx, employeeID); err != nil {
		return nil, err
	}
	return s.payrollRepo.ListPayslipsByEmployee(ctx, employeeID)
}

func (s *PayrollServiceImpl) GetPayslip(ctx context.Context, entryID string) (payroll.Payslip, error) {
	return s.payrollRepo.GetPayslipByEntryID(ctx, entryID)
}

// ========== EXPORTS ==========

func (s *PayrollServiceImpl) ExportRunRegister(ctx context.Context, runID string, w io.Writer) error {
	detail, err := s.GetRun(ctx, runID)
	if err != nil {
		return err
	}
	return export.WriteRunRegister(w, detail.Run, detail.Entries)
}

func (s *PayrollServiceImpl) RenderPayslipPDF(ctx context.Context, entryID string, w io.Writer) error {
	slip, err := s.GetPayslip(ctx, entryID)
	if err != nil {
		return err
	}
	return export.WritePayslipPDF(w, slip)
}
