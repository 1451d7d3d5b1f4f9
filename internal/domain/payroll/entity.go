package payroll

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/pkg/calendar"
	"github.com/shopspring/decimal"
)

// RunStatus enum
type RunStatus string

const (
	RunStatusDraft      RunStatus = "Draft"
	RunStatusProcessing RunStatus = "Processing"
	RunStatusCompleted  RunStatus = "Completed"
	RunStatusCancelled  RunStatus = "Cancelled"
)

// ProcessableStatuses are the states a run may leave for Completed or Cancelled.
var ProcessableStatuses = []RunStatus{RunStatusDraft, RunStatusProcessing}

func (s RunStatus) IsProcessable() bool {
	for _, p := range ProcessableStatuses {
		if s == p {
			return true
		}
	}
	return false
}

// PayrollRun - One batch computation over a pay period
type PayrollRun struct {
	ID             string
	RunDate        time.Time
	PeriodStart    time.Time
	PeriodEnd      time.Time
	TotalEmployees int
	TotalGrossPay  decimal.Decimal
	TotalTax       decimal.Decimal
	TotalNetPay    decimal.Decimal
	Status         RunStatus
	CreatedBy      string
	ProcessedAt    *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// PayrollEntry - Computed pay for one employee within a run. Immutable once written.
type PayrollEntry struct {
	ID             string
	RunID          string
	EmployeeID     string
	Currency       string
	BaseSalary     decimal.Decimal
	Allowances     decimal.Decimal
	Deductions     decimal.Decimal
	OvertimePay    decimal.Decimal
	Bonus          decimal.Decimal
	GrossPay       decimal.Decimal
	TaxAmount      decimal.Decimal
	NetPay         decimal.Decimal
	WorkingDays    int
	AttendanceDays int
	LeaveDays      int
	OvertimeDays   int
	CreatedAt      time.Time

	// Joined fields
	EmployeeName *string
	EmployeeCode *string
}

// RunTotals accumulates entry amounts into run aggregates. A run settles in
// one currency, fixed by its first entry with non-zero gross pay.
type RunTotals struct {
	Currency       string
	TotalEmployees int
	TotalGrossPay  decimal.Decimal
	TotalTax       decimal.Decimal
	TotalNetPay    decimal.Decimal
}

func (t *RunTotals) Add(e PayrollEntry) error {
	if !e.GrossPay.IsZero() {
		switch t.Currency {
		case "":
			t.Currency = e.Currency
		case e.Currency:
		default:
			return fmt.Errorf("%w: %s and %s", ErrMixedCurrencies, t.Currency, e.Currency)
		}
	}
	t.TotalEmployees++
	t.TotalGrossPay = t.TotalGrossPay.Add(e.GrossPay)
	t.TotalTax = t.TotalTax.Add(e.TaxAmount)
	t.TotalNetPay = t.TotalNetPay.Add(e.NetPay)
	return nil
}

// Payslip - Entry joined with its run's period
type Payslip struct {
	Entry       PayrollEntry
	RunDate     time.Time
	PeriodStart time.Time
	PeriodEnd   time.Time
	RunStatus   RunStatus
}

// PeriodLabel renders "January 2024" for whole-month periods and a date range otherwise.
func (p Payslip) PeriodLabel() string {
	return PeriodLabel(p.PeriodStart, p.PeriodEnd)
}

func PeriodLabel(start, end time.Time) string {
	if calendar.IsFullMonth(start, end) {
		return start.Format("January 2006")
	}
	return fmt.Sprintf("%s to %s", start.Format("2006-01-02"), end.Format("2006-01-02"))
}
