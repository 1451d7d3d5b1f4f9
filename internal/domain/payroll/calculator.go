package payroll

import (
	"github.com/shopspring/decimal"
)

// DefaultOvertimeMultiplier scales the daily rate for overtime days.
var DefaultOvertimeMultiplier = decimal.RequireFromString("1.5")

// EntryInput carries the facts one payroll entry is computed from.
type EntryInput struct {
	EmployeeID         string
	Currency           string
	BaseSalary         decimal.Decimal
	Allowances         decimal.Decimal
	Deductions         decimal.Decimal
	Bonus              decimal.Decimal
	WorkingDays        int
	PresentDays        int
	OvertimeDays       int
	LeaveDays          int
	OvertimeMultiplier decimal.Decimal
}

// ComputeEntry derives pay amounts:
//
//	dailyRate   = base / workingDays
//	overtimePay = overtimeDays * dailyRate * multiplier
//	gross       = presentDays * dailyRate + allowances + overtimePay + bonus - deductions
//	net         = gross - tax(gross)
//
// Money is rounded to cents once per output field. workingDays must be positive.
func ComputeEntry(in EntryInput, tax TaxCalculator) PayrollEntry {
	multiplier := in.OvertimeMultiplier
	if multiplier.IsZero() {
		multiplier = DefaultOvertimeMultiplier
	}

	dailyRate := in.BaseSalary.Div(decimal.NewFromInt(int64(in.WorkingDays)))
	overtimePay := dailyRate.Mul(multiplier).Mul(decimal.NewFromInt(int64(in.OvertimeDays)))

	gross := dailyRate.Mul(decimal.NewFromInt(int64(in.PresentDays))).
		Add(in.Allowances).
		Add(overtimePay).
		Add(in.Bonus).
		Sub(in.Deductions).
		Round(2)
	taxAmount := tax.MonthlyTax(gross).Round(2)

	return PayrollEntry{
		EmployeeID:     in.EmployeeID,
		Currency:       in.Currency,
		BaseSalary:     in.BaseSalary,
		Allowances:     in.Allowances,
		Deductions:     in.Deductions,
		OvertimePay:    overtimePay.Round(2),
		Bonus:          in.Bonus,
		GrossPay:       gross,
		TaxAmount:      taxAmount,
		NetPay:         gross.Sub(taxAmount),
		WorkingDays:    in.WorkingDays,
		AttendanceDays: in.PresentDays,
		LeaveDays:      in.LeaveDays,
		OvertimeDays:   in.OvertimeDays,
	}
}
