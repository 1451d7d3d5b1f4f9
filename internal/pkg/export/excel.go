package export

import (
	"fmt"
	"io"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/payroll"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const registerSheet = "Register"

var registerHeadings = []string{
	"Employee Code", "Employee Name", "Currency",
	"Base Salary", "Allowances", "Deductions", "Overtime Pay", "Bonus",
	"Gross Pay", "Tax", "Net Pay",
	"Working Days", "Attendance Days", "Leave Days", "Overtime Days",
}

// WriteRunRegister renders a run as an xlsx payroll register: a header row,
// one row per entry and a totals row.
func WriteRunRegister(w io.Writer, run payroll.PayrollRun, entries []payroll.PayrollEntry) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", registerSheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}

	title := fmt.Sprintf("Payroll register %s (%s)", payroll.PeriodLabel(run.PeriodStart, run.PeriodEnd), run.Status)
	if err := f.SetCellValue(registerSheet, "A1", title); err != nil {
		return err
	}

	for i, heading := range registerHeadings {
		if err := setCell(f, i+1, 2, heading); err != nil {
			return err
		}
	}

	row := 3
	for _, e := range entries {
		values := []interface{}{
			deref(e.EmployeeCode), deref(e.EmployeeName), e.Currency,
			money(e.BaseSalary), money(e.Allowances), money(e.Deductions), money(e.OvertimePay), money(e.Bonus),
			money(e.GrossPay), money(e.TaxAmount), money(e.NetPay),
			e.WorkingDays, e.AttendanceDays, e.LeaveDays, e.OvertimeDays,
		}
		for col, v := range values {
			if err := setCell(f, col+1, row, v); err != nil {
				return err
			}
		}
		row++
	}

	totals := map[int]interface{}{
		1:  "TOTAL",
		2:  fmt.Sprintf("%d employees", run.TotalEmployees),
		9:  money(run.TotalGrossPay),
		10: money(run.TotalTax),
		11: money(run.TotalNetPay),
	}
	for col, v := range totals {
		if err := setCell(f, col, row, v); err != nil {
			return err
		}
	}

	style, err := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	if err != nil {
		return fmt.Errorf("failed to create money style: %w", err)
	}
	from, _ := excelize.CoordinatesToCellName(4, 3)
	to, _ := excelize.CoordinatesToCellName(11, row)
	if err := f.SetCellStyle(registerSheet, from, to, style); err != nil {
		return fmt.Errorf("failed to apply money style: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func setCell(f *excelize.File, col, row int, value interface{}) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return f.SetCellValue(registerSheet, cell, value)
}

func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
