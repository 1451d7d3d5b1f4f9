package export

import (
	"fmt"
	"io"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/payroll"
	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
)

// WritePayslipPDF renders one payslip as an A4 PDF document.
func WritePayslipPDF(w io.Writer, slip payroll.Payslip) error {
	e := slip.Entry

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Payslip")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Employee: %s (%s)", deref(e.EmployeeName), deref(e.EmployeeCode)))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Period: %s", slip.PeriodLabel()))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Run date: %s", slip.RunDate.Format("2006-01-02")))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Working days: %d  Attended: %d  Leave: %d  Overtime: %d",
		e.WorkingDays, e.AttendanceDays, e.LeaveDays, e.OvertimeDays))
	pdf.Ln(10)

	lines := []struct {
		label  string
		amount decimal.Decimal
	}{
		{"Base salary", e.BaseSalary},
		{"Allowances", e.Allowances},
		{"Overtime pay", e.OvertimePay},
		{"Bonus", e.Bonus},
		{"Deductions", e.Deductions.Neg()},
		{"Gross pay", e.GrossPay},
		{"Tax", e.TaxAmount.Neg()},
	}
	for _, l := range lines {
		pdf.CellFormat(80, 8, l.label, "", 0, "L", false, 0, "")
		pdf.CellFormat(60, 8, fmt.Sprintf("%s %s", l.amount.StringFixed(2), e.Currency), "", 1, "R", false, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(80, 10, "Net pay", "T", 0, "L", false, 0, "")
	pdf.CellFormat(60, 10, fmt.Sprintf("%s %s", e.NetPay.StringFixed(2), e.Currency), "T", 1, "R", false, 0, "")

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render payslip pdf: %w", err)
	}
	return nil
}
