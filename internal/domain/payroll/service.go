package payroll

import (
	"context"
	"io"
)

type PayrollService interface {
	// Runs
	CreateRun(ctx context.Context, req CreateRunRequest) (PayrollRun, error)
	ProcessRun(ctx context.Context, runID string) (PayrollRun, error)
	CancelRun(ctx context.Context, runID string) (PayrollRun, error)
	GetRun(ctx context.Context, runID string) (RunDetail, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]PayrollRun, error)

	// Payslips
	GetPayslips(ctx context.Context, employeeID string) ([]Payslip, error)
	GetPayslip(ctx context.Context, entryID string) (Payslip, error)

	// Exports
	ExportRunRegister(ctx context.Context, runID string, w io.Writer) error
	RenderPayslipPDF(ctx context.Context, entryID string, w io.Writer) error
}
