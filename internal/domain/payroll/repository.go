package payroll

import "context"

// PayrollRepository defines data access methods for payroll runs and entries.
type PayrollRepository interface {
	// Runs
	CreateRun(ctx context.Context, run PayrollRun) (PayrollRun, error)
	GetRunByID(ctx context.Context, id string) (PayrollRun, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]PayrollRun, error)
	UpdateRunTotals(ctx context.Context, runID string, totals RunTotals) error
	// TransitionRun moves a run to status only while it is in one of from.
	// Returns ErrRunNotProcessable when the run exists in another state.
	TransitionRun(ctx context.Context, runID string, to RunStatus, from []RunStatus) (PayrollRun, error)

	// Entries
	CreateEntry(ctx context.Context, entry PayrollEntry) (PayrollEntry, error)
	ListEntriesByRun(ctx context.Context, runID string) ([]PayrollEntry, error)

	// Payslips skip cancelled runs and are ordered newest period first.
	ListPayslipsByEmployee(ctx context.Context, employeeID string) ([]Payslip, error)
	GetPayslipByEntryID(ctx context.Context, entryID string) (Payslip, error)

	// Tax table
	ListTaxBrackets(ctx context.Context) (TaxBrackets, error)
}
