package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type payrollRepository struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepository{db: db}
}

// ========== RUNS ==========

const runColumns = `
	id, run_date, period_start, period_end, total_employees, total_gross_pay, total_tax, total_net_pay,
	status, created_by, processed_at, created_at, updated_at`

func scanRun(row pgx.Row) (payroll.PayrollRun, error) {
	var r payroll.PayrollRun
	err := row.Scan(
		&r.ID, &r.RunDate, &r.PeriodStart, &r.PeriodEnd, &r.TotalEmployees, &r.TotalGrossPay, &r.TotalTax, &r.TotalNetPay,
		&r.Status, &r.CreatedBy, &r.ProcessedAt, &r.CreatedAt, &r.UpdatedAt,
	)
	return r, err
}

func (r *payrollRepository) CreateRun(ctx context.Context, run payroll.PayrollRun) (payroll.PayrollRun, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return payroll.PayrollRun{}, fmt.Errorf("failed to generate payroll run id: %w", err)
	}

	query := `
		INSERT INTO payroll_runs (
			id, run_date, period_start, period_end, total_employees, total_gross_pay, total_tax, total_net_pay,
			status, created_by, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
		RETURNING ` + runColumns

	created, err := scanRun(q.QueryRow(ctx, query,
		id.String(), run.RunDate, run.PeriodStart, run.PeriodEnd,
		run.TotalEmployees, run.TotalGrossPay, run.TotalTax, run.TotalNetPay,
		run.Status, run.CreatedBy,
	))
	if err != nil {
		return payroll.PayrollRun{}, fmt.Errorf("failed to create payroll run: %w", err)
	}
	return created, nil
}

func (r *payrollRepository) GetRunByID(ctx context.Context, id string) (payroll.PayrollRun, error) {
	if malformedID(id) {
		return payroll.PayrollRun{}, payroll.ErrRunNotFound
	}
	q := GetQuerier(ctx, r.db)

	run, err := scanRun(q.QueryRow(ctx, `SELECT `+runColumns+` FROM payroll_runs WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayrollRun{}, payroll.ErrRunNotFound
		}
		return payroll.PayrollRun{}, fmt.Errorf("failed to get payroll run: %w", err)
	}
	return run, nil
}

func (r *payrollRepository) ListRuns(ctx context.Context, filter payroll.RunFilter) ([]payroll.PayrollRun, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + runColumns + ` FROM payroll_runs WHERE 1=1`
	args := []interface{}{}
	argIdx := 1

	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}

	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	query += fmt.Sprintf(" ORDER BY period_start DESC, created_at DESC LIMIT $%d", argIdx)
	args = append(args, filter.Limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll runs: %w", err)
	}
	defer rows.Close()

	var runs []payroll.PayrollRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payroll run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func (r *payrollRepository) UpdateRunTotals(ctx context.Context, runID string, totals payroll.RunTotals) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payroll_runs
		SET total_employees = $2, total_gross_pay = $3, total_tax = $4, total_net_pay = $5, updated_at = NOW()
		WHERE id = $1
	`
	tag, err := q.Exec(ctx, query, runID,
		totals.TotalEmployees, totals.TotalGrossPay.Round(2), totals.TotalTax.Round(2), totals.TotalNetPay.Round(2),
	)
	if err != nil {
		return fmt.Errorf("failed to update payroll run totals: %w", err)
	}
	if tag.RowsAffected() != 1 {
		return payroll.ErrRunNotFound
	}
	return nil
}

func (r *payrollRepository) TransitionRun(ctx context.Context, runID string, to payroll.RunStatus, from []payroll.RunStatus) (payroll.PayrollRun, error) {
	if malformedID(runID) {
		return payroll.PayrollRun{}, payroll.ErrRunNotFound
	}
	q := GetQuerier(ctx, r.db)

	allowed := make([]string, len(from))
	for i, s := range from {
		allowed[i] = string(s)
	}

	query := `
		UPDATE payroll_runs
		SET status = $2,
			processed_at = CASE WHEN $2 = $4 THEN NOW() ELSE processed_at END,
			updated_at = NOW()
		WHERE id = $1 AND status = ANY($3::text[])
		RETURNING ` + runColumns

	run, err := scanRun(q.QueryRow(ctx, query, runID, string(to), allowed, string(payroll.RunStatusCompleted)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			if _, getErr := r.GetRunByID(ctx, runID); getErr != nil {
				return payroll.PayrollRun{}, getErr
			}
			return payroll.PayrollRun{}, payroll.ErrRunNotProcessable
		}
		return payroll.PayrollRun{}, fmt.Errorf("failed to transition payroll run: %w", err)
	}
	return run, nil
}

// ========== ENTRIES ==========

const entryColumns = `
	pe.id, pe.run_id, pe.employee_id, pe.currency, pe.base_salary, pe.allowances, pe.deductions,
	pe.overtime_pay, pe.bonus, pe.gross_pay, pe.tax_amount, pe.net_pay,
	pe.working_days, pe.attendance_days, pe.leave_days, pe.overtime_days, pe.created_at,
	e.full_name, e.employee_code`

func scanEntryDest(e *payroll.PayrollEntry) []interface{} {
	return []interface{}{
		&e.ID, &e.RunID, &e.EmployeeID, &e.Currency, &e.BaseSalary, &e.Allowances, &e.Deductions,
		&e.OvertimePay, &e.Bonus, &e.GrossPay, &e.TaxAmount, &e.NetPay,
		&e.WorkingDays, &e.AttendanceDays, &e.LeaveDays, &e.OvertimeDays, &e.CreatedAt,
		&e.EmployeeName, &e.EmployeeCode,
	}
}

func (r *payrollRepository) CreateEntry(ctx context.Context, entry payroll.PayrollEntry) (payroll.PayrollEntry, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return payroll.PayrollEntry{}, fmt.Errorf("failed to generate payroll entry id: %w", err)
	}

	query := `
		INSERT INTO payroll_entries (
			id, run_id, employee_id, currency, base_salary, allowances, deductions,
			overtime_pay, bonus, gross_pay, tax_amount, net_pay,
			working_days, attendance_days, leave_days, overtime_days, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, NOW())
		RETURNING created_at
	`
	entry.ID = id.String()
	err = q.QueryRow(ctx, query,
		entry.ID, entry.RunID, entry.EmployeeID, entry.Currency, entry.BaseSalary, entry.Allowances, entry.Deductions,
		entry.OvertimePay, entry.Bonus, entry.GrossPay, entry.TaxAmount, entry.NetPay,
		entry.WorkingDays, entry.AttendanceDays, entry.LeaveDays, entry.OvertimeDays,
	).Scan(&entry.CreatedAt)
	if err != nil {
		return payroll.PayrollEntry{}, fmt.Errorf("failed to create payroll entry: %w", err)
	}
	return entry, nil
}

func (r *payrollRepository) ListEntriesByRun(ctx context.Context, runID string) ([]payroll.PayrollEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + entryColumns + `
		FROM payroll_entries pe
		JOIN employees e ON e.id = pe.employee_id
		WHERE pe.run_id = $1
		ORDER BY e.employee_code
	`
	rows, err := q.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll entries: %w", err)
	}
	defer rows.Close()

	var entries []payroll.PayrollEntry
	for rows.Next() {
		var e payroll.PayrollEntry
		if err := rows.Scan(scanEntryDest(&e)...); err != nil {
			return nil, fmt.Errorf("failed to scan payroll entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ========== PAYSLIPS ==========

const payslipQuery = `
	SELECT ` + entryColumns + `, pr.run_date, pr.period_start, pr.period_end, pr.status
	FROM payroll_entries pe
	JOIN payroll_runs pr ON pr.id = pe.run_id
	JOIN employees e ON e.id = pe.employee_id
`

func scanPayslip(row pgx.Row) (payroll.Payslip, error) {
	var p payroll.Payslip
	dest := append(scanEntryDest(&p.Entry), &p.RunDate, &p.PeriodStart, &p.PeriodEnd, &p.RunStatus)
	err := row.Scan(dest...)
	return p, err
}

func (r *payrollRepository) ListPayslipsByEmployee(ctx context.Context, employeeID string) ([]payroll.Payslip, error) {
	q := GetQuerier(ctx, r.db)

	query := payslipQuery + `
		WHERE pe.employee_id = $1 AND pr.status <> $2
		ORDER BY pr.period_start DESC, pr.run_date DESC
	`
	rows, err := q.Query(ctx, query, employeeID, payroll.RunStatusCancelled)
	if err != nil {
		return nil, fmt.Errorf("failed to list payslips: %w", err)
	}
	defer rows.Close()

	var slips []payroll.Payslip
	for rows.Next() {
		p, err := scanPayslip(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payslip: %w", err)
		}
		slips = append(slips, p)
	}
	return slips, rows.Err()
}

func (r *payrollRepository) GetPayslipByEntryID(ctx context.Context, entryID string) (payroll.Payslip, error) {
	if malformedID(entryID) {
		return payroll.Payslip{}, payroll.ErrEntryNotFound
	}
	q := GetQuerier(ctx, r.db)

	p, err := scanPayslip(q.QueryRow(ctx, payslipQuery+` WHERE pe.id = $1`, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Payslip{}, payroll.ErrEntryNotFound
		}
		return payroll.Payslip{}, fmt.Errorf("failed to get payslip: %w", err)
	}
	return p, nil
}

// ========== TAX TABLE ==========

func (r *payrollRepository) ListTaxBrackets(ctx context.Context) (payroll.TaxBrackets, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT up_to, rate FROM tax_rates ORDER BY up_to ASC NULLS LAST`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tax rates: %w", err)
	}
	defer rows.Close()

	var brackets payroll.TaxBrackets
	for rows.Next() {
		var upTo decimal.NullDecimal
		var rate decimal.Decimal
		if err := rows.Scan(&upTo, &rate); err != nil {
			return nil, fmt.Errorf("failed to scan tax rate: %w", err)
		}
		b := payroll.TaxBracket{Rate: rate}
		if upTo.Valid {
			limit := upTo.Decimal
			b.UpTo = &limit
		}
		brackets = append(brackets, b)
	}
	return brackets, rows.Err()
}
