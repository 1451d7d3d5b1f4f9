package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/salary"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type salaryRepositoryImpl struct {
	db *database.DB
}

func NewSalaryRepository(db *database.DB) salary.SalaryRepository {
	return &salaryRepositoryImpl{db: db}
}

const salaryColumns = `id, employee_id, base_salary, allowances, deductions, currency, effective_date, end_date, created_at, updated_at`

func scanSalaryRecord(row pgx.Row) (salary.SalaryRecord, error) {
	var s salary.SalaryRecord
	err := row.Scan(
		&s.ID, &s.EmployeeID, &s.BaseSalary, &s.Allowances, &s.Deductions, &s.Currency,
		&s.EffectiveDate, &s.EndDate, &s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}

// LockTimeline takes a transaction-scoped advisory lock keyed by employee.
func (r *salaryRepositoryImpl) LockTimeline(ctx context.Context, employeeID string) error {
	q := GetQuerier(ctx, r.db)
	if _, err := q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, "salary:"+employeeID); err != nil {
		return fmt.Errorf("failed to lock salary timeline: %w", err)
	}
	return nil
}

func (r *salaryRepositoryImpl) ExistsStartingOnOrAfter(ctx context.Context, employeeID string, date time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM salary_records WHERE employee_id = $1 AND effective_date >= $2)`,
		employeeID, date,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check later salary records: %w", err)
	}
	return exists, nil
}

func (r *salaryRepositoryImpl) CloseOverlapping(ctx context.Context, employeeID string, effectiveDate time.Time) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE salary_records
		SET end_date = $2::date - 1, updated_at = NOW()
		WHERE employee_id = $1
		  AND effective_date < $2
		  AND (end_date IS NULL OR end_date >= $2)
	`
	tag, err := q.Exec(ctx, query, employeeID, effectiveDate)
	if err != nil {
		return 0, fmt.Errorf("failed to close overlapping salary records: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *salaryRepositoryImpl) Create(ctx context.Context, record salary.SalaryRecord) (salary.SalaryRecord, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return salary.SalaryRecord{}, fmt.Errorf("failed to generate salary record id: %w", err)
	}

	query := `
		INSERT INTO salary_records (
			id, employee_id, base_salary, allowances, deductions, currency,
			effective_date, end_date, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING ` + salaryColumns

	created, err := scanSalaryRecord(q.QueryRow(ctx, query,
		id.String(), record.EmployeeID, record.BaseSalary, record.Allowances, record.Deductions, record.Currency,
		record.EffectiveDate, record.EndDate,
	))
	if err != nil {
		return salary.SalaryRecord{}, fmt.Errorf("failed to create salary record: %w", err)
	}
	return created, nil
}

func (r *salaryRepositoryImpl) GetCurrent(ctx context.Context, employeeID string, asOf time.Time) (salary.SalaryRecord, error) {
	if malformedID(employeeID) {
		return salary.SalaryRecord{}, salary.ErrSalaryNotFound
	}
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + salaryColumns + `
		FROM salary_records
		WHERE employee_id = $1
		  AND effective_date <= $2
		  AND (end_date IS NULL OR end_date >= $2)
		ORDER BY effective_date DESC
		LIMIT 1
	`
	s, err := scanSalaryRecord(q.QueryRow(ctx, query, employeeID, asOf))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return salary.SalaryRecord{}, salary.ErrSalaryNotFound
		}
		return salary.SalaryRecord{}, fmt.Errorf("failed to get current salary: %w", err)
	}
	return s, nil
}

func (r *salaryRepositoryImpl) ListByEmployee(ctx context.Context, employeeID string) ([]salary.SalaryRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + salaryColumns + ` FROM salary_records WHERE employee_id = $1 ORDER BY effective_date DESC`

	rows, err := q.Query(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list salary records: %w", err)
	}
	defer rows.Close()

	var records []salary.SalaryRecord
	for rows.Next() {
		s, err := scanSalaryRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan salary record: %w", err)
		}
		records = append(records, s)
	}
	return records, rows.Err()
}
