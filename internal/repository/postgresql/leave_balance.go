package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/leave"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type leaveBalanceRepositoryImpl struct {
	db *database.DB
}

func NewLeaveBalanceRepository(db *database.DB) leave.LeaveBalanceRepository {
	return &leaveBalanceRepositoryImpl{db: db}
}

const leaveBalanceColumns = `employee_id, year, total_days, used_days, pending_days, created_at, updated_at`

func scanLeaveBalance(row pgx.Row) (leave.LeaveBalance, error) {
	var b leave.LeaveBalance
	err := row.Scan(&b.EmployeeID, &b.Year, &b.TotalDays, &b.UsedDays, &b.PendingDays, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}

func (r *leaveBalanceRepositoryImpl) EnsureBalance(ctx context.Context, employeeID string, year int, totalDays int) (leave.LeaveBalance, error) {
	q := GetQuerier(ctx, r.db)

	insert := `
		INSERT INTO leave_balances (employee_id, year, total_days, used_days, pending_days, created_at, updated_at)
		VALUES ($1, $2, $3, 0, 0, NOW(), NOW())
		ON CONFLICT (employee_id, year) DO NOTHING
	`
	if _, err := q.Exec(ctx, insert, employeeID, year, totalDays); err != nil {
		return leave.LeaveBalance{}, fmt.Errorf("failed to ensure leave balance: %w", err)
	}
	return r.Get(ctx, employeeID, year)
}

func (r *leaveBalanceRepositoryImpl) Get(ctx context.Context, employeeID string, year int) (leave.LeaveBalance, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + leaveBalanceColumns + ` FROM leave_balances WHERE employee_id = $1 AND year = $2`

	b, err := scanLeaveBalance(q.QueryRow(ctx, query, employeeID, year))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveBalance{}, leave.ErrBalanceNotFound
		}
		return leave.LeaveBalance{}, fmt.Errorf("failed to get leave balance: %w", err)
	}
	return b, nil
}

func (r *leaveBalanceRepositoryImpl) ReservePending(ctx context.Context, employeeID string, year int, days int) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_balances
		SET pending_days = pending_days + $3, updated_at = NOW()
		WHERE employee_id = $1 AND year = $2
		  AND total_days - used_days - pending_days >= $3
	`
	tag, err := q.Exec(ctx, query, employeeID, year, days)
	if err != nil {
		return fmt.Errorf("failed to reserve pending leave days: %w", err)
	}
	if tag.RowsAffected() != 1 {
		return leave.ErrInsufficientBalance
	}
	return nil
}

func (r *leaveBalanceRepositoryImpl) CommitPending(ctx context.Context, employeeID string, year int, days int) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_balances
		SET pending_days = pending_days - $3, used_days = used_days + $3, updated_at = NOW()
		WHERE employee_id = $1 AND year = $2 AND pending_days >= $3
	`
	tag, err := q.Exec(ctx, query, employeeID, year, days)
	if err != nil {
		return fmt.Errorf("failed to commit pending leave days: %w", err)
	}
	if tag.RowsAffected() != 1 {
		return leave.ErrBalanceInconsistent
	}
	return nil
}

func (r *leaveBalanceRepositoryImpl) ReleasePending(ctx context.Context, employeeID string, year int, days int) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_balances
		SET pending_days = pending_days - $3, updated_at = NOW()
		WHERE employee_id = $1 AND year = $2 AND pending_days >= $3
	`
	tag, err := q.Exec(ctx, query, employeeID, year, days)
	if err != nil {
		return fmt.Errorf("failed to release pending leave days: %w", err)
	}
	if tag.RowsAffected() != 1 {
		return leave.ErrBalanceInconsistent
	}
	return nil
}

func (r *leaveBalanceRepositoryImpl) SeedYear(ctx context.Context, employeeIDs []string, year int, totalDays int) (int64, error) {
	if len(employeeIDs) == 0 {
		return 0, nil
	}
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_balances (employee_id, year, total_days, used_days, pending_days, created_at, updated_at)
		SELECT id, $2, $3, 0, 0, NOW(), NOW()
		FROM unnest($1::uuid[]) AS id
		ON CONFLICT (employee_id, year) DO NOTHING
	`
	tag, err := q.Exec(ctx, query, employeeIDs, year, totalDays)
	if err != nil {
		return 0, fmt.Errorf("failed to seed leave balances: %w", err)
	}
	return tag.RowsAffected(), nil
}
