package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/schedule"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func toPgTime(c schedule.ClockTime) pgtype.Time {
	return pgtype.Time{Microseconds: int64(c.Duration() / time.Microsecond), Valid: true}
}

func fromPgTime(t pgtype.Time) schedule.ClockTime {
	return schedule.ClockTime(t.Microseconds / int64(time.Second/time.Microsecond))
}

type shiftRepositoryImpl struct {
	db *database.DB
}

func NewShiftRepository(db *database.DB) schedule.ShiftRepository {
	return &shiftRepositoryImpl{db: db}
}

const shiftColumns = `id, name, start_time, end_time, created_at, updated_at`

func scanShift(row pgx.Row) (schedule.Shift, error) {
	var s schedule.Shift
	var start, end pgtype.Time
	if err := row.Scan(&s.ID, &s.Name, &start, &end, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return schedule.Shift{}, err
	}
	s.StartTime, s.EndTime = fromPgTime(start), fromPgTime(end)
	return s, nil
}

func (r *shiftRepositoryImpl) Create(ctx context.Context, shift schedule.Shift) (schedule.Shift, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return schedule.Shift{}, fmt.Errorf("failed to generate shift id: %w", err)
	}

	query := `
		INSERT INTO shifts (id, name, start_time, end_time, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING ` + shiftColumns

	created, err := scanShift(q.QueryRow(ctx, query, id.String(), shift.Name, toPgTime(shift.StartTime), toPgTime(shift.EndTime)))
	if err != nil {
		if isUniqueViolation(err) {
			return schedule.Shift{}, schedule.ErrShiftNameExists
		}
		return schedule.Shift{}, fmt.Errorf("failed to create shift: %w", err)
	}
	return created, nil
}

func (r *shiftRepositoryImpl) GetByID(ctx context.Context, id string) (schedule.Shift, error) {
	if malformedID(id) {
		return schedule.Shift{}, schedule.ErrShiftNotFound
	}
	q := GetQuerier(ctx, r.db)

	s, err := scanShift(q.QueryRow(ctx, `SELECT `+shiftColumns+` FROM shifts WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return schedule.Shift{}, schedule.ErrShiftNotFound
		}
		return schedule.Shift{}, fmt.Errorf("failed to get shift: %w", err)
	}
	return s, nil
}

func (r *shiftRepositoryImpl) List(ctx context.Context) ([]schedule.Shift, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT `+shiftColumns+` FROM shifts ORDER BY start_time, name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list shifts: %w", err)
	}
	defer rows.Close()

	var shifts []schedule.Shift
	for rows.Next() {
		s, err := scanShift(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shift: %w", err)
		}
		shifts = append(shifts, s)
	}
	return shifts, rows.Err()
}

type shiftAssignmentRepositoryImpl struct {
	db *database.DB
}

func NewShiftAssignmentRepository(db *database.DB) schedule.ShiftAssignmentRepository {
	return &shiftAssignmentRepositoryImpl{db: db}
}

func (r *shiftAssignmentRepositoryImpl) Upsert(ctx context.Context, assignment schedule.ShiftAssignment) (schedule.ShiftAssignment, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return schedule.ShiftAssignment{}, fmt.Errorf("failed to generate shift assignment id: %w", err)
	}

	query := `
		INSERT INTO shift_assignments (id, employee_id, work_date, shift_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		ON CONFLICT (employee_id, work_date) DO UPDATE SET
			shift_id = EXCLUDED.shift_id,
			updated_at = NOW()
		RETURNING id, employee_id, work_date, shift_id, created_at, updated_at
	`
	var a schedule.ShiftAssignment
	err = q.QueryRow(ctx, query, id.String(), assignment.EmployeeID, assignment.Date, assignment.ShiftID).Scan(
		&a.ID, &a.EmployeeID, &a.Date, &a.ShiftID, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return schedule.ShiftAssignment{}, fmt.Errorf("failed to upsert shift assignment: %w", err)
	}
	return a, nil
}

func (r *shiftAssignmentRepositoryImpl) GetShiftForDate(ctx context.Context, employeeID string, date time.Time) (*schedule.Shift, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT s.id, s.name, s.start_time, s.end_time, s.created_at, s.updated_at
		FROM shift_assignments sa
		JOIN shifts s ON s.id = sa.shift_id
		WHERE sa.employee_id = $1 AND sa.work_date = $2
	`
	s, err := scanShift(q.QueryRow(ctx, query, employeeID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get shift for date: %w", err)
	}
	return &s, nil
}
