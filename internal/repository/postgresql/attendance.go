package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/schedule"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type attendanceRepositoryImpl struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{db: db}
}

const attendanceColumns = `id, employee_id, attendance_date, status, time_in, attendance_type, created_at, updated_at`

func scanAttendance(row pgx.Row) (attendance.AttendanceRecord, error) {
	var a attendance.AttendanceRecord
	var timeIn pgtype.Time
	if err := row.Scan(&a.ID, &a.EmployeeID, &a.Date, &a.Status, &timeIn, &a.AttendanceType, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return attendance.AttendanceRecord{}, err
	}
	if timeIn.Valid {
		c := fromPgTime(timeIn)
		a.TimeIn = &c
	}
	return a, nil
}

func optionalPgTime(c *schedule.ClockTime) pgtype.Time {
	if c == nil {
		return pgtype.Time{}
	}
	return toPgTime(*c)
}

// UpsertClockIn keeps the first stored time_in; COALESCE fills it only when the row was absent.
func (r *attendanceRepositoryImpl) UpsertClockIn(ctx context.Context, record attendance.AttendanceRecord) (attendance.AttendanceRecord, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return attendance.AttendanceRecord{}, fmt.Errorf("failed to generate attendance id: %w", err)
	}

	query := `
		INSERT INTO attendances (id, employee_id, attendance_date, status, time_in, attendance_type, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		ON CONFLICT (employee_id, attendance_date) DO UPDATE SET
			status = EXCLUDED.status,
			time_in = COALESCE(attendances.time_in, EXCLUDED.time_in),
			attendance_type = EXCLUDED.attendance_type,
			updated_at = NOW()
		RETURNING ` + attendanceColumns

	a, err := scanAttendance(q.QueryRow(ctx, query,
		id.String(), record.EmployeeID, record.Date, record.Status, optionalPgTime(record.TimeIn), record.AttendanceType,
	))
	if err != nil {
		return attendance.AttendanceRecord{}, fmt.Errorf("failed to upsert attendance: %w", err)
	}
	return a, nil
}

func (r *attendanceRepositoryImpl) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (attendance.AttendanceRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + attendanceColumns + ` FROM attendances WHERE employee_id = $1 AND attendance_date = $2`

	a, err := scanAttendance(q.QueryRow(ctx, query, employeeID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.AttendanceRecord{}, attendance.ErrAttendanceNotFound
		}
		return attendance.AttendanceRecord{}, fmt.Errorf("failed to get attendance by employee and date: %w", err)
	}
	return a, nil
}

func (r *attendanceRepositoryImpl) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.AttendanceRecord, error) {
	if filter.EmployeeID != "" && malformedID(filter.EmployeeID) {
		return []attendance.AttendanceRecord{}, nil
	}
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + attendanceColumns + ` FROM attendances WHERE 1=1`
	args := []interface{}{}
	argIdx := 1

	if filter.EmployeeID != "" {
		query += fmt.Sprintf(" AND employee_id = $%d", argIdx)
		args = append(args, filter.EmployeeID)
		argIdx++
	}
	if !filter.From.IsZero() {
		query += fmt.Sprintf(" AND attendance_date >= $%d", argIdx)
		args = append(args, filter.From)
		argIdx++
	}
	if !filter.To.IsZero() {
		query += fmt.Sprintf(" AND attendance_date <= $%d", argIdx)
		args = append(args, filter.To)
		argIdx++
	}
	query += " ORDER BY attendance_date DESC, employee_id"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendances: %w", err)
	}
	defer rows.Close()

	var records []attendance.AttendanceRecord
	for rows.Next() {
		a, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, a)
	}
	return records, rows.Err()
}

func (r *attendanceRepositoryImpl) SummarizePeriod(ctx context.Context, employeeID string, start, end time.Time) (attendance.PeriodSummary, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			COUNT(*) FILTER (WHERE status = $4),
			COUNT(*) FILTER (WHERE status = $4 AND attendance_type = $5)
		FROM attendances
		WHERE employee_id = $1 AND attendance_date BETWEEN $2 AND $3
	`
	s := attendance.PeriodSummary{EmployeeID: employeeID}
	err := q.QueryRow(ctx, query, employeeID, start, end, attendance.StatusPresent, attendance.AttendanceTypeOvertime).
		Scan(&s.PresentDays, &s.OvertimeDays)
	if err != nil {
		return attendance.PeriodSummary{}, fmt.Errorf("failed to summarize attendance: %w", err)
	}
	return s, nil
}

func (r *attendanceRepositoryImpl) MarkAbsent(ctx context.Context, employeeIDs []string, date time.Time) (int64, error) {
	if len(employeeIDs) == 0 {
		return 0, nil
	}
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendances (id, employee_id, attendance_date, status, time_in, attendance_type, created_at, updated_at)
		SELECT gen_random_uuid(), id, $2, $3, NULL, $4, NOW(), NOW()
		FROM unnest($1::uuid[]) AS id
		ON CONFLICT (employee_id, attendance_date) DO NOTHING
	`
	tag, err := q.Exec(ctx, query, employeeIDs, date, attendance.StatusAbsent, attendance.AttendanceTypeNormal)
	if err != nil {
		return 0, fmt.Errorf("failed to mark absent employees: %w", err)
	}
	return tag.RowsAffected(), nil
}
