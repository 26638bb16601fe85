package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const attendanceColumns = `
	id, employee_id, date, shift_type,
	time_in, last_time_in, time_out, session_index, sessions,
	accumulated_minutes, late_minutes, undertime_minutes, late_undertime_minutes, regular_minutes,
	is_holiday, holiday_type, is_rest_day, is_absent, status, auto_time_out,
	break_start, break_end, break_duration,
	regular_overtime, regular_holiday, regular_holiday_overtime,
	special_holiday, special_holiday_overtime, rest_day, rest_day_overtime,
	regular_holiday_rest_overtime, regular_holiday_rest_overtime_plus_ot,
	special_holiday_rest_overtime, special_holiday_rest_overtime_plus_ot,
	regular_overtime_night_differential, regular_holiday_night_differential,
	special_holiday_night_differential, rest_day_night_differential,
	special_holiday_rest_overtime_night_differential,
	created_at, updated_at`

type attendanceRepository struct {
	db  *database.DB
	loc *time.Location
}

// NewAttendanceRepository returns a repository whose timestamps are read back in loc.
func NewAttendanceRepository(db *database.DB, loc *time.Location) attendance.AttendanceRepository {
	return &attendanceRepository{db: db, loc: loc}
}

// Create implements attendance.AttendanceRepository.
func (a *attendanceRepository) Create(ctx context.Context, rec attendance.AttendanceRecord) (attendance.AttendanceRecord, error) {
	q := GetQuerier(ctx, a.db)

	sessions, err := encodeSessions(rec.Sessions)
	if err != nil {
		return attendance.AttendanceRecord{}, err
	}

	query := `
		INSERT INTO attendances (` + attendanceColumns + `)
		VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18, $19, $20,
			$21, $22, $23, $24, $25, $26, $27, $28, $29, $30,
			$31, $32, $33, $34, $35, $36, $37, $38, $39, NOW(), NOW()
		) RETURNING created_at, updated_at
	`

	b := rec.Buckets
	err = q.QueryRow(ctx, query,
		rec.ID, rec.EmployeeID, rec.Date, string(rec.ShiftType),
		rec.TimeIn, rec.LastTimeIn, rec.TimeOut, rec.SessionIndex, sessions,
		rec.AccumulatedMinutes, rec.LateMinutes, rec.UndertimeMinutes, rec.LateUndertimeMinutes, rec.RegularMinutes,
		rec.IsHoliday, holidayTypeValue(rec.HolidayType), rec.IsRestDay, rec.IsAbsent, rec.Status, rec.AutoTimeOut,
		rec.BreakStart, rec.BreakEnd, rec.BreakDuration,
		b.RegularOvertime, b.RegularHoliday, b.RegularHolidayOvertime,
		b.SpecialHoliday, b.SpecialHolidayOvertime, b.RestDay, b.RestDayOvertime,
		b.RegularHolidayRestOvertime, b.RegularHolidayRestOvertimePlusOT,
		b.SpecialHolidayRestOvertime, b.SpecialHolidayRestOvertimePlusOT,
		b.RegularOvertimeNightDiff, b.RegularHolidayNightDiff,
		b.SpecialHolidayNightDiff, b.RestDayNightDiff,
		b.SpecialHolidayRestOvertimeNightDiff,
	).Scan(&rec.CreatedAt, &rec.UpdatedAt)

	if err != nil {
		if database.IsUniqueViolation(err) {
			return attendance.AttendanceRecord{}, attendance.Reject(attendance.ErrDuplicateSession)
		}
		return attendance.AttendanceRecord{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	rec.CreatedAt = rec.CreatedAt.In(a.loc)
	rec.UpdatedAt = rec.UpdatedAt.In(a.loc)
	return rec, nil
}

// Update implements attendance.AttendanceRepository.
func (a *attendanceRepository) Update(ctx context.Context, rec attendance.AttendanceRecord) error {
	q := GetQuerier(ctx, a.db)

	sessions, err := encodeSessions(rec.Sessions)
	if err != nil {
		return err
	}

	query := `
		UPDATE attendances SET
			time_in = $2, last_time_in = $3, time_out = $4, session_index = $5, sessions = $6,
			accumulated_minutes = $7, late_minutes = $8, undertime_minutes = $9,
			late_undertime_minutes = $10, regular_minutes = $11,
			is_holiday = $12, holiday_type = $13, is_rest_day = $14, is_absent = $15,
			status = $16, auto_time_out = $17,
			break_start = $18, break_end = $19, break_duration = $20,
			regular_overtime = $21, regular_holiday = $22, regular_holiday_overtime = $23,
			special_holiday = $24, special_holiday_overtime = $25,
			rest_day = $26, rest_day_overtime = $27,
			regular_holiday_rest_overtime = $28, regular_holiday_rest_overtime_plus_ot = $29,
			special_holiday_rest_overtime = $30, special_holiday_rest_overtime_plus_ot = $31,
			regular_overtime_night_differential = $32, regular_holiday_night_differential = $33,
			special_holiday_night_differential = $34, rest_day_night_differential = $35,
			special_holiday_rest_overtime_night_differential = $36,
			updated_at = NOW()
		WHERE id = $1
	`

	b := rec.Buckets
	tag, err := q.Exec(ctx, query,
		rec.ID,
		rec.TimeIn, rec.LastTimeIn, rec.TimeOut, rec.SessionIndex, sessions,
		rec.AccumulatedMinutes, rec.LateMinutes, rec.UndertimeMinutes,
		rec.LateUndertimeMinutes, rec.RegularMinutes,
		rec.IsHoliday, holidayTypeValue(rec.HolidayType), rec.IsRestDay, rec.IsAbsent,
		rec.Status, rec.AutoTimeOut,
		rec.BreakStart, rec.BreakEnd, rec.BreakDuration,
		b.RegularOvertime, b.RegularHoliday, b.RegularHolidayOvertime,
		b.SpecialHoliday, b.SpecialHolidayOvertime,
		b.RestDay, b.RestDayOvertime,
		b.RegularHolidayRestOvertime, b.RegularHolidayRestOvertimePlusOT,
		b.SpecialHolidayRestOvertime, b.SpecialHolidayRestOvertimePlusOT,
		b.RegularOvertimeNightDiff, b.RegularHolidayNightDiff,
		b.SpecialHolidayNightDiff, b.RestDayNightDiff,
		b.SpecialHolidayRestOvertimeNightDiff,
	)
	if err != nil {
		return fmt.Errorf("failed to update attendance: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}

	return nil
}

// GetByID implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.AttendanceRecord, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + attendanceColumns + ` FROM attendances WHERE id = $1` + a.lockClause(ctx)

	rec, err := a.scan(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.AttendanceRecord{}, attendance.ErrAttendanceNotFound
		}
		return attendance.AttendanceRecord{}, fmt.Errorf("failed to get attendance by id: %w", err)
	}

	return rec, nil
}

// GetByEmployeeDateShift implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByEmployeeDateShift(ctx context.Context, employeeID string, date time.Time, shift attendance.ShiftType) (*attendance.AttendanceRecord, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances
		WHERE employee_id = $1
		  AND date = $2
		  AND shift_type = $3
	` + a.lockClause(ctx)

	rec, err := a.scan(q.QueryRow(ctx, query, employeeID, attendance.DateOf(date), string(shift)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance by employee, date and shift: %w", err)
	}

	return &rec, nil
}

// ListOpenByEmployee implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListOpenByEmployee(ctx context.Context, employeeID string) ([]attendance.AttendanceRecord, error) {
	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances
		WHERE employee_id = $1
		  AND last_time_in IS NOT NULL
		  AND time_out IS NULL
		ORDER BY date DESC, shift_type ASC
	` + a.lockClause(ctx)

	return a.list(ctx, "failed to list open attendances", query, employeeID)
}

// ListOpenByShiftAndDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListOpenByShiftAndDate(ctx context.Context, shift attendance.ShiftType, date time.Time) ([]attendance.AttendanceRecord, error) {
	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances
		WHERE shift_type = $1
		  AND date = $2
		  AND last_time_in IS NOT NULL
		  AND time_out IS NULL
		ORDER BY employee_id ASC
	`

	return a.list(ctx, "failed to list open attendances by shift", query, string(shift), attendance.DateOf(date))
}

// CountByEmployeeAndDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) CountByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (int, error) {
	q := GetQuerier(ctx, a.db)

	var count int
	err := q.QueryRow(ctx,
		`SELECT COUNT(*) FROM attendances WHERE employee_id = $1 AND date = $2`,
		employeeID, attendance.DateOf(date),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count attendances: %w", err)
	}

	return count, nil
}

// List implements attendance.AttendanceRepository.
func (a *attendanceRepository) List(ctx context.Context, filter attendance.RecordFilter) ([]attendance.AttendanceRecord, error) {
	var conditions []string
	var args []interface{}
	argIndex := 1

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		conditions = append(conditions, fmt.Sprintf("employee_id = $%d", argIndex))
		args = append(args, *filter.EmployeeID)
		argIndex++
	}
	if filter.From != nil {
		conditions = append(conditions, fmt.Sprintf("date >= $%d", argIndex))
		args = append(args, attendance.DateOf(*filter.From))
		argIndex++
	}
	if filter.To != nil {
		conditions = append(conditions, fmt.Sprintf("date <= $%d", argIndex))
		args = append(args, attendance.DateOf(*filter.To))
		argIndex++
	}
	if filter.ShiftType != nil && *filter.ShiftType != "" {
		conditions = append(conditions, fmt.Sprintf("shift_type = $%d", argIndex))
		args = append(args, *filter.ShiftType)
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := `SELECT ` + attendanceColumns + ` FROM attendances ` + whereClause +
		` ORDER BY date ASC, employee_id ASC, shift_type ASC`

	return a.list(ctx, "failed to list attendances", query, args...)
}

// LockEmployee implements attendance.AttendanceRepository.
func (a *attendanceRepository) LockEmployee(ctx context.Context, employeeID string) error {
	if !inTx(ctx) {
		return fmt.Errorf("failed to lock employee %s: no transaction in context", employeeID)
	}

	q := GetQuerier(ctx, a.db)
	if _, err := q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, employeeID); err != nil {
		return fmt.Errorf("failed to lock employee %s: %w", employeeID, err)
	}

	return nil
}

func (a *attendanceRepository) lockClause(ctx context.Context) string {
	if inTx(ctx) {
		return " FOR UPDATE"
	}
	return ""
}

func (a *attendanceRepository) list(ctx context.Context, op, query string, args ...interface{}) ([]attendance.AttendanceRecord, error) {
	q := GetQuerier(ctx, a.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var records []attendance.AttendanceRecord
	for rows.Next() {
		rec, err := a.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return records, nil
}

func (a *attendanceRepository) scan(row pgx.Row) (attendance.AttendanceRecord, error) {
	var (
		rec         attendance.AttendanceRecord
		shift       string
		holidayType *string
		sessions    []byte
		b           = &rec.Buckets
	)

	err := row.Scan(
		&rec.ID, &rec.EmployeeID, &rec.Date, &shift,
		&rec.TimeIn, &rec.LastTimeIn, &rec.TimeOut, &rec.SessionIndex, &sessions,
		&rec.AccumulatedMinutes, &rec.LateMinutes, &rec.UndertimeMinutes, &rec.LateUndertimeMinutes, &rec.RegularMinutes,
		&rec.IsHoliday, &holidayType, &rec.IsRestDay, &rec.IsAbsent, &rec.Status, &rec.AutoTimeOut,
		&rec.BreakStart, &rec.BreakEnd, &rec.BreakDuration,
		&b.RegularOvertime, &b.RegularHoliday, &b.RegularHolidayOvertime,
		&b.SpecialHoliday, &b.SpecialHolidayOvertime, &b.RestDay, &b.RestDayOvertime,
		&b.RegularHolidayRestOvertime, &b.RegularHolidayRestOvertimePlusOT,
		&b.SpecialHolidayRestOvertime, &b.SpecialHolidayRestOvertimePlusOT,
		&b.RegularOvertimeNightDiff, &b.RegularHolidayNightDiff,
		&b.SpecialHolidayNightDiff, &b.RestDayNightDiff,
		&b.SpecialHolidayRestOvertimeNightDiff,
		&rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return attendance.AttendanceRecord{}, err
	}

	rec.ShiftType = attendance.ShiftType(shift)
	if holidayType != nil {
		ht := attendance.HolidayType(*holidayType)
		rec.HolidayType = &ht
	}
	if len(sessions) > 0 {
		if err := json.Unmarshal(sessions, &rec.Sessions); err != nil {
			return attendance.AttendanceRecord{}, fmt.Errorf("failed to decode sessions: %w", err)
		}
	}

	rec.Date = attendance.DateOf(rec.Date)
	for _, t := range []**time.Time{&rec.TimeIn, &rec.LastTimeIn, &rec.TimeOut, &rec.AutoTimeOut, &rec.BreakStart, &rec.BreakEnd} {
		if *t != nil {
			local := (*t).In(a.loc)
			*t = &local
		}
	}
	for i := range rec.Sessions {
		rec.Sessions[i].TimeIn = rec.Sessions[i].TimeIn.In(a.loc)
		rec.Sessions[i].TimeOut = rec.Sessions[i].TimeOut.In(a.loc)
	}
	rec.CreatedAt = rec.CreatedAt.In(a.loc)
	rec.UpdatedAt = rec.UpdatedAt.In(a.loc)

	return rec, nil
}

func encodeSessions(sessions []attendance.Session) ([]byte, error) {
	if sessions == nil {
		sessions = []attendance.Session{}
	}
	data, err := json.Marshal(sessions)
	if err != nil {
		return nil, fmt.Errorf("failed to encode sessions: %w", err)
	}
	return data, nil
}

func holidayTypeValue(ht *attendance.HolidayType) *string {
	if ht == nil || *ht == attendance.HolidayNone {
		return nil
	}
	s := string(*ht)
	return &s
}
