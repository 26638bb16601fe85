package postgresql_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/overtime"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/setting"
	"github.com/cmlabs-hris/attendance-engine/internal/repository/postgresql"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var manila = time.FixedZone("Asia/Manila", 8*60*60)

func insertEmployee(t *testing.T, setup *TestDatabaseSetup, restDay string, arrangement employee.WorkArrangement) string {
	t.Helper()
	id := uuid.Must(uuid.NewV7()).String()
	_, err := setup.DB.Exec(context.Background(),
		`INSERT INTO employees (id, employee_code, full_name, rest_day, work_arrangement) VALUES ($1, $2, $3, $4, $5)`,
		id, "EMP-"+id[:8], "Test Employee", restDay, string(arrangement),
	)
	require.NoError(t, err)
	return id
}

func openRecord(employeeID string, date time.Time) attendance.AttendanceRecord {
	in := time.Date(date.Year(), date.Month(), date.Day(), 8, 5, 0, 0, manila)
	auto := time.Date(date.Year(), date.Month(), date.Day(), 17, 0, 0, 0, manila)
	return attendance.AttendanceRecord{
		ID:           uuid.Must(uuid.NewV7()).String(),
		EmployeeID:   employeeID,
		Date:         date,
		ShiftType:    attendance.ShiftDay,
		TimeIn:       &in,
		LastTimeIn:   &in,
		SessionIndex: 1,
		Status:       attendance.StatusPresent,
		AutoTimeOut:  &auto,
	}
}

// ===== ATTENDANCE =====

func TestAttendanceRepository_CreateAndReadBack(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewAttendanceRepository(setup.DB, manila)
	empID := insertEmployee(t, setup, "Sunday", employee.WorkArrangementOffice)
	date := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)

	rec := openRecord(empID, date)
	created, err := repo.Create(ctx, rec)
	require.NoError(t, err)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := repo.GetByEmployeeDateShift(ctx, empID, date, attendance.ShiftDay)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, rec.ID, got.ID)
	assert.True(t, got.Date.Equal(date))
	assert.True(t, got.IsOpen())
	assert.Equal(t, manila, got.LastTimeIn.Location())
	assert.Empty(t, got.Sessions)
	assert.Nil(t, got.HolidayType)

	missing, err := repo.GetByEmployeeDateShift(ctx, empID, date, attendance.ShiftNight)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestAttendanceRepository_Create_DuplicateIsRejected(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewAttendanceRepository(setup.DB, manila)
	empID := insertEmployee(t, setup, "Sunday", employee.WorkArrangementOffice)
	date := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)

	_, err := repo.Create(ctx, openRecord(empID, date))
	require.NoError(t, err)

	// Act
	_, err = repo.Create(ctx, openRecord(empID, date))

	// Assert
	assert.True(t, attendance.IsRejected(err))
	assert.ErrorIs(t, err, attendance.ErrDuplicateSession)
}

func TestAttendanceRepository_Update_WritesSessionsAndBuckets(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewAttendanceRepository(setup.DB, manila)
	empID := insertEmployee(t, setup, "Sunday", employee.WorkArrangementOffice)
	date := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)

	rec, err := repo.Create(ctx, openRecord(empID, date))
	require.NoError(t, err)

	out := time.Date(2025, 3, 3, 19, 10, 0, 0, manila)
	holiday := attendance.HolidayRegular
	rec.TimeOut = &out
	rec.Sessions = []attendance.Session{{Index: 1, TimeIn: *rec.LastTimeIn, TimeOut: out, RawMinutes: 665, AdjustedMinutes: 600}}
	rec.AccumulatedMinutes = 600
	rec.RegularMinutes = 480
	rec.IsHoliday = true
	rec.HolidayType = &holiday
	rec.Buckets = attendance.Buckets{RegularHoliday: 480, RegularHolidayOvertime: 120}
	rec.Status = "Regular Holiday + OT"

	require.NoError(t, repo.Update(ctx, rec))

	got, err := repo.GetByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.False(t, got.IsOpen())
	require.Len(t, got.Sessions, 1)
	assert.True(t, got.Sessions[0].TimeOut.Equal(out))
	assert.Equal(t, 600, got.Sessions[0].AdjustedMinutes)
	assert.Equal(t, rec.Buckets, got.Buckets)
	require.NotNil(t, got.HolidayType)
	assert.Equal(t, attendance.HolidayRegular, *got.HolidayType)
	assert.Equal(t, "Regular Holiday + OT", got.Status)
}

func TestAttendanceRepository_Update_UnknownID(t *testing.T) {
	setup := NewTestDatabase(t)
	repo := postgresql.NewAttendanceRepository(setup.DB, manila)

	err := repo.Update(context.Background(), attendance.AttendanceRecord{ID: uuid.Must(uuid.NewV7()).String()})
	assert.ErrorIs(t, err, attendance.ErrAttendanceNotFound)
}

func TestAttendanceRepository_OpenQueriesAndCount(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewAttendanceRepository(setup.DB, manila)
	empID := insertEmployee(t, setup, "Sunday", employee.WorkArrangementOffice)
	monday := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)

	_, err := repo.Create(ctx, openRecord(empID, monday))
	require.NoError(t, err)

	open, err := repo.ListOpenByEmployee(ctx, empID)
	require.NoError(t, err)
	assert.Len(t, open, 1)

	sweep, err := repo.ListOpenByShiftAndDate(ctx, attendance.ShiftDay, monday)
	require.NoError(t, err)
	assert.Len(t, sweep, 1)

	count, err := repo.CountByEmployeeAndDate(ctx, empID, monday)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	count, err = repo.CountByEmployeeAndDate(ctx, empID, monday.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	from, to := monday, monday
	listed, err := repo.List(ctx, attendance.RecordFilter{EmployeeID: &empID, From: &from, To: &to})
	require.NoError(t, err)
	assert.Len(t, listed, 1)
}

func TestTransactor_RollsBackOnError(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewAttendanceRepository(setup.DB, manila)
	tx := postgresql.NewTransactor(setup.DB)
	empID := insertEmployee(t, setup, "Sunday", employee.WorkArrangementOffice)
	monday := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	boom := errors.New("boom")

	err := tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := repo.LockEmployee(ctx, empID); err != nil {
			return err
		}
		if _, err := repo.Create(ctx, openRecord(empID, monday)); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	count, err := repo.CountByEmployeeAndDate(ctx, empID, monday)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestAttendanceRepository_LockEmployee_RequiresTransaction(t *testing.T) {
	setup := NewTestDatabase(t)
	repo := postgresql.NewAttendanceRepository(setup.DB, manila)

	err := repo.LockEmployee(context.Background(), uuid.Must(uuid.NewV7()).String())
	assert.Error(t, err)
}

func TestAttendanceRepository_LockEmployee_SerialisesConcurrentClose(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewAttendanceRepository(setup.DB, manila)
	tx := postgresql.NewTransactor(setup.DB)
	empID := insertEmployee(t, setup, "Sunday", employee.WorkArrangementOffice)
	monday := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)

	rec, err := repo.Create(ctx, openRecord(empID, monday))
	require.NoError(t, err)
	out := time.Date(2025, 3, 3, 17, 0, 0, 0, manila)

	closeOnce := func(ctx context.Context) (bool, error) {
		closed := false
		err := tx.WithTransaction(ctx, func(ctx context.Context) error {
			if err := repo.LockEmployee(ctx, empID); err != nil {
				return err
			}
			current, err := repo.GetByID(ctx, rec.ID)
			if err != nil {
				return err
			}
			if !current.IsOpen() {
				return nil
			}
			// Widen the window so the other writer queues on the lock.
			time.Sleep(50 * time.Millisecond)
			current.TimeOut = &out
			current.Sessions = append(current.Sessions, attendance.Session{
				Index:           current.SessionIndex,
				TimeIn:          *current.LastTimeIn,
				TimeOut:         out,
				RawMinutes:      535,
				AdjustedMinutes: 475,
			})
			current.AccumulatedMinutes += 475
			if err := repo.Update(ctx, current); err != nil {
				return err
			}
			closed = true
			return nil
		})
		return closed, err
	}

	// Act
	var (
		wg     sync.WaitGroup
		closes atomic.Int32
		errs   = make([]error, 2)
	)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			closed, err := closeOnce(ctx)
			errs[i] = err
			if closed {
				closes.Add(1)
			}
		}(i)
	}
	wg.Wait()

	// Assert
	for _, err := range errs {
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), closes.Load())

	got, err := repo.GetByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.False(t, got.IsOpen())
	assert.Len(t, got.Sessions, 1)
	assert.Equal(t, 475, got.AccumulatedMinutes)
}

// ===== SUPPORTING REPOSITORIES =====

func TestEmployeeRepository_GetByIDAndActive(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewEmployeeRepository(setup.DB)
	empID := insertEmployee(t, setup, "Tuesday-Friday", employee.WorkArrangementRemote)

	emp, err := repo.GetByID(ctx, empID)
	require.NoError(t, err)
	assert.Equal(t, "Tuesday-Friday", emp.RestDay)
	assert.True(t, emp.IsRemote())

	active, err := repo.GetActive(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 1)

	_, err = repo.GetByID(ctx, uuid.Must(uuid.NewV7()).String())
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestHolidayRepository_ListCovering_JoinsPeriod(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewHolidayRepository(setup.DB)

	periodID := uuid.Must(uuid.NewV7()).String()
	_, err := setup.DB.Exec(ctx, `INSERT INTO payroll_periods (id, start_date, end_date) VALUES ($1, '2025-03-01', '2025-03-15')`, periodID)
	require.NoError(t, err)
	_, err = setup.DB.Exec(ctx,
		`INSERT INTO holidays (id, name, holiday_type, start_date, end_date, payroll_period_id) VALUES ($1, 'Founding Day', 'Special', '2025-03-03', '2025-03-04', $2)`,
		uuid.Must(uuid.NewV7()).String(), periodID)
	require.NoError(t, err)

	holidays, err := repo.ListCovering(ctx, time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, holidays, 1)
	assert.Equal(t, attendance.HolidaySpecial, holidays[0].Type)
	require.NotNil(t, holidays[0].Period)
	assert.True(t, holidays[0].InPeriod())

	holidays, err = repo.ListCovering(ctx, time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Empty(t, holidays)
}

func TestOvertimeRepository_PrefersApproved(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewOvertimeRepository(setup.DB)
	empID := insertEmployee(t, setup, "Sunday", employee.WorkArrangementOffice)

	_, err := setup.DB.Exec(ctx,
		`INSERT INTO overtime_requests (id, employee_id, date, status, end_time) VALUES ($1, $2, '2025-03-03', 'Approved', '19:00'), ($3, $2, '2025-03-03', 'Pending', '21:00')`,
		uuid.Must(uuid.NewV7()).String(), empID, uuid.Must(uuid.NewV7()).String())
	require.NoError(t, err)

	req, err := repo.GetByEmployeeAndDate(ctx, empID, time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NotNil(t, req)
	assert.Equal(t, overtime.StatusApproved, req.Status)
	assert.Equal(t, "19:00:00", req.EndTime)

	none, err := repo.GetByEmployeeAndDate(ctx, empID, time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestClockOverrideRepository_Upsert(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewClockOverrideRepository(setup.DB)

	got, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = repo.Upsert(ctx, setting.ClockOverride{Enabled: true, Date: time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC), Time: "17:30:00"})
	require.NoError(t, err)
	_, err = repo.Upsert(ctx, setting.ClockOverride{Enabled: false})
	require.NoError(t, err)

	got, err = repo.Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.False(t, got.Enabled)
	assert.Empty(t, got.Time)
	assert.True(t, got.Date.IsZero())
}
