package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/clock"
	"github.com/cmlabs-hris/attendance-engine/internal/repository/memory"
	attendancesvc "github.com/cmlabs-hris/attendance-engine/internal/service/attendance"
	calendarsvc "github.com/cmlabs-hris/attendance-engine/internal/service/calendar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var manila = time.FixedZone("Asia/Manila", 8*60*60)

// 2025-03-03 is a Monday
func monday(hour, minute int) time.Time {
	return time.Date(2025, 3, 3, hour, minute, 0, 0, manila)
}

type jobsEnv struct {
	store *memory.Store
	clock *clock.FixedClock
	svc   *attendancesvc.AttendanceServiceImpl
	jobs  *AttendanceJobs
}

func newJobsEnv(t *testing.T, employeeIDs ...string) *jobsEnv {
	t.Helper()

	store := memory.NewStore()
	clk := clock.NewFixedClock(monday(8, 0))
	resolver := calendarsvc.NewResolver(store.Holidays(), store.Employees())
	svc := attendancesvc.NewAttendanceService(store, store.Attendances(), store.Employees(), store.Overtime(), resolver, clk)

	for _, id := range employeeIDs {
		store.Employees().Put(employee.Employee{ID: id, RestDay: "Sunday"})
	}

	return &jobsEnv{
		store: store,
		clock: clk,
		svc:   svc,
		jobs:  NewAttendanceJobs(svc, store.Attendances(), store.Employees(), clk),
	}
}

func (e *jobsEnv) timeIn(t *testing.T, employeeID string, now time.Time) attendance.AttendanceResponse {
	t.Helper()
	e.clock.Set(now)
	resp, err := e.svc.TimeIn(context.Background(), attendance.TimeInRequest{EmployeeID: employeeID})
	require.NoError(t, err)
	return resp
}

func (e *jobsEnv) tick(t *testing.T, now time.Time) TickResult {
	t.Helper()
	e.clock.Set(now)
	res, err := e.jobs.Tick(context.Background())
	require.NoError(t, err)
	return res
}

func (e *jobsEnv) record(t *testing.T, id string) attendance.AttendanceRecord {
	t.Helper()
	rec, err := e.store.Attendances().GetByID(context.Background(), id)
	require.NoError(t, err)
	return rec
}

func TestAttendanceJobs_DayClose_Idempotent(t *testing.T) {
	env := newJobsEnv(t, "emp-1")
	opened := env.timeIn(t, "emp-1", monday(8, 0))

	first := env.tick(t, monday(17, 0))
	second := env.tick(t, monday(17, 0))

	assert.Equal(t, 1, first.DayClosed)
	assert.Equal(t, 0, second.DayClosed)

	rec := env.record(t, opened.ID)
	assert.False(t, rec.IsOpen())
	assert.Len(t, rec.Sessions, 1)
	assert.Equal(t, "Present (Auto)", rec.Status)
	assert.Equal(t, 480, rec.RegularMinutes)
}

func TestAttendanceJobs_DayClose_OnlyAtAutoTimeOutMinute(t *testing.T) {
	env := newJobsEnv(t, "emp-1")
	opened := env.timeIn(t, "emp-1", monday(8, 0))

	assert.Equal(t, 0, env.tick(t, monday(16, 59)).DayClosed)
	assert.Equal(t, 0, env.tick(t, monday(17, 1)).DayClosed)
	assert.True(t, env.record(t, opened.ID).IsOpen())
}

func TestAttendanceJobs_DayClose_ApprovedOvertime(t *testing.T) {
	env := newJobsEnv(t, "emp-1")
	env.store.Overtime().Put(overtimeUntil("emp-1", "19:00:00"))
	opened := env.timeIn(t, "emp-1", monday(8, 0))

	assert.Equal(t, 0, env.tick(t, monday(17, 0)).DayClosed)
	assert.Equal(t, 1, env.tick(t, monday(19, 0)).DayClosed)

	rec := env.record(t, opened.ID)
	assert.Equal(t, 120, rec.Buckets.RegularOvertime)
	assert.Equal(t, "Overtime (Auto)", rec.Status)
}

func TestAttendanceJobs_NightClose(t *testing.T) {
	env := newJobsEnv(t, "emp-1")
	opened := env.timeIn(t, "emp-1", monday(22, 0))
	tuesday := monday(0, 0).AddDate(0, 0, 1)

	assert.Equal(t, 0, env.tick(t, tuesday.Add(7*time.Hour+59*time.Minute)).NightClosed)
	assert.Equal(t, 1, env.tick(t, tuesday.Add(8*time.Hour)).NightClosed)
	assert.Equal(t, 0, env.tick(t, tuesday.Add(8*time.Hour)).NightClosed)

	rec := env.record(t, opened.ID)
	assert.Equal(t, 600, rec.Buckets.RegularOvertimeNightDiff)
	assert.Equal(t, 0, rec.LateMinutes)
	assert.Equal(t, "Present (Auto)", rec.Status)
}

func TestAttendanceJobs_LunchBreaks(t *testing.T) {
	env := newJobsEnv(t, "emp-1")
	opened := env.timeIn(t, "emp-1", monday(8, 0))

	assert.Equal(t, 0, env.tick(t, monday(11, 30)).BreaksStamped)
	assert.Equal(t, 1, env.tick(t, monday(12, 0)).BreaksStamped)
	assert.Equal(t, 0, env.tick(t, monday(12, 1)).BreaksStamped)
	assert.Equal(t, 1, env.tick(t, monday(13, 0)).BreaksStamped)

	rec := env.record(t, opened.ID)
	require.NotNil(t, rec.BreakStart)
	require.NotNil(t, rec.BreakEnd)
	assert.Equal(t, 60, rec.BreakDuration)
}

func TestAttendanceJobs_MarkAbsent_PriorWeekday(t *testing.T) {
	env := newJobsEnv(t, "emp-1", "emp-2")
	env.timeIn(t, "emp-1", monday(8, 0))
	tuesday := monday(6, 0).AddDate(0, 0, 1)

	res := env.tick(t, tuesday)
	again := env.tick(t, tuesday)

	assert.Equal(t, 1, res.MarkedAbsent)
	assert.Equal(t, 0, again.MarkedAbsent)

	ctx := context.Background()
	rec, err := env.store.Attendances().GetByEmployeeDateShift(ctx, "emp-2", attendance.DateOf(monday(0, 0)), attendance.ShiftDay)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.True(t, rec.IsAbsent)

	count, err := env.store.Attendances().CountByEmployeeAndDate(ctx, "emp-1", attendance.DateOf(monday(0, 0)))
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestAttendanceJobs_MarkAbsent_MondayLooksAtFriday(t *testing.T) {
	env := newJobsEnv(t, "emp-1")

	res := env.tick(t, monday(6, 0))

	assert.Equal(t, 1, res.MarkedAbsent)
	friday := attendance.DateOf(monday(0, 0)).AddDate(0, 0, -3)
	rec, err := env.store.Attendances().GetByEmployeeDateShift(context.Background(), "emp-1", friday, attendance.ShiftDay)
	require.NoError(t, err)
	assert.NotNil(t, rec)
}

func TestAttendanceJobs_MarkAbsent_SkipsWeekendsAndOtherMinutes(t *testing.T) {
	env := newJobsEnv(t, "emp-1")
	saturday := monday(6, 0).AddDate(0, 0, 5)

	assert.Equal(t, 0, env.tick(t, saturday).MarkedAbsent)
	assert.Equal(t, 0, env.tick(t, monday(6, 1)).MarkedAbsent)
}

func TestAttendanceJobs_ContinuesAfterFailure(t *testing.T) {
	env := newJobsEnv(t, "emp-1", "emp-2")
	failing := env.timeIn(t, "emp-1", monday(8, 0))
	healthy := env.timeIn(t, "emp-2", monday(8, 0))
	env.store.FailLock("emp-1", errors.New("deadlock detected"))

	res := env.tick(t, monday(17, 0))

	assert.Equal(t, 1, res.Failures)
	assert.Equal(t, 1, res.DayClosed)
	assert.True(t, env.record(t, failing.ID).IsOpen())
	assert.False(t, env.record(t, healthy.ID).IsOpen())
}

func TestAttendanceJobs_ClockFailureAbortsTick(t *testing.T) {
	env := newJobsEnv(t, "emp-1")
	env.clock.Fail(errors.New("override unreadable"))

	_, err := env.jobs.Tick(context.Background())

	assert.Error(t, err)
}

func TestPriorWeekday(t *testing.T) {
	mon := attendance.DateOf(monday(0, 0))

	assert.Equal(t, time.Friday, priorWeekday(mon).Weekday())
	assert.Equal(t, time.Monday, priorWeekday(mon.AddDate(0, 0, 1)).Weekday())
	assert.Equal(t, time.Thursday, priorWeekday(mon.AddDate(0, 0, 4)).Weekday())
}
