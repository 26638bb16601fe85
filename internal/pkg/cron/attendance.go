package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/clock"
)

// Tick gates, in wall-clock hours of the engine's zone.
const (
	lunchFromHour     = 11
	lunchUntilHour    = 14
	dayCloseFromHour  = 17
	nightCloseHour    = 8
	absenceMarkerHour = 6
)

type AttendanceJobs struct {
	autoTimeout    attendance.AutoTimeoutService
	attendanceRepo attendance.AttendanceRepository
	employeeRepo   employee.EmployeeRepository
	clock          clock.Clock
}

// TickResult counts what one tick changed.
type TickResult struct {
	ProcessedAt   string `json:"processed_at"`
	BreaksStamped int    `json:"breaks_stamped"`
	DayClosed     int    `json:"day_closed"`
	NightClosed   int    `json:"night_closed"`
	MarkedAbsent  int    `json:"marked_absent"`
	Failures      int    `json:"failures"`
}

func NewAttendanceJobs(
	autoTimeout attendance.AutoTimeoutService,
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	clk clock.Clock,
) *AttendanceJobs {
	return &AttendanceJobs{
		autoTimeout:    autoTimeout,
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
		clock:          clk,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler, spec string) error {
	return scheduler.AddJob("attendance_tick", spec, func(ctx context.Context) error {
		_, err := j.Tick(ctx)
		return err
	})
}

// Tick runs one scheduler pass. A failure on one record or employee is logged
// and the pass moves on; only a clock failure aborts the tick.
func (j *AttendanceJobs) Tick(ctx context.Context) (TickResult, error) {
	now, err := j.clock.Now(ctx)
	if err != nil {
		return TickResult{}, fmt.Errorf("failed to get current time: %w", err)
	}

	res := TickResult{ProcessedAt: now.Format("2006-01-02 15:04:05")}
	hour := now.Hour()

	if hour >= lunchFromHour && hour < lunchUntilHour {
		j.manageLunchBreaks(ctx, now, &res)
	}
	if hour >= dayCloseFromHour {
		j.closeDayShifts(ctx, now, &res)
	}
	if hour == nightCloseHour && now.Minute() == 0 {
		j.closeNightShifts(ctx, now, &res)
	}
	if hour == absenceMarkerHour && now.Minute() == 0 && isWeekday(now.Weekday()) {
		j.markAbsentEmployees(ctx, now, &res)
	}

	if res.Failures > 0 {
		slog.Warn("Cron: Attendance tick finished with failures", "failures", res.Failures, "now", res.ProcessedAt)
	}
	return res, nil
}

func (j *AttendanceJobs) manageLunchBreaks(ctx context.Context, now time.Time, res *TickResult) {
	open, err := j.attendanceRepo.ListOpenByShiftAndDate(ctx, attendance.ShiftDay, attendance.DateOf(now))
	if err != nil {
		slog.Error("Cron: Failed to list open day-shift attendances", "error", err)
		res.Failures++
		return
	}

	for _, rec := range open {
		changed, err := j.autoTimeout.StampLunchBreak(ctx, rec.EmployeeID, rec.ID, now)
		if err != nil {
			slog.Error("Cron: Failed to stamp lunch break",
				"attendance_id", rec.ID,
				"employee_id", rec.EmployeeID,
				"error", err)
			res.Failures++
			continue
		}
		if changed {
			res.BreaksStamped++
		}
	}
}

func (j *AttendanceJobs) closeDayShifts(ctx context.Context, now time.Time, res *TickResult) {
	open, err := j.attendanceRepo.ListOpenByShiftAndDate(ctx, attendance.ShiftDay, attendance.DateOf(now))
	if err != nil {
		slog.Error("Cron: Failed to list open day-shift attendances", "error", err)
		res.Failures++
		return
	}

	minute := now.Format("15:04")
	closeAt := now.Truncate(time.Minute)
	for _, rec := range open {
		if rec.AutoTimeOut == nil || rec.AutoTimeOut.In(now.Location()).Format("15:04") != minute {
			continue
		}

		closed, err := j.autoTimeout.AutoTimeOut(ctx, rec.EmployeeID, rec.ID, closeAt)
		if err != nil {
			slog.Error("Cron: Failed to auto time-out day shift",
				"attendance_id", rec.ID,
				"employee_id", rec.EmployeeID,
				"error", err)
			res.Failures++
			continue
		}
		if closed {
			res.DayClosed++
		}
	}

	if res.DayClosed > 0 {
		slog.Info("Cron: Auto timed-out day shifts", "count", res.DayClosed, "at", minute)
	}
}

func (j *AttendanceJobs) closeNightShifts(ctx context.Context, now time.Time, res *TickResult) {
	yesterday := attendance.DateOf(now).AddDate(0, 0, -1)
	open, err := j.attendanceRepo.ListOpenByShiftAndDate(ctx, attendance.ShiftNight, yesterday)
	if err != nil {
		slog.Error("Cron: Failed to list open night-shift attendances", "error", err)
		res.Failures++
		return
	}

	closeAt := now.Truncate(time.Minute)
	for _, rec := range open {
		closed, err := j.autoTimeout.AutoTimeOut(ctx, rec.EmployeeID, rec.ID, closeAt)
		if err != nil {
			slog.Error("Cron: Failed to auto time-out night shift",
				"attendance_id", rec.ID,
				"employee_id", rec.EmployeeID,
				"error", err)
			res.Failures++
			continue
		}
		if closed {
			res.NightClosed++
		}
	}

	slog.Info("Cron: Auto timed-out night shifts", "count", res.NightClosed, "date", yesterday.Format("2006-01-02"))
}

func (j *AttendanceJobs) markAbsentEmployees(ctx context.Context, now time.Time, res *TickResult) {
	date := priorWeekday(attendance.DateOf(now))

	employees, err := j.employeeRepo.GetActive(ctx)
	if err != nil {
		slog.Error("Cron: Failed to get active employees", "error", err)
		res.Failures++
		return
	}

	for _, emp := range employees {
		created, err := j.autoTimeout.MarkAbsent(ctx, emp.ID, date)
		if err != nil {
			slog.Error("Cron: Failed to mark employee absent",
				"employee_id", emp.ID,
				"date", date.Format("2006-01-02"),
				"error", err)
			res.Failures++
			continue
		}
		if created {
			res.MarkedAbsent++
		}
	}

	slog.Info("Cron: Marked absent employees", "count", res.MarkedAbsent, "date", date.Format("2006-01-02"))
}

func isWeekday(d time.Weekday) bool {
	return d != time.Saturday && d != time.Sunday
}

// priorWeekday steps back over the weekend: Monday yields the previous Friday.
func priorWeekday(date time.Time) time.Time {
	if date.Weekday() == time.Monday {
		return date.AddDate(0, 0, -3)
	}
	return date.AddDate(0, 0, -1)
}
