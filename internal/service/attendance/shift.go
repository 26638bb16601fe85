package attendance

import (
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
)

// Shift boundaries, in wall-clock hours of the engine's zone.
const (
	dayShiftFromHour   = 6
	nightShiftFromHour = 18

	dayOfficialStartHour   = 8
	nightOfficialStartHour = 22

	dayShiftEndHour   = 17
	nightShiftEndHour = 6

	// Last hour (exclusive) at which yesterday's night shift is still the current one.
	nightCarryUntilHour = 8

	lunchStartHour = 12
	lunchEndHour   = 13

	lateGraceMinutes  = 10
	regularDayMinutes = 480
	overtimeUnit      = 60
)

// Classify maps a punch instant to its shift by clock hour.
func Classify(t time.Time) attendance.ShiftType {
	h := t.Hour()
	if h >= dayShiftFromHour && h < nightShiftFromHour {
		return attendance.ShiftDay
	}
	return attendance.ShiftNight
}

// WorkDate is the logical work-day of a punch. Night punches after midnight
// belong to the previous calendar date.
func WorkDate(t time.Time, shift attendance.ShiftType) time.Time {
	d := attendance.DateOf(t)
	if shift == attendance.ShiftNight && t.Hour() < dayShiftFromHour {
		return d.AddDate(0, 0, -1)
	}
	return d
}

// TimeInAllowed reports whether a first time-in may happen at t.
func TimeInAllowed(t time.Time, shift attendance.ShiftType) bool {
	h := t.Hour()
	switch shift {
	case attendance.ShiftDay:
		return h >= dayShiftFromHour && h < dayShiftEndHour
	case attendance.ShiftNight:
		return h >= nightShiftFromHour || h < dayShiftFromHour
	}
	return false
}

// ReentryAllowed reports whether a closed record may be reopened at t.
func ReentryAllowed(t time.Time, shift attendance.ShiftType) bool {
	h := t.Hour()
	switch shift {
	case attendance.ShiftDay:
		return h >= dayOfficialStartHour && h < dayShiftEndHour
	case attendance.ShiftNight:
		return h >= nightShiftFromHour || h < dayShiftFromHour
	}
	return false
}

// OfficialStart is the instant billable time begins on the work date.
func OfficialStart(date time.Time, shift attendance.ShiftType, loc *time.Location) time.Time {
	if shift == attendance.ShiftNight {
		return attendance.At(date, nightOfficialStartHour, 0, loc)
	}
	return attendance.At(date, dayOfficialStartHour, 0, loc)
}

// ShiftEnd is the default auto-time-out of a work date.
func ShiftEnd(date time.Time, shift attendance.ShiftType, loc *time.Location) time.Time {
	if shift == attendance.ShiftNight {
		return attendance.At(date.AddDate(0, 0, 1), nightShiftEndHour, 0, loc)
	}
	return attendance.At(date, dayShiftEndHour, 0, loc)
}

// IsCurrent reports whether rec is the employee's live work-day at now:
// today's record of either shift, or yesterday's night shift before 08:00.
func IsCurrent(rec attendance.AttendanceRecord, now time.Time) bool {
	today := attendance.DateOf(now)
	if rec.Date.Equal(today) {
		return true
	}
	return rec.ShiftType == attendance.ShiftNight &&
		rec.Date.Equal(today.AddDate(0, 0, -1)) &&
		now.Hour() < nightCarryUntilHour
}

// wholeMinutes truncates d to minutes, never negative.
func wholeMinutes(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(d / time.Minute)
}

func maxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
