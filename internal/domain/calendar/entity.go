package calendar

import (
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
)

type PayrollPeriod struct {
	ID        string
	StartDate time.Time
	EndDate   time.Time
}

// Holiday only counts when its range intersects the payroll period that references it.
type Holiday struct {
	ID        string
	Name      string
	Type      attendance.HolidayType
	StartDate time.Time
	EndDate   time.Time
	Period    *PayrollPeriod
}

// Covers reports whether the holiday range includes date (inclusive).
func (h Holiday) Covers(date time.Time) bool {
	d := attendance.DateOf(date)
	return !d.Before(attendance.DateOf(h.StartDate)) && !d.After(attendance.DateOf(h.EndDate))
}

// InPeriod reports whether the holiday range intersects its payroll period.
func (h Holiday) InPeriod() bool {
	if h.Period == nil {
		return false
	}
	return !attendance.DateOf(h.StartDate).After(attendance.DateOf(h.Period.EndDate)) &&
		!attendance.DateOf(h.EndDate).Before(attendance.DateOf(h.Period.StartDate))
}

// HolidayInfo is the resolver's answer for one date.
type HolidayInfo struct {
	IsHoliday bool
	Type      attendance.HolidayType
	Name      string
}
