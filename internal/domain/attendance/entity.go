package attendance

import (
	"time"
)

type ShiftType string

const (
	ShiftDay   ShiftType = "day"
	ShiftNight ShiftType = "night"
)

var ShiftTypeValues = []string{
	string(ShiftDay),
	string(ShiftNight),
}

type HolidayType string

const (
	HolidayNone    HolidayType = ""
	HolidayRegular HolidayType = "Regular"
	HolidaySpecial HolidayType = "Special"
)

// Status labels written to AttendanceRecord.Status
const (
	StatusPresent      = "Present"
	StatusAbsent       = "Absent"
	StatusOvertime     = "Overtime"
	StatusAutoSuffix   = " (Auto)"
	StatusHolidayLabel = " Holiday"
	StatusPlusOT       = " + OT"
)

// DayClass is the classification of one logical work-day, handed to the allocator as-is.
type DayClass struct {
	Shift   ShiftType
	Holiday HolidayType
	RestDay bool
}

func (c DayClass) IsHoliday() bool {
	return c.Holiday != HolidayNone
}

// Session is one time-in/time-out punch pair inside a work-day.
type Session struct {
	Index           int       `json:"index"`
	TimeIn          time.Time `json:"time_in"`
	TimeOut         time.Time `json:"time_out"`
	RawMinutes      int       `json:"raw_minutes"`
	AdjustedMinutes int       `json:"adjusted_minutes"`
}

// Buckets holds the payable minute columns consumed verbatim by payroll.
type Buckets struct {
	RegularOvertime                     int `json:"regular_overtime"`
	RegularHoliday                      int `json:"regular_holiday"`
	RegularHolidayOvertime              int `json:"regular_holiday_overtime"`
	SpecialHoliday                      int `json:"special_holiday"`
	SpecialHolidayOvertime              int `json:"special_holiday_overtime"`
	RestDay                             int `json:"rest_day"`
	RestDayOvertime                     int `json:"rest_day_overtime"`
	RegularHolidayRestOvertime          int `json:"regular_holiday_rest_overtime"`
	RegularHolidayRestOvertimePlusOT    int `json:"regular_holiday_rest_overtime_plus_ot"`
	SpecialHolidayRestOvertime          int `json:"special_holiday_rest_overtime"`
	SpecialHolidayRestOvertimePlusOT    int `json:"special_holiday_rest_overtime_plus_ot"`
	RegularOvertimeNightDiff            int `json:"regular_overtime_night_differential"`
	RegularHolidayNightDiff             int `json:"regular_holiday_night_differential"`
	SpecialHolidayNightDiff             int `json:"special_holiday_night_differential"`
	RestDayNightDiff                    int `json:"rest_day_night_differential"`
	SpecialHolidayRestOvertimeNightDiff int `json:"special_holiday_rest_overtime_night_differential"`
}

// Total sums every bucket.
func (b Buckets) Total() int {
	return b.RegularOvertime + b.RegularHoliday + b.RegularHolidayOvertime +
		b.SpecialHoliday + b.SpecialHolidayOvertime + b.RestDay + b.RestDayOvertime +
		b.RegularHolidayRestOvertime + b.RegularHolidayRestOvertimePlusOT +
		b.SpecialHolidayRestOvertime + b.SpecialHolidayRestOvertimePlusOT +
		b.RegularOvertimeNightDiff + b.RegularHolidayNightDiff + b.SpecialHolidayNightDiff +
		b.RestDayNightDiff + b.SpecialHolidayRestOvertimeNightDiff
}

// OvertimeTotal sums only the day-shift overtime buckets.
func (b Buckets) OvertimeTotal() int {
	return b.RegularOvertime + b.RegularHolidayOvertime + b.SpecialHolidayOvertime +
		b.RestDayOvertime + b.RegularHolidayRestOvertimePlusOT + b.SpecialHolidayRestOvertimePlusOT
}

// Add returns the column-wise sum of b and o.
func (b Buckets) Add(o Buckets) Buckets {
	return Buckets{
		RegularOvertime:                     b.RegularOvertime + o.RegularOvertime,
		RegularHoliday:                      b.RegularHoliday + o.RegularHoliday,
		RegularHolidayOvertime:              b.RegularHolidayOvertime + o.RegularHolidayOvertime,
		SpecialHoliday:                      b.SpecialHoliday + o.SpecialHoliday,
		SpecialHolidayOvertime:              b.SpecialHolidayOvertime + o.SpecialHolidayOvertime,
		RestDay:                             b.RestDay + o.RestDay,
		RestDayOvertime:                     b.RestDayOvertime + o.RestDayOvertime,
		RegularHolidayRestOvertime:          b.RegularHolidayRestOvertime + o.RegularHolidayRestOvertime,
		RegularHolidayRestOvertimePlusOT:    b.RegularHolidayRestOvertimePlusOT + o.RegularHolidayRestOvertimePlusOT,
		SpecialHolidayRestOvertime:          b.SpecialHolidayRestOvertime + o.SpecialHolidayRestOvertime,
		SpecialHolidayRestOvertimePlusOT:    b.SpecialHolidayRestOvertimePlusOT + o.SpecialHolidayRestOvertimePlusOT,
		RegularOvertimeNightDiff:            b.RegularOvertimeNightDiff + o.RegularOvertimeNightDiff,
		RegularHolidayNightDiff:             b.RegularHolidayNightDiff + o.RegularHolidayNightDiff,
		SpecialHolidayNightDiff:             b.SpecialHolidayNightDiff + o.SpecialHolidayNightDiff,
		RestDayNightDiff:                    b.RestDayNightDiff + o.RestDayNightDiff,
		SpecialHolidayRestOvertimeNightDiff: b.SpecialHolidayRestOvertimeNightDiff + o.SpecialHolidayRestOvertimeNightDiff,
	}
}

// AttendanceRecord is one row per (employee, work date, shift type).
type AttendanceRecord struct {
	ID                   string
	EmployeeID           string
	Date                 time.Time // civil date at UTC midnight
	ShiftType            ShiftType
	TimeIn               *time.Time
	LastTimeIn           *time.Time
	TimeOut              *time.Time
	SessionIndex         int
	Sessions             []Session
	AccumulatedMinutes   int
	LateMinutes          int
	UndertimeMinutes     int
	LateUndertimeMinutes int
	RegularMinutes       int
	IsHoliday            bool
	HolidayType          *HolidayType
	IsRestDay            bool
	IsAbsent             bool
	Status               string
	AutoTimeOut          *time.Time
	BreakStart           *time.Time
	BreakEnd             *time.Time
	BreakDuration        int
	Buckets              Buckets
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// IsOpen reports whether the record has a session with a time-in and no time-out.
func (r AttendanceRecord) IsOpen() bool {
	return r.LastTimeIn != nil && r.TimeOut == nil
}

// Class rebuilds the day classification stamped on the record.
func (r AttendanceRecord) Class() DayClass {
	c := DayClass{Shift: r.ShiftType, RestDay: r.IsRestDay}
	if r.IsHoliday && r.HolidayType != nil {
		c.Holiday = *r.HolidayType
	}
	return c
}

// DateOf returns the civil date of t as UTC midnight.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// At composes the civil date d with a wall-clock hour and minute in loc.
func At(d time.Time, hour, minute int, loc *time.Location) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), hour, minute, 0, 0, loc)
}
