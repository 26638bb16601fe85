package attendance

import (
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
)

// Allocation is the allocator's result for one work-day.
type Allocation struct {
	// WorkedMinutes is the sum of every session's adjusted minutes
	WorkedMinutes int
	// RegularMinutes is the day-shift regular portion, capped at 480
	RegularMinutes int
	// CandidateMinutes is day-shift time past 17:00 before filling and flooring
	CandidateMinutes int
	// OvertimeMinutes is the credited overtime, in whole hours
	OvertimeMinutes  int
	UndertimeMinutes int
	Buckets          attendance.Buckets
	Status           string
}

// LateMinutes counts day-shift minutes past 08:00 beyond the grace period.
func LateMinutes(shift attendance.ShiftType, date, timeIn time.Time) int {
	if shift != attendance.ShiftDay {
		return 0
	}
	since := wholeMinutes(timeIn.Sub(OfficialStart(date, shift, timeIn.Location())))
	if since <= lateGraceMinutes {
		return 0
	}
	return since - lateGraceMinutes
}

// UndertimeMinutes counts the minutes between timeOut and the shift's end boundary.
func UndertimeMinutes(shift attendance.ShiftType, date, timeOut time.Time) int {
	return wholeMinutes(ShiftEnd(date, shift, timeOut.Location()).Sub(timeOut))
}

// BuildSession measures one punch pair with the early-arrival and lunch adjustments.
func BuildSession(shift attendance.ShiftType, date time.Time, index int, timeIn, timeOut time.Time) attendance.Session {
	loc := timeIn.Location()
	s := attendance.Session{
		Index:      index,
		TimeIn:     timeIn,
		TimeOut:    timeOut,
		RawMinutes: wholeMinutes(timeOut.Sub(timeIn)),
	}

	start := maxTime(timeIn, OfficialStart(date, shift, loc))
	if !timeOut.After(start) {
		return s
	}
	s.AdjustedMinutes = wholeMinutes(timeOut.Sub(start))

	if shift == attendance.ShiftDay {
		lunchStart := attendance.At(date, lunchStartHour, 0, loc)
		lunchEnd := attendance.At(date, lunchEndHour, 0, loc)
		if !timeOut.Before(lunchEnd) {
			overlap := wholeMinutes(minTime(timeOut, lunchEnd).Sub(maxTime(start, lunchStart)))
			s.AdjustedMinutes -= overlap
		}
	}
	if s.AdjustedMinutes < 0 {
		s.AdjustedMinutes = 0
	}

	return s
}

// splitDaySession divides a day-shift session's adjusted minutes into the part
// worked up to 17:00 and the overtime candidate worked after it.
func splitDaySession(date time.Time, s attendance.Session) (regular, candidate int) {
	end := attendance.At(date, dayShiftEndHour, 0, s.TimeOut.Location())
	if s.TimeOut.After(end) {
		candidate = min(s.AdjustedMinutes, wholeMinutes(s.TimeOut.Sub(end)))
	}
	return s.AdjustedMinutes - candidate, candidate
}

// Allocate re-runs the split over every closed session of the work-day.
func Allocate(class attendance.DayClass, date time.Time, sessions []attendance.Session) Allocation {
	var a Allocation
	if len(sessions) == 0 {
		a.Status = attendance.StatusPresent
		return a
	}

	for _, s := range sessions {
		a.WorkedMinutes += s.AdjustedMinutes
	}
	last := sessions[len(sessions)-1]
	a.UndertimeMinutes = UndertimeMinutes(class.Shift, date, last.TimeOut)

	if class.Shift == attendance.ShiftNight {
		a.Buckets = nightBuckets(class, a.WorkedMinutes)
		a.Status = statusFor(class, false)
		return a
	}

	regular, candidate := 0, 0
	for _, s := range sessions {
		r, c := splitDaySession(date, s)
		regular += r
		candidate += c
	}
	a.CandidateMinutes = candidate

	if regular < regularDayMinutes && candidate > 0 {
		fill := min(regularDayMinutes-regular, candidate)
		regular += fill
		candidate -= fill
	}
	a.RegularMinutes = min(regular, regularDayMinutes)
	a.OvertimeMinutes = (candidate / overtimeUnit) * overtimeUnit

	a.Buckets = dayBuckets(class, a.RegularMinutes, a.OvertimeMinutes)
	a.Status = statusFor(class, a.OvertimeMinutes > 0)
	return a
}

func dayBuckets(class attendance.DayClass, total, overtime int) attendance.Buckets {
	var b attendance.Buckets
	switch {
	case !class.RestDay && class.Holiday == attendance.HolidayNone:
		b.RegularOvertime = overtime
	case !class.RestDay && class.Holiday == attendance.HolidayRegular:
		b.RegularHoliday = total
		b.RegularHolidayOvertime = overtime
	case !class.RestDay && class.Holiday == attendance.HolidaySpecial:
		b.SpecialHoliday = total
		b.SpecialHolidayOvertime = overtime
	case class.Holiday == attendance.HolidayNone:
		b.RestDay = total
		b.RestDayOvertime = overtime
	case class.Holiday == attendance.HolidayRegular:
		b.RegularHolidayRestOvertime = total
		b.RegularHolidayRestOvertimePlusOT = overtime
	case class.Holiday == attendance.HolidaySpecial:
		b.SpecialHolidayRestOvertime = total
		b.SpecialHolidayRestOvertimePlusOT = overtime
	}
	return b
}

func nightBuckets(class attendance.DayClass, worked int) attendance.Buckets {
	var b attendance.Buckets
	switch {
	case !class.RestDay && class.Holiday == attendance.HolidayNone:
		b.RegularOvertimeNightDiff = worked
	case !class.RestDay && class.Holiday == attendance.HolidayRegular:
		b.RegularHolidayNightDiff = worked
	case !class.RestDay && class.Holiday == attendance.HolidaySpecial:
		b.SpecialHolidayNightDiff = worked
	case class.Holiday == attendance.HolidaySpecial:
		b.SpecialHolidayRestOvertimeNightDiff = worked
	default:
		// Rest day, plain or on a regular holiday.
		b.RestDayNightDiff = worked
	}
	return b
}

func statusFor(class attendance.DayClass, overtime bool) string {
	switch {
	case class.IsHoliday() && overtime:
		return string(class.Holiday) + attendance.StatusHolidayLabel + attendance.StatusPlusOT
	case class.IsHoliday():
		return string(class.Holiday) + attendance.StatusHolidayLabel
	case overtime:
		return attendance.StatusOvertime
	}
	return attendance.StatusPresent
}

// apply writes an allocation onto the record.
func (a Allocation) apply(rec *attendance.AttendanceRecord) {
	rec.AccumulatedMinutes = a.WorkedMinutes
	rec.RegularMinutes = a.RegularMinutes
	rec.UndertimeMinutes = a.UndertimeMinutes
	rec.LateUndertimeMinutes = rec.LateMinutes + a.UndertimeMinutes
	rec.Buckets = a.Buckets
	rec.Status = a.Status
}
