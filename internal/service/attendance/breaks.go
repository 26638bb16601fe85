package attendance

import (
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
)

const lunchBreakMinutes = 60

// ApplyLunchBreak stamps the automatic lunch break on an open day-shift record.
// It reports whether any field changed.
func ApplyLunchBreak(rec *attendance.AttendanceRecord, now time.Time) bool {
	if rec.ShiftType != attendance.ShiftDay || !rec.IsOpen() {
		return false
	}
	if !attendance.DateOf(now).Equal(rec.Date) {
		return false
	}

	loc := now.Location()
	lunchStart := attendance.At(rec.Date, lunchStartHour, 0, loc)
	lunchEnd := attendance.At(rec.Date, lunchEndHour, 0, loc)
	changed := false

	switch {
	case now.Before(lunchStart):
		return false
	case now.Before(lunchEnd):
		if rec.BreakStart == nil {
			rec.BreakStart = &lunchStart
			changed = true
		}
	default:
		if rec.BreakEnd != nil || !rec.LastTimeIn.Before(lunchEnd) {
			return false
		}
		if rec.BreakStart == nil {
			rec.BreakStart = &lunchStart
		}
		rec.BreakEnd = &lunchEnd
		rec.BreakDuration = lunchBreakMinutes
		changed = true
	}

	return changed
}

// OnBreak reports an open break: started and not yet ended.
func OnBreak(rec attendance.AttendanceRecord) bool {
	return rec.BreakStart != nil && rec.BreakEnd == nil
}
