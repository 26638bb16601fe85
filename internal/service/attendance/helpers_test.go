package attendance

import (
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
)

var manila = time.FixedZone("Asia/Manila", 8*60*60)

// monday is 2025-03-03, a Monday.
var monday = time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)

func at(date time.Time, hour, minute int) time.Time {
	return attendance.At(date, hour, minute, manila)
}

func nextDay(date time.Time) time.Time {
	return date.AddDate(0, 0, 1)
}

func daySession(index int, in, out time.Time) attendance.Session {
	return BuildSession(attendance.ShiftDay, monday, index, in, out)
}
