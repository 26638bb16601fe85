package setting

import "time"

// ClockOverride is the process-wide "test mode" clock.
type ClockOverride struct {
	Enabled   bool
	Date      time.Time // civil date
	Time      string    // HH:MM:SS
	UpdatedAt time.Time
}
