package calendar

import (
	"strings"
	"time"
)

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// ParseRestDays reads an employee's rest-day assignment. Paired days such as
// "Tuesday-Friday" name both days, never the range between them.
// Unknown tokens are ignored.
func ParseRestDays(spec string) map[time.Weekday]bool {
	days := make(map[time.Weekday]bool)

	tokens := strings.FieldsFunc(strings.ToLower(spec), func(r rune) bool {
		switch r {
		case '-', ',', '/', '&', ';', '|', ' ':
			return true
		}
		return false
	})

	for _, token := range tokens {
		if day, ok := parseWeekday(token); ok {
			days[day] = true
		}
	}

	return days
}

func parseWeekday(token string) (time.Weekday, bool) {
	if day, ok := weekdayNames[token]; ok {
		return day, true
	}
	if len(token) < 3 {
		return 0, false
	}
	for name, day := range weekdayNames {
		if strings.HasPrefix(name, token) {
			return day, true
		}
	}
	return 0, false
}

// IsRestDay reports whether date's weekday is in the rest-day assignment.
func IsRestDay(spec string, date time.Time) bool {
	return ParseRestDays(spec)[date.Weekday()]
}
