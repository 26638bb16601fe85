package calendar

import (
	"context"
	"time"
)

// Resolver answers the holiday and rest-day questions for the attendance engine
type Resolver interface {
	HolidayOn(ctx context.Context, date time.Time) (HolidayInfo, error)
	IsRestDay(ctx context.Context, employeeID string, date time.Time) (bool, error)
}
