package calendar

import (
	"context"
	"time"
)

type HolidayRepository interface {
	// ListCovering returns holidays whose range includes date, each joined with its payroll period
	ListCovering(ctx context.Context, date time.Time) ([]Holiday, error)
}
