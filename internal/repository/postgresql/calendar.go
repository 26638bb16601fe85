package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/calendar"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/database"
)

type holidayRepositoryImpl struct {
	db *database.DB
}

func NewHolidayRepository(db *database.DB) calendar.HolidayRepository {
	return &holidayRepositoryImpl{db: db}
}

// ListCovering implements calendar.HolidayRepository.
func (h *holidayRepositoryImpl) ListCovering(ctx context.Context, date time.Time) ([]calendar.Holiday, error) {
	q := GetQuerier(ctx, h.db)

	query := `
		SELECT h.id, h.name, h.holiday_type, h.start_date, h.end_date,
			   p.id, p.start_date, p.end_date
		FROM holidays h
		LEFT JOIN payroll_periods p ON p.id = h.payroll_period_id
		WHERE h.start_date <= $1 AND h.end_date >= $1
		ORDER BY h.start_date ASC, h.id ASC
	`

	rows, err := q.Query(ctx, query, attendance.DateOf(date))
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays covering %s: %w", date.Format("2006-01-02"), err)
	}
	defer rows.Close()

	var holidays []calendar.Holiday
	for rows.Next() {
		var (
			hol         calendar.Holiday
			holidayType string
			periodID    *string
			periodStart *time.Time
			periodEnd   *time.Time
		)

		if err := rows.Scan(
			&hol.ID, &hol.Name, &holidayType, &hol.StartDate, &hol.EndDate,
			&periodID, &periodStart, &periodEnd,
		); err != nil {
			return nil, fmt.Errorf("failed to scan holiday: %w", err)
		}

		hol.Type = attendance.HolidayType(holidayType)
		if periodID != nil && periodStart != nil && periodEnd != nil {
			hol.Period = &calendar.PayrollPeriod{ID: *periodID, StartDate: *periodStart, EndDate: *periodEnd}
		}
		holidays = append(holidays, hol)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate holidays: %w", err)
	}

	return holidays, nil
}
