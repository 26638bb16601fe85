package calendar

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/calendar"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/employee"
)

type ResolverImpl struct {
	calendar.HolidayRepository
	employee.EmployeeRepository
}

// HolidayOn implements calendar.Resolver.
// A Regular holiday wins over a Special one on the same date.
func (r *ResolverImpl) HolidayOn(ctx context.Context, date time.Time) (calendar.HolidayInfo, error) {
	holidays, err := r.HolidayRepository.ListCovering(ctx, date)
	if err != nil {
		return calendar.HolidayInfo{}, fmt.Errorf("failed to list holidays: %w", err)
	}

	var info calendar.HolidayInfo
	for _, h := range holidays {
		if !h.Covers(date) || !h.InPeriod() {
			continue
		}
		switch h.Type {
		case attendance.HolidayRegular:
			return calendar.HolidayInfo{IsHoliday: true, Type: h.Type, Name: h.Name}, nil
		case attendance.HolidaySpecial:
			if !info.IsHoliday {
				info = calendar.HolidayInfo{IsHoliday: true, Type: h.Type, Name: h.Name}
			}
		}
	}

	return info, nil
}

// IsRestDay implements calendar.Resolver.
func (r *ResolverImpl) IsRestDay(ctx context.Context, employeeID string, date time.Time) (bool, error) {
	emp, err := r.EmployeeRepository.GetByID(ctx, employeeID)
	if err != nil {
		return false, fmt.Errorf("failed to get employee: %w", err)
	}

	return IsRestDay(emp.RestDay, date), nil
}

func NewResolver(holidayRepo calendar.HolidayRepository, employeeRepo employee.EmployeeRepository) calendar.Resolver {
	return &ResolverImpl{
		HolidayRepository:  holidayRepo,
		EmployeeRepository: employeeRepo,
	}
}
