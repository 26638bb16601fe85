package calendar

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/calendar"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-engine/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	holidayDate = time.Date(2025, 4, 9, 0, 0, 0, 0, time.UTC)
	aprilPeriod = &calendar.PayrollPeriod{
		ID:        "pp-april-1",
		StartDate: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC),
	}
)

func TestResolver_HolidayOn(t *testing.T) {
	ctx := context.Background()

	t.Run("no holiday", func(t *testing.T) {
		store := memory.NewStore()
		r := NewResolver(store.Holidays(), store.Employees())

		info, err := r.HolidayOn(ctx, holidayDate)
		require.NoError(t, err)
		assert.False(t, info.IsHoliday)
	})

	t.Run("regular wins over special", func(t *testing.T) {
		store := memory.NewStore()
		store.Holidays().Put(calendar.Holiday{ID: "h1", Name: "Special", Type: attendance.HolidaySpecial, StartDate: holidayDate, EndDate: holidayDate, Period: aprilPeriod})
		store.Holidays().Put(calendar.Holiday{ID: "h2", Name: "Araw ng Kagitingan", Type: attendance.HolidayRegular, StartDate: holidayDate, EndDate: holidayDate, Period: aprilPeriod})
		r := NewResolver(store.Holidays(), store.Employees())

		info, err := r.HolidayOn(ctx, holidayDate)
		require.NoError(t, err)
		assert.True(t, info.IsHoliday)
		assert.Equal(t, attendance.HolidayRegular, info.Type)
		assert.Equal(t, "Araw ng Kagitingan", info.Name)
	})

	t.Run("multi-day holiday covers inner dates", func(t *testing.T) {
		store := memory.NewStore()
		store.Holidays().Put(calendar.Holiday{ID: "h1", Name: "Holy Week", Type: attendance.HolidaySpecial, StartDate: holidayDate, EndDate: holidayDate.AddDate(0, 0, 3), Period: aprilPeriod})
		r := NewResolver(store.Holidays(), store.Employees())

		info, err := r.HolidayOn(ctx, holidayDate.AddDate(0, 0, 2))
		require.NoError(t, err)
		assert.Equal(t, attendance.HolidaySpecial, info.Type)
	})

	t.Run("holiday without payroll period ignored", func(t *testing.T) {
		store := memory.NewStore()
		store.Holidays().Put(calendar.Holiday{ID: "h1", Type: attendance.HolidayRegular, StartDate: holidayDate, EndDate: holidayDate})
		r := NewResolver(store.Holidays(), store.Employees())

		info, err := r.HolidayOn(ctx, holidayDate)
		require.NoError(t, err)
		assert.False(t, info.IsHoliday)
	})
}

func TestResolver_IsRestDay(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	store.Employees().Put(employee.Employee{ID: "emp-1", RestDay: "Tuesday-Friday"})
	r := NewResolver(store.Holidays(), store.Employees())

	// 2025-04-08 is a Tuesday
	rest, err := r.IsRestDay(ctx, "emp-1", time.Date(2025, 4, 8, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, rest)

	rest, err = r.IsRestDay(ctx, "emp-1", holidayDate)
	require.NoError(t, err)
	assert.False(t, rest)

	_, err = r.IsRestDay(ctx, "ghost", holidayDate)
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}
