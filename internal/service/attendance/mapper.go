package attendance

import (
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
	"github.com/shopspring/decimal"
)

const timestampLayout = "2006-01-02 15:04:05"

// timePtrToString safely converts a *time.Time to a string.
func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	format := t.Format(timestampLayout)
	return &format
}

// mapAttendanceToResponse converts an AttendanceRecord entity to AttendanceResponse
func mapAttendanceToResponse(rec attendance.AttendanceRecord) attendance.AttendanceResponse {
	sessions := make([]attendance.SessionResponse, 0, len(rec.Sessions))
	for _, s := range rec.Sessions {
		sessions = append(sessions, attendance.SessionResponse{
			Index:           s.Index,
			TimeIn:          s.TimeIn.Format(timestampLayout),
			TimeOut:         s.TimeOut.Format(timestampLayout),
			RawMinutes:      s.RawMinutes,
			AdjustedMinutes: s.AdjustedMinutes,
		})
	}

	var holidayType *string
	if rec.IsHoliday && rec.HolidayType != nil {
		v := string(*rec.HolidayType)
		holidayType = &v
	}

	return attendance.AttendanceResponse{
		ID:                   rec.ID,
		EmployeeID:           rec.EmployeeID,
		Date:                 rec.Date.Format("2006-01-02"),
		ShiftType:            string(rec.ShiftType),
		TimeIn:               timePtrToString(rec.TimeIn),
		LastTimeIn:           timePtrToString(rec.LastTimeIn),
		TimeOut:              timePtrToString(rec.TimeOut),
		SessionIndex:         rec.SessionIndex,
		Sessions:             sessions,
		AccumulatedMinutes:   rec.AccumulatedMinutes,
		LateMinutes:          rec.LateMinutes,
		UndertimeMinutes:     rec.UndertimeMinutes,
		LateUndertimeMinutes: rec.LateUndertimeMinutes,
		RegularMinutes:       rec.RegularMinutes,
		IsHoliday:            rec.IsHoliday,
		HolidayType:          holidayType,
		IsRestDay:            rec.IsRestDay,
		IsAbsent:             rec.IsAbsent,
		Status:               rec.Status,
		AutoTimeOut:          timePtrToString(rec.AutoTimeOut),
		Buckets:              rec.Buckets,
	}
}

func mapBreakStatus(rec attendance.AttendanceRecord) attendance.BreakStatusResponse {
	return attendance.BreakStatusResponse{
		EmployeeID:           rec.EmployeeID,
		AttendanceID:         rec.ID,
		OnBreak:              OnBreak(rec),
		BreakStart:           timePtrToString(rec.BreakStart),
		BreakEnd:             timePtrToString(rec.BreakEnd),
		BreakDurationMinutes: rec.BreakDuration,
	}
}

// bucketColumns lists every payable bucket under its payroll column name.
func bucketColumns(b attendance.Buckets) map[string]int {
	return map[string]int{
		"regular_overtime":                                 b.RegularOvertime,
		"regular_holiday":                                  b.RegularHoliday,
		"regular_holiday_overtime":                         b.RegularHolidayOvertime,
		"special_holiday":                                  b.SpecialHoliday,
		"special_holiday_overtime":                         b.SpecialHolidayOvertime,
		"rest_day":                                         b.RestDay,
		"rest_day_overtime":                                b.RestDayOvertime,
		"regular_holiday_rest_overtime":                    b.RegularHolidayRestOvertime,
		"regular_holiday_rest_overtime_plus_ot":            b.RegularHolidayRestOvertimePlusOT,
		"special_holiday_rest_overtime":                    b.SpecialHolidayRestOvertime,
		"special_holiday_rest_overtime_plus_ot":            b.SpecialHolidayRestOvertimePlusOT,
		"regular_overtime_night_differential":              b.RegularOvertimeNightDiff,
		"regular_holiday_night_differential":               b.RegularHolidayNightDiff,
		"special_holiday_night_differential":               b.SpecialHolidayNightDiff,
		"rest_day_night_differential":                      b.RestDayNightDiff,
		"special_holiday_rest_overtime_night_differential": b.SpecialHolidayRestOvertimeNightDiff,
	}
}

var minutesPerHour = decimal.NewFromInt(60)

// minutesToHours converts whole minutes to hours rounded to two places.
func minutesToHours(minutes int) decimal.Decimal {
	return decimal.NewFromInt(int64(minutes)).DivRound(minutesPerHour, 2)
}

func summarize(employeeID string, filter attendance.RecordFilter, records []attendance.AttendanceRecord) attendance.SummaryResponse {
	resp := attendance.SummaryResponse{EmployeeID: employeeID}
	if filter.From != nil {
		resp.StartDate = filter.From.Format("2006-01-02")
	}
	if filter.To != nil {
		resp.EndDate = filter.To.Format("2006-01-02")
	}

	for _, rec := range records {
		switch {
		case rec.IsAbsent:
			resp.DaysAbsent++
		case len(rec.Sessions) > 0:
			resp.DaysPresent++
		}
		resp.RegularMinutes += rec.RegularMinutes
		resp.LateMinutes += rec.LateMinutes
		resp.UndertimeMinutes += rec.UndertimeMinutes
		resp.Buckets = resp.Buckets.Add(rec.Buckets)
	}

	resp.BucketHours = make(map[string]decimal.Decimal)
	for name, minutes := range bucketColumns(resp.Buckets) {
		resp.BucketHours[name] = minutesToHours(minutes)
	}

	// Plain regular minutes are only unbucketed on ordinary working days.
	payable := resp.Buckets.Total()
	for _, rec := range records {
		if !rec.IsHoliday && !rec.IsRestDay && rec.ShiftType == attendance.ShiftDay {
			payable += rec.RegularMinutes
		}
	}
	resp.TotalPayableHours = minutesToHours(payable)

	return resp
}
