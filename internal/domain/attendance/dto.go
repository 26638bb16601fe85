package attendance

import (
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========================================
// PUNCH DTOs
// ========================================

type PunchSource string

const (
	SourceWeb    PunchSource = "web"
	SourceDevice PunchSource = "device"
)

type TimeInRequest struct {
	EmployeeID string      `json:"employee_id"`
	Source     PunchSource `json:"-"`
}

func (r *TimeInRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}
	if r.Source == "" {
		r.Source = SourceWeb
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type TimeOutRequest struct {
	EmployeeID string `json:"employee_id"`
}

func (r *TimeOutRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// DevicePunchRequest is sent by biometric terminals; the engine decides between time-in and time-out.
type DevicePunchRequest struct {
	EmployeeID string `json:"employee_id"`
}

func (r *DevicePunchRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type PunchAction string

const (
	ActionTimeIn  PunchAction = "time_in"
	ActionTimeOut PunchAction = "time_out"
)

type DevicePunchResponse struct {
	Action     PunchAction        `json:"action"`
	Attendance AttendanceResponse `json:"attendance"`
}

// ========================================
// RECORD DTOs
// ========================================

type SessionResponse struct {
	Index           int    `json:"index"`
	TimeIn          string `json:"time_in"`
	TimeOut         string `json:"time_out"`
	RawMinutes      int    `json:"raw_minutes"`
	AdjustedMinutes int    `json:"adjusted_minutes"`
}

type AttendanceResponse struct {
	ID                   string            `json:"id"`
	EmployeeID           string            `json:"employee_id"`
	Date                 string            `json:"date"`
	ShiftType            string            `json:"shift_type"`
	TimeIn               *string           `json:"time_in,omitempty"`
	LastTimeIn           *string           `json:"last_time_in,omitempty"`
	TimeOut              *string           `json:"time_out,omitempty"`
	SessionIndex         int               `json:"session_index"`
	Sessions             []SessionResponse `json:"sessions"`
	AccumulatedMinutes   int               `json:"accumulated_minutes"`
	LateMinutes          int               `json:"late_minutes"`
	UndertimeMinutes     int               `json:"undertime_minutes"`
	LateUndertimeMinutes int               `json:"late_undertime_minutes"`
	RegularMinutes       int               `json:"regular_minutes"`
	IsHoliday            bool              `json:"is_holiday"`
	HolidayType          *string           `json:"holiday_type,omitempty"`
	IsRestDay            bool              `json:"is_rest_day"`
	IsAbsent             bool              `json:"is_absent"`
	Status               string            `json:"status"`
	AutoTimeOut          *string           `json:"auto_time_out,omitempty"`
	Buckets              Buckets           `json:"buckets"`
}

type BreakStatusResponse struct {
	EmployeeID           string  `json:"employee_id"`
	AttendanceID         string  `json:"attendance_id"`
	OnBreak              bool    `json:"on_break"`
	BreakStart           *string `json:"break_start,omitempty"`
	BreakEnd             *string `json:"break_end,omitempty"`
	BreakDurationMinutes int     `json:"break_duration_minutes"`
}

type RecordFilter struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	StartDate  *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate    *string `json:"end_date,omitempty"`   // YYYY-MM-DD
	ShiftType  *string `json:"shift_type,omitempty"`

	// Parsed by Validate
	From *time.Time `json:"-"`
	To   *time.Time `json:"-"`
}

func (f *RecordFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.StartDate != nil && *f.StartDate != "" {
		if d, valid := validator.IsValidDate(*f.StartDate); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		} else {
			f.From = &d
		}
	}

	if f.EndDate != nil && *f.EndDate != "" {
		if d, valid := validator.IsValidDate(*f.EndDate); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		} else {
			f.To = &d
		}
	}

	if f.ShiftType != nil && *f.ShiftType != "" {
		if !validator.IsInSlice(*f.ShiftType, ShiftTypeValues) {
			errs = append(errs, validator.ValidationError{
				Field:   "shift_type",
				Message: "shift_type must be one of: day, night",
			})
		}
	}

	if f.From != nil && f.To != nil && f.To.Before(*f.From) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must not be before start_date",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ListAttendanceResponse struct {
	TotalCount  int                  `json:"total_count"`
	Attendances []AttendanceResponse `json:"attendances"`
}

// SummaryResponse is what payroll reads: bucket totals over a date range.
type SummaryResponse struct {
	EmployeeID        string                     `json:"employee_id"`
	StartDate         string                     `json:"start_date,omitempty"`
	EndDate           string                     `json:"end_date,omitempty"`
	DaysPresent       int                        `json:"days_present"`
	DaysAbsent        int                        `json:"days_absent"`
	RegularMinutes    int                        `json:"regular_minutes"`
	LateMinutes       int                        `json:"late_minutes"`
	UndertimeMinutes  int                        `json:"undertime_minutes"`
	Buckets           Buckets                    `json:"buckets"`
	BucketHours       map[string]decimal.Decimal `json:"bucket_hours"`
	TotalPayableHours decimal.Decimal            `json:"total_payable_hours"`
}
