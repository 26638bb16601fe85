package attendance

import (
	"context"
	"time"
)

// AttendanceService defines the punch operations exposed to employees and devices
type AttendanceService interface {
	// TimeIn opens a session, either a new work-day record or a re-entry
	TimeIn(ctx context.Context, req TimeInRequest) (AttendanceResponse, error)

	// TimeOut closes the current session and recomputes every minute bucket
	TimeOut(ctx context.Context, req TimeOutRequest) (AttendanceResponse, error)

	// Punch toggles time-in/time-out for biometric devices
	Punch(ctx context.Context, req DevicePunchRequest) (DevicePunchResponse, error)

	// BreakStatus stamps any due lunch break and reports it
	BreakStatus(ctx context.Context, employeeID string) (BreakStatusResponse, error)

	ListRecords(ctx context.Context, filter RecordFilter) (ListAttendanceResponse, error)

	// Summary totals the payable buckets of one employee over a date range
	Summary(ctx context.Context, filter RecordFilter) (SummaryResponse, error)
}

// AutoTimeoutService is the part of the session tracker driven by the scheduler.
// Every call re-reads its row under lock and is a no-op when there is nothing to do.
type AutoTimeoutService interface {
	// AutoTimeOut closes the record's open session at the given instant
	AutoTimeOut(ctx context.Context, employeeID, recordID string, at time.Time) (closed bool, err error)

	// StampLunchBreak applies the break rules to an open day-shift record
	StampLunchBreak(ctx context.Context, employeeID, recordID string, now time.Time) (changed bool, err error)

	// MarkAbsent inserts an Absent row when the employee has no row for date
	MarkAbsent(ctx context.Context, employeeID string, date time.Time) (created bool, err error)
}
