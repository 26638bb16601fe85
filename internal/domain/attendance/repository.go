package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access methods for attendance records.
// Reads issued inside a transaction take row locks.
type AttendanceRepository interface {
	// Create inserts a new record and returns it with its generated fields
	Create(ctx context.Context, record AttendanceRecord) (AttendanceRecord, error)

	// Update writes every mutable column of the record in one statement
	Update(ctx context.Context, record AttendanceRecord) error

	GetByID(ctx context.Context, id string) (AttendanceRecord, error)

	// GetByEmployeeDateShift returns nil, nil when no row exists
	GetByEmployeeDateShift(ctx context.Context, employeeID string, date time.Time, shift ShiftType) (*AttendanceRecord, error)

	// ListOpenByEmployee returns every record of the employee with an open session, newest first
	ListOpenByEmployee(ctx context.Context, employeeID string) ([]AttendanceRecord, error)

	// ListOpenByShiftAndDate is the scheduler's sweep query
	ListOpenByShiftAndDate(ctx context.Context, shift ShiftType, date time.Time) ([]AttendanceRecord, error)

	CountByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (int, error)

	List(ctx context.Context, filter RecordFilter) ([]AttendanceRecord, error)

	// LockEmployee serialises mutations of one employee's records until the transaction ends
	LockEmployee(ctx context.Context, employeeID string) error
}

// Transactor runs fn inside a single database transaction carried by ctx.
type Transactor interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
