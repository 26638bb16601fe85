package attendance

import (
	"errors"
	"fmt"
)

// Attendance domain errors
var (
	// Business-rule rejections, always wrapped in *RejectedError
	ErrOutsideTimeInWindow   = errors.New("time-in is not allowed at this hour")
	ErrReentryOvertimePeriod = errors.New("overtime period, cannot re-time-in")
	ErrDuplicateSession      = errors.New("you already have an active attendance session")
	ErrRemoteDevicePunch     = errors.New("remote employees cannot punch through a biometric device")

	// Lookup errors
	ErrNoOpenSession      = errors.New("no open attendance session found")
	ErrAttendanceNotFound = errors.New("attendance record not found")
)

// RejectedError marks a business-rule rejection; nothing was written.
type RejectedError struct {
	Reason error
}

func (e *RejectedError) Error() string {
	return e.Reason.Error()
}

func (e *RejectedError) Unwrap() error {
	return e.Reason
}

// Reject wraps a rule violation.
func Reject(reason error) error {
	return &RejectedError{Reason: reason}
}

// IsRejected reports whether err is a business-rule rejection.
func IsRejected(err error) bool {
	var rejected *RejectedError
	return errors.As(err, &rejected)
}

// InfrastructureError marks a datastore, resolver or clock failure.
type InfrastructureError struct {
	Op  string
	Err error
}

func (e *InfrastructureError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *InfrastructureError) Unwrap() error {
	return e.Err
}

// Infra wraps err as an InfrastructureError unless it is nil or already classified.
func Infra(op string, err error) error {
	if err == nil {
		return nil
	}
	var infra *InfrastructureError
	if IsRejected(err) || errors.Is(err, ErrNoOpenSession) || errors.As(err, &infra) {
		return err
	}
	return &InfrastructureError{Op: op, Err: err}
}

// IsInfrastructure reports whether err came from a failing dependency.
func IsInfrastructure(err error) bool {
	var infra *InfrastructureError
	return errors.As(err, &infra)
}
