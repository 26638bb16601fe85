// Package memory provides in-process repository implementations for local runs and tests.
package memory

import (
	"context"
	"sync"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/calendar"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/overtime"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/setting"
)

type txKey struct{}

// Store holds every table in maps. Transactions are serialised by txMu and
// rolled back by restoring a snapshot.
type Store struct {
	txMu sync.Mutex
	mu   sync.RWMutex

	attendances map[string]attendance.AttendanceRecord
	employees   map[string]employee.Employee
	holidays    []calendar.Holiday
	overtime    map[overtimeKey]overtime.Request
	override    *setting.ClockOverride

	lockFailures map[string]error
}

type overtimeKey struct {
	employeeID string
	date       string
}

func NewStore() *Store {
	return &Store{
		attendances:  make(map[string]attendance.AttendanceRecord),
		employees:    make(map[string]employee.Employee),
		overtime:     make(map[overtimeKey]overtime.Request),
		lockFailures: make(map[string]error),
	}
}

// WithTransaction implements attendance.Transactor.
func (s *Store) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(bool); ok {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	snap := s.snapshot()
	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		s.restore(snap)
		return err
	}

	return nil
}

type snapshot struct {
	attendances map[string]attendance.AttendanceRecord
	override    *setting.ClockOverride
}

func (s *Store) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := snapshot{attendances: make(map[string]attendance.AttendanceRecord, len(s.attendances))}
	for id, rec := range s.attendances {
		snap.attendances[id] = cloneRecord(rec)
	}
	if s.override != nil {
		o := *s.override
		snap.override = &o
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attendances = snap.attendances
	s.override = snap.override
}

// FailLock makes LockEmployee fail for employeeID until cleared with a nil error.
func (s *Store) FailLock(employeeID string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.lockFailures, employeeID)
		return
	}
	s.lockFailures[employeeID] = err
}

func (s *Store) Attendances() *AttendanceRepository {
	return &AttendanceRepository{s: s}
}

func (s *Store) Employees() *EmployeeRepository {
	return &EmployeeRepository{s: s}
}

func (s *Store) Holidays() *HolidayRepository {
	return &HolidayRepository{s: s}
}

func (s *Store) Overtime() *OvertimeRepository {
	return &OvertimeRepository{s: s}
}

func (s *Store) ClockOverride() *ClockOverrideRepository {
	return &ClockOverrideRepository{s: s}
}
