package memory

import (
	"context"
	"sort"
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
)

type AttendanceRepository struct {
	s *Store
}

var _ attendance.AttendanceRepository = (*AttendanceRepository)(nil)

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func cloneRecord(rec attendance.AttendanceRecord) attendance.AttendanceRecord {
	out := rec
	out.TimeIn = cloneTime(rec.TimeIn)
	out.LastTimeIn = cloneTime(rec.LastTimeIn)
	out.TimeOut = cloneTime(rec.TimeOut)
	out.AutoTimeOut = cloneTime(rec.AutoTimeOut)
	out.BreakStart = cloneTime(rec.BreakStart)
	out.BreakEnd = cloneTime(rec.BreakEnd)
	if rec.HolidayType != nil {
		h := *rec.HolidayType
		out.HolidayType = &h
	}
	out.Sessions = append([]attendance.Session{}, rec.Sessions...)
	return out
}

// Create implements attendance.AttendanceRepository.
func (r *AttendanceRepository) Create(ctx context.Context, record attendance.AttendanceRecord) (attendance.AttendanceRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.attendances {
		if existing.EmployeeID == record.EmployeeID &&
			existing.Date.Equal(record.Date) &&
			existing.ShiftType == record.ShiftType {
			return attendance.AttendanceRecord{}, attendance.Reject(attendance.ErrDuplicateSession)
		}
	}

	now := time.Now()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	if record.UpdatedAt.IsZero() {
		record.UpdatedAt = record.CreatedAt
	}
	if record.Sessions == nil {
		record.Sessions = []attendance.Session{}
	}

	r.s.attendances[record.ID] = cloneRecord(record)
	return cloneRecord(record), nil
}

// Update implements attendance.AttendanceRepository.
func (r *AttendanceRepository) Update(ctx context.Context, record attendance.AttendanceRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.attendances[record.ID]; !ok {
		return attendance.ErrAttendanceNotFound
	}
	r.s.attendances[record.ID] = cloneRecord(record)
	return nil
}

// GetByID implements attendance.AttendanceRepository.
func (r *AttendanceRepository) GetByID(ctx context.Context, id string) (attendance.AttendanceRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rec, ok := r.s.attendances[id]
	if !ok {
		return attendance.AttendanceRecord{}, attendance.ErrAttendanceNotFound
	}
	return cloneRecord(rec), nil
}

// GetByEmployeeDateShift implements attendance.AttendanceRepository.
func (r *AttendanceRepository) GetByEmployeeDateShift(ctx context.Context, employeeID string, date time.Time, shift attendance.ShiftType) (*attendance.AttendanceRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	date = attendance.DateOf(date)
	for _, rec := range r.s.attendances {
		if rec.EmployeeID == employeeID && rec.Date.Equal(date) && rec.ShiftType == shift {
			out := cloneRecord(rec)
			return &out, nil
		}
	}
	return nil, nil
}

// ListOpenByEmployee implements attendance.AttendanceRepository.
func (r *AttendanceRepository) ListOpenByEmployee(ctx context.Context, employeeID string) ([]attendance.AttendanceRecord, error) {
	records := r.filter(func(rec attendance.AttendanceRecord) bool {
		return rec.EmployeeID == employeeID && rec.IsOpen()
	})
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Date.After(records[j].Date)
	})
	return records, nil
}

// ListOpenByShiftAndDate implements attendance.AttendanceRepository.
func (r *AttendanceRepository) ListOpenByShiftAndDate(ctx context.Context, shift attendance.ShiftType, date time.Time) ([]attendance.AttendanceRecord, error) {
	date = attendance.DateOf(date)
	records := r.filter(func(rec attendance.AttendanceRecord) bool {
		return rec.ShiftType == shift && rec.Date.Equal(date) && rec.IsOpen()
	})
	sortRecords(records)
	return records, nil
}

// CountByEmployeeAndDate implements attendance.AttendanceRepository.
func (r *AttendanceRepository) CountByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (int, error) {
	date = attendance.DateOf(date)
	records := r.filter(func(rec attendance.AttendanceRecord) bool {
		return rec.EmployeeID == employeeID && rec.Date.Equal(date)
	})
	return len(records), nil
}

// List implements attendance.AttendanceRepository.
func (r *AttendanceRepository) List(ctx context.Context, filter attendance.RecordFilter) ([]attendance.AttendanceRecord, error) {
	records := r.filter(func(rec attendance.AttendanceRecord) bool {
		if filter.EmployeeID != nil && *filter.EmployeeID != "" && rec.EmployeeID != *filter.EmployeeID {
			return false
		}
		if filter.ShiftType != nil && *filter.ShiftType != "" && string(rec.ShiftType) != *filter.ShiftType {
			return false
		}
		if filter.From != nil && rec.Date.Before(attendance.DateOf(*filter.From)) {
			return false
		}
		if filter.To != nil && rec.Date.After(attendance.DateOf(*filter.To)) {
			return false
		}
		return true
	})
	sortRecords(records)
	return records, nil
}

// LockEmployee implements attendance.AttendanceRepository. Transactions are
// already serialised by the store, so only injected failures apply.
func (r *AttendanceRepository) LockEmployee(ctx context.Context, employeeID string) error {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.lockFailures[employeeID]
}

func (r *AttendanceRepository) filter(keep func(attendance.AttendanceRecord) bool) []attendance.AttendanceRecord {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	records := make([]attendance.AttendanceRecord, 0)
	for _, rec := range r.s.attendances {
		if keep(rec) {
			records = append(records, cloneRecord(rec))
		}
	}
	return records
}

func sortRecords(records []attendance.AttendanceRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		if !records[i].Date.Equal(records[j].Date) {
			return records[i].Date.Before(records[j].Date)
		}
		if records[i].EmployeeID != records[j].EmployeeID {
			return records[i].EmployeeID < records[j].EmployeeID
		}
		return records[i].ShiftType < records[j].ShiftType
	})
}
