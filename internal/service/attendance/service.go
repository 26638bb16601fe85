package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/calendar"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/overtime"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/clock"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/validator"
	"github.com/google/uuid"
)

type AttendanceServiceImpl struct {
	tx attendance.Transactor
	attendance.AttendanceRepository
	employee.EmployeeRepository
	overtime.OvertimeRepository
	resolver calendar.Resolver
	clock    clock.Clock
}

var (
	_ attendance.AttendanceService  = (*AttendanceServiceImpl)(nil)
	_ attendance.AutoTimeoutService = (*AttendanceServiceImpl)(nil)
)

// TimeIn implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) TimeIn(ctx context.Context, req attendance.TimeInRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	now, err := a.now(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	var rec attendance.AttendanceRecord
	err = a.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := a.AttendanceRepository.LockEmployee(ctx, req.EmployeeID); err != nil {
			return attendance.Infra("lock employee", err)
		}

		emp, err := a.activeEmployee(ctx, req.EmployeeID)
		if err != nil {
			return err
		}
		if req.Source == attendance.SourceDevice && emp.IsRemote() {
			return attendance.Reject(attendance.ErrRemoteDevicePunch)
		}

		rec, err = a.timeIn(ctx, emp.ID, now)
		return err
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	return mapAttendanceToResponse(rec), nil
}

// TimeOut implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) TimeOut(ctx context.Context, req attendance.TimeOutRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	now, err := a.now(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	var rec attendance.AttendanceRecord
	err = a.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := a.AttendanceRepository.LockEmployee(ctx, req.EmployeeID); err != nil {
			return attendance.Infra("lock employee", err)
		}

		open, err := a.currentOpen(ctx, req.EmployeeID, now)
		if err != nil {
			return err
		}
		if open == nil {
			return attendance.ErrNoOpenSession
		}

		rec = *open
		closeSession(&rec, now, false)
		if err := a.AttendanceRepository.Update(ctx, rec); err != nil {
			return attendance.Infra("update attendance", err)
		}
		return nil
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	return mapAttendanceToResponse(rec), nil
}

// Punch implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Punch(ctx context.Context, req attendance.DevicePunchRequest) (attendance.DevicePunchResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.DevicePunchResponse{}, err
	}

	now, err := a.now(ctx)
	if err != nil {
		return attendance.DevicePunchResponse{}, err
	}

	var (
		rec    attendance.AttendanceRecord
		action attendance.PunchAction
	)
	err = a.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := a.AttendanceRepository.LockEmployee(ctx, req.EmployeeID); err != nil {
			return attendance.Infra("lock employee", err)
		}

		emp, err := a.activeEmployee(ctx, req.EmployeeID)
		if err != nil {
			return err
		}
		if emp.IsRemote() {
			return attendance.Reject(attendance.ErrRemoteDevicePunch)
		}

		open, err := a.currentOpen(ctx, emp.ID, now)
		if err != nil {
			return err
		}

		if open == nil {
			action = attendance.ActionTimeIn
			rec, err = a.timeIn(ctx, emp.ID, now)
			return err
		}

		action = attendance.ActionTimeOut
		rec = *open
		closeSession(&rec, now, false)
		if err := a.AttendanceRepository.Update(ctx, rec); err != nil {
			return attendance.Infra("update attendance", err)
		}
		return nil
	})
	if err != nil {
		return attendance.DevicePunchResponse{}, err
	}

	slog.Info("Device punch recorded", "employee_id", req.EmployeeID, "action", action, "attendance_id", rec.ID)

	return attendance.DevicePunchResponse{
		Action:     action,
		Attendance: mapAttendanceToResponse(rec),
	}, nil
}

// BreakStatus implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) BreakStatus(ctx context.Context, employeeID string) (attendance.BreakStatusResponse, error) {
	if validator.IsEmpty(employeeID) {
		return attendance.BreakStatusResponse{}, validator.ValidationErrors{{
			Field:   "employee_id",
			Message: "employee_id is required",
		}}
	}

	now, err := a.now(ctx)
	if err != nil {
		return attendance.BreakStatusResponse{}, err
	}

	var rec attendance.AttendanceRecord
	err = a.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := a.AttendanceRepository.LockEmployee(ctx, employeeID); err != nil {
			return attendance.Infra("lock employee", err)
		}

		found, err := a.currentOpen(ctx, employeeID, now)
		if err != nil {
			return err
		}
		if found == nil {
			found, err = a.AttendanceRepository.GetByEmployeeDateShift(ctx, employeeID, attendance.DateOf(now), attendance.ShiftDay)
			if err != nil {
				return attendance.Infra("get attendance", err)
			}
		}
		if found == nil {
			return attendance.ErrNoOpenSession
		}

		rec = *found
		if !ApplyLunchBreak(&rec, now) {
			return nil
		}
		rec.UpdatedAt = now
		if err := a.AttendanceRepository.Update(ctx, rec); err != nil {
			return attendance.Infra("update attendance", err)
		}
		return nil
	})
	if err != nil {
		return attendance.BreakStatusResponse{}, err
	}

	return mapBreakStatus(rec), nil
}

// ListRecords implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ListRecords(ctx context.Context, filter attendance.RecordFilter) (attendance.ListAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	records, err := a.AttendanceRepository.List(ctx, filter)
	if err != nil {
		return attendance.ListAttendanceResponse{}, attendance.Infra("list attendance", err)
	}

	responses := make([]attendance.AttendanceResponse, 0, len(records))
	for _, rec := range records {
		responses = append(responses, mapAttendanceToResponse(rec))
	}

	return attendance.ListAttendanceResponse{
		TotalCount:  len(responses),
		Attendances: responses,
	}, nil
}

// Summary implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Summary(ctx context.Context, filter attendance.RecordFilter) (attendance.SummaryResponse, error) {
	if filter.EmployeeID == nil || validator.IsEmpty(*filter.EmployeeID) {
		return attendance.SummaryResponse{}, validator.ValidationErrors{{
			Field:   "employee_id",
			Message: "employee_id is required",
		}}
	}
	if err := filter.Validate(); err != nil {
		return attendance.SummaryResponse{}, err
	}

	records, err := a.AttendanceRepository.List(ctx, filter)
	if err != nil {
		return attendance.SummaryResponse{}, attendance.Infra("list attendance", err)
	}

	return summarize(*filter.EmployeeID, filter, records), nil
}

// AutoTimeOut implements attendance.AutoTimeoutService.
func (a *AttendanceServiceImpl) AutoTimeOut(ctx context.Context, employeeID, recordID string, at time.Time) (bool, error) {
	closed := false
	err := a.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := a.AttendanceRepository.LockEmployee(ctx, employeeID); err != nil {
			return attendance.Infra("lock employee", err)
		}

		rec, err := a.AttendanceRepository.GetByID(ctx, recordID)
		if err != nil {
			return attendance.Infra("get attendance", err)
		}
		if !rec.IsOpen() {
			return nil
		}

		closeSession(&rec, at, true)
		if err := a.AttendanceRepository.Update(ctx, rec); err != nil {
			return attendance.Infra("update attendance", err)
		}
		closed = true
		return nil
	})
	if err != nil {
		return false, err
	}

	return closed, nil
}

// StampLunchBreak implements attendance.AutoTimeoutService.
func (a *AttendanceServiceImpl) StampLunchBreak(ctx context.Context, employeeID, recordID string, now time.Time) (bool, error) {
	changed := false
	err := a.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := a.AttendanceRepository.LockEmployee(ctx, employeeID); err != nil {
			return attendance.Infra("lock employee", err)
		}

		rec, err := a.AttendanceRepository.GetByID(ctx, recordID)
		if err != nil {
			return attendance.Infra("get attendance", err)
		}
		if !ApplyLunchBreak(&rec, now) {
			return nil
		}

		rec.UpdatedAt = now
		if err := a.AttendanceRepository.Update(ctx, rec); err != nil {
			return attendance.Infra("update attendance", err)
		}
		changed = true
		return nil
	})
	if err != nil {
		return false, err
	}

	return changed, nil
}

// MarkAbsent implements attendance.AutoTimeoutService.
func (a *AttendanceServiceImpl) MarkAbsent(ctx context.Context, employeeID string, date time.Time) (bool, error) {
	date = attendance.DateOf(date)
	created := false
	err := a.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := a.AttendanceRepository.LockEmployee(ctx, employeeID); err != nil {
			return attendance.Infra("lock employee", err)
		}

		count, err := a.AttendanceRepository.CountByEmployeeAndDate(ctx, employeeID, date)
		if err != nil {
			return attendance.Infra("count attendance", err)
		}
		if count > 0 {
			return nil
		}

		id, err := uuid.NewV7()
		if err != nil {
			return attendance.Infra("generate attendance id", err)
		}

		if _, err := a.AttendanceRepository.Create(ctx, attendance.AttendanceRecord{
			ID:         id.String(),
			EmployeeID: employeeID,
			Date:       date,
			ShiftType:  attendance.ShiftDay,
			Sessions:   []attendance.Session{},
			IsAbsent:   true,
			Status:     attendance.StatusAbsent,
		}); err != nil {
			return attendance.Infra("create absence", err)
		}
		created = true
		return nil
	})
	if err != nil {
		return false, err
	}

	return created, nil
}

// timeIn runs the time-in state machine inside the caller's transaction.
func (a *AttendanceServiceImpl) timeIn(ctx context.Context, employeeID string, now time.Time) (attendance.AttendanceRecord, error) {
	shift := Classify(now)

	// A punch after a finished day shift on the same date is an overtime re-entry.
	if now.Hour() >= dayShiftEndHour {
		today, err := a.AttendanceRepository.GetByEmployeeDateShift(ctx, employeeID, attendance.DateOf(now), attendance.ShiftDay)
		if err != nil {
			return attendance.AttendanceRecord{}, attendance.Infra("get attendance", err)
		}
		if today != nil && !today.IsAbsent && today.TimeOut != nil {
			return attendance.AttendanceRecord{}, attendance.Reject(attendance.ErrReentryOvertimePeriod)
		}
	}

	if !TimeInAllowed(now, shift) {
		return attendance.AttendanceRecord{}, attendance.Reject(attendance.ErrOutsideTimeInWindow)
	}

	// Any current open session blocks, whatever its shift: last night's
	// unclosed record holds off a day time-in until the 08:00 night close.
	open, err := a.currentOpen(ctx, employeeID, now)
	if err != nil {
		return attendance.AttendanceRecord{}, err
	}
	if open != nil {
		return attendance.AttendanceRecord{}, attendance.Reject(attendance.ErrDuplicateSession)
	}

	date := WorkDate(now, shift)
	existing, err := a.AttendanceRepository.GetByEmployeeDateShift(ctx, employeeID, date, shift)
	if err != nil {
		return attendance.AttendanceRecord{}, attendance.Infra("get attendance", err)
	}

	if existing != nil && !existing.IsAbsent {
		return a.reenter(ctx, *existing, now)
	}

	rec, err := a.newRecord(ctx, employeeID, date, shift, now)
	if err != nil {
		return attendance.AttendanceRecord{}, err
	}

	if existing != nil {
		// Convert the scheduler's Absent row in place.
		rec.ID = existing.ID
		rec.CreatedAt = existing.CreatedAt
		if err := a.AttendanceRepository.Update(ctx, rec); err != nil {
			return attendance.AttendanceRecord{}, attendance.Infra("update attendance", err)
		}
		return rec, nil
	}

	created, err := a.AttendanceRepository.Create(ctx, rec)
	if err != nil {
		return attendance.AttendanceRecord{}, attendance.Infra("create attendance", err)
	}
	return created, nil
}

func (a *AttendanceServiceImpl) newRecord(ctx context.Context, employeeID string, date time.Time, shift attendance.ShiftType, now time.Time) (attendance.AttendanceRecord, error) {
	class, err := a.classifyDay(ctx, employeeID, date, shift)
	if err != nil {
		return attendance.AttendanceRecord{}, err
	}

	autoOut, err := a.autoTimeOut(ctx, employeeID, date, shift, now)
	if err != nil {
		return attendance.AttendanceRecord{}, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return attendance.AttendanceRecord{}, attendance.Infra("generate attendance id", err)
	}

	timeIn := now
	lastTimeIn := now
	rec := attendance.AttendanceRecord{
		ID:           id.String(),
		EmployeeID:   employeeID,
		Date:         date,
		ShiftType:    shift,
		TimeIn:       &timeIn,
		LastTimeIn:   &lastTimeIn,
		SessionIndex: 1,
		Sessions:     []attendance.Session{},
		LateMinutes:  LateMinutes(shift, date, now),
		IsHoliday:    class.IsHoliday(),
		IsRestDay:    class.RestDay,
		Status:       attendance.StatusPresent,
		AutoTimeOut:  &autoOut,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if class.IsHoliday() {
		holidayType := class.Holiday
		rec.HolidayType = &holidayType
	}
	rec.LateUndertimeMinutes = rec.LateMinutes

	return rec, nil
}

// reenter reopens a closed record for another session of the same work-day.
func (a *AttendanceServiceImpl) reenter(ctx context.Context, rec attendance.AttendanceRecord, now time.Time) (attendance.AttendanceRecord, error) {
	if !ReentryAllowed(now, rec.ShiftType) {
		return attendance.AttendanceRecord{}, attendance.Reject(attendance.ErrReentryOvertimePeriod)
	}

	autoOut, err := a.autoTimeOut(ctx, rec.EmployeeID, rec.Date, rec.ShiftType, now)
	if err != nil {
		return attendance.AttendanceRecord{}, err
	}

	lastTimeIn := now
	rec.LastTimeIn = &lastTimeIn
	rec.TimeOut = nil
	rec.SessionIndex++
	rec.Buckets = attendance.Buckets{}
	rec.RegularMinutes = 0
	rec.UndertimeMinutes = 0
	rec.Status = attendance.StatusPresent
	if rec.ShiftType == attendance.ShiftNight {
		rec.LateMinutes = 0
	}
	rec.LateUndertimeMinutes = rec.LateMinutes
	rec.AutoTimeOut = &autoOut
	rec.UpdatedAt = now

	if err := a.AttendanceRepository.Update(ctx, rec); err != nil {
		return attendance.AttendanceRecord{}, attendance.Infra("update attendance", err)
	}
	return rec, nil
}

func (a *AttendanceServiceImpl) classifyDay(ctx context.Context, employeeID string, date time.Time, shift attendance.ShiftType) (attendance.DayClass, error) {
	info, err := a.resolver.HolidayOn(ctx, date)
	if err != nil {
		return attendance.DayClass{}, attendance.Infra("resolve holiday", err)
	}

	restDay, err := a.resolver.IsRestDay(ctx, employeeID, date)
	if err != nil {
		return attendance.DayClass{}, attendance.Infra("resolve rest day", err)
	}

	class := attendance.DayClass{Shift: shift, RestDay: restDay}
	if info.IsHoliday {
		class.Holiday = info.Type
	}
	return class, nil
}

// autoTimeOut is the shift end, or the end time of an approved overtime request.
func (a *AttendanceServiceImpl) autoTimeOut(ctx context.Context, employeeID string, date time.Time, shift attendance.ShiftType, now time.Time) (time.Time, error) {
	loc := now.Location()
	end := ShiftEnd(date, shift, loc)

	req, err := a.OvertimeRepository.GetByEmployeeAndDate(ctx, employeeID, date)
	if err != nil {
		return time.Time{}, attendance.Infra("get overtime request", err)
	}
	if req == nil || !req.IsApproved() {
		return end, nil
	}

	otEnd, err := clock.Compose(date, req.EndTime, loc)
	if err != nil {
		slog.Warn("Ignoring overtime request with invalid end time",
			"overtime_id", req.ID,
			"employee_id", employeeID,
			"end_time", req.EndTime)
		return end, nil
	}

	switch shift {
	case attendance.ShiftNight:
		if otEnd.Before(attendance.At(date, nightShiftFromHour, 0, loc)) {
			otEnd = otEnd.AddDate(0, 0, 1)
		}
	case attendance.ShiftDay:
		if otEnd.Before(end) {
			return end, nil
		}
	}

	return otEnd, nil
}

// currentOpen returns the employee's open record for the live work-day, or nil.
func (a *AttendanceServiceImpl) currentOpen(ctx context.Context, employeeID string, now time.Time) (*attendance.AttendanceRecord, error) {
	open, err := a.AttendanceRepository.ListOpenByEmployee(ctx, employeeID)
	if err != nil {
		return nil, attendance.Infra("list open attendance", err)
	}

	for i := range open {
		if IsCurrent(open[i], now) {
			return &open[i], nil
		}
	}
	return nil, nil
}

func (a *AttendanceServiceImpl) activeEmployee(ctx context.Context, employeeID string) (employee.Employee, error) {
	emp, err := a.EmployeeRepository.GetByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.Employee{}, err
		}
		return employee.Employee{}, attendance.Infra("get employee", err)
	}
	if emp.EmploymentStatus != employee.EmploymentStatusActive {
		return employee.Employee{}, attendance.Reject(employee.ErrEmployeeInactive)
	}
	return emp, nil
}

func (a *AttendanceServiceImpl) now(ctx context.Context) (time.Time, error) {
	now, err := a.clock.Now(ctx)
	if err != nil {
		return time.Time{}, attendance.Infra("read clock", fmt.Errorf("failed to get current time: %w", err))
	}
	return now, nil
}

// closeSession appends the open session ending at `at` and re-runs the allocator over all sessions.
func closeSession(rec *attendance.AttendanceRecord, at time.Time, auto bool) {
	loc := at.Location()
	if at.Before(*rec.LastTimeIn) {
		at = *rec.LastTimeIn
	}

	sessions := make([]attendance.Session, 0, len(rec.Sessions)+1)
	for _, s := range rec.Sessions {
		s.TimeIn = s.TimeIn.In(loc)
		s.TimeOut = s.TimeOut.In(loc)
		sessions = append(sessions, s)
	}
	sessions = append(sessions, BuildSession(rec.ShiftType, rec.Date, rec.SessionIndex, rec.LastTimeIn.In(loc), at.In(loc)))
	rec.Sessions = sessions

	timeOut := at.In(loc)
	rec.TimeOut = &timeOut

	Allocate(rec.Class(), rec.Date, rec.Sessions).apply(rec)
	if auto {
		rec.Status += attendance.StatusAutoSuffix
	}
	rec.UpdatedAt = timeOut
}

func NewAttendanceService(
	tx attendance.Transactor,
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	overtimeRepo overtime.OvertimeRepository,
	resolver calendar.Resolver,
	clk clock.Clock,
) *AttendanceServiceImpl {
	return &AttendanceServiceImpl{
		tx:                   tx,
		AttendanceRepository: attendanceRepo,
		EmployeeRepository:   employeeRepo,
		OvertimeRepository:   overtimeRepo,
		resolver:             resolver,
		clock:                clk,
	}
}
