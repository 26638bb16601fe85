package cron

import (
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/overtime"
)

func overtimeUntil(employeeID, endTime string) overtime.Request {
	return overtime.Request{
		ID:         "ot-" + employeeID,
		EmployeeID: employeeID,
		Date:       time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC),
		Status:     overtime.StatusApproved,
		EndTime:    endTime,
	}
}
