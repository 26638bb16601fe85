package overtime

import (
	"context"
	"time"
)

type OvertimeRepository interface {
	// GetByEmployeeAndDate returns nil, nil when the employee filed no request for date
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Request, error)
}
