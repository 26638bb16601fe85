package memory

import (
	"context"
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/overtime"
)

type OvertimeRepository struct {
	s *Store
}

var _ overtime.OvertimeRepository = (*OvertimeRepository)(nil)

func (r *OvertimeRepository) Put(req overtime.Request) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.overtime[overtimeKey{employeeID: req.EmployeeID, date: req.Date.Format("2006-01-02")}] = req
}

// GetByEmployeeAndDate implements overtime.OvertimeRepository.
func (r *OvertimeRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*overtime.Request, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	req, ok := r.s.overtime[overtimeKey{employeeID: employeeID, date: date.Format("2006-01-02")}]
	if !ok {
		return nil, nil
	}
	return &req, nil
}
