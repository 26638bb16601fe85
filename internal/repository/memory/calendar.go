package memory

import (
	"context"
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/calendar"
)

type HolidayRepository struct {
	s *Store
}

var _ calendar.HolidayRepository = (*HolidayRepository)(nil)

func (r *HolidayRepository) Put(h calendar.Holiday) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.holidays = append(r.s.holidays, h)
}

// ListCovering implements calendar.HolidayRepository.
func (r *HolidayRepository) ListCovering(ctx context.Context, date time.Time) ([]calendar.Holiday, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []calendar.Holiday
	for _, h := range r.s.holidays {
		if h.Covers(date) {
			out = append(out, h)
		}
	}
	return out, nil
}
