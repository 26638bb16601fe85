package memory

import (
	"context"
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/setting"
)

type ClockOverrideRepository struct {
	s *Store
}

var _ setting.ClockOverrideRepository = (*ClockOverrideRepository)(nil)

// Get implements setting.ClockOverrideRepository.
func (r *ClockOverrideRepository) Get(ctx context.Context) (*setting.ClockOverride, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if r.s.override == nil {
		return nil, nil
	}
	o := *r.s.override
	return &o, nil
}

// Upsert implements setting.ClockOverrideRepository.
func (r *ClockOverrideRepository) Upsert(ctx context.Context, override setting.ClockOverride) (setting.ClockOverride, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	override.UpdatedAt = time.Now()
	o := override
	r.s.override = &o
	return override, nil
}
