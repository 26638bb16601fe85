package setting

import "context"

type ClockOverrideRepository interface {
	// Get returns nil, nil when no override row exists
	Get(ctx context.Context) (*ClockOverride, error)
	Upsert(ctx context.Context, override ClockOverride) (ClockOverride, error)
}
