package setting

import "context"

type SettingService interface {
	GetClockOverride(ctx context.Context) (ClockOverrideResponse, error)
	UpdateClockOverride(ctx context.Context, req UpdateClockOverrideRequest) (ClockOverrideResponse, error)
}
