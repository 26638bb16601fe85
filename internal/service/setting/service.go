package setting

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/setting"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/clock"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/validator"
)

type SettingServiceImpl struct {
	setting.ClockOverrideRepository
	clock clock.Clock
}

// GetClockOverride implements setting.SettingService.
func (s *SettingServiceImpl) GetClockOverride(ctx context.Context) (setting.ClockOverrideResponse, error) {
	override, err := s.ClockOverrideRepository.Get(ctx)
	if err != nil {
		return setting.ClockOverrideResponse{}, fmt.Errorf("failed to get clock override: %w", err)
	}

	return s.respond(ctx, override)
}

// UpdateClockOverride implements setting.SettingService.
func (s *SettingServiceImpl) UpdateClockOverride(ctx context.Context, req setting.UpdateClockOverrideRequest) (setting.ClockOverrideResponse, error) {
	if err := req.Validate(); err != nil {
		return setting.ClockOverrideResponse{}, err
	}

	override := setting.ClockOverride{Enabled: req.Enabled}
	if d, valid := validator.IsValidDate(req.Date); valid {
		override.Date = d
	}
	if t, valid := validator.IsValidClockTime(req.Time); valid {
		override.Time = t.Format("15:04:05")
	}

	saved, err := s.ClockOverrideRepository.Upsert(ctx, override)
	if err != nil {
		return setting.ClockOverrideResponse{}, fmt.Errorf("failed to save clock override: %w", err)
	}

	slog.Info("Clock override updated", "enabled", saved.Enabled, "date", saved.Date.Format("2006-01-02"), "time", saved.Time)

	return s.respond(ctx, &saved)
}

func (s *SettingServiceImpl) respond(ctx context.Context, override *setting.ClockOverride) (setting.ClockOverrideResponse, error) {
	now, err := s.clock.Now(ctx)
	if err != nil {
		return setting.ClockOverrideResponse{}, fmt.Errorf("failed to get current time: %w", err)
	}

	resp := setting.ClockOverrideResponse{EngineNow: now.Format("2006-01-02 15:04:05")}
	if override != nil {
		resp.Enabled = override.Enabled
		resp.Time = override.Time
		if !override.Date.IsZero() {
			resp.Date = override.Date.Format("2006-01-02")
		}
	}
	return resp, nil
}

func NewSettingService(overrideRepo setting.ClockOverrideRepository, clk clock.Clock) setting.SettingService {
	return &SettingServiceImpl{
		ClockOverrideRepository: overrideRepo,
		clock:                   clk,
	}
}
