package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/setting"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

// The override lives in a single row keyed by clockOverrideID.
const clockOverrideID = 1

type clockOverrideRepositoryImpl struct {
	db *database.DB
}

func NewClockOverrideRepository(db *database.DB) setting.ClockOverrideRepository {
	return &clockOverrideRepositoryImpl{db: db}
}

// Get implements setting.ClockOverrideRepository.
func (c *clockOverrideRepositoryImpl) Get(ctx context.Context) (*setting.ClockOverride, error) {
	q := GetQuerier(ctx, c.db)

	query := `
		SELECT enabled, override_date, to_char(override_time, 'HH24:MI:SS'), updated_at
		FROM clock_override
		WHERE id = $1
	`

	var (
		o       setting.ClockOverride
		date    *time.Time
		timeStr *string
	)
	err := q.QueryRow(ctx, query, clockOverrideID).Scan(&o.Enabled, &date, &timeStr, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get clock override: %w", err)
	}

	if date != nil {
		o.Date = attendance.DateOf(*date)
	}
	if timeStr != nil {
		o.Time = *timeStr
	}
	return &o, nil
}

// Upsert implements setting.ClockOverrideRepository.
func (c *clockOverrideRepositoryImpl) Upsert(ctx context.Context, o setting.ClockOverride) (setting.ClockOverride, error) {
	q := GetQuerier(ctx, c.db)

	query := `
		INSERT INTO clock_override (id, enabled, override_date, override_time, updated_at)
		VALUES ($1, $2, $3, $4::time, NOW())
		ON CONFLICT (id) DO UPDATE SET
			enabled = EXCLUDED.enabled,
			override_date = EXCLUDED.override_date,
			override_time = EXCLUDED.override_time,
			updated_at = NOW()
		RETURNING updated_at
	`

	var (
		date    *time.Time
		timeStr *string
	)
	if !o.Date.IsZero() {
		d := attendance.DateOf(o.Date)
		date = &d
	}
	if o.Time != "" {
		timeStr = &o.Time
	}

	err := q.QueryRow(ctx, query, clockOverrideID, o.Enabled, date, timeStr).Scan(&o.UpdatedAt)
	if err != nil {
		return setting.ClockOverride{}, fmt.Errorf("failed to upsert clock override: %w", err)
	}

	return o, nil
}
