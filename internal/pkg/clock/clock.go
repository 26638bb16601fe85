package clock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/setting"
)

// Clock supplies "now" in the engine's civil time zone.
// Callers read it once per logical operation and reuse the value.
type Clock interface {
	Now(ctx context.Context) (time.Time, error)
	Location() *time.Location
}

// OverrideClock returns wall-clock time unless an enabled test-mode override is stored.
type OverrideClock struct {
	loc      *time.Location
	settings setting.ClockOverrideRepository
	wall     func() time.Time
}

func NewOverrideClock(loc *time.Location, settings setting.ClockOverrideRepository) *OverrideClock {
	return &OverrideClock{
		loc:      loc,
		settings: settings,
		wall:     time.Now,
	}
}

func (c *OverrideClock) Location() *time.Location {
	return c.loc
}

func (c *OverrideClock) Now(ctx context.Context) (time.Time, error) {
	override, err := c.settings.Get(ctx)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to read clock override: %w", err)
	}

	if override != nil && override.Enabled {
		return Compose(override.Date, override.Time, c.loc)
	}

	return c.wall().In(c.loc).Truncate(time.Second), nil
}

// Compose joins a civil date and an HH:MM[:SS] wall-clock time in loc.
func Compose(date time.Time, clockTime string, loc *time.Location) (time.Time, error) {
	var t time.Time
	var err error
	for _, layout := range []string{"15:04:05", "15:04"} {
		t, err = time.Parse(layout, clockTime)
		if err == nil {
			break
		}
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid clock time %q: %w", clockTime, err)
	}

	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc), nil
}

// LoadLocation resolves a zone name, falling back to a fixed UTC+8 zone when tzdata is missing.
func LoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.FixedZone(name, 8*60*60)
	}
	return loc
}

// FixedClock is a settable clock for tests and tools.
type FixedClock struct {
	mu  sync.Mutex
	now time.Time
	err error
}

func NewFixedClock(now time.Time) *FixedClock {
	return &FixedClock{now: now}
}

func (c *FixedClock) Now(ctx context.Context) (time.Time, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return time.Time{}, c.err
	}
	return c.now, nil
}

func (c *FixedClock) Location() *time.Location {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now.Location()
}

func (c *FixedClock) Set(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

func (c *FixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Fail makes every subsequent Now return err; nil clears it.
func (c *FixedClock) Fail(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.err = err
}
