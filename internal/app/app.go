// Package app wires repositories, services and the scheduler for both binaries.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/config"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/calendar"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/overtime"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/setting"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/clock"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/cron"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-engine/internal/repository/memory"
	"github.com/cmlabs-hris/attendance-engine/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/attendance-engine/internal/service/attendance"
	calendarService "github.com/cmlabs-hris/attendance-engine/internal/service/calendar"
	settingService "github.com/cmlabs-hris/attendance-engine/internal/service/setting"
	"github.com/go-chi/httplog/v3"
)

type repositories struct {
	tx          attendance.Transactor
	attendances attendance.AttendanceRepository
	employees   employee.EmployeeRepository
	holidays    calendar.HolidayRepository
	overtime    overtime.OvertimeRepository
	overrides   setting.ClockOverrideRepository
}

// App holds the engine's services, built once per process.
type App struct {
	Config     *config.Config
	Logger     *slog.Logger
	Clock      clock.Clock
	Attendance *attendanceService.AttendanceServiceImpl
	Setting    setting.SettingService
	Jobs       *cron.AttendanceJobs

	db *database.DB
}

// NewLogger builds the JSON logger shared by the binaries, in ECS field names.
func NewLogger(cfg *config.Config, name string) *slog.Logger {
	logFormat := httplog.SchemaECS.Concise(!cfg.IsProduction())
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.SlogLevel(),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", name),
		slog.String("env", cfg.App.Env),
	)
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	a := &App{Config: cfg, Logger: logger}

	loc := clock.LoadLocation(cfg.App.Timezone)

	repos, err := a.openRepositories(ctx, loc)
	if err != nil {
		return nil, err
	}

	a.Clock = clock.NewOverrideClock(loc, repos.overrides)
	resolver := calendarService.NewResolver(repos.holidays, repos.employees)
	a.Attendance = attendanceService.NewAttendanceService(
		repos.tx,
		repos.attendances,
		repos.employees,
		repos.overtime,
		resolver,
		a.Clock,
	)
	a.Setting = settingService.NewSettingService(repos.overrides, a.Clock)
	a.Jobs = cron.NewAttendanceJobs(a.Attendance, repos.attendances, repos.employees, a.Clock)

	return a, nil
}

func (a *App) openRepositories(ctx context.Context, loc *time.Location) (repositories, error) {
	switch a.Config.Storage.Driver {
	case config.StorageMemory:
		a.Logger.Warn("Using in-memory storage; records are lost on exit")
		store := memory.NewStore()
		return repositories{
			tx:          store,
			attendances: store.Attendances(),
			employees:   store.Employees(),
			holidays:    store.Holidays(),
			overtime:    store.Overtime(),
			overrides:   store.ClockOverride(),
		}, nil

	case config.StoragePostgres:
		db, err := database.NewPostgreSQLDB(ctx, a.Config.DatabaseURL(), database.PoolOptions{
			MaxConns: a.Config.Database.MaxConns,
			MinConns: a.Config.Database.MinConns,
		})
		if err != nil {
			return repositories{}, fmt.Errorf("failed to connect to database: %w", err)
		}
		a.db = db
		return repositories{
			tx:          postgresql.NewTransactor(db),
			attendances: postgresql.NewAttendanceRepository(db, loc),
			employees:   postgresql.NewEmployeeRepository(db),
			holidays:    postgresql.NewHolidayRepository(db),
			overtime:    postgresql.NewOvertimeRepository(db),
			overrides:   postgresql.NewClockOverrideRepository(db),
		}, nil
	}

	return repositories{}, fmt.Errorf("unsupported storage driver: %s", a.Config.Storage.Driver)
}

// Close releases the database pool, if any.
func (a *App) Close() {
	if a.db != nil {
		a.db.Close()
	}
}
