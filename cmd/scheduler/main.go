package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/cmlabs-hris/attendance-engine/internal/app"
	"github.com/cmlabs-hris/attendance-engine/internal/config"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/clock"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/cron"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	logger := app.NewLogger(cfg, "attendance-scheduler")
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	engine, err := app.New(ctx, cfg, logger)
	if err != nil {
		slog.Error("Failed to initialize application", "error", err)
		os.Exit(1)
	}
	defer engine.Close()

	scheduler := cron.NewScheduler(clock.LoadLocation(cfg.App.Timezone))
	if err := engine.Jobs.RegisterJobs(scheduler, cfg.Scheduler.CronSpec); err != nil {
		slog.Error("Failed to register scheduler jobs", "error", err, "spec", cfg.Scheduler.CronSpec)
		os.Exit(1)
	}

	scheduler.Start()
	slog.Info("Scheduler running", "spec", cfg.Scheduler.CronSpec, "timezone", cfg.App.Timezone)

	<-ctx.Done()
	scheduler.Stop()
}
