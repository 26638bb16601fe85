package http

import (
	"log/slog"

	"github.com/cmlabs-hris/attendance-engine/internal/handler/http/middleware"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type Handlers struct {
	Attendance AttendanceHandler
	Device     DeviceHandler
	Setting    SettingHandler
	Scheduler  SchedulerHandler
}

type RouterOptions struct {
	Logger         *slog.Logger
	AllowedOrigins []string
	DeviceAPIKey   string
}

func NewRouter(JWTService jwt.Service, handlers Handlers, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", middleware.DeviceKeyHeader},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		// Biometric terminals
		r.Group(func(r chi.Router) {
			r.Use(middleware.DeviceKeyRequired(opts.DeviceAPIKey))
			r.Post("/device/punch", handlers.Device.Punch)
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.Route("/attendance", func(r chi.Router) {
				r.Post("/time-in", handlers.Attendance.TimeIn)
				r.Post("/time-out", handlers.Attendance.TimeOut)
				r.Get("/break-status", handlers.Attendance.BreakStatus)
				r.Get("/my", handlers.Attendance.GetMyAttendance)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Get("/", handlers.Attendance.List)
					r.Get("/summary", handlers.Attendance.Summary)
				})
			})

			// Admin only
			r.Group(func(r chi.Router) {
				r.Use(middleware.AdminOnly)
				r.Route("/settings/clock-override", func(r chi.Router) {
					r.Get("/", handlers.Setting.GetClockOverride)
					r.Put("/", handlers.Setting.UpdateClockOverride)
				})
				r.Post("/internal/scheduler/tick", handlers.Scheduler.Tick)
			})
		})
	})
	return r
}
