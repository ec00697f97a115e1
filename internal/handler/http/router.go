package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"

	"github.com/timenest/timenest-backend-go/internal/handler/http/middleware"
	"github.com/timenest/timenest-backend-go/internal/pkg/jwt"
)

type RouterOptions struct {
	AllowedOrigins []string
	Env            string
	Version        string
	LogLevel       slog.Level
}

func NewRouter(opts RouterOptions, JWTService jwt.Service, attendanceHandler AttendanceHandler, reportHandler ReportHandler) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(opts.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       opts.LogLevel,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "timenest"),
		slog.String("version", opts.Version),
		slog.String("env", opts.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  opts.LogLevel,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired)

			r.Route("/attendance", func(r chi.Router) {
				r.Post("/checkin", attendanceHandler.CheckIn)
				r.Post("/checkout", attendanceHandler.CheckOut)
				r.Get("/today", attendanceHandler.GetToday)
				r.Get("/history", attendanceHandler.GetHistory)

				// Admin only
				r.Route("/admin", func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Get("/records", attendanceHandler.List)
					r.Get("/report/weekly", reportHandler.GetWeeklyReport)
					r.Get("/insights/today", reportHandler.GetTodayInsights)
					r.Get("/insights/weekly", reportHandler.GetWeeklyInsights)
				})
			})
		})
	})
	return r
}
