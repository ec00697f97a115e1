package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/timenest/timenest-backend-go/internal/config"
	appHTTP "github.com/timenest/timenest-backend-go/internal/handler/http"
	"github.com/timenest/timenest-backend-go/internal/pkg/cron"
	"github.com/timenest/timenest-backend-go/internal/pkg/database"
	"github.com/timenest/timenest-backend-go/internal/pkg/email"
	"github.com/timenest/timenest-backend-go/internal/pkg/jwt"
	"github.com/timenest/timenest-backend-go/internal/pkg/storage"
	"github.com/timenest/timenest-backend-go/internal/pkg/utils"
	"github.com/timenest/timenest-backend-go/internal/repository/postgresql"
	attendanceService "github.com/timenest/timenest-backend-go/internal/service/attendance"
	reportService "github.com/timenest/timenest-backend-go/internal/service/report"
)

var version = "dev"

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading config: ", err)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.App.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	loc, err := cfg.Location()
	if err != nil {
		log.Fatal("Invalid timezone: ", err)
	}
	weekday, err := cfg.ReportWeekday()
	if err != nil {
		log.Fatal(err)
	}
	policy, err := reportService.ParseHireDatePolicy(cfg.Report.HireDatePolicy)
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, pool, err := database.NewPostgreSQLDB(cfg.DatabaseURL(), database.Options{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		log.Fatal("Error connecting to database: ", err)
	}
	defer db.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		log.Fatal("Error running migrations: ", err)
	}

	clock := clockwork.NewRealClock()
	weeks := utils.NewWeekResolver(clock, loc)

	attendanceRepo := postgresql.NewAttendanceRepository(db, loc)
	employeeRepo := postgresql.NewEmployeeRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	aggregator := reportService.NewAggregator(loc, cfg.LateThreshold(), policy)
	attendanceSvc := attendanceService.NewAttendanceService(attendanceRepo, clock, weeks)
	reportSvc := reportService.NewReportService(attendanceRepo, employeeRepo, weeks, aggregator)

	fileStorage, err := storage.NewLocalStorage(cfg.Storage.BasePath, cfg.Storage.BaseURL)
	if err != nil {
		log.Fatal("Failed to initialize local storage: ", err)
	}
	emailService, err := email.NewEmailService(cfg.SMTP)
	if err != nil {
		log.Fatal("Failed to initialize email service: ", err)
	}

	scheduler := cron.NewScheduler(clock)
	reportJobs := cron.NewReportJobs(reportSvc, employeeRepo, emailService, fileStorage, clock, cron.ReportSchedule{
		Location:   loc,
		Weekday:    weekday,
		Hour:       cfg.Report.SendHour,
		Interval:   cfg.Report.CheckInterval,
		Recipients: cfg.Report.Recipients,
	})
	reportJobs.RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)
	reportHandler := appHTTP.NewReportHandler(reportSvc)

	router := appHTTP.NewRouter(
		appHTTP.RouterOptions{
			AllowedOrigins: cfg.CORS.AllowedOrigins,
			Env:            strings.ToLower(cfg.App.Env),
			Version:        version,
			LogLevel:       level,
		},
		JWTService,
		attendanceHandler,
		reportHandler,
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server running", "addr", server.Addr, "timezone", loc.String(), "version", version)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
	}
}
