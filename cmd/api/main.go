package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/config"
	appHTTP "github.com/cmlabs-hris/payroll-engine/internal/handler/http"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/cron"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/database"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/jwt"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/lock"
	"github.com/cmlabs-hris/payroll-engine/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/payroll-engine/internal/service/attendance"
	leaveService "github.com/cmlabs-hris/payroll-engine/internal/service/leave"
	payrollService "github.com/cmlabs-hris/payroll-engine/internal/service/payroll"
	salaryService "github.com/cmlabs-hris/payroll-engine/internal/service/salary"
	scheduleService "github.com/cmlabs-hris/payroll-engine/internal/service/schedule"
)

var version = "dev"

func main() {
	if err := run(); err != nil {
		slog.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	level := parseLogLevel(cfg.App.LogLevel)
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	var locker lock.Locker = lock.NoopLocker{}
	if cfg.Redis.Address != "" {
		rdb, err := lock.NewRedisClient(ctx, cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			slog.Warn("redis unavailable; payroll runs will not be locked across instances", "error", err)
		} else {
			defer rdb.Close()
			locker = lock.NewRedisLocker(rdb)
		}
	}

	txManager := postgresql.NewTxManager(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	salaryRepo := postgresql.NewSalaryRepository(db)
	balanceRepo := postgresql.NewLeaveBalanceRepository(db)
	leaveRequestRepo := postgresql.NewLeaveRequestRepository(db)
	shiftRepo := postgresql.NewShiftRepository(db)
	assignmentRepo := postgresql.NewShiftAssignmentRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	payrollRepo := postgresql.NewPayrollRepository(db)

	accessExp, err := time.ParseDuration(cfg.JWT.AccessExpiration)
	if err != nil {
		return fmt.Errorf("parse JWT access expiration: %w", err)
	}
	JWTService := jwt.NewJWTService(cfg.JWT.Secret, accessExp)

	salarySvc := salaryService.NewSalaryService(txManager, salaryRepo, employeeRepo, cfg.Payroll.DefaultCurrency)
	leaveSvc := leaveService.NewLeaveService(txManager, balanceRepo, leaveRequestRepo, employeeRepo, cfg.Payroll.DefaultLeaveDays)
	scheduleSvc := scheduleService.NewScheduleService(shiftRepo, assignmentRepo, employeeRepo)
	attendanceSvc := attendanceService.NewAttendanceService(attendanceRepo, employeeRepo, assignmentRepo)
	payrollSvc := payrollService.NewPayrollService(
		txManager,
		payrollRepo,
		employeeRepo,
		salaryRepo,
		attendanceRepo,
		leaveRequestRepo,
		locker,
		payrollService.Options{
			TaxSource:          cfg.Payroll.TaxSource,
			OvertimeMultiplier: cfg.Payroll.OvertimeMultiplier,
			DefaultCurrency:    cfg.Payroll.DefaultCurrency,
			RunLockTTL:         cfg.Payroll.RunLockTTL,
		},
	)

	if n, err := scheduleSvc.SeedDefaultShifts(ctx); err != nil {
		slog.Warn("failed to seed default shifts", "error", err)
	} else if n > 0 {
		slog.Info("seeded default shifts", "count", n)
	}

	if cfg.Payroll.CronEnabled {
		scheduler := cron.NewScheduler()
		cron.NewLeaveJobs(leaveSvc).RegisterJobs(scheduler, cfg.Payroll.CronInterval)
		cron.NewAttendanceJobs(attendanceSvc).RegisterJobs(scheduler, cfg.Payroll.CronInterval)
		scheduler.Start(ctx)
		defer scheduler.Stop()
	}

	router := appHTTP.NewRouter(appHTTP.RouterConfig{
		Env:            cfg.App.Env,
		Version:        version,
		AllowedOrigins: cfg.App.AllowedOrigins,
		LogLevel:       level,
	}, JWTService, appHTTP.Handlers{
		Salary:     appHTTP.NewSalaryHandler(salarySvc),
		Leave:      appHTTP.NewLeaveHandler(leaveSvc),
		Attendance: appHTTP.NewAttendanceHandler(attendanceSvc),
		Schedule:   appHTTP.NewScheduleHandler(scheduleSvc),
		Payroll:    appHTTP.NewPayrollHandler(payrollSvc),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", srv.Addr, "env", cfg.App.Env, "version", version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
