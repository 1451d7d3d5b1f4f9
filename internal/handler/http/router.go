package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/user"
	"github.com/cmlabs-hris/payroll-engine/internal/handler/http/middleware"
	"github.com/cmlabs-hris/payroll-engine/internal/handler/http/response"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type RouterConfig struct {
	Env            string
	Version        string
	AllowedOrigins []string
	LogLevel       slog.Level
}

type Handlers struct {
	Salary     SalaryHandler
	Leave      LeaveHandler
	Attendance AttendanceHandler
	Schedule   ScheduleHandler
	Payroll    PayrollHandler
}

func NewRouter(cfg RouterConfig, JWTService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "payroll-engine"),
		slog.String("version", cfg.Version),
		slog.String("env", cfg.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  cfg.LogLevel,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
		r.Use(middleware.AuthRequired)

		r.Route("/salaries", func(r chi.Router) {
			r.With(middleware.RequirePermission(user.PermissionSalaryManage)).Post("/", h.Salary.SetSalary)

			r.Route("/{employeeID}", func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionSalaryViewAll, user.PermissionSalaryViewOwn))
				r.Get("/current", h.Salary.CurrentSalary)
				r.Get("/history", h.Salary.SalaryHistory)
			})
		})

		r.Route("/leave", func(r chi.Router) {
			r.Route("/requests", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionLeaveApplyAny, user.PermissionLeaveApplyOwn)).Post("/", h.Leave.ApplyLeave)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionLeaveViewAll, user.PermissionLeaveViewOwn))
					r.Get("/", h.Leave.ListRequests)
					r.Get("/{id}", h.Leave.GetRequest)
				})

				r.With(middleware.RequirePermission(user.PermissionLeaveApprove)).Post("/{id}/decision", h.Leave.DecideLeave)
			})

			r.With(middleware.RequirePermission(user.PermissionLeaveViewAll, user.PermissionLeaveViewOwn)).
				Get("/balances/{employeeID}", h.Leave.GetBalance)
		})

		r.Route("/shifts", func(r chi.Router) {
			r.Get("/", h.Schedule.ListShifts)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionScheduleManage))
				r.Post("/", h.Schedule.CreateShift)
				r.Post("/assignments", h.Schedule.AssignShift)
			})
		})

		r.Route("/attendance", func(r chi.Router) {
			r.Use(middleware.RequirePermission(user.PermissionAttendanceRecordAny, user.PermissionAttendanceRecordOwn))
			r.Get("/", h.Attendance.ListAttendance)
			r.Post("/clock-in", h.Attendance.ClockIn)
		})

		r.Route("/payroll", func(r chi.Router) {
			r.Route("/runs", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionPayrollView))
					r.Get("/", h.Payroll.ListRuns)
					r.Get("/{id}", h.Payroll.GetRun)
					r.Get("/{id}/register.xlsx", h.Payroll.ExportRunRegister)
				})

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionPayrollRun))
					r.Post("/", h.Payroll.CreateRun)
					r.Post("/{id}/process", h.Payroll.ProcessRun)
					r.Post("/{id}/cancel", h.Payroll.CancelRun)
				})
			})

			r.Route("/payslips", func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionPayslipViewAll, user.PermissionPayslipViewOwn))
				r.Get("/employee/{employeeID}", h.Payroll.ListPayslips)
				r.Get("/{entryID}", h.Payroll.GetPayslip)
				r.Get("/{entryID}/pdf", h.Payroll.DownloadPayslipPDF)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "Route not found")
	})

	return r
}
