package http

import (
	"net/http"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/salary"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/user"
	"github.com/cmlabs-hris/payroll-engine/internal/handler/http/response"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/calendar"
	"github.com/go-chi/chi/v5"
)

type SalaryHandler interface {
	SetSalary(w http.ResponseWriter, r *http.Request)
	CurrentSalary(w http.ResponseWriter, r *http.Request)
	SalaryHistory(w http.ResponseWriter, r *http.Request)
}

type SalaryHandlerImpl struct {
	salaryService salary.SalaryService
}

func NewSalaryHandler(salaryService salary.SalaryService) SalaryHandler {
	return &SalaryHandlerImpl{salaryService: salaryService}
}

func (h *SalaryHandlerImpl) SetSalary(w http.ResponseWriter, r *http.Request) {
	var req salary.SetSalaryRequest
	if !decodeJSON(w, r, &req, "SetSalary") {
		return
	}

	record, err := h.salaryService.SetSalary(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Salary record created successfully", salary.NewSalaryRecordResponse(record))
}

func (h *SalaryHandlerImpl) CurrentSalary(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")
	if _, ok := authorize(w, r, user.PermissionSalaryViewAll, employeeID); !ok {
		return
	}

	asOf := calendar.Truncate(time.Now())
	if raw := r.URL.Query().Get("as_of"); raw != "" {
		d, err := calendar.ParseDate(raw)
		if err != nil {
			response.ValidationError(w, map[string]string{"as_of": "as_of must be in YYYY-MM-DD format"})
			return
		}
		asOf = d
	}

	record, err := h.salaryService.CurrentSalary(r.Context(), employeeID, asOf)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, salary.NewSalaryRecordResponse(record))
}

func (h *SalaryHandlerImpl) SalaryHistory(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")
	if _, ok := authorize(w, r, user.PermissionSalaryViewAll, employeeID); !ok {
		return
	}

	records, err := h.salaryService.SalaryHistory(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	resp := make([]salary.SalaryRecordResponse, 0, len(records))
	for _, rec := range records {
		resp = append(resp, salary.NewSalaryRecordResponse(rec))
	}
	response.Success(w, resp)
}
