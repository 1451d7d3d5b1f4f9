package http

import (
	"bytes"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/user"
	"github.com/cmlabs-hris/payroll-engine/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type PayrollHandler interface {
	CreateRun(w http.ResponseWriter, r *http.Request)
	ProcessRun(w http.ResponseWriter, r *http.Request)
	CancelRun(w http.ResponseWriter, r *http.Request)
	GetRun(w http.ResponseWriter, r *http.Request)
	ListRuns(w http.ResponseWriter, r *http.Request)
	ExportRunRegister(w http.ResponseWriter, r *http.Request)

	ListPayslips(w http.ResponseWriter, r *http.Request)
	GetPayslip(w http.ResponseWriter, r *http.Request)
	DownloadPayslipPDF(w http.ResponseWriter, r *http.Request)
}

type PayrollHandlerImpl struct {
	payrollService payroll.PayrollService
}

func NewPayrollHandler(payrollService payroll.PayrollService) PayrollHandler {
	return &PayrollHandlerImpl{payrollService: payrollService}
}

func (h *PayrollHandlerImpl) CreateRun(w http.ResponseWriter, r *http.Request) {
	subject, ok := authorize(w, r, user.PermissionPayrollRun, "")
	if !ok {
		return
	}

	var req payroll.CreateRunRequest
	if !decodeJSON(w, r, &req, "CreateRun") {
		return
	}
	req.CreatedBy = subject.UserID

	run, err := h.payrollService.CreateRun(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Payroll run created successfully", payroll.NewRunResponse(run))
}

func (h *PayrollHandlerImpl) ProcessRun(w http.ResponseWriter, r *http.Request) {
	run, err := h.payrollService.ProcessRun(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll run completed", payroll.NewRunResponse(run))
}

func (h *PayrollHandlerImpl) CancelRun(w http.ResponseWriter, r *http.Request) {
	run, err := h.payrollService.CancelRun(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll run cancelled", payroll.NewRunResponse(run))
}

func (h *PayrollHandlerImpl) GetRun(w http.ResponseWriter, r *http.Request) {
	detail, err := h.payrollService.GetRun(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, payroll.NewRunDetailResponse(detail))
}

func (h *PayrollHandlerImpl) ListRuns(w http.ResponseWriter, r *http.Request) {
	var filter payroll.RunFilter
	if status := r.URL.Query().Get("status"); status != "" {
		s := payroll.RunStatus(status)
		filter.Status = &s
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			response.ValidationError(w, map[string]string{"limit": "limit must be a positive integer"})
			return
		}
		filter.Limit = limit
	}

	runs, err := h.payrollService.ListRuns(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	resp := make([]payroll.RunResponse, 0, len(runs))
	for _, run := range runs {
		resp = append(resp, payroll.NewRunResponse(run))
	}
	response.Success(w, resp)
}

// ExportRunRegister renders into memory first so a failure still yields a JSON error.
func (h *PayrollHandlerImpl) ExportRunRegister(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "id")

	var buf bytes.Buffer
	if err := h.payrollService.ExportRunRegister(r.Context(), runID, &buf); err != nil {
		response.HandleError(w, err)
		return
	}

	response.Attachment(w, response.ContentTypeXLSX, "payroll-register-"+runID+".xlsx")
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("failed to write payroll register", "run_id", runID, "error", err)
	}
}

func (h *PayrollHandlerImpl) ListPayslips(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")
	if _, ok := authorize(w, r, user.PermissionPayslipViewAll, employeeID); !ok {
		return
	}

	slips, err := h.payrollService.GetPayslips(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	resp := make([]payroll.PayslipResponse, 0, len(slips))
	for _, s := range slips {
		resp = append(resp, payroll.NewPayslipResponse(s))
	}
	response.Success(w, resp)
}

func (h *PayrollHandlerImpl) GetPayslip(w http.ResponseWriter, r *http.Request) {
	slip, ok := h.ownedPayslip(w, r)
	if !ok {
		return
	}

	response.Success(w, payroll.NewPayslipResponse(slip))
}

func (h *PayrollHandlerImpl) DownloadPayslipPDF(w http.ResponseWriter, r *http.Request) {
	slip, ok := h.ownedPayslip(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.payrollService.RenderPayslipPDF(r.Context(), slip.Entry.ID, &buf); err != nil {
		response.HandleError(w, err)
		return
	}

	response.Attachment(w, response.ContentTypePDF, "payslip-"+slip.Entry.ID+".pdf")
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("failed to write payslip pdf", "entry_id", slip.Entry.ID, "error", err)
	}
}

func (h *PayrollHandlerImpl) ownedPayslip(w http.ResponseWriter, r *http.Request) (payroll.Payslip, bool) {
	slip, err := h.payrollService.GetPayslip(r.Context(), chi.URLParam(r, "entryID"))
	if err != nil {
		response.HandleError(w, err)
		return payroll.Payslip{}, false
	}
	if !authorizeHidden(w, r, user.PermissionPayslipViewAll, slip.Entry.EmployeeID, payroll.ErrEntryNotFound) {
		return payroll.Payslip{}, false
	}
	return slip, true
}
