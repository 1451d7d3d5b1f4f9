package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/leave"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/user"
	"github.com/cmlabs-hris/payroll-engine/internal/handler/http/middleware"
	"github.com/cmlabs-hris/payroll-engine/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type LeaveHandler interface {
	ApplyLeave(w http.ResponseWriter, r *http.Request)
	DecideLeave(w http.ResponseWriter, r *http.Request)
	GetBalance(w http.ResponseWriter, r *http.Request)
	GetRequest(w http.ResponseWriter, r *http.Request)
	ListRequests(w http.ResponseWriter, r *http.Request)
}

type LeaveHandlerImpl struct {
	leaveService leave.LeaveService
}

func NewLeaveHandler(leaveService leave.LeaveService) LeaveHandler {
	return &LeaveHandlerImpl{leaveService: leaveService}
}

// ApplyLeave files a request for the body's employee, defaulting to the caller.
func (h *LeaveHandlerImpl) ApplyLeave(w http.ResponseWriter, r *http.Request) {
	var req leave.ApplyLeaveRequest
	if !decodeJSON(w, r, &req, "ApplyLeave") {
		return
	}

	if req.EmployeeID == "" {
		if s, ok := middleware.SubjectFromContext(r.Context()); ok {
			req.EmployeeID = s.EmployeeID
		}
	}
	if _, ok := authorize(w, r, user.PermissionLeaveApplyAny, req.EmployeeID); !ok {
		return
	}

	resp, err := h.leaveService.ApplyLeave(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave request submitted successfully", resp)
}

func (h *LeaveHandlerImpl) DecideLeave(w http.ResponseWriter, r *http.Request) {
	subject, ok := authorize(w, r, user.PermissionLeaveApprove, "")
	if !ok {
		return
	}

	var req leave.DecideLeaveRequest
	if !decodeJSON(w, r, &req, "DecideLeave") {
		return
	}
	req.RequestID = chi.URLParam(r, "id")
	req.DecidedBy = subject.UserID

	decided, err := h.leaveService.DecideLeave(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request "+string(decided.Status), leave.NewLeaveRequestResponse(decided))
}

func (h *LeaveHandlerImpl) GetBalance(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")
	if _, ok := authorize(w, r, user.PermissionLeaveViewAll, employeeID); !ok {
		return
	}

	year := time.Now().Year()
	if raw := r.URL.Query().Get("year"); raw != "" {
		y, err := strconv.Atoi(raw)
		if err != nil || y < 1900 || y > 9999 {
			response.ValidationError(w, map[string]string{"year": "year must be a four digit number"})
			return
		}
		year = y
	}

	balance, err := h.leaveService.LeaveBalance(r.Context(), employeeID, year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, leave.NewLeaveBalanceResponse(balance))
}

func (h *LeaveHandlerImpl) GetRequest(w http.ResponseWriter, r *http.Request) {
	request, err := h.leaveService.GetLeaveRequest(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if !authorizeHidden(w, r, user.PermissionLeaveViewAll, request.EmployeeID, leave.ErrLeaveRequestNotFound) {
		return
	}

	response.Success(w, leave.NewLeaveRequestResponse(request))
}

// ListRequests limits callers without leave.view_all to their own requests.
func (h *LeaveHandlerImpl) ListRequests(w http.ResponseWriter, r *http.Request) {
	subject, ok := middleware.SubjectFromContext(r.Context())
	if !ok {
		response.HandleError(w, user.ErrMissingSubject)
		return
	}

	var filter leave.LeaveRequestFilter
	if id := r.URL.Query().Get("employee_id"); id != "" {
		filter.EmployeeID = &id
	}
	if status := r.URL.Query().Get("status"); status != "" {
		s := leave.LeaveRequestStatus(status)
		filter.Status = &s
	}

	if !user.HasPermission(subject.Role, user.PermissionLeaveViewAll) {
		if filter.EmployeeID == nil {
			own := subject.EmployeeID
			filter.EmployeeID = &own
		}
		if _, ok := authorize(w, r, user.PermissionLeaveViewAll, *filter.EmployeeID); !ok {
			return
		}
	}

	requests, err := h.leaveService.ListLeaveRequests(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	resp := make([]leave.LeaveRequestResponse, 0, len(requests))
	for _, lr := range requests {
		resp = append(resp, leave.NewLeaveRequestResponse(lr))
	}
	response.Success(w, resp)
}
