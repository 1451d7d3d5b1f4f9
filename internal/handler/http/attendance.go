package http

import (
	"net/http"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/user"
	"github.com/cmlabs-hris/payroll-engine/internal/handler/http/middleware"
	"github.com/cmlabs-hris/payroll-engine/internal/handler/http/response"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/calendar"
)

type AttendanceHandler interface {
	ClockIn(w http.ResponseWriter, r *http.Request)
	ListAttendance(w http.ResponseWriter, r *http.Request)
}

type AttendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &AttendanceHandlerImpl{attendanceService: attendanceService}
}

func (h *AttendanceHandlerImpl) ClockIn(w http.ResponseWriter, r *http.Request) {
	var req attendance.ClockInRequest
	if !decodeJSON(w, r, &req, "ClockIn") {
		return
	}

	if req.EmployeeID == "" {
		if s, ok := middleware.SubjectFromContext(r.Context()); ok {
			req.EmployeeID = s.EmployeeID
		}
	}
	if _, ok := authorize(w, r, user.PermissionAttendanceRecordAny, req.EmployeeID); !ok {
		return
	}

	record, err := h.attendanceService.RecordClockIn(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Clock-in recorded successfully", attendance.NewAttendanceResponse(record))
}

// ListAttendance requires employee_id; from and to are optional YYYY-MM-DD bounds.
func (h *AttendanceHandlerImpl) ListAttendance(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := attendance.AttendanceFilter{EmployeeID: q.Get("employee_id")}
	if filter.EmployeeID == "" {
		if s, ok := middleware.SubjectFromContext(r.Context()); ok {
			filter.EmployeeID = s.EmployeeID
		}
	}
	if filter.EmployeeID == "" {
		response.ValidationError(w, map[string]string{"employee_id": "employee_id is required"})
		return
	}
	if _, ok := authorize(w, r, user.PermissionAttendanceRecordAny, filter.EmployeeID); !ok {
		return
	}

	errs := map[string]string{}
	if raw := q.Get("from"); raw != "" {
		d, err := calendar.ParseDate(raw)
		if err != nil {
			errs["from"] = "from must be in YYYY-MM-DD format"
		}
		filter.From = d
	}
	if raw := q.Get("to"); raw != "" {
		d, err := calendar.ParseDate(raw)
		if err != nil {
			errs["to"] = "to must be in YYYY-MM-DD format"
		}
		filter.To = d
	}
	if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	records, err := h.attendanceService.ListAttendance(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	resp := make([]attendance.AttendanceResponse, 0, len(records))
	for _, rec := range records {
		resp = append(resp, attendance.NewAttendanceResponse(rec))
	}
	response.Success(w, resp)
}
