package http

import (
	"net/http"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/schedule"
	"github.com/cmlabs-hris/payroll-engine/internal/handler/http/response"
)

type ScheduleHandler interface {
	CreateShift(w http.ResponseWriter, r *http.Request)
	ListShifts(w http.ResponseWriter, r *http.Request)
	AssignShift(w http.ResponseWriter, r *http.Request)
}

type ScheduleHandlerImpl struct {
	scheduleService schedule.ScheduleService
}

func NewScheduleHandler(scheduleService schedule.ScheduleService) ScheduleHandler {
	return &ScheduleHandlerImpl{scheduleService: scheduleService}
}

func (h *ScheduleHandlerImpl) CreateShift(w http.ResponseWriter, r *http.Request) {
	var req schedule.CreateShiftRequest
	if !decodeJSON(w, r, &req, "CreateShift") {
		return
	}

	shift, err := h.scheduleService.CreateShift(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Shift created successfully", schedule.NewShiftResponse(shift))
}

func (h *ScheduleHandlerImpl) ListShifts(w http.ResponseWriter, r *http.Request) {
	shifts, err := h.scheduleService.ListShifts(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	resp := make([]schedule.ShiftResponse, 0, len(shifts))
	for _, s := range shifts {
		resp = append(resp, schedule.NewShiftResponse(s))
	}
	response.Success(w, resp)
}

func (h *ScheduleHandlerImpl) AssignShift(w http.ResponseWriter, r *http.Request) {
	var req schedule.AssignShiftRequest
	if !decodeJSON(w, r, &req, "AssignShift") {
		return
	}

	assignment, err := h.scheduleService.AssignShift(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Shift assigned successfully", map[string]string{
		"employee_id": assignment.EmployeeID,
		"date":        assignment.Date.Format("2006-01-02"),
		"shift_id":    assignment.ShiftID,
	})
}
