package http

import (
	"encoding/json"
	"net/http"

	"github.com/orgpulse/attendance-backend-go/internal/domain/classattendance"
	"github.com/orgpulse/attendance-backend-go/internal/handler/http/response"
)

type ClassAttendanceHandler interface {
	CheckIn(w http.ResponseWriter, r *http.Request)
	CheckOut(w http.ResponseWriter, r *http.Request)
	GetMyClassAttendance(w http.ResponseWriter, r *http.Request)
}

type classAttendanceHandlerImpl struct {
	classAttendanceService classattendance.ClassAttendanceService
}

func NewClassAttendanceHandler(classAttendanceService classattendance.ClassAttendanceService) ClassAttendanceHandler {
	return &classAttendanceHandlerImpl{
		classAttendanceService: classAttendanceService,
	}
}

// explicitCheckoutSupported reads the calling convention from the client
// header. Web clients cannot issue a later checkout and get the session
// pre-closed; mobile clients check out explicitly.
func explicitCheckoutSupported(r *http.Request) bool {
	return r.Header.Get("X-Client-Platform") == "mobile"
}

// CheckIn implements ClassAttendanceHandler.
func (h *classAttendanceHandlerImpl) CheckIn(w http.ResponseWriter, r *http.Request) {
	var req classattendance.CheckInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ExplicitCheckoutSupported = explicitCheckoutSupported(r)

	result, err := h.classAttendanceService.CheckIn(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Class check-in successful", result)
}

// CheckOut implements ClassAttendanceHandler.
func (h *classAttendanceHandlerImpl) CheckOut(w http.ResponseWriter, r *http.Request) {
	var req classattendance.CheckOutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.classAttendanceService.CheckOut(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Class check-out successful", result)
}

// GetMyClassAttendance implements ClassAttendanceHandler.
func (h *classAttendanceHandlerImpl) GetMyClassAttendance(w http.ResponseWriter, r *http.Request) {
	filter := classattendance.MyClassAttendanceFilter{
		StartDate: queryParam(r, "start_date"),
		EndDate:   queryParam(r, "end_date"),
	}

	result, err := h.classAttendanceService.GetMyClassAttendance(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
