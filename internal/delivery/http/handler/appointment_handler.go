package handler

import (
	"net/http"

	"clinic-booking/internal/delivery/dto"
	"clinic-booking/internal/delivery/http/middleware"
	"clinic-booking/internal/usecase"
	"clinic-booking/pkg/response"
	"clinic-booking/pkg/validator"
)

type AppointmentHandler struct {
	appointmentUsecase usecase.AppointmentUsecase
	validator          *validator.CustomValidator
}

func NewAppointmentHandler(appointmentUsecase usecase.AppointmentUsecase, validator *validator.CustomValidator) *AppointmentHandler {
	return &AppointmentHandler{
		appointmentUsecase: appointmentUsecase,
		validator:          validator,
	}
}

func (h *AppointmentHandler) ListDoctors(w http.ResponseWriter, r *http.Request) {
	doctors, err := h.appointmentUsecase.ListDoctors(r.Context(), r.URL.Query().Get("specialization"))
	if err != nil {
		writeError(w, h.validator, err, "Failed to get doctors")
		return
	}

	response.Success(w, http.StatusOK, "Doctors retrieved successfully", doctors)
}

// ListAppointments returns the appointments visible to the caller's role.
func (h *AppointmentHandler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetIdentityFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	appointments, err := h.appointmentUsecase.ListForCaller(r.Context(), caller)
	if err != nil {
		writeError(w, h.validator, err, "Failed to get appointments")
		return
	}

	response.Success(w, http.StatusOK, "Appointments retrieved successfully", appointments)
}

func (h *AppointmentHandler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetIdentityFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	var req dto.CreateAppointmentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	appointment, err := h.appointmentUsecase.Book(r.Context(), caller, &req)
	if err != nil {
		writeError(w, h.validator, err, "Failed to book appointment")
		return
	}

	response.Success(w, http.StatusCreated, "Appointment booked successfully", appointment)
}

func (h *AppointmentHandler) UpdateSymptoms(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetIdentityFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	id, ok := parseUUIDParam(w, r, "id", "appointment")
	if !ok {
		return
	}

	var req dto.UpdateSymptomsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	appointment, err := h.appointmentUsecase.UpdateByPatient(r.Context(), caller, id, &req)
	if err != nil {
		writeError(w, h.validator, err, "Failed to update appointment")
		return
	}

	response.Success(w, http.StatusOK, "Appointment updated successfully", appointment)
}

func (h *AppointmentHandler) UpdateDiagnosis(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetIdentityFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	id, ok := parseUUIDParam(w, r, "id", "appointment")
	if !ok {
		return
	}

	var req dto.DoctorUpdateAppointmentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	appointment, err := h.appointmentUsecase.UpdateByDoctor(r.Context(), caller, id, &req)
	if err != nil {
		writeError(w, h.validator, err, "Failed to update appointment")
		return
	}

	response.Success(w, http.StatusOK, "Appointment updated successfully", appointment)
}

func (h *AppointmentHandler) RequestDeletion(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetIdentityFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	id, ok := parseUUIDParam(w, r, "id", "appointment")
	if !ok {
		return
	}

	request, err := h.appointmentUsecase.RequestDeletion(r.Context(), caller, id)
	if err != nil {
		writeError(w, h.validator, err, "Failed to request deletion")
		return
	}

	response.Success(w, http.StatusAccepted, "Deletion requested successfully", request)
}
