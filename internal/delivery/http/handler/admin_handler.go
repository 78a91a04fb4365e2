package handler

import (
	"net/http"
	"path/filepath"

	"clinic-booking/internal/delivery/dto"
	"clinic-booking/internal/delivery/http/middleware"
	"clinic-booking/internal/usecase"
	"clinic-booking/pkg/response"
	"clinic-booking/pkg/validator"
)

type AdminHandler struct {
	adminUsecase usecase.AdminUsecase
	validator    *validator.CustomValidator
}

func NewAdminHandler(adminUsecase usecase.AdminUsecase, validator *validator.CustomValidator) *AdminHandler {
	return &AdminHandler{
		adminUsecase: adminUsecase,
		validator:    validator,
	}
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetIdentityFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	users, err := h.adminUsecase.ListUsers(r.Context(), caller, r.URL.Query().Get("role"))
	if err != nil {
		writeError(w, h.validator, err, "Failed to get users")
		return
	}

	response.Success(w, http.StatusOK, "Users retrieved successfully", users)
}

func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetIdentityFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	id, ok := parseUUIDParam(w, r, "id", "user")
	if !ok {
		return
	}

	if err := h.adminUsecase.DeleteUser(r.Context(), caller, id); err != nil {
		writeError(w, h.validator, err, "Failed to delete user")
		return
	}

	response.Success(w, http.StatusOK, "User deleted successfully", nil)
}

func (h *AdminHandler) DeleteAppointment(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetIdentityFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	id, ok := parseUUIDParam(w, r, "id", "appointment")
	if !ok {
		return
	}

	if err := h.adminUsecase.DeleteAppointment(r.Context(), caller, id); err != nil {
		writeError(w, h.validator, err, "Failed to delete appointment")
		return
	}

	response.Success(w, http.StatusOK, "Appointment deleted successfully", nil)
}

func (h *AdminHandler) ListDeletionRequests(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetIdentityFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	requests, err := h.adminUsecase.ListDeletionRequests(r.Context(), caller)
	if err != nil {
		writeError(w, h.validator, err, "Failed to get deletion requests")
		return
	}

	response.Success(w, http.StatusOK, "Deletion requests retrieved successfully", requests)
}

// ApproveDeletionRequest deletes the appointment the request points at.
func (h *AdminHandler) ApproveDeletionRequest(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetIdentityFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	id, ok := parseUUIDParam(w, r, "id", "appointment")
	if !ok {
		return
	}

	if err := h.adminUsecase.ApproveDeletionRequest(r.Context(), caller, id); err != nil {
		writeError(w, h.validator, err, "Failed to approve deletion request")
		return
	}

	response.Success(w, http.StatusOK, "Deletion request approved", nil)
}

func (h *AdminHandler) RejectDeletionRequest(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetIdentityFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	id, ok := parseUUIDParam(w, r, "id", "appointment")
	if !ok {
		return
	}

	if err := h.adminUsecase.RejectDeletionRequest(r.Context(), caller, id); err != nil {
		writeError(w, h.validator, err, "Failed to reject deletion request")
		return
	}

	response.Success(w, http.StatusOK, "Deletion request rejected", nil)
}

func (h *AdminHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetIdentityFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	report, err := h.adminUsecase.GenerateReport(r.Context(), caller)
	if err != nil {
		writeError(w, h.validator, err, "Failed to generate report")
		return
	}

	response.Success(w, http.StatusOK, "Report generated successfully", report)
}

// ExportReport writes the report to disk and streams the file back. With
// ?download=false only the stored path is returned.
func (h *AdminHandler) ExportReport(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetIdentityFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	path, err := h.adminUsecase.ExportReport(r.Context(), caller)
	if err != nil {
		writeError(w, h.validator, err, "Failed to export report")
		return
	}

	if r.URL.Query().Get("download") == "false" {
		response.Success(w, http.StatusCreated, "Report exported successfully", dto.ReportFileResponse{Path: path})
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filepath.Base(path)+`"`)
	http.ServeFile(w, r, path)
}
