package handler

import (
	"encoding/json"
	"net/http"

	"clinic-booking/internal/domain/apperror"
	"clinic-booking/pkg/response"
	"clinic-booking/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// writeError maps a usecase error onto the response envelope. fallback is
// the message used for unexpected failures so internals never leak.
func writeError(w http.ResponseWriter, v *validator.CustomValidator, err error, fallback string) {
	switch apperror.KindOf(err) {
	case apperror.KindValidation:
		if fields := v.FormatValidationErrors(err); len(fields) > 0 {
			response.ValidationError(w, fields)
			return
		}
		response.BadRequest(w, apperror.MessageOf(err))
	case apperror.KindUnauthorized:
		response.Unauthorized(w, apperror.MessageOf(err))
	case apperror.KindForbidden:
		response.Forbidden(w, apperror.MessageOf(err))
	case apperror.KindPolicy:
		response.UnprocessableEntity(w, apperror.MessageOf(err))
	case apperror.KindNotFound:
		response.NotFound(w, apperror.MessageOf(err))
	default:
		response.InternalServerError(w, fallback)
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return false
	}
	return true
}

func parseUUIDParam(w http.ResponseWriter, r *http.Request, name, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid "+label+" ID", nil)
		return uuid.Nil, false
	}
	return id, true
}
