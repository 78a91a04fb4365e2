package usecase

import (
	"errors"
	"strings"

	"clinic-booking/internal/domain/apperror"
	"clinic-booking/pkg/validator"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrUserNotFound            = apperror.New(apperror.KindNotFound, "user not found")
	ErrDoctorNotFound          = apperror.New(apperror.KindNotFound, "doctor not found")
	ErrAppointmentNotFound     = apperror.New(apperror.KindNotFound, "appointment not found")
	ErrDeletionRequestNotFound = apperror.New(apperror.KindNotFound, "deletion request not found")
	ErrNothingToUpdate         = apperror.New(apperror.KindValidation, "no fields to update")
)

// validateRequest runs the struct tags of req. The validator errors stay in
// the chain so the HTTP layer can report them per field.
func validateRequest(v *validator.CustomValidator, req interface{}) error {
	if err := v.Validate(req); err != nil {
		return apperror.Wrap(apperror.KindValidation, "validation failed", err)
	}
	return nil
}

// isDuplicateKeyError checks if the error is a PostgreSQL unique constraint violation
// containing the specified constraint name
func isDuplicateKeyError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// PostgreSQL error code 23505 = unique_violation
		if pgErr.Code == "23505" && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName)) {
			return true
		}
	}
	return false
}
