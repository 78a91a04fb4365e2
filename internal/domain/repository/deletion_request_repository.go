package repository

import (
	"context"

	"clinic-booking/internal/domain/entity"

	"github.com/google/uuid"
)

// DeletionRequestRepository is the key-value ledger of pending deletion
// requests, keyed by appointment ID. Set overwrites.
type DeletionRequestRepository interface {
	Set(ctx context.Context, request *entity.DeletionRequest) error
	FindByAppointmentID(ctx context.Context, appointmentID uuid.UUID) (*entity.DeletionRequest, error)
	FindAll(ctx context.Context) ([]entity.DeletionRequest, error)
	Delete(ctx context.Context, appointmentID uuid.UUID) (int64, error)
}
