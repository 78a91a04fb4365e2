package entity

import (
	"time"

	"github.com/google/uuid"
)

// DeletionRequest records a patient's intent to have an appointment removed.
// It lives in the key-value ledger keyed by AppointmentID, never in the
// appointments table.
type DeletionRequest struct {
	AppointmentID uuid.UUID `json:"appointment_id"`
	RequestedBy   uuid.UUID `json:"requested_by"`
	RequestedAt   time.Time `json:"requested_at"`
}
