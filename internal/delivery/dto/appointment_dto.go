package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

type CreateAppointmentRequest struct {
	DoctorID            string    `json:"doctor_id" validate:"required,uuid"`
	AppointmentDateTime time.Time `json:"appointment_date_time" validate:"required"`
	Symptoms            string    `json:"symptoms" validate:"omitempty,max=2000"`
}

// DoctorUpdateAppointmentRequest sets the clinical fields. Omitted fields are kept.
type DoctorUpdateAppointmentRequest struct {
	Fees            *decimal.Decimal `json:"fees"`
	Prescription    *string          `json:"prescription" validate:"omitempty,max=2000"`
	IsDiagnosisDone *bool            `json:"is_diagnosis_done"`
}

type UpdateSymptomsRequest struct {
	Symptoms string `json:"symptoms" validate:"required,max=2000"`
}

// Response DTOs

type AppointmentResponse struct {
	ID                  uuid.UUID        `json:"id"`
	PatientID           uuid.UUID        `json:"patient_id"`
	DoctorID            uuid.UUID        `json:"doctor_id"`
	AppointmentDateTime time.Time        `json:"appointment_date_time"`
	Symptoms            string           `json:"symptoms"`
	Fees                *decimal.Decimal `json:"fees"`
	Prescription        string           `json:"prescription"`
	IsDiagnosisDone     bool             `json:"is_diagnosis_done"`
	State               string           `json:"state"`
	Patient             *UserSummary     `json:"patient,omitempty"`
	Doctor              *UserSummary     `json:"doctor,omitempty"`
	CreatedAt           time.Time        `json:"created_at"`
	UpdatedAt           time.Time        `json:"updated_at"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}

type DeletionRequestResponse struct {
	AppointmentID uuid.UUID `json:"appointment_id"`
	RequestedBy   uuid.UUID `json:"requested_by"`
	RequestedAt   time.Time `json:"requested_at"`
}

type DeletionRequestListResponse struct {
	Requests []DeletionRequestResponse `json:"requests"`
	Total    int                       `json:"total"`
}
