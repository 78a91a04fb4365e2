package converter

import (
	"clinic-booking/internal/delivery/dto"
	"clinic-booking/internal/domain/entity"

	"github.com/shopspring/decimal"
)

// AppointmentToResponse converts an Appointment entity to AppointmentResponse DTO.
// Patient and Doctor are included only when they were joined.
func AppointmentToResponse(appointment *entity.Appointment) *dto.AppointmentResponse {
	if appointment == nil {
		return nil
	}

	var fees *decimal.Decimal
	if appointment.Fees.Valid {
		f := appointment.Fees.Decimal
		fees = &f
	}

	return &dto.AppointmentResponse{
		ID:                  appointment.ID,
		PatientID:           appointment.PatientID,
		DoctorID:            appointment.DoctorID,
		AppointmentDateTime: appointment.AppointmentDateTime,
		Symptoms:            appointment.Symptoms,
		Fees:                fees,
		Prescription:        appointment.Prescription,
		IsDiagnosisDone:     appointment.IsDiagnosisDone,
		State:               string(appointment.State()),
		Patient:             UserToSummary(appointment.Patient),
		Doctor:              UserToSummary(appointment.Doctor),
		CreatedAt:           appointment.CreatedAt,
		UpdatedAt:           appointment.UpdatedAt,
	}
}

func AppointmentsToResponses(appointments []entity.Appointment) []dto.AppointmentResponse {
	responses := make([]dto.AppointmentResponse, len(appointments))
	for i := range appointments {
		responses[i] = *AppointmentToResponse(&appointments[i])
	}
	return responses
}

func DeletionRequestToResponse(request *entity.DeletionRequest) *dto.DeletionRequestResponse {
	if request == nil {
		return nil
	}

	return &dto.DeletionRequestResponse{
		AppointmentID: request.AppointmentID,
		RequestedBy:   request.RequestedBy,
		RequestedAt:   request.RequestedAt,
	}
}

func DeletionRequestsToResponses(requests []entity.DeletionRequest) []dto.DeletionRequestResponse {
	responses := make([]dto.DeletionRequestResponse, len(requests))
	for i := range requests {
		responses[i] = *DeletionRequestToResponse(&requests[i])
	}
	return responses
}
