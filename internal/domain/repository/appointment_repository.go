package repository

import (
	"context"
	"time"

	"clinic-booking/internal/domain/entity"

	"github.com/google/uuid"
)

// AppointmentRepository is the appointment store. It performs no
// authorization. Update and Delete return the number of affected rows.
type AppointmentRepository interface {
	Create(ctx context.Context, appointment *entity.Appointment) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Appointment, error)
	FindByPatientID(ctx context.Context, patientID uuid.UUID) ([]entity.Appointment, error)
	FindByDoctorIDJoined(ctx context.Context, doctorID uuid.UUID) ([]entity.Appointment, error)
	FindAllJoined(ctx context.Context) ([]entity.Appointment, error)
	UpdateDoctorFields(ctx context.Context, id uuid.UUID, update entity.DoctorUpdate, at time.Time) (int64, error)
	UpdateSymptoms(ctx context.Context, id uuid.UUID, symptoms string, at time.Time) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
	Count(ctx context.Context) (int64, error)
}
