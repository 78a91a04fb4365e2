package repository

import (
	"context"
	"errors"
	"time"

	"clinic-booking/internal/domain/entity"
	domainRepo "clinic-booking/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type appointmentRepository struct {
	db *gorm.DB
}

func NewAppointmentRepository(db *gorm.DB) domainRepo.AppointmentRepository {
	return &appointmentRepository{db: db}
}

func (r *appointmentRepository) Create(ctx context.Context, appointment *entity.Appointment) error {
	return r.db.WithContext(ctx).Omit("Patient", "Doctor").Create(appointment).Error
}

func (r *appointmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) FindByPatientID(ctx context.Context, patientID uuid.UUID) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := r.db.WithContext(ctx).
		Where("patient_id = ?", patientID).
		Order("appointment_date_time ASC").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) FindByDoctorIDJoined(ctx context.Context, doctorID uuid.UUID) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := r.joined(ctx).
		Where("doctor_id = ?", doctorID).
		Order("appointment_date_time ASC").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) FindAllJoined(ctx context.Context) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := r.joined(ctx).
		Order("appointment_date_time ASC").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) joined(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Patient").Preload("Doctor")
}

// UpdateDoctorFields writes only the doctor-owned columns so a concurrent
// symptoms edit is never overwritten.
func (r *appointmentRepository) UpdateDoctorFields(ctx context.Context, id uuid.UUID, update entity.DoctorUpdate, at time.Time) (int64, error) {
	columns := map[string]interface{}{"updated_at": at}
	if update.Fees != nil {
		columns["fees"] = *update.Fees
	}
	if update.Prescription != nil {
		columns["prescription"] = *update.Prescription
	}
	if update.IsDiagnosisDone != nil {
		columns["is_diagnosis_done"] = *update.IsDiagnosisDone
	}

	result := r.db.WithContext(ctx).Model(&entity.Appointment{}).Where("id = ?", id).Updates(columns)
	return result.RowsAffected, result.Error
}

func (r *appointmentRepository) UpdateSymptoms(ctx context.Context, id uuid.UUID, symptoms string, at time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&entity.Appointment{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"symptoms": symptoms, "updated_at": at})
	return result.RowsAffected, result.Error
}

func (r *appointmentRepository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Appointment{})
	return result.RowsAffected, result.Error
}

func (r *appointmentRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Appointment{}).Count(&count).Error
	return count, err
}
