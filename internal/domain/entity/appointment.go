package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AppointmentState is derived from the appointment's fields, it is not stored.
type AppointmentState string

const (
	AppointmentStateBooked    AppointmentState = "booked"
	AppointmentStateUpdated   AppointmentState = "updated"
	AppointmentStateDiagnosed AppointmentState = "diagnosed"
)

// Appointment is a booking between exactly one patient and one doctor
type Appointment struct {
	ID                  uuid.UUID           `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	PatientID           uuid.UUID           `gorm:"type:uuid;not null;index" json:"patient_id"`
	DoctorID            uuid.UUID           `gorm:"type:uuid;not null;index" json:"doctor_id"`
	AppointmentDateTime time.Time           `gorm:"column:appointment_date_time;not null;index" json:"appointment_date_time"`
	Symptoms            string              `gorm:"type:text;not null;default:''" json:"symptoms,omitempty"`
	Fees                decimal.NullDecimal `gorm:"type:numeric(10,2)" json:"fees"`
	Prescription        string              `gorm:"type:text;not null;default:''" json:"prescription,omitempty"`
	IsDiagnosisDone     bool                `gorm:"not null;default:false" json:"is_diagnosis_done"`
	CreatedAt           time.Time           `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time           `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships. Deleting a user leaves these nil.
	Patient *User `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Doctor  *User `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// State derives the lifecycle state: diagnosed once the flag is set,
// updated once anything was written after booking, booked otherwise.
func (a *Appointment) State() AppointmentState {
	switch {
	case a.IsDiagnosisDone:
		return AppointmentStateDiagnosed
	case a.Fees.Valid || a.Prescription != "" || a.UpdatedAt.After(a.CreatedAt):
		return AppointmentStateUpdated
	default:
		return AppointmentStateBooked
	}
}

// TimeUntil returns how long from now until the appointment starts.
func (a *Appointment) TimeUntil(now time.Time) time.Duration {
	return a.AppointmentDateTime.Sub(now)
}

// DoctorUpdate carries the fields a doctor may change. Nil means unchanged.
type DoctorUpdate struct {
	Fees            *decimal.Decimal
	Prescription    *string
	IsDiagnosisDone *bool
}

// Apply copies the set fields onto the appointment.
func (d DoctorUpdate) Apply(a *Appointment) {
	if d.Fees != nil {
		a.Fees = decimal.NewNullDecimal(*d.Fees)
	}
	if d.Prescription != nil {
		a.Prescription = *d.Prescription
	}
	if d.IsDiagnosisDone != nil {
		a.IsDiagnosisDone = *d.IsDiagnosisDone
	}
}
