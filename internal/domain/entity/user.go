package entity

import (
	"time"

	"github.com/google/uuid"
)

// Specialization is a doctor's field of practice.
type Specialization string

const (
	SpecializationNerves Specialization = "nerves"
	SpecializationHeart  Specialization = "heart"
	SpecializationLungs  Specialization = "lungs"
	SpecializationSkin   Specialization = "skin"
)

// ParseSpecialization converts a raw string into a Specialization.
func ParseSpecialization(s string) (Specialization, bool) {
	switch sp := Specialization(s); sp {
	case SpecializationNerves, SpecializationHeart, SpecializationLungs, SpecializationSkin:
		return sp, true
	}
	return "", false
}

// User represents the centralized identity table for admins, doctors and patients
type User struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name           string         `gorm:"type:varchar(255);not null" json:"name"`
	Email          string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	MobileNumber   string         `gorm:"type:varchar(20);not null" json:"mobile_number"`
	Password       string         `gorm:"type:text;not null" json:"-"`
	Role           Role           `gorm:"type:varchar(16);not null;index" json:"role"`
	Specialization Specialization `gorm:"type:varchar(16);not null;default:''" json:"specialization,omitempty"`
	AvailableDays  Weekdays       `gorm:"type:jsonb" json:"available_days,omitempty"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsDoctor() bool {
	return u.Role == RoleDoctor
}

func (u *User) IsPatient() bool {
	return u.Role == RolePatient
}

// IsAvailableOn reports whether the doctor accepts appointments on the
// UTC weekday of t. An empty availability set means every day.
func (u *User) IsAvailableOn(t time.Time) bool {
	if len(u.AvailableDays) == 0 {
		return true
	}
	return u.AvailableDays.Contains(t.UTC().Weekday())
}

// Identity is the verified caller of an operation, as carried by a session token.
type Identity struct {
	UserID uuid.UUID
	Role   Role
}
