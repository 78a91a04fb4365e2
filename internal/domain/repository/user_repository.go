package repository

import (
	"context"

	"clinic-booking/internal/domain/entity"

	"github.com/google/uuid"
)

// UserProfileUpdate lists the columns a user may change on their own record.
// Nil fields are left untouched. Password must already be hashed.
type UserProfileUpdate struct {
	Name          *string
	MobileNumber  *string
	PasswordHash  *string
	AvailableDays *entity.Weekdays
}

// UserRepository is the identity store. FindBy* return nil, nil when
// nothing matches.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	FindAll(ctx context.Context, role *entity.Role) ([]entity.User, error)
	FindDoctors(ctx context.Context, specialization *entity.Specialization) ([]entity.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, update UserProfileUpdate) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
	CountByRole(ctx context.Context) (map[entity.Role]int64, error)
}
