package repository

import (
	"context"
	"errors"

	"clinic-booking/internal/domain/entity"
	domainRepo "clinic-booking/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) domainRepo.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var user entity.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var user entity.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindAll(ctx context.Context, role *entity.Role) ([]entity.User, error) {
	var users []entity.User
	query := r.db.WithContext(ctx).Order("created_at ASC")
	if role != nil {
		query = query.Where("role = ?", *role)
	}
	if err := query.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) FindDoctors(ctx context.Context, specialization *entity.Specialization) ([]entity.User, error) {
	var doctors []entity.User
	query := r.db.WithContext(ctx).Where("role = ?", entity.RoleDoctor).Order("name ASC")
	if specialization != nil {
		query = query.Where("specialization = ?", *specialization)
	}
	if err := query.Find(&doctors).Error; err != nil {
		return nil, err
	}
	return doctors, nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, id uuid.UUID, update domainRepo.UserProfileUpdate) (int64, error) {
	columns := map[string]interface{}{}
	if update.Name != nil {
		columns["name"] = *update.Name
	}
	if update.MobileNumber != nil {
		columns["mobile_number"] = *update.MobileNumber
	}
	if update.PasswordHash != nil {
		columns["password"] = *update.PasswordHash
	}
	if update.AvailableDays != nil {
		columns["available_days"] = *update.AvailableDays
	}
	if len(columns) == 0 {
		var count int64
		err := r.db.WithContext(ctx).Model(&entity.User{}).Where("id = ?", id).Count(&count).Error
		return count, err
	}

	result := r.db.WithContext(ctx).Model(&entity.User{}).Where("id = ?", id).Updates(columns)
	return result.RowsAffected, result.Error
}

func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.User{})
	return result.RowsAffected, result.Error
}

// CountByRole aggregates user counts in a single GROUP BY.
func (r *userRepository) CountByRole(ctx context.Context) (map[entity.Role]int64, error) {
	var rows []struct {
		Role  entity.Role
		Count int64
	}
	err := r.db.WithContext(ctx).Model(&entity.User{}).
		Select("role, COUNT(*) AS count").
		Group("role").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[entity.Role]int64, len(rows))
	for _, row := range rows {
		counts[row.Role] = row.Count
	}
	return counts, nil
}
