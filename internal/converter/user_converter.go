package converter

import (
	"clinic-booking/internal/delivery/dto"
	"clinic-booking/internal/domain/entity"
)

// UserToResponse converts a User entity to UserResponse DTO
func UserToResponse(user *entity.User) *dto.UserResponse {
	if user == nil {
		return nil
	}

	return &dto.UserResponse{
		ID:             user.ID,
		Name:           user.Name,
		Email:          user.Email,
		MobileNumber:   user.MobileNumber,
		Role:           user.Role.String(),
		Specialization: string(user.Specialization),
		AvailableDays:  WeekdaysToStrings(user.AvailableDays),
		CreatedAt:      user.CreatedAt,
		UpdatedAt:      user.UpdatedAt,
	}
}

// UsersToResponses converts a slice of User entities to UserResponse DTOs
func UsersToResponses(users []entity.User) []dto.UserResponse {
	responses := make([]dto.UserResponse, len(users))
	for i := range users {
		responses[i] = *UserToResponse(&users[i])
	}
	return responses
}

// UserToSummary returns nil for a user that no longer exists.
func UserToSummary(user *entity.User) *dto.UserSummary {
	if user == nil {
		return nil
	}

	return &dto.UserSummary{
		ID:             user.ID,
		Name:           user.Name,
		Email:          user.Email,
		MobileNumber:   user.MobileNumber,
		Specialization: string(user.Specialization),
	}
}

func WeekdaysToStrings(days entity.Weekdays) []string {
	if len(days) == 0 {
		return nil
	}
	out := make([]string, len(days))
	for i, d := range days {
		out[i] = string(d)
	}
	return out
}

// StringsToWeekdays expects values already checked by the request validator.
func StringsToWeekdays(days []string) entity.Weekdays {
	if len(days) == 0 {
		return nil
	}
	out := make(entity.Weekdays, len(days))
	for i, d := range days {
		out[i] = entity.Weekday(d)
	}
	return out
}
