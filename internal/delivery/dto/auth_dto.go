package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type RegisterRequest struct {
	Name           string   `json:"name" validate:"required,min=2,max=255"`
	Email          string   `json:"email" validate:"required,email,max=255"`
	MobileNumber   string   `json:"mobile_number" validate:"required,min=8,max=20"`
	Password       string   `json:"password" validate:"required,min=6,max=72"`
	Role           string   `json:"role" validate:"required,oneof=admin doctor patient"`
	Specialization string   `json:"specialization" validate:"omitempty,oneof=nerves heart lungs skin"`
	AvailableDays  []string `json:"available_days" validate:"omitempty,unique,dive,oneof=Sun Mon Tue Wed Thu Fri Sat"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// LogoutRequest optionally names the refresh token to revoke together
// with the access token of the request.
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// UpdateProfileRequest changes the caller's own record. Omitted fields are kept.
type UpdateProfileRequest struct {
	Name          *string   `json:"name" validate:"omitempty,min=2,max=255"`
	MobileNumber  *string   `json:"mobile_number" validate:"omitempty,min=8,max=20"`
	Password      *string   `json:"password" validate:"omitempty,min=6,max=72"`
	AvailableDays *[]string `json:"available_days" validate:"omitempty,unique,dive,oneof=Sun Mon Tue Wed Thu Fri Sat"`
}

// Response DTOs

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

type UserResponse struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	MobileNumber   string    `json:"mobile_number"`
	Role           string    `json:"role"`
	Specialization string    `json:"specialization,omitempty"`
	AvailableDays  []string  `json:"available_days,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// UserSummary is the display data joined onto appointments and audit logs.
type UserSummary struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	MobileNumber   string    `json:"mobile_number,omitempty"`
	Specialization string    `json:"specialization,omitempty"`
}

type UserListResponse struct {
	Users []UserResponse `json:"users"`
	Total int            `json:"total"`
}
