package api

import (
	"time"

	"github.com/bloodlink-dev/bloodlink/shared/domain"
)

// Request DTOs

type RegisterRequest struct {
	Name             string `json:"name" validate:"required,max=100"`
	Email            string `json:"email" validate:"required,email"`
	Password         string `json:"password" validate:"required,min=8,max=72"`
	Phone            string `json:"phone" validate:"required,min=7,max=20"`
	Role             string `json:"role" validate:"required,oneof=user donor bloodbank"`
	EmergencyContact string `json:"emergency_contact" validate:"omitempty,max=100"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=72"`
}

// Response DTOs

type LoginResponse struct {
	AccessToken string       `json:"access_token"` // for non-cookie clients
	User        UserResponse `json:"user"`
}

type UserResponse struct {
	Id               int64      `json:"id"`
	Name             string     `json:"name"`
	Email            string     `json:"email"`
	Phone            string     `json:"phone"`
	EmergencyContact string     `json:"emergency_contact,omitempty"`
	Role             string     `json:"role"`
	ProfileImage     string     `json:"profile_image,omitempty"`
	IsBlocked        bool       `json:"is_blocked"`
	BlockMessage     string     `json:"block_message,omitempty"`
	IsSuspended      bool       `json:"is_suspended"`
	SuspendedUntil   *time.Time `json:"suspended_until,omitempty"`
	SuspendMessage   string     `json:"suspend_message,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

func NewUserResponse(u domain.User) UserResponse {
	return UserResponse{
		Id:               u.Id,
		Name:             u.Name,
		Email:            u.Email,
		Phone:            u.Phone,
		EmergencyContact: u.EmergencyContact,
		Role:             string(u.Role),
		ProfileImage:     u.ProfileImage,
		IsBlocked:        u.IsBlocked,
		BlockMessage:     u.BlockMessage,
		IsSuspended:      u.IsSuspended,
		SuspendedUntil:   u.SuspendedUntil,
		SuspendMessage:   u.SuspendMessage,
		CreatedAt:        u.CreatedAt,
	}
}

func NewUserResponses(users []domain.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, NewUserResponse(u))
	}
	return out
}
