package api

import "time"

type UpdateProfileRequest struct {
	Name             *string `json:"name" validate:"omitempty,min=1,max=100"`
	Phone            *string `json:"phone" validate:"omitempty,min=7,max=20"`
	EmergencyContact *string `json:"emergency_contact" validate:"omitempty,max=100"`
}

type BlockUserRequest struct {
	Message string `json:"message" validate:"max=500"`
}

type SuspendUserRequest struct {
	Until   *time.Time `json:"until"`
	Message string     `json:"message" validate:"max=500"`
}
