package dto

import (
	"time"

	"github.com/civicwatch/infra-report-api/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID        uint64      `json:"id"`
	Username  string      `json:"username"`
	Role      models.Role `json:"role"`
	CreatedAt time.Time   `json:"created_at"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:        user.ID,
		Username:  user.Username,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	}
}

// ToUserDTOs converts a slice of users
func ToUserDTOs(users []models.User) []UserDTO {
	dtos := make([]UserDTO, len(users))
	for i, user := range users {
		dtos[i] = ToUserDTO(user)
	}
	return dtos
}
