package user

import (
	"strings"
	"time"

	errors "github.com/frahmantamala/finance-dashboard/internal"
	"github.com/frahmantamala/finance-dashboard/internal/core/common/validation"
)

type UpdateProfileDTO struct {
	FullName string `json:"full_name"`
}

func (d UpdateProfileDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("full_name", strings.TrimSpace(d.FullName)).Required().MaxLength(255)
	return v.Validate()
}

type UserResponse struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	IsActive  bool      `json:"is_active"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}
