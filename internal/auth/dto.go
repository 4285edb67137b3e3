package auth

import (
	"strings"

	errors "github.com/frahmantamala/finance-dashboard/internal"
	"github.com/frahmantamala/finance-dashboard/internal/core/common/validation"
)

const MinPasswordLength = 8

// SignupDTO is the transport shape used to register a new account.
type SignupDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name,omitempty"`
}

// LoginDTO is the transport shape used by the HTTP handler to accept login requests.
type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshTokenDTO for refresh token requests
type RefreshTokenDTO struct {
	RefreshToken string `json:"refresh_token"`
}

type ChangePasswordDTO struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

// NormalizeEmail lowercases and trims an address before lookup or storage.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (d SignupDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("email", NormalizeEmail(d.Email)).Required().Email().MaxLength(255)
	v.Field("password", d.Password).Required().MinLength(MinPasswordLength).MaxLength(72)
	v.Field("full_name", strings.TrimSpace(d.FullName)).MaxLength(255)
	return v.Validate()
}

func (d LoginDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("email", d.Email).Required()
	v.Field("password", d.Password).Required()
	return v.Validate()
}

func (d RefreshTokenDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("refresh_token", d.RefreshToken).Required()
	return v.Validate()
}

func (d ChangePasswordDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("current_password", d.CurrentPassword).Required()
	v.Field("new_password", d.NewPassword).Required().MinLength(MinPasswordLength).MaxLength(72)
	v.Field("confirm_password", d.ConfirmPassword).Required()
	if err := v.Validate(); err != nil {
		return err
	}
	if d.NewPassword != d.ConfirmPassword {
		return errors.ErrPasswordMismatch
	}
	return nil
}

type SignupResponse struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
