package dto

import (
	"strings"

	"backoffice/internal/domain/auth"
)

// SignUpRequest is the body of POST /auth/signup.
type SignUpRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ToAuthRequest converts DTO to a domain sign-up request.
func (r *SignUpRequest) ToAuthRequest() auth.SignUpRequest {
	return auth.SignUpRequest{
		Name:     strings.TrimSpace(r.Name),
		Email:    strings.TrimSpace(r.Email),
		Password: r.Password,
	}
}

// SignInRequest is the body of POST /auth/signin.
type SignInRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ToCredentials converts DTO to credentials.
func (r *SignInRequest) ToCredentials() auth.Credentials {
	return auth.Credentials{
		Email:    strings.TrimSpace(r.Email),
		Password: r.Password,
	}
}

// UpdateMeForm is the multipart form of PUT /auth/me. The avatar file part
// is read separately.
type UpdateMeForm struct {
	Name     string `form:"name" binding:"required"`
	Email    string `form:"email" binding:"required"`
	Password string `form:"password"`
}

// ToProfileUpdate converts the form without the avatar.
func (f *UpdateMeForm) ToProfileUpdate() auth.ProfileUpdate {
	return auth.ProfileUpdate{
		Name:     strings.TrimSpace(f.Name),
		Email:    strings.TrimSpace(f.Email),
		Password: f.Password,
	}
}
