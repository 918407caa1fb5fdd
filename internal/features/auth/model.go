package auth

import (
	"admin-panel/internal/common/apperr"
	"admin-panel/internal/features/user"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Normalize() error {
	r.Email = user.NormalizeEmail(r.Email)
	if r.Email == "" || r.Password == "" {
		return apperr.ErrValidation("Email and password are required")
	}
	return nil
}

// RegisterRequest has no role field; self-registered users always get the configured default role.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type AuthUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

type AuthResponse struct {
	Token string   `json:"token"`
	User  AuthUser `json:"user"`
}
