package profile

import "admin-panel/internal/features/user"

// UpdateProfileRequest covers the self-editable fields. Email and role are admin-only.
type UpdateProfileRequest struct {
	Name      *string `json:"name"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Phone     *string `json:"phone"`
	Address   *string `json:"address"`
	Image     *string `json:"image"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type ProfileResponse struct {
	User        user.UserView `json:"user"`
	Permissions []string      `json:"permissions"`
}
