package user

import (
	"strings"
	"time"

	"admin-panel/internal/common/apperr"
	common_models "admin-panel/internal/common/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MinPasswordLength applies to every password set through the API.
const MinPasswordLength = 6

type CreateUserRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
}

func (r *CreateUserRequest) Normalize() error {
	r.Email = NormalizeEmail(r.Email)
	r.Name = strings.TrimSpace(r.Name)
	r.Role = strings.TrimSpace(r.Role)
	if r.Email == "" || r.Password == "" || r.Name == "" || r.Role == "" {
		return apperr.ErrValidation("Email, password, name, and role are required")
	}
	return ValidatePassword(r.Password)
}

// UpdateUserRequest is a partial update; nil fields are left unchanged.
type UpdateUserRequest struct {
	Email     *string `json:"email"`
	Name      *string `json:"name"`
	Role      *string `json:"role"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Phone     *string `json:"phone"`
	Address   *string `json:"address"`
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return apperr.ErrValidation("Password must be at least 6 characters")
	}
	return nil
}

type RoleRef struct {
	ID   primitive.ObjectID `json:"id"`
	Name string             `json:"name"`
}

// UserView never carries the password hash. Role is null when unset or dangling.
type UserView struct {
	ID        primitive.ObjectID `json:"id"`
	Email     string             `json:"email"`
	Name      string             `json:"name"`
	Role      *RoleRef           `json:"role"`
	FirstName string             `json:"firstName"`
	LastName  string             `json:"lastName"`
	Phone     string             `json:"phone"`
	Address   string             `json:"address"`
	Image     string             `json:"image"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

func NewView(u common_models.User, role *common_models.Role) UserView {
	v := UserView{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Phone:     u.Phone,
		Address:   u.Address,
		Image:     u.Image,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
	if role != nil {
		v.Role = &RoleRef{ID: role.ID, Name: role.Name}
	}
	return v
}

type AvailableRole struct {
	ID          primitive.ObjectID `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
}
