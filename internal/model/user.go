package model

import "time"

const (
	RoleUser    = "user"
	RoleManager = "manager"
	RoleAdmin   = "admin"
)

// Roles lists the roles an administrator can assign.
var Roles = []string{RoleUser, RoleManager, RoleAdmin}

type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Sector    *Sector   `json:"sector,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsAdmin gates the admin pages.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// SectorName returns the sector label or an empty string.
func (u *User) SectorName() string {
	if u == nil || u.Sector == nil {
		return ""
	}
	return u.Sector.Name
}

// AuthUser is returned by login and register.
type AuthUser struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignUp struct {
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

type UpdateUser struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role,omitempty"`
	SectorID *int64 `json:"sector_id,omitempty"`
}

type UpdatePassword struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}
