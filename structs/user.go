// Package structs defines the domain models and request/response bodies.
package structs

import "time"

// Roles assignable to an account. Self-registration always yields RoleUser;
// RoleAdmin is granted out of band.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is the account record.
type User struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Email           string     `json:"email"`
	PasswordHash    string     `json:"-"`
	Role            string     `json:"role"`
	Image           string     `json:"image,omitempty"`
	Provider        string     `json:"provider,omitempty"`
	ProviderID      string     `json:"-"`
	Avatar          string     `json:"-"`
	EmailVerifiedAt *time.Time `json:"email_verified_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// IsAdmin reports whether the account holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// DisplayImage prefers the social avatar over an uploaded image.
func (u *User) DisplayImage() string {
	if u.Avatar != "" {
		return u.Avatar
	}
	return u.Image
}
