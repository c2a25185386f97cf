package models

import "time"

// Role is the privilege tier attached to a user account. Authorization is
// always set membership against an allow-list, never ordering.
type Role string

const (
	RoleStandartKullanici Role = "STANDART_KULLANICI"
	RoleMDSever           Role = "MD_SEVER"
	RoleVIPKullanici      Role = "VIP_KULLANICI"
	RoleCevirmen          Role = "CEVIRMEN"
	RoleEditor            Role = "EDITOR"
	RoleModerator         Role = "MODERATOR"
	RoleAdmin             Role = "ADMIN"
	RoleKurucu            Role = "KURUCU"
)

// AllRoles lists every recognized role value.
var AllRoles = []Role{
	RoleStandartKullanici,
	RoleMDSever,
	RoleVIPKullanici,
	RoleCevirmen,
	RoleEditor,
	RoleModerator,
	RoleAdmin,
	RoleKurucu,
}

// ParseRole maps a raw string onto a recognized role.
// Returns false for anything outside the enum.
func ParseRole(s string) (Role, bool) {
	for _, r := range AllRoles {
		if string(r) == s {
			return r, true
		}
	}
	return "", false
}

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name,omitempty"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	Image        string    `json:"image,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Profile is the minimal projection returned by the admin user endpoints.
// The password hash never leaves the repository layer.
type Profile struct {
	ID        string    `json:"id"`
	Name      string    `json:"name,omitempty"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	Image     string    `json:"image,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Profile strips a user down to the fields safe to return to clients.
func (u *User) Profile() Profile {
	return Profile{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		Image:     u.Image,
		CreatedAt: u.CreatedAt,
	}
}

// CreatorRef is the creator summary embedded in manga responses.
type CreatorRef struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}
