package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User representa un usuario del sistema. Puede ser comprador (orders),
// vendedor (products) o administrador según sus roles.
type User struct {
	ID           string
	Fullname     string
	Email        string
	PasswordHash string   // bcrypt hash, nunca plano en dominio después de persistir
	Roles        []string // nunca vacío; por defecto {user}
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasRole indica si el usuario tiene el rol dado.
func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}
