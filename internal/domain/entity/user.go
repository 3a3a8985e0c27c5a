package entity

import "time"

// Roles válidos para User (multivaluados, heredados del esquema original).
const (
	RoleAdmin = "ROLE_ADMIN"
	RoleUser  = "ROLE_USER"
)

// User representa una cuenta administrada por el back-office.
type User struct {
	ID           int64
	Email        string // único, se usa como login
	FamilyName   string
	GivenName    string
	Matricule    string // identificador institucional
	Roles        []string
	IsActive     bool
	PasswordHash string // bcrypt hash, nunca texto plano después de persistir
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

// Clone devuelve una copia profunda (los tests y el update parcial la necesitan
// para no mutar el registro original del repositorio).
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	c.Roles = append([]string(nil), u.Roles...)
	return &c
}
