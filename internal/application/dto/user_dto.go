package dto

import "time"

// CreateUserRequest entrada para crear un usuario. El password NO se recibe:
// se genera aleatorio en el use case y solo se persiste su hash.
type CreateUserRequest struct {
	Email      string   `json:"email" form:"email" validate:"required,email"`
	FamilyName string   `json:"family_name" form:"family_name" validate:"required,max=200"`
	GivenName  string   `json:"given_name" form:"given_name" validate:"required,max=200"`
	Matricule  string   `json:"matricule" form:"matricule" validate:"max=50"`
	Roles      []string `json:"roles" form:"roles" validate:"dive,oneof=ROLE_ADMIN ROLE_USER"`
}

// UpdateUserRequest entrada para edición parcial: un campo nil deja el valor
// actual intacto; un puntero no-nil lo sobreescribe. Password presente se
// hashea y reemplaza el hash almacenado.
type UpdateUserRequest struct {
	Email      *string   `json:"email" form:"email"`
	FamilyName *string   `json:"family_name" form:"family_name"`
	GivenName  *string   `json:"given_name" form:"given_name"`
	Matricule  *string   `json:"matricule" form:"matricule"`
	Roles      *[]string `json:"roles" form:"roles"`
	IsActive   *bool     `json:"is_active" form:"is_active"`
	Password   *string   `json:"password" form:"password"`
}

// UserResponse salida de un usuario (sin hash de password).
type UserResponse struct {
	ID         int64     `json:"id"`
	Email      string    `json:"email"`
	FamilyName string    `json:"family_name"`
	GivenName  string    `json:"given_name"`
	Matricule  string    `json:"matricule"`
	Roles      []string  `json:"roles"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// BatchDeleteRequest ids a eliminar en una sola petición.
type BatchDeleteRequest struct {
	IDs []int64 `json:"ids" form:"ids"`
}

// RowError error de una fila concreta del CSV (se omite la fila, no el lote).
type RowError struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

// ImportReport resultado de una importación CSV. Las cuentas creadas tienen
// password aleatorio irrecuperable: el operador debe disparar un reset fuera
// de banda.
type ImportReport struct {
	Total     int        `json:"total"`
	Created   int        `json:"created"`
	Skipped   int        `json:"skipped"`
	RowErrors []RowError `json:"row_errors,omitempty"`
}
