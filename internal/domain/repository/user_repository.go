package repository

import "github.com/quizzdwwm/backoffice-api/internal/domain/entity"

// UserRepository define el puerto de persistencia para User (DIP).
type UserRepository interface {
	// Create persiste el usuario y asigna el ID generado por el almacén.
	Create(user *entity.User) error
	GetByID(id int64) (*entity.User, error)
	GetByEmail(email string) (*entity.User, error)
	Update(user *entity.User) error
	List(limit, offset int) ([]*entity.User, error)
	Delete(id int64) error
}
