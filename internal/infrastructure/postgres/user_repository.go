package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/quizzdwwm/backoffice-api/internal/domain"
	"github.com/quizzdwwm/backoffice-api/internal/domain/entity"
	"github.com/quizzdwwm/backoffice-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// querier es el subconjunto de pgxpool.Pool / pgx.Tx que usan los repositorios,
// para poder atarlos a una transacción en TxRunner.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	db querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(db querier) *UserRepo {
	return &UserRepo{db: db}
}

const userColumns = `id, email, family_name, given_name, matricule, roles, is_active, password_hash, created_at, updated_at`

// Create persiste un nuevo usuario; el almacén asigna el ID (BIGSERIAL).
// Devuelve domain.ErrEmailAlreadyExists si el email viola el constraint único.
func (r *UserRepo) Create(user *entity.User) error {
	query := `
		INSERT INTO users (email, family_name, given_name, matricule, roles, is_active, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`
	err := r.db.QueryRow(context.Background(), query,
		user.Email, user.FamilyName, user.GivenName, user.Matricule, user.Roles,
		user.IsActive, user.PasswordHash, user.CreatedAt, user.UpdatedAt,
	).Scan(&user.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByID obtiene un usuario por ID. Devuelve (nil, nil) si no existe.
func (r *UserRepo) GetByID(id int64) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	u, err := r.scanOne(r.db.QueryRow(context.Background(), query, id))
	if err != nil {
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return u, nil
}

// GetByEmail obtiene un usuario por email. Devuelve (nil, nil) si no existe.
func (r *UserRepo) GetByEmail(email string) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1 LIMIT 1`
	u, err := r.scanOne(r.db.QueryRow(context.Background(), query, email))
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

// Update actualiza un usuario.
func (r *UserRepo) Update(user *entity.User) error {
	query := `
		UPDATE users SET email = $2, family_name = $3, given_name = $4, matricule = $5,
			roles = $6, is_active = $7, password_hash = $8, updated_at = $9
		WHERE id = $1`
	_, err := r.db.Exec(context.Background(), query,
		user.ID, user.Email, user.FamilyName, user.GivenName, user.Matricule,
		user.Roles, user.IsActive, user.PasswordHash, user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

// List lista usuarios con paginación, más recientes primero.
func (r *UserRepo) List(limit, offset int) ([]*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY id DESC LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()
	var list []*entity.User
	for rows.Next() {
		var u entity.User
		if err := rows.Scan(&u.ID, &u.Email, &u.FamilyName, &u.GivenName, &u.Matricule,
			&u.Roles, &u.IsActive, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		list = append(list, &u)
	}
	return list, rows.Err()
}

// Delete elimina un usuario por ID.
func (r *UserRepo) Delete(id int64) error {
	_, err := r.db.Exec(context.Background(), `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

func (r *UserRepo) scanOne(row pgx.Row) (*entity.User, error) {
	var u entity.User
	err := row.Scan(&u.ID, &u.Email, &u.FamilyName, &u.GivenName, &u.Matricule,
		&u.Roles, &u.IsActive, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}
