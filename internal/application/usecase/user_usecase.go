package usecase

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/mail"
	"os"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/quizzdwwm/backoffice-api/internal/application/dto"
	"github.com/quizzdwwm/backoffice-api/internal/domain"
	"github.com/quizzdwwm/backoffice-api/internal/domain/entity"
	"github.com/quizzdwwm/backoffice-api/internal/domain/repository"
	"github.com/quizzdwwm/backoffice-api/pkg/metrics"
	"github.com/quizzdwwm/backoffice-api/pkg/password"
)

// TxRunner ejecuta un callback con un repositorio atado a una transacción.
// El batch delete confirma todas las eliminaciones en un único commit.
type TxRunner interface {
	Run(ctx context.Context, fn func(users repository.UserRepository) error) error
}

// csvColumns columnas fijas del archivo de importación, en orden:
// email, family_name, given_name, matricule. Sin fila de cabecera.
const csvColumns = 4

// UserUseCase aplica las reglas de negocio de cuentas de usuario: creación con
// password aleatorio, edición parcial, importación CSV y eliminación por lotes.
type UserUseCase struct {
	repo   repository.UserRepository
	hasher password.Hasher
	tx     TxRunner
}

// NewUserUseCase construye el caso de uso con sus colaboradores explícitos
// (sin lookup ambiente: el almacén y el hasher llegan por constructor).
func NewUserUseCase(repo repository.UserRepository, hasher password.Hasher, tx TxRunner) *UserUseCase {
	return &UserUseCase{repo: repo, hasher: hasher, tx: tx}
}

// Create crea un usuario con un password aleatorio de 10 bytes de entropía
// (hex, 20 caracteres). El texto plano se hashea y se descarta: nunca se
// persiste ni se devuelve. Devuelve domain.ErrEmailAlreadyExists si el email
// ya está registrado.
func (uc *UserUseCase) Create(in dto.CreateUserRequest) (*dto.UserResponse, error) {
	return uc.create(in, "form")
}

func (uc *UserUseCase) create(in dto.CreateUserRequest, origin string) (*dto.UserResponse, error) {
	email := normalizeEmail(in.Email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	roles := in.Roles
	if len(roles) == 0 {
		roles = []string{entity.RoleUser}
	}
	plain, err := password.Generate()
	if err != nil {
		return nil, fmt.Errorf("generar password: %w", err)
	}
	hash, err := uc.hasher.Hash(plain)
	if err != nil {
		return nil, fmt.Errorf("hashear password: %w", err)
	}
	now := time.Now()
	user := &entity.User{
		Email:        email,
		FamilyName:   in.FamilyName,
		GivenName:    in.GivenName,
		Matricule:    in.Matricule,
		Roles:        roles,
		IsActive:     true,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(user); err != nil {
		return nil, err
	}
	metrics.UsersCreated.WithLabelValues(origin).Inc()
	return toUserResponse(user), nil
}

// Update aplica una edición parcial: un campo nil deja el valor actual; un
// puntero no-nil lo sobreescribe sin más validación que la del almacén. Un
// password presente y no vacío se hashea y reemplaza el hash; ausente o vacío
// (centinela "sin cambios" del formulario de edición) deja el hash intacto.
func (uc *UserUseCase) Update(id int64, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	current, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, domain.ErrUserNotFound
	}
	user := current.Clone()
	changed := false

	if in.Email != nil {
		email := normalizeEmail(*in.Email)
		if err := validateEmail(email); err != nil {
			return nil, err
		}
		user.Email = email
		changed = true
	}
	if in.FamilyName != nil {
		user.FamilyName = *in.FamilyName
		changed = true
	}
	if in.GivenName != nil {
		user.GivenName = *in.GivenName
		changed = true
	}
	if in.Matricule != nil {
		user.Matricule = *in.Matricule
		changed = true
	}
	if in.Roles != nil {
		user.Roles = append([]string(nil), (*in.Roles)...)
		changed = true
	}
	if in.IsActive != nil {
		user.IsActive = *in.IsActive
		changed = true
	}
	if in.Password != nil && *in.Password != "" {
		hash, err := uc.hasher.Hash(*in.Password)
		if err != nil {
			return nil, fmt.Errorf("hashear password: %w", err)
		}
		user.PasswordHash = hash
		changed = true
	}

	// Update sin cambios: idempotente, se devuelve el registro tal cual.
	if !changed {
		return toUserResponse(current), nil
	}

	user.UpdatedAt = time.Now()
	if err := uc.repo.Update(user); err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// ImportFromCSV importa cuentas desde el archivo en path: cuatro columnas
// separadas por coma (email, family_name, given_name, matricule), sin cabecera.
// Política de filas inválidas: omitir y contar. Una fila con número de columnas
// incorrecto, email vacío o email duplicado se registra en el reporte y la
// importación continúa; no hay transacción entre filas, así que un fallo en la
// fila N no revierte las anteriores.
//
// Si el archivo no puede abrirse devuelve *domain.ImportError (nunca un no-op
// silencioso).
func (uc *UserUseCase) ImportFromCSV(ctx context.Context, path string) (*dto.ImportReport, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &domain.ImportError{Path: path, Err: err}
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // el conteo de columnas se valida por fila
	r.LazyQuotes = true    // el formato no define reglas de quoting

	report := &dto.ImportReport{}
	line := 0
	for {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			report.Total++
			uc.skipRow(report, line, "fila CSV ilegible: "+err.Error())
			continue
		}
		report.Total++
		if len(record) != csvColumns {
			uc.skipRow(report, line, fmt.Sprintf("se esperaban %d columnas, hay %d", csvColumns, len(record)))
			continue
		}
		in := dto.CreateUserRequest{
			Email:      normalizeField(record[0]),
			FamilyName: normalizeField(record[1]),
			GivenName:  normalizeField(record[2]),
			Matricule:  normalizeField(record[3]),
		}
		if _, err := uc.create(in, "csv"); err != nil {
			switch {
			case errors.Is(err, domain.ErrEmailAlreadyExists):
				uc.skipRow(report, line, "email duplicado: "+in.Email)
			case errors.Is(err, domain.ErrInvalidInput):
				uc.skipRow(report, line, "email inválido: "+record[0])
			default:
				uc.skipRow(report, line, err.Error())
			}
			continue
		}
		report.Created++
	}
	return report, nil
}

func (uc *UserUseCase) skipRow(report *dto.ImportReport, line int, reason string) {
	report.Skipped++
	report.RowErrors = append(report.RowErrors, dto.RowError{Line: line, Reason: reason})
	metrics.ImportRowsSkipped.Inc()
}

// BatchDelete elimina los ids dados en una sola transacción (un único commit
// al final, como el flush único del sistema original). Los ids que no
// resuelven a un registro se omiten en silencio; devuelve cuántos registros
// se eliminaron realmente.
func (uc *UserUseCase) BatchDelete(ctx context.Context, ids []int64) (int, error) {
	deleted := 0
	err := uc.tx.Run(ctx, func(users repository.UserRepository) error {
		for _, id := range ids {
			u, err := users.GetByID(id)
			if err != nil {
				return err
			}
			if u == nil {
				continue
			}
			if err := users.Delete(id); err != nil {
				return err
			}
			deleted++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	metrics.UsersDeleted.WithLabelValues("batch").Add(float64(deleted))
	return deleted, nil
}

// List lista usuarios paginados, más recientes primero.
func (uc *UserUseCase) List(page dto.PageRequest) ([]*dto.UserResponse, error) {
	page.DefaultPage()
	users, err := uc.repo.List(page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	return out, nil
}

// GetByID obtiene un usuario por ID.
func (uc *UserUseCase) GetByID(id int64) (*dto.UserResponse, error) {
	user, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return toUserResponse(user), nil
}

// Delete elimina un único usuario.
func (uc *UserUseCase) Delete(id int64) error {
	user, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrUserNotFound
	}
	if err := uc.repo.Delete(id); err != nil {
		return err
	}
	metrics.UsersDeleted.WithLabelValues("single").Inc()
	return nil
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:         u.ID,
		Email:      u.Email,
		FamilyName: u.FamilyName,
		GivenName:  u.GivenName,
		Matricule:  u.Matricule,
		Roles:      append([]string(nil), u.Roles...),
		IsActive:   u.IsActive,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// normalizeField recorta espacios y normaliza a NFC: los nombres con acentos
// llegan en formas Unicode mixtas según el software que exportó el CSV.
func normalizeField(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

func validateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("%w: email vacío", domain.ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return fmt.Errorf("%w: email %q", domain.ErrInvalidInput, email)
	}
	return nil
}
