package usecase_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizzdwwm/backoffice-api/internal/application/dto"
	"github.com/quizzdwwm/backoffice-api/internal/application/usecase"
	"github.com/quizzdwwm/backoffice-api/internal/domain"
	"github.com/quizzdwwm/backoffice-api/internal/domain/entity"
	"github.com/quizzdwwm/backoffice-api/internal/domain/repository"
	"github.com/quizzdwwm/backoffice-api/pkg/password"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes
// ──────────────────────────────────────────────────────────────────────────────

// memRepo repositorio en memoria con la misma semántica que el adaptador de
// PostgreSQL: IDs asignados por el almacén, email único, (nil, nil) si no existe.
type memRepo struct {
	users  map[int64]*entity.User
	nextID int64
}

func newMemRepo() *memRepo {
	return &memRepo{users: make(map[int64]*entity.User)}
}

func (r *memRepo) Create(user *entity.User) error {
	for _, u := range r.users {
		if u.Email == user.Email {
			return domain.ErrEmailAlreadyExists
		}
	}
	r.nextID++
	user.ID = r.nextID
	r.users[user.ID] = user.Clone()
	return nil
}

func (r *memRepo) GetByID(id int64) (*entity.User, error) {
	return r.users[id].Clone(), nil
}

func (r *memRepo) GetByEmail(email string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u.Clone(), nil
		}
	}
	return nil, nil
}

func (r *memRepo) Update(user *entity.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	r.users[user.ID] = user.Clone()
	return nil
}

func (r *memRepo) List(limit, offset int) ([]*entity.User, error) {
	var out []*entity.User
	for id := r.nextID; id >= 1 && len(out) < limit+offset; id-- {
		if u, ok := r.users[id]; ok {
			out = append(out, u.Clone())
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	return out[offset:], nil
}

func (r *memRepo) Delete(id int64) error {
	delete(r.users, id)
	return nil
}

// memTxRunner ejecuta el callback directamente contra el repositorio (sin
// transacción real; la atomicidad se prueba en el adaptador).
type memTxRunner struct{ repo repository.UserRepository }

func (t *memTxRunner) Run(_ context.Context, fn func(users repository.UserRepository) error) error {
	return fn(t.repo)
}

// fakeHasher hasher determinista y barato para los tests que no verifican
// propiedades criptográficas.
type fakeHasher struct{}

func (fakeHasher) Hash(plain string) (string, error) { return "hashed:" + plain, nil }
func (fakeHasher) Verify(hash, plain string) bool    { return hash == "hashed:"+plain }

func newUseCase(t *testing.T, hasher password.Hasher) (*usecase.UserUseCase, *memRepo) {
	t.Helper()
	repo := newMemRepo()
	return usecase.NewUserUseCase(repo, hasher, &memTxRunner{repo: repo}), repo
}

func writeCSV(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "import.csv")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644))
	return path
}

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

// Round-trip: los cuatro campos de entrada se conservan tal cual y el password
// almacenado es un hash bcrypt, no el texto plano generado.
func TestCreate_RoundTrip(t *testing.T) {
	uc, repo := newUseCase(t, password.NewBcryptHasher())

	out, err := uc.Create(dto.CreateUserRequest{
		Email:      "a@b.com",
		FamilyName: "Dupont",
		GivenName:  "Jean",
		Matricule:  "M123",
	})
	require.NoError(t, err)

	assert.Equal(t, "a@b.com", out.Email)
	assert.Equal(t, "Dupont", out.FamilyName)
	assert.Equal(t, "Jean", out.GivenName)
	assert.Equal(t, "M123", out.Matricule)
	assert.NotZero(t, out.ID, "el almacén debe asignar el ID")
	assert.True(t, out.IsActive)

	stored, err := repo.GetByID(out.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.True(t, strings.HasPrefix(stored.PasswordHash, "$2"),
		"el password almacenado debe ser un hash bcrypt")
	// El hash nunca debe verificar contra ningún valor recuperable del sistema.
	h := password.NewBcryptHasher()
	assert.False(t, h.Verify(stored.PasswordHash, ""))
	assert.False(t, h.Verify(stored.PasswordHash, stored.Email))
	assert.False(t, h.Verify(stored.PasswordHash, stored.Matricule))
}

func TestCreate_RolPorDefecto(t *testing.T) {
	uc, _ := newUseCase(t, fakeHasher{})

	out, err := uc.Create(dto.CreateUserRequest{
		Email: "x@y.com", FamilyName: "Smith", GivenName: "Ann",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{entity.RoleUser}, out.Roles)
}

func TestCreate_EmailDuplicado(t *testing.T) {
	uc, _ := newUseCase(t, fakeHasher{})

	_, err := uc.Create(dto.CreateUserRequest{Email: "dup@y.com", FamilyName: "A", GivenName: "B"})
	require.NoError(t, err)

	_, err = uc.Create(dto.CreateUserRequest{Email: "dup@y.com", FamilyName: "C", GivenName: "D"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestCreate_EmailInvalido(t *testing.T) {
	uc, _ := newUseCase(t, fakeHasher{})

	_, err := uc.Create(dto.CreateUserRequest{Email: "no-es-un-email", FamilyName: "A", GivenName: "B"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreate_EmailNormalizado(t *testing.T) {
	uc, _ := newUseCase(t, fakeHasher{})

	out, err := uc.Create(dto.CreateUserRequest{Email: "  Jean.Dupont@Example.COM ", FamilyName: "Dupont", GivenName: "Jean"})
	require.NoError(t, err)
	assert.Equal(t, "jean.dupont@example.com", out.Email)
}

// ──────────────────────────────────────────────────────────────────────────────
// Update
// ──────────────────────────────────────────────────────────────────────────────

// Update sin campos: idempotente, el registro devuelto es idéntico al actual.
func TestUpdate_SinCambiosEsIdempotente(t *testing.T) {
	uc, _ := newUseCase(t, fakeHasher{})

	created, err := uc.Create(dto.CreateUserRequest{Email: "a@b.com", FamilyName: "Dupont", GivenName: "Jean", Matricule: "M123"})
	require.NoError(t, err)

	updated, err := uc.Update(created.ID, dto.UpdateUserRequest{})
	require.NoError(t, err)
	assert.Equal(t, created, updated)
}

func TestUpdate_ParcialSoloSobreescribeCamposPresentes(t *testing.T) {
	uc, _ := newUseCase(t, fakeHasher{})

	created, err := uc.Create(dto.CreateUserRequest{Email: "a@b.com", FamilyName: "Dupont", GivenName: "Jean", Matricule: "M123"})
	require.NoError(t, err)

	newName := "Durand"
	inactive := false
	updated, err := uc.Update(created.ID, dto.UpdateUserRequest{
		FamilyName: &newName,
		IsActive:   &inactive,
	})
	require.NoError(t, err)

	assert.Equal(t, "Durand", updated.FamilyName)
	assert.False(t, updated.IsActive)
	// El resto queda intacto
	assert.Equal(t, created.Email, updated.Email)
	assert.Equal(t, created.GivenName, updated.GivenName)
	assert.Equal(t, created.Matricule, updated.Matricule)
}

// Dos updates con el mismo password plano producen hashes distintos (bcrypt
// con salt) y ambos verifican contra ese plano.
func TestUpdate_PasswordDosVecesHashesDistintosQueVerifican(t *testing.T) {
	h := password.NewBcryptHasher()
	uc, repo := newUseCase(t, h)

	created, err := uc.Create(dto.CreateUserRequest{Email: "a@b.com", FamilyName: "D", GivenName: "J"})
	require.NoError(t, err)

	plain := "nuevo-password-123"
	_, err = uc.Update(created.ID, dto.UpdateUserRequest{Password: &plain})
	require.NoError(t, err)
	first, err := repo.GetByID(created.ID)
	require.NoError(t, err)

	_, err = uc.Update(created.ID, dto.UpdateUserRequest{Password: &plain})
	require.NoError(t, err)
	second, err := repo.GetByID(created.ID)
	require.NoError(t, err)

	assert.NotEqual(t, first.PasswordHash, second.PasswordHash,
		"bcrypt con salt: mismos planos, hashes distintos")
	assert.True(t, h.Verify(first.PasswordHash, plain))
	assert.True(t, h.Verify(second.PasswordHash, plain))
}

// Password vacío es el centinela "sin cambios" del formulario de edición: el
// hash almacenado queda intacto.
func TestUpdate_PasswordVacioNoTocaElHash(t *testing.T) {
	uc, repo := newUseCase(t, fakeHasher{})

	created, err := uc.Create(dto.CreateUserRequest{Email: "a@b.com", FamilyName: "D", GivenName: "J"})
	require.NoError(t, err)
	before, err := repo.GetByID(created.ID)
	require.NoError(t, err)

	empty := ""
	newName := "Durand"
	_, err = uc.Update(created.ID, dto.UpdateUserRequest{Password: &empty, FamilyName: &newName})
	require.NoError(t, err)

	after, err := repo.GetByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, before.PasswordHash, after.PasswordHash)
	assert.Equal(t, "Durand", after.FamilyName)
}

func TestUpdate_UsuarioInexistente(t *testing.T) {
	uc, _ := newUseCase(t, fakeHasher{})

	_, err := uc.Update(42, dto.UpdateUserRequest{})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Importación CSV
// ──────────────────────────────────────────────────────────────────────────────

// Un archivo válido de N filas crea exactamente N cuentas con hashes distintos.
func TestImport_ArchivoValidoCreaNUsuarios(t *testing.T) {
	uc, repo := newUseCase(t, password.NewBcryptHasher())

	path := writeCSV(t,
		"jean.dupont@example.com,Dupont,Jean,M001",
		"marie.curie@example.com,Curie,Marie,M002",
		"paul.martin@example.com,Martin,Paul,M003",
	)

	report, err := uc.ImportFromCSV(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Total)
	assert.Equal(t, 3, report.Created)
	assert.Zero(t, report.Skipped)
	assert.Empty(t, report.RowErrors)

	hashes := make(map[string]bool)
	for _, email := range []string{"jean.dupont@example.com", "marie.curie@example.com", "paul.martin@example.com"} {
		u, err := repo.GetByEmail(email)
		require.NoError(t, err)
		require.NotNil(t, u, "falta el usuario %s", email)
		hashes[u.PasswordHash] = true
	}
	assert.Len(t, hashes, 3, "cada cuenta importada debe tener un hash propio")
}

// Escenario de la única línea: el hash no verifica ni contra vacío ni contra
// ningún campo del registro.
func TestImport_LineaUnica(t *testing.T) {
	uc, repo := newUseCase(t, password.NewBcryptHasher())

	path := writeCSV(t, "x@y.com,Smith,Ann,Z9")
	report, err := uc.ImportFromCSV(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, 1, report.Created)

	u, err := repo.GetByEmail("x@y.com")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "Smith", u.FamilyName)
	assert.Equal(t, "Ann", u.GivenName)
	assert.Equal(t, "Z9", u.Matricule)

	h := password.NewBcryptHasher()
	assert.False(t, h.Verify(u.PasswordHash, ""))
	assert.False(t, h.Verify(u.PasswordHash, "x@y.com"))
}

// Política omitir-y-contar: columnas de más o de menos, email vacío y email
// duplicado se saltan con su número de línea; la importación continúa.
func TestImport_FilasInvalidasSeOmitenYSeCuentan(t *testing.T) {
	uc, repo := newUseCase(t, fakeHasher{})

	path := writeCSV(t,
		"ok1@example.com,Dupont,Jean,M001",
		"solo,tres,columnas",
		",SinEmail,Nadie,M003",
		"ok1@example.com,Dupont,Jean,M001",
		"ok2@example.com,Curie,Marie,M005",
	)

	report, err := uc.ImportFromCSV(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 5, report.Total)
	assert.Equal(t, 2, report.Created)
	assert.Equal(t, 3, report.Skipped)
	require.Len(t, report.RowErrors, 3)
	assert.Equal(t, 2, report.RowErrors[0].Line)
	assert.Equal(t, 3, report.RowErrors[1].Line)
	assert.Equal(t, 4, report.RowErrors[2].Line)
	assert.Contains(t, report.RowErrors[2].Reason, "duplicado")

	// La fila 5, posterior a los errores, sí se importó.
	u, err := repo.GetByEmail("ok2@example.com")
	require.NoError(t, err)
	assert.NotNil(t, u)
}

// Archivo ilegible: ImportError explícito con la ruta, nunca un no-op silencioso.
func TestImport_ArchivoInexistenteDevuelveImportError(t *testing.T) {
	uc, _ := newUseCase(t, fakeHasher{})

	path := filepath.Join(t.TempDir(), "no-existe.csv")
	_, err := uc.ImportFromCSV(context.Background(), path)
	require.Error(t, err)

	var impErr *domain.ImportError
	require.ErrorAs(t, err, &impErr)
	assert.Equal(t, path, impErr.Path)
}

// Los campos se normalizan a NFC: "é" descompuesto (e + combining acute) debe
// almacenarse en forma compuesta.
func TestImport_NormalizaNFC(t *testing.T) {
	uc, repo := newUseCase(t, fakeHasher{})

	decomposed := "Gérard" // Gérard en NFD
	path := writeCSV(t, fmt.Sprintf("gerard@example.com,%s,Paul,M010", decomposed))

	report, err := uc.ImportFromCSV(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, 1, report.Created)

	u, err := repo.GetByEmail("gerard@example.com")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "Gérard", u.FamilyName)
}

// ──────────────────────────────────────────────────────────────────────────────
// Batch delete
// ──────────────────────────────────────────────────────────────────────────────

// {id1, id2, id3} con id2 inexistente: elimina id1 e id3, sin error, y el
// resto del almacén queda intacto.
func TestBatchDelete_OmiteIdsInexistentes(t *testing.T) {
	uc, repo := newUseCase(t, fakeHasher{})

	var ids []int64
	for i := 0; i < 4; i++ {
		out, err := uc.Create(dto.CreateUserRequest{
			Email:      fmt.Sprintf("u%d@example.com", i),
			FamilyName: "F", GivenName: "G",
		})
		require.NoError(t, err)
		ids = append(ids, out.ID)
	}

	deleted, err := uc.BatchDelete(context.Background(), []int64{ids[0], 9999, ids[2]})
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)

	gone1, _ := repo.GetByID(ids[0])
	gone2, _ := repo.GetByID(ids[2])
	kept1, _ := repo.GetByID(ids[1])
	kept2, _ := repo.GetByID(ids[3])
	assert.Nil(t, gone1)
	assert.Nil(t, gone2)
	assert.NotNil(t, kept1)
	assert.NotNil(t, kept2)
}

func TestBatchDelete_ListaVacia(t *testing.T) {
	uc, _ := newUseCase(t, fakeHasher{})

	deleted, err := uc.BatchDelete(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, deleted)
}

// ──────────────────────────────────────────────────────────────────────────────
// CRUD de soporte
// ──────────────────────────────────────────────────────────────────────────────

func TestDelete_UsuarioInexistente(t *testing.T) {
	uc, _ := newUseCase(t, fakeHasher{})
	assert.ErrorIs(t, uc.Delete(7), domain.ErrUserNotFound)
}

func TestGetByID_UsuarioInexistente(t *testing.T) {
	uc, _ := newUseCase(t, fakeHasher{})
	_, err := uc.GetByID(7)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestList_PaginaPorDefecto(t *testing.T) {
	uc, _ := newUseCase(t, fakeHasher{})

	for i := 0; i < 3; i++ {
		_, err := uc.Create(dto.CreateUserRequest{
			Email:      fmt.Sprintf("u%d@example.com", i),
			FamilyName: "F", GivenName: "G",
		})
		require.NoError(t, err)
	}

	users, err := uc.List(dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, users, 3)
	// Más recientes primero
	assert.Equal(t, "u2@example.com", users[0].Email)
}
