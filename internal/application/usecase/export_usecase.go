package usecase

import (
	"context"

	"github.com/quizzdwwm/backoffice-api/internal/domain/entity"
	"github.com/quizzdwwm/backoffice-api/internal/domain/repository"
)

// exportLimit tope de filas del export PDF. El listado completo se vuelca en
// una sola consulta; un directorio de usuarios mayor que esto necesitaría
// paginación en el generador.
const exportLimit = 1000

// UserListPDFGenerator puerto del generador de PDF (implementado con Maroto en
// infrastructure/pdf).
type UserListPDFGenerator interface {
	GenerateUserListPDF(ctx context.Context, users []*entity.User) ([]byte, error)
}

// ExportUseCase genera el listado de usuarios como documento PDF.
type ExportUseCase struct {
	repo repository.UserRepository
	gen  UserListPDFGenerator
}

// NewExportUseCase construye el caso de uso de exportación.
func NewExportUseCase(repo repository.UserRepository, gen UserListPDFGenerator) *ExportUseCase {
	return &ExportUseCase{repo: repo, gen: gen}
}

// UserListPDF devuelve los bytes del PDF con el listado actual.
func (uc *ExportUseCase) UserListPDF(ctx context.Context) ([]byte, error) {
	users, err := uc.repo.List(exportLimit, 0)
	if err != nil {
		return nil, err
	}
	return uc.gen.GenerateUserListPDF(ctx, users)
}
