// Package pdf implementa la exportación del listado de usuarios como documento
// A4: una tabla con ID, email, apellido, nombre, matrícula, roles y estado.
package pdf

import (
	"context"
	"fmt"
	"strings"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/quizzdwwm/backoffice-api/internal/application/usecase"
	"github.com/quizzdwwm/backoffice-api/internal/domain/entity"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var _ usecase.UserListPDFGenerator = (*MarotoUserListGenerator)(nil)

// MarotoUserListGenerator implementa usecase.UserListPDFGenerator usando Maroto v2.
type MarotoUserListGenerator struct{}

// NewMarotoUserListGenerator construye el generador.
func NewMarotoUserListGenerator() *MarotoUserListGenerator { return &MarotoUserListGenerator{} }

// GenerateUserListPDF genera el PDF y devuelve sus bytes.
func (g *MarotoUserListGenerator) GenerateUserListPDF(_ context.Context, users []*entity.User) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Listado de usuarios", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(len(users)))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow())
	for _, r := range tableRows(users) {
		m.AddRows(r)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// headerRow: título + fecha de generación y total de cuentas.
func headerRow(total int) core.Row {
	return row.New(14).Add(
		col.New(7).Add(
			text.New("Usuarios — Back-office", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("%d cuentas", total), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("Generado: "+time.Now().Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 2, Color: colorGray,
			}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de usuarios.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("ID", 1, align.Center),
		h("Email", 3, align.Left),
		h("Apellido", 2, align.Left),
		h("Nombre", 2, align.Left),
		h("Matrícula", 1, align.Center),
		h("Roles", 2, align.Left),
		h("Activo", 1, align.Center),
	)
}

// tableRows: una fila por usuario.
func tableRows(users []*entity.User) []core.Row {
	cell := func(v string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(v, props.Text{
			Size: 8, Align: a, Top: 1, Left: 1, Right: 1,
		}))
	}
	result := make([]core.Row, 0, len(users))
	for _, u := range users {
		active := "no"
		if u.IsActive {
			active = "sí"
		}
		result = append(result, row.New(6).Add(
			cell(fmt.Sprintf("%d", u.ID), 1, align.Center),
			cell(u.Email, 3, align.Left),
			cell(u.FamilyName, 2, align.Left),
			cell(u.GivenName, 2, align.Left),
			cell(u.Matricule, 1, align.Center),
			cell(strings.Join(u.Roles, ", "), 2, align.Left),
			cell(active, 1, align.Center),
		))
	}
	return result
}
