package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizzdwwm/backoffice-api/internal/application/dto"
)

// multipartCSV construye un cuerpo multipart con el archivo csv_file.
func multipartCSV(t *testing.T, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("csv_file", "users.csv")
	require.NoError(t, err)
	_, err = io.WriteString(part, content)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestImportForm_DevuelveHTML(t *testing.T) {
	app, _ := buildTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/admin/import-users", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), `name="csv_file"`)
}

// Subida + importación: el archivo se guarda bajo un nombre generado y la
// respuesta es el reporte con los conteos.
func TestImportUpload_CreaUsuariosYDevuelveReporte(t *testing.T) {
	app, repo := buildTestApp(t)

	buf, contentType := multipartCSV(t,
		"jean@example.com,Dupont,Jean,M001\n"+
			"fila,corta\n"+
			"marie@example.com,Curie,Marie,M002\n")
	req := httptest.NewRequest(http.MethodPost, "/admin/import-users", buf)
	req.Header.Set("Content-Type", contentType)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var report dto.ImportReport
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))
	assert.Equal(t, 3, report.Total)
	assert.Equal(t, 2, report.Created)
	assert.Equal(t, 1, report.Skipped)
	require.Len(t, report.RowErrors, 1)
	assert.Equal(t, 2, report.RowErrors[0].Line)

	u, err := repo.GetByEmail("marie@example.com")
	require.NoError(t, err)
	assert.NotNil(t, u)
}

func TestImportUpload_SinArchivoRetorna400(t *testing.T) {
	app, _ := buildTestApp(t)

	req := httptest.NewRequest(http.MethodPost, "/admin/import-users", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
