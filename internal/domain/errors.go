package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
)

// ImportError indica que el archivo de importación no pudo abrirse o leerse.
// El sistema original ignoraba este caso en silencio; aquí se reporta siempre
// con la ruta y la causa.
type ImportError struct {
	Path string
	Err  error
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("importar usuarios desde %q: %v", e.Path, e.Err)
}

func (e *ImportError) Unwrap() error { return e.Err }
