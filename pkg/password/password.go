// Package password genera contraseñas aleatorias y define el puerto de hashing.
package password

import (
	"crypto/rand"
	"encoding/hex"

	"golang.org/x/crypto/bcrypt"
)

// GeneratedBytes bytes de entropía del password generado. Codificado en hex
// produce el doble de caracteres (20).
const GeneratedBytes = 10

// Generate devuelve un password aleatorio en hexadecimal. El texto plano es
// irrecuperable una vez hasheado: no se persiste ni se devuelve al llamador
// del use case.
func Generate() (string, error) {
	b := make([]byte, GeneratedBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// Hasher transforma un password en texto plano a su credencial almacenable.
type Hasher interface {
	Hash(plain string) (string, error)
	Verify(hash, plain string) bool
}

// BcryptHasher implementación de Hasher con bcrypt (coste por defecto).
type BcryptHasher struct{}

// NewBcryptHasher construye el hasher.
func NewBcryptHasher() *BcryptHasher { return &BcryptHasher{} }

// Hash genera el hash bcrypt (salted: dos llamadas con el mismo texto plano
// producen hashes distintos).
func (h *BcryptHasher) Hash(plain string) (string, error) {
	out, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// Verify comprueba el texto plano contra el hash almacenado.
func (h *BcryptHasher) Verify(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
