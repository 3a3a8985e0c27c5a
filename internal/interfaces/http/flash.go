package http

import (
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// flashCookie nombre de la cookie del aviso flash: mensaje de un solo uso que
// sobrevive al redirect (equivalente al addFlash del back-office original).
const flashCookie = "backoffice_flash"

// SetFlash deja un aviso "level:message" para la siguiente petición.
func SetFlash(c *fiber.Ctx, level, message string) {
	c.Cookie(&fiber.Cookie{
		Name:     flashCookie,
		Value:    url.QueryEscape(level + ":" + message),
		Path:     "/",
		Expires:  time.Now().Add(5 * time.Minute),
		HTTPOnly: true,
	})
}

// ReadFlash devuelve y consume el aviso pendiente, si existe.
func ReadFlash(c *fiber.Ctx) (level, message string, ok bool) {
	raw := c.Cookies(flashCookie)
	if raw == "" {
		return "", "", false
	}
	c.ClearCookie(flashCookie)
	decoded, err := url.QueryUnescape(raw)
	if err != nil {
		return "", "", false
	}
	level, message, found := strings.Cut(decoded, ":")
	if !found {
		return "", decoded, true
	}
	return level, message, true
}
