// Package migrations embebe los archivos SQL de goose para el esquema del
// back-office.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
