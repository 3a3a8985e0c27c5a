package postgres

import (
	"context"
	"database/sql"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/quizzdwwm/backoffice-api/internal/infrastructure/postgres/migrations"
)

// RunMigrations aplica las migraciones embebidas contra la base de datos.
// goose trabaja sobre database/sql, así que se abre una conexión efímera vía
// el driver stdlib de pgx con el mismo DSN del pool.
func RunMigrations(ctx context.Context, dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}
