package postgres_adapter

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// ApplySchema выполняет встроенные DDL-скрипты по порядку имен.
// Скрипты идемпотентны, повторный запуск ничего не меняет.
func ApplySchema(ctx context.Context, pool *pgxpool.Pool) ([]string, error) {
	files, err := fs.Glob(migrationsFS, "migrations/*.sql")
	if err != nil {
		return nil, fmt.Errorf("failed to list migrations: %w", err)
	}

	applied := make([]string, 0, len(files))
	for _, name := range files {
		ddl, err := migrationsFS.ReadFile(name)
		if err != nil {
			return applied, fmt.Errorf("failed to read migration %s: %w", name, err)
		}
		// Без аргументов pgx отправляет скрипт простым протоколом, несколько команд допустимы
		if _, err := pool.Exec(ctx, string(ddl)); err != nil {
			return applied, fmt.Errorf("failed to apply migration %s: %w", name, err)
		}
		applied = append(applied, name)
	}
	return applied, nil
}
