package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strings"
)

//go:embed schema/*.sql
var schemaFS embed.FS

// ApplySchema creates the tables for the given driver if they do not exist.
// Statements run one by one since the MySQL driver rejects multi-statements
// unless explicitly enabled.
func ApplySchema(ctx context.Context, db *sql.DB, driver string) error {
	raw, err := schemaFS.ReadFile("schema/" + driver + ".sql")
	if err != nil {
		return fmt.Errorf("no schema for driver %q: %w", driver, err)
	}
	for _, stmt := range strings.Split(string(raw), ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
