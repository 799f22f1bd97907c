// Package dbtest provides throwaway SQLite databases for package tests.
package dbtest

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/iliyamo/car-rental/internal/database"
)

var seq atomic.Int64

// Open returns a fresh in-memory database with the schema applied. Each
// call gets its own named memory database, closed when the test ends.
func Open(t testing.TB) *sql.DB {
	t.Helper()

	name := fmt.Sprintf("file:drivehub_%d?mode=memory&cache=shared", seq.Add(1))
	db, err := database.OpenSQLite(name)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := database.ApplySchema(context.Background(), db, "sqlite3"); err != nil {
		t.Fatalf("apply schema: %v", err)
	}
	return db
}
