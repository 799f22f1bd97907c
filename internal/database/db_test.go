package database_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/car-rental/internal/config"
	"github.com/iliyamo/car-rental/internal/database"
	"github.com/iliyamo/car-rental/internal/database/dbtest"
)

func TestApplySchemaIsIdempotent(t *testing.T) {
	db := dbtest.Open(t)
	require.NoError(t, database.ApplySchema(context.Background(), db, "sqlite3"))

	var n int
	require.NoError(t, db.QueryRow(
		`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name IN ('users','cars','rentals','refresh_tokens')`,
	).Scan(&n))
	assert.Equal(t, 4, n)
}

func TestApplySchemaUnknownDriver(t *testing.T) {
	db := dbtest.Open(t)
	assert.Error(t, database.ApplySchema(context.Background(), db, "postgres"))
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := database.Open(config.Config{DBDriver: "oracle"})
	assert.Error(t, err)
}

func TestOpenSQLiteEnforcesForeignKeys(t *testing.T) {
	db := dbtest.Open(t)
	_, err := db.Exec(`INSERT INTO rentals (car_id, user_id, start_date, end_date, total_price, status, created_at, updated_at)
		VALUES (99, 99, '2024-01-01', '2024-01-02', 10, 'BOOKED', '2024-01-01 00:00:00', '2024-01-01 00:00:00')`)
	assert.Error(t, err)
}
