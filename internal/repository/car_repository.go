package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/car-rental/internal/model"
)

// CarRepo encapsulates all queries against the `cars` table.
type CarRepo struct {
	db DBTX
}

func NewCarRepo(db DBTX) *CarRepo {
	return &CarRepo{db: db}
}

const carColumns = "id, brand, model, year, price_per_day, available, created_at, updated_at"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCar(row rowScanner) (model.Car, error) {
	var c model.Car
	err := row.Scan(&c.ID, &c.Brand, &c.Model, &c.Year, &c.PricePerDay, &c.Available, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

// List returns every car ordered by id.
func (r *CarRepo) List(ctx context.Context) ([]model.Car, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+carColumns+" FROM cars ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Car{}
	for rows.Next() {
		c, err := scanCar(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// GetByID returns ErrCarNotFound when no row matches.
func (r *CarRepo) GetByID(ctx context.Context, id uint64) (model.Car, error) {
	c, err := scanCar(r.db.QueryRowContext(ctx, "SELECT "+carColumns+" FROM cars WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Car{}, ErrCarNotFound
	}
	return c, err
}

// Create inserts c and fills in its ID and timestamps.
func (r *CarRepo) Create(ctx context.Context, c *model.Car) error {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO cars (brand, model, year, price_per_day, available, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		c.Brand, c.Model, c.Year, c.PricePerDay, c.Available, now, now)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	c.CreatedAt, c.UpdatedAt = now, now
	return nil
}

// Update overwrites every mutable column, availability included.
func (r *CarRepo) Update(ctx context.Context, c *model.Car) error {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`UPDATE cars SET brand = ?, model = ?, year = ?, price_per_day = ?, available = ?, updated_at = ?
		 WHERE id = ?`,
		c.Brand, c.Model, c.Year, c.PricePerDay, c.Available, now, c.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrCarNotFound
	}
	c.UpdatedAt = now
	return nil
}

// Delete removes a car. A car referenced by any rental is kept and
// ErrConflict returned.
func (r *CarRepo) Delete(ctx context.Context, id uint64) error {
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	var refs int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM rentals WHERE car_id = ?", id).Scan(&refs); err != nil {
		return err
	}
	if refs > 0 {
		return ErrConflict
	}
	return r.deleteRow(ctx, id)
}

// deleteRow drops the car row. A rental inserted after the reference
// count trips the foreign key and surfaces as ErrConflict.
func (r *CarRepo) deleteRow(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM cars WHERE id = ?", id)
	if isForeignKey(err) {
		return ErrConflict
	}
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrCarNotFound
	}
	return nil
}

// MarkRented flips an available car to unavailable. It reports false when
// the car was already unavailable, which is how a concurrent booking that
// lost the race finds out.
func (r *CarRepo) MarkRented(ctx context.Context, id uint64) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		"UPDATE cars SET available = ?, updated_at = ? WHERE id = ? AND available = ?",
		false, time.Now().UTC(), id, true)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// SetAvailable sets the availability flag unconditionally.
func (r *CarRepo) SetAvailable(ctx context.Context, id uint64, available bool) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE cars SET available = ?, updated_at = ? WHERE id = ?",
		available, time.Now().UTC(), id)
	return err
}

// Count returns the total number of cars.
func (r *CarRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM cars").Scan(&n)
	return n, err
}

// CountAvailable returns the number of cars with available = true.
func (r *CarRepo) CountAvailable(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM cars WHERE available = ?", true).Scan(&n)
	return n, err
}
