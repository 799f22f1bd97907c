package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/car-rental/internal/model"
)

// RentalRepo handles the `rentals` table and the joined read model used by
// the API (user name and car brand/model next to each rental).
type RentalRepo struct {
	db DBTX
}

func NewRentalRepo(db DBTX) *RentalRepo {
	return &RentalRepo{db: db}
}

// LEFT JOINs keep a rental visible even if its car or user row is missing.
const rentalDetailSelect = `
	SELECT r.id, r.car_id, r.user_id, r.start_date, r.end_date, r.total_price, r.status,
	       r.created_at, r.updated_at,
	       COALESCE(u.name, ''), COALESCE(c.brand, ''), COALESCE(c.model, '')
	FROM rentals r
	LEFT JOIN users u ON u.id = r.user_id
	LEFT JOIN cars c ON c.id = r.car_id`

func scanRentalDetail(row rowScanner) (model.RentalDetail, error) {
	var d model.RentalDetail
	var status string
	err := row.Scan(&d.ID, &d.CarID, &d.UserID, &d.StartDate, &d.EndDate, &d.TotalPrice, &status,
		&d.CreatedAt, &d.UpdatedAt, &d.UserName, &d.CarBrand, &d.CarModel)
	d.Status = model.Status(status)
	return d, err
}

// Create inserts rt and fills in its ID and timestamps.
func (r *RentalRepo) Create(ctx context.Context, rt *model.Rental) error {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO rentals (car_id, user_id, start_date, end_date, total_price, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rt.CarID, rt.UserID, rt.StartDate, rt.EndDate, rt.TotalPrice, string(rt.Status), now, now)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rt.ID = uint64(id)
	rt.CreatedAt, rt.UpdatedAt = now, now
	return nil
}

// GetByID returns the bare rental row.
func (r *RentalRepo) GetByID(ctx context.Context, id uint64) (model.Rental, error) {
	var rt model.Rental
	var status string
	err := r.db.QueryRowContext(ctx,
		`SELECT id, car_id, user_id, start_date, end_date, total_price, status, created_at, updated_at
		 FROM rentals WHERE id = ?`, id).
		Scan(&rt.ID, &rt.CarID, &rt.UserID, &rt.StartDate, &rt.EndDate, &rt.TotalPrice, &status, &rt.CreatedAt, &rt.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Rental{}, ErrRentalNotFound
	}
	rt.Status = model.Status(status)
	return rt, err
}

// GetDetail returns one rental with its joined names.
func (r *RentalRepo) GetDetail(ctx context.Context, id uint64) (model.RentalDetail, error) {
	d, err := scanRentalDetail(r.db.QueryRowContext(ctx, rentalDetailSelect+" WHERE r.id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.RentalDetail{}, ErrRentalNotFound
	}
	return d, err
}

// List returns all rentals, newest first.
func (r *RentalRepo) List(ctx context.Context) ([]model.RentalDetail, error) {
	return r.query(ctx, rentalDetailSelect+" ORDER BY r.id DESC")
}

// ListByUser returns the rentals of one user, newest first. An unknown
// user simply has no rentals.
func (r *RentalRepo) ListByUser(ctx context.Context, userID uint64) ([]model.RentalDetail, error) {
	return r.query(ctx, rentalDetailSelect+" WHERE r.user_id = ? ORDER BY r.id DESC", userID)
}

func (r *RentalRepo) query(ctx context.Context, q string, args ...any) ([]model.RentalDetail, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.RentalDetail{}
	for rows.Next() {
		d, err := scanRentalDetail(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// UpdateStatus stores a new status value.
func (r *RentalRepo) UpdateStatus(ctx context.Context, id uint64, status model.Status) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE rentals SET status = ?, updated_at = ? WHERE id = ?",
		string(status), time.Now().UTC(), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrRentalNotFound
	}
	return nil
}

func (r *RentalRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM rentals").Scan(&n)
	return n, err
}
