package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/car-rental/internal/model"
)

type UserRepo struct{ db DBTX }

func NewUserRepo(db DBTX) *UserRepo { return &UserRepo{db: db} }

const userColumns = "id, name, email, password_hash, phone, role, created_at, updated_at"

func scanUser(row rowScanner) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Phone, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// Create inserts u with an already hashed password. The email is stored
// lower-cased; a taken email yields ErrEmailExists.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	u.Email = normalizeEmail(u.Email)
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO users (name, email, password_hash, phone, role, created_at, updated_at) VALUES (?,?,?,?,?,?,?)",
		u.Name, u.Email, u.PasswordHash, u.Phone, u.Role, now, now)
	if err != nil {
		if isDuplicate(err) {
			return ErrEmailExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	u.ID = uint64(id)
	u.CreatedAt, u.UpdatedAt = now, now
	return nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email = ? LIMIT 1", normalizeEmail(email)))
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrUserNotFound
	}
	return u, err
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = ? LIMIT 1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrUserNotFound
	}
	return u, err
}

// ExistsByEmail reports whether an account uses email.
func (r *UserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users WHERE email = ?", normalizeEmail(email)).Scan(&n)
	return n > 0, err
}

func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+userColumns+" FROM users ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// Delete removes a user with no rental history; users with rentals are
// kept and ErrConflict returned. Refresh tokens go with the user.
func (r *UserRepo) Delete(ctx context.Context, id uint64) error {
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	var refs int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM rentals WHERE user_id = ?", id).Scan(&refs); err != nil {
		return err
	}
	if refs > 0 {
		return ErrConflict
	}
	return r.deleteRow(ctx, id)
}

func (r *UserRepo) deleteRow(ctx context.Context, id uint64) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM refresh_tokens WHERE user_id = ?", id); err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
	if isForeignKey(err) {
		return ErrConflict
	}
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&n)
	return n, err
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
