package repository

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/car-rental/internal/model"
)

// CarSearchQuery defines filters and pagination for the catalogue search.
// Zero values leave a filter out.
type CarSearchQuery struct {
	Brand     string
	Model     string
	Available *bool
	MinPrice  *decimal.Decimal
	MaxPrice  *decimal.Decimal
	Page      int
	PageSize  int
}

// Search returns one page of matching cars ordered by id and the total
// number of matches.
func (r *CarRepo) Search(ctx context.Context, q CarSearchQuery) ([]model.Car, int64, error) {
	where := []string{}
	args := []any{}

	if q.Brand != "" {
		where = append(where, "LOWER(brand) LIKE ?")
		args = append(args, "%"+strings.ToLower(q.Brand)+"%")
	}
	if q.Model != "" {
		where = append(where, "LOWER(model) LIKE ?")
		args = append(args, "%"+strings.ToLower(q.Model)+"%")
	}
	if q.Available != nil {
		where = append(where, "available = ?")
		args = append(args, *q.Available)
	}
	if q.MinPrice != nil {
		where = append(where, "price_per_day >= ?")
		args = append(args, *q.MinPrice)
	}
	if q.MaxPrice != nil {
		where = append(where, "price_per_day <= ?")
		args = append(args, *q.MaxPrice)
	}

	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM cars WHERE "+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (q.Page - 1) * q.PageSize
	dataArgs := append(append([]any{}, args...), q.PageSize, offset)
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+carColumns+" FROM cars WHERE "+cond+" ORDER BY id LIMIT ? OFFSET ?", dataArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]model.Car, 0, q.PageSize)
	for rows.Next() {
		c, err := scanCar(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}
