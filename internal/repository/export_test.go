package repository

import "context"

// DeleteRow skips the reference count so the foreign key is the only guard.
func (r *CarRepo) DeleteRow(ctx context.Context, id uint64) error { return r.deleteRow(ctx, id) }

func (r *UserRepo) DeleteRow(ctx context.Context, id uint64) error { return r.deleteRow(ctx, id) }
