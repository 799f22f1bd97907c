package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// DBTX is the query surface shared by *sql.DB and *sql.Tx, so every repo
// can run standalone or inside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Repos groups the repositories bound to one DBTX.
type Repos struct {
	Cars    *CarRepo
	Users   *UserRepo
	Rentals *RentalRepo
	Tokens  *TokenRepo
}

func newRepos(db DBTX) Repos {
	return Repos{
		Cars:    NewCarRepo(db),
		Users:   NewUserRepo(db),
		Rentals: NewRentalRepo(db),
		Tokens:  NewTokenRepo(db),
	}
}

// Store owns the connection pool and hands out repositories.
type Store struct {
	db *sql.DB
	Repos
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db, Repos: newRepos(db)}
}

// DB exposes the pool for health checks.
func (s *Store) DB() *sql.DB { return s.db }

// InTx runs fn with repositories bound to a single transaction. The
// transaction commits when fn returns nil and rolls back otherwise.
// fn must not touch s.Repos: with a single-connection pool that would
// wait forever on the connection the transaction holds.
func (s *Store) InTx(ctx context.Context, fn func(r Repos) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := fn(newRepos(tx)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	committed = true
	return nil
}
