// Package repository holds the SQL data access layer. Sentinel errors
// below let services tell failure kinds apart with errors.Is.
package repository

import (
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/mattn/go-sqlite3"
)

// ErrNotFound is wrapped by every entity-specific not-found error.
var ErrNotFound = errors.New("not found")

var (
	ErrCarNotFound    = fmt.Errorf("car %w", ErrNotFound)
	ErrUserNotFound   = fmt.Errorf("user %w", ErrNotFound)
	ErrRentalNotFound = fmt.Errorf("rental %w", ErrNotFound)
)

// ErrConflict is returned when a delete or update cannot be performed
// because of dependent rows, such as deleting a car that has rentals.
var ErrConflict = errors.New("conflict")

// ErrEmailExists is returned when inserting a user whose email is taken.
var ErrEmailExists = errors.New("email already exists")

// isDuplicate recognises unique-key violations from both supported drivers.
func isDuplicate(err error) bool {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1062
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}

// isForeignKey recognises foreign-key violations, such as deleting a row
// that a rental still references.
func isForeignKey(err error) bool {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1451
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey
	}
	return false
}
