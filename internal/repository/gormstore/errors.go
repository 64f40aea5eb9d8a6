package gormstore

import (
	"errors"
	"fmt"

	"gymhero/training-api/internal/repository"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

// PostgreSQL SQLSTATE codes for constraint violations.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

type operation int

const (
	opRead operation = iota
	opWrite
	opDelete
)

// translate maps driver errors to repository sentinels. A foreign key
// violation means a missing reference on insert/update and a blocking
// reference on delete.
func translate(err error, op operation) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return repository.ErrNotFound
	case isDuplicate(err):
		return fmt.Errorf("%w: %w", repository.ErrDuplicate, err)
	case isForeignKey(err):
		if op == opDelete {
			return fmt.Errorf("%w: %w", repository.ErrReferenced, err)
		}
		return fmt.Errorf("%w: %w", repository.ErrForeignKey, err)
	default:
		return fmt.Errorf("%w: %w", repository.ErrStorage, err)
	}
}

func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			liteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

func isForeignKey(err error) bool {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgForeignKeyViolation
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		// A RESTRICT action blocking a delete reports the trigger code.
		return liteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey ||
			liteErr.ExtendedCode == sqlite3.ErrConstraintTrigger
	}
	return false
}
