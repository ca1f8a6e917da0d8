package persistence

import (
	"errors"

	"github.com/foodgram/backend/internal/domain/shared"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

// Postgres SQLSTATE codes reported when concurrent transactions collide
const (
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgLockNotAvailable     = "55P03"
)

// translateError maps storage errors onto the shared domain errors. It
// expects gorm's TranslateError to have run, so unique and foreign key
// violations arrive as gorm sentinels; driver errors gorm leaves alone are
// inspected directly. Unknown errors are returned unchanged.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return shared.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return shared.ErrAlreadyExists
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return shared.NewNotFoundError("Referenced resource")
	case errors.Is(err, gorm.ErrCheckConstraintViolated):
		return shared.NewValidationError("Value violates a storage constraint")
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgSerializationFailure, pgDeadlockDetected, pgLockNotAvailable:
			return shared.ErrStorageConflict
		}
		return err
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		switch {
		case liteErr.Code == sqlite3.ErrBusy || liteErr.Code == sqlite3.ErrLocked:
			return shared.ErrStorageConflict
		case liteErr.ExtendedCode == sqlite3.ErrConstraintCheck:
			return shared.NewValidationError("Value violates a storage constraint")
		case liteErr.ExtendedCode == sqlite3.ErrConstraintUnique || liteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey:
			return shared.ErrAlreadyExists
		case liteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey:
			return shared.NewNotFoundError("Referenced resource")
		}
	}
	return err
}
