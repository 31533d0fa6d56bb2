// Package dberr translates driver errors into the error vocabulary of the core.
package dberr

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"

	"truckbot/internal/core/ports"
	"truckbot/internal/pkg/errs"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

const (
	codeUniqueViolation      = "23505"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeTooManyConnections   = "53300"
	codeAdminShutdown        = "57P01"
	codeCannotConnectNow     = "57P03"
)

// IsTransient reports whether err is an infrastructure failure after which the
// whole operation may be retried.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	if code, ok := sqlState(err); ok {
		switch code {
		case codeSerializationFailure, codeDeadlockDetected, codeTooManyConnections,
			codeAdminShutdown, codeCannotConnectNow:
			return true
		}
		// class 08: connection exception
		return strings.HasPrefix(code, "08")
	}

	return pgconn.Timeout(err) ||
		errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, context.DeadlineExceeded)
}

// Wrap classifies err for the application layer:
//   - unique violations (raw or translated by gorm) become *errs.VersionIsInvalidError for param
//   - transient failures are wrapped with ports.ErrStoreUnavailable
//   - anything else is returned unchanged
func Wrap(err error, param string) error {
	if err == nil {
		return nil
	}

	if code, ok := sqlState(err); (ok && code == codeUniqueViolation) || errors.Is(err, gorm.ErrDuplicatedKey) {
		return errs.NewVersionIsInvalidErrorWithCause(param, err)
	}
	if IsTransient(err) {
		return fmt.Errorf("%w: %w", ports.ErrStoreUnavailable, err)
	}
	return err
}

// sqlState extracts the SQLSTATE from pgx errors (runtime pool) and lib/pq
// errors (migrations).
func sqlState(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code, true
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code), true
	}

	return "", false
}
