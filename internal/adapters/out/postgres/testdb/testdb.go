// Package testdb opens throwaway SQLite databases with the ledger schema for
// tests that need real transactions but not a PostgreSQL container.
package testdb

import (
	"fmt"
	"testing"

	"truckbot/internal/adapters/out/postgres/notificationrepo"
	"truckbot/internal/adapters/out/postgres/orderrepo"
	"truckbot/internal/adapters/out/postgres/userrepo"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// New returns an isolated in-memory database that lives until the test ends.
//
// The pool is limited to one connection: every transaction owns the database
// until it finishes, so concurrent callers queue instead of failing with
// SQLITE_BUSY. Do not read through the root handle while a transaction is
// open in the same goroutine.
func New(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Discard,
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	err = db.AutoMigrate(
		&userrepo.UserDTO{},
		&orderrepo.OrderDTO{},
		&notificationrepo.NotificationDTO{},
	)
	require.NoError(t, err)

	return db
}
