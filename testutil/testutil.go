// Package testutil holds shared fixtures for store, service and handler
// tests.
package testutil

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"Gin_postgres_redis_key_loans/db"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// NewTestDB opens a migrated in-memory sqlite store. A single connection
// keeps the in-memory database shared and serializes transactions.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(db.SQLiteDSN(":memory:")), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.Migrate(conn))
	return conn
}

// Clock is a settable time source.
type Clock struct{ T time.Time }

func NewClock(t time.Time) *Clock { return &Clock{T: t} }

func (c *Clock) Now() time.Time { return c.T }

func (c *Clock) Advance(d time.Duration) { c.T = c.T.Add(d) }

// Logger discards everything.
func Logger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }
