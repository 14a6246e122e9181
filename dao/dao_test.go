package dao

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"lot-backend/db"
	"lot-backend/pkg/config"
)

var t0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

const year = int64(31536000)

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

// tickingClock advances one second on every call.
func tickingClock(from time.Time) func() time.Time {
	next := from
	return func() time.Time {
		now := next
		next = next.Add(time.Second)
		return now
	}
}

type fixture struct {
	conn  *sql.DB
	items *ItemRepository
	tags  *TagRepository
	owner string
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	ctx := context.Background()
	conn, dialect, err := db.Open(ctx, config.DatabaseConfig{
		Driver:   "sqlite",
		Path:     filepath.Join(t.TempDir(), "lot.db"),
		PoolSize: 4,
	})
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, db.EnsureSchema(ctx, conn, dialect))

	logger := zaptest.NewLogger(t)
	return &fixture{
		conn:  conn,
		items: NewItemRepository(conn, dialect, logger, opts...),
		tags:  NewTagRepository(conn, dialect, logger, opts...),
		owner: uuid.NewString(),
	}
}

func (f *fixture) count(t *testing.T, query string, args ...any) int {
	t.Helper()
	var n int
	require.NoError(t, f.conn.QueryRowContext(context.Background(), query, args...).Scan(&n))
	return n
}

func ptr[T any](v T) *T {
	return &v
}
