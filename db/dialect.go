package db

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"lot-backend/pkg/apperror"
)

type Runner interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Dialect interface {
	Name() string
	Placeholder() sq.PlaceholderFormat
	// FormatTime renders a unix timestamp as the canonical UTC text stored
	// in timestamp columns. Lexical order matches temporal order.
	FormatTime(unix int64) string
	Epoch(column string) string
	// Contains is a case-sensitive substring match.
	Contains(column, phrase string) sq.Sqlizer
	IsUniqueViolation(err error) bool
	InsertID(ctx context.Context, run Runner, insert sq.InsertBuilder) (int64, error)
	Schema() []string
}

func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case "postgres":
		return Postgres{}, nil
	case "mysql":
		return MySQL{}, nil
	case "sqlite":
		return SQLite{}, nil
	}
	return nil, apperror.New(apperror.Config, "unsupported database driver %q", driver)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePattern(phrase string) string {
	return "%" + likeEscaper.Replace(phrase) + "%"
}

func execInsertID(ctx context.Context, run Runner, insert sq.InsertBuilder) (int64, error) {
	query, args, err := insert.ToSql()
	if err != nil {
		return 0, err
	}
	res, err := run.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

type Postgres struct{}

func (Postgres) Name() string                      { return "postgres" }
func (Postgres) Placeholder() sq.PlaceholderFormat { return sq.Dollar }

func (Postgres) FormatTime(unix int64) string {
	return time.Unix(unix, 0).UTC().Format("2006-01-02 15:04:05-0700")
}

func (Postgres) Epoch(column string) string {
	return "CAST(EXTRACT(EPOCH FROM " + column + ") AS BIGINT)"
}

func (Postgres) Contains(column, phrase string) sq.Sqlizer {
	return sq.Expr(column+" LIKE ?", likePattern(phrase))
}

func (Postgres) IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func (Postgres) InsertID(ctx context.Context, run Runner, insert sq.InsertBuilder) (int64, error) {
	query, args, err := insert.Suffix("RETURNING id").ToSql()
	if err != nil {
		return 0, err
	}
	var id int64
	if err := run.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (Postgres) Schema() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS items (
			id BIGSERIAL PRIMARY KEY,
			owner_id TEXT NOT NULL,
			name TEXT NOT NULL,
			alias TEXT,
			description TEXT,
			added_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL,
			purchased_at TIMESTAMPTZ NOT NULL,
			value NUMERIC NOT NULL,
			currency_code TEXT NOT NULL,
			life_span BIGINT NOT NULL,
			is_favorite BOOLEAN NOT NULL DEFAULT FALSE,
			is_archived BOOLEAN NOT NULL DEFAULT FALSE,
			UNIQUE (owner_id, id)
		)`,
		`CREATE INDEX IF NOT EXISTS items_owner_added_at_idx ON items (owner_id, added_at)`,
		`CREATE TABLE IF NOT EXISTS tags (
			id BIGSERIAL PRIMARY KEY,
			owner_id TEXT NOT NULL,
			name TEXT NOT NULL,
			UNIQUE (owner_id, name),
			UNIQUE (owner_id, id)
		)`,
		`CREATE TABLE IF NOT EXISTS items_to_tags (
			owner_id TEXT NOT NULL,
			item_id BIGINT NOT NULL,
			tag_id BIGINT NOT NULL,
			UNIQUE (owner_id, item_id, tag_id),
			FOREIGN KEY (owner_id, item_id) REFERENCES items (owner_id, id) ON DELETE CASCADE,
			FOREIGN KEY (owner_id, tag_id) REFERENCES tags (owner_id, id) ON DELETE CASCADE
		)`,
	}
}

type MySQL struct{}

func (MySQL) Name() string                      { return "mysql" }
func (MySQL) Placeholder() sq.PlaceholderFormat { return sq.Question }

func (MySQL) FormatTime(unix int64) string {
	return time.Unix(unix, 0).UTC().Format("2006-01-02 15:04:05")
}

func (MySQL) Epoch(column string) string {
	return "TIMESTAMPDIFF(SECOND, '1970-01-01 00:00:00', " + column + ")"
}

func (MySQL) Contains(column, phrase string) sq.Sqlizer {
	return sq.Expr(column+" COLLATE utf8mb4_bin LIKE ?", likePattern(phrase))
}

func (MySQL) IsUniqueViolation(err error) bool {
	var myErr *mysql.MySQLError
	return errors.As(err, &myErr) && myErr.Number == 1062
}

func (MySQL) InsertID(ctx context.Context, run Runner, insert sq.InsertBuilder) (int64, error) {
	return execInsertID(ctx, run, insert)
}

func (MySQL) Schema() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS items (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			owner_id VARCHAR(128) NOT NULL,
			name VARCHAR(255) NOT NULL,
			alias VARCHAR(255),
			description TEXT,
			added_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			purchased_at DATETIME NOT NULL,
			value DECIMAL(19,4) NOT NULL,
			currency_code VARCHAR(8) NOT NULL,
			life_span BIGINT NOT NULL,
			is_favorite BOOLEAN NOT NULL DEFAULT FALSE,
			is_archived BOOLEAN NOT NULL DEFAULT FALSE,
			INDEX items_owner_added_at_idx (owner_id, added_at),
			UNIQUE KEY items_owner_id_key (owner_id, id)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
		`CREATE TABLE IF NOT EXISTS tags (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			owner_id VARCHAR(128) NOT NULL,
			name VARCHAR(255) NOT NULL,
			UNIQUE KEY tags_owner_name_key (owner_id, name),
			UNIQUE KEY tags_owner_id_key (owner_id, id)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
		`CREATE TABLE IF NOT EXISTS items_to_tags (
			owner_id VARCHAR(128) NOT NULL,
			item_id BIGINT NOT NULL,
			tag_id BIGINT NOT NULL,
			UNIQUE KEY items_to_tags_key (owner_id, item_id, tag_id),
			FOREIGN KEY (owner_id, item_id) REFERENCES items (owner_id, id) ON DELETE CASCADE,
			FOREIGN KEY (owner_id, tag_id) REFERENCES tags (owner_id, id) ON DELETE CASCADE
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	}
}

type SQLite struct{}

func (SQLite) Name() string                      { return "sqlite" }
func (SQLite) Placeholder() sq.PlaceholderFormat { return sq.Question }

// FormatTime uses a trailing Z, the only zone suffix strftime accepts
// besides [+-]HH:MM.
func (SQLite) FormatTime(unix int64) string {
	return time.Unix(unix, 0).UTC().Format("2006-01-02 15:04:05Z")
}

func (SQLite) Epoch(column string) string {
	return "CAST(strftime('%s', " + column + ") AS INTEGER)"
}

// Contains avoids LIKE, which is case-insensitive for ASCII in SQLite.
func (SQLite) Contains(column, phrase string) sq.Sqlizer {
	return sq.Expr("instr("+column+", ?) > 0", phrase)
}

func (SQLite) IsUniqueViolation(err error) bool {
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) && liteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
		return true
	}
	// without extended result codes only the message tells UNIQUE apart
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func (SQLite) InsertID(ctx context.Context, run Runner, insert sq.InsertBuilder) (int64, error) {
	return execInsertID(ctx, run, insert)
}

func (SQLite) Schema() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS items (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			owner_id TEXT NOT NULL,
			name TEXT NOT NULL,
			alias TEXT,
			description TEXT,
			added_at TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			purchased_at TEXT NOT NULL,
			value REAL NOT NULL,
			currency_code TEXT NOT NULL,
			life_span INTEGER NOT NULL,
			is_favorite INTEGER NOT NULL DEFAULT 0,
			is_archived INTEGER NOT NULL DEFAULT 0,
			UNIQUE (owner_id, id)
		)`,
		`CREATE INDEX IF NOT EXISTS items_owner_added_at_idx ON items (owner_id, added_at)`,
		`CREATE TABLE IF NOT EXISTS tags (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			owner_id TEXT NOT NULL,
			name TEXT NOT NULL,
			UNIQUE (owner_id, name),
			UNIQUE (owner_id, id)
		)`,
		`CREATE TABLE IF NOT EXISTS items_to_tags (
			owner_id TEXT NOT NULL,
			item_id INTEGER NOT NULL,
			tag_id INTEGER NOT NULL,
			UNIQUE (owner_id, item_id, tag_id),
			FOREIGN KEY (owner_id, item_id) REFERENCES items (owner_id, id) ON DELETE CASCADE,
			FOREIGN KEY (owner_id, tag_id) REFERENCES tags (owner_id, id) ON DELETE CASCADE
		)`,
	}
}
