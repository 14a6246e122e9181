package db

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"

	"lot-backend/pkg/config"
)

// Open creates the connection pool for the configured engine and checks it
// is reachable. The caller owns the pool and must Close it.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, Dialect, error) {
	dialect, err := DialectFor(cfg.Driver)
	if err != nil {
		return nil, nil, err
	}

	driverName, dsn := dataSource(cfg)
	conn, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s database: %w", cfg.Driver, err)
	}

	conn.SetMaxOpenConns(cfg.PoolSize)
	conn.SetMaxIdleConns(cfg.PoolSize)
	conn.SetConnMaxIdleTime(5 * time.Minute)

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("failed to connect to %s database: %w", cfg.Driver, err)
	}
	return conn, dialect, nil
}

var defaultPorts = map[string]int{
	"postgres": 5432,
	"mysql":    3306,
}

func dataSource(cfg config.DatabaseConfig) (driverName, dsn string) {
	if cfg.Port == 0 {
		cfg.Port = defaultPorts[cfg.Driver]
	}
	switch cfg.Driver {
	case "postgres":
		return "postgres", fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode)
	case "mysql":
		mc := mysql.NewConfig()
		mc.User = cfg.User
		mc.Passwd = cfg.Password
		mc.Net = "tcp"
		mc.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
		mc.DBName = cfg.Name
		mc.ParseTime = true
		mc.Loc = time.UTC
		// UPDATE must report matched rows, not changed rows
		mc.ClientFoundRows = true
		return "mysql", mc.FormatDSN()
	default:
		q := url.Values{}
		q.Add("_pragma", "busy_timeout(5000)")
		q.Add("_pragma", "journal_mode(WAL)")
		q.Add("_pragma", "foreign_keys(1)")
		return "sqlite", cfg.Path + "?" + q.Encode()
	}
}

// EnsureSchema creates missing tables. It never alters existing ones.
func EnsureSchema(ctx context.Context, conn *sql.DB, dialect Dialect) error {
	for _, stmt := range dialect.Schema() {
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create %s schema: %w", dialect.Name(), err)
		}
	}
	return nil
}
