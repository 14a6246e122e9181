package dao

import (
	"context"
	"database/sql"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"lot-backend/db"
	"lot-backend/pkg/apperror"
)

type Option func(*repository)

// WithClock replaces time.Now as the source of timestamps and of the
// evaluation instant of computed columns.
func WithClock(now func() time.Time) Option {
	return func(r *repository) {
		r.now = now
	}
}

type repository struct {
	db      *sql.DB
	dialect db.Dialect
	sb      sq.StatementBuilderType
	logger  *zap.Logger
	now     func() time.Time
}

func newRepository(conn *sql.DB, dialect db.Dialect, logger *zap.Logger, opts []Option) repository {
	r := repository{
		db:      conn,
		dialect: dialect,
		sb:      sq.StatementBuilder.PlaceholderFormat(dialect.Placeholder()),
		logger:  logger,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

func (r *repository) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	log := r.logger.With(zap.String("tx", ulid.Make().String()))

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	log.Debug("transaction started")

	committed := false
	defer func() {
		if committed {
			return
		}
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			log.Error("rollback failed", zap.Error(err))
			return
		}
		log.Debug("transaction rolled back")
	}()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	log.Debug("transaction committed")
	return nil
}

// failure converts a storage error into a Database error after logging the
// cause. Application errors raised on purpose are returned unchanged.
func (r *repository) failure(op string, err error, message string, fields ...zap.Field) error {
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		return appErr
	}
	r.logger.Error(op, append(fields, zap.Error(err))...)
	return apperror.New(apperror.Database, "%s", message)
}

func execAffected(ctx context.Context, run db.Runner, b sq.Sqlizer) (int64, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return 0, err
	}
	res, err := run.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
