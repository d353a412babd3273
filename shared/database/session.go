package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Avdeevkonst/dip-user/shared/apperr"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

type Config struct {
	DSN             string
	Echo            bool
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// SessionFactory hands out units of work over one shared pool.
type SessionFactory struct {
	db   *sql.DB
	echo bool
	log  *zap.Logger
}

// Open connects to PostgreSQL and verifies the connection.
func Open(ctx context.Context, cfg Config, log *zap.Logger) (*SessionFactory, error) {
	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return NewSessionFactory(db, cfg.Echo, log), nil
}

func NewSessionFactory(db *sql.DB, echo bool, log *zap.Logger) *SessionFactory {
	if log == nil {
		log = zap.NewNop()
	}
	return &SessionFactory{db: db, echo: echo, log: log}
}

func (f *SessionFactory) DB() *sql.DB {
	return f.db
}

func (f *SessionFactory) Close() error {
	return f.db.Close()
}

// New returns a unit of work whose session is not yet acquired.
func (f *SessionFactory) New() *UnitOfWork {
	return &UnitOfWork{db: f.db, echo: f.echo, log: f.log}
}

// Do runs fn inside one transaction. The session is always rolled back
// (unless fn committed) and closed on the way out, also on panic or
// context cancellation. Errors that are already *apperr.Error pass
// through unchanged; everything else is translated, and a failure after
// ctx is done reports the database as unavailable.
func (f *SessionFactory) Do(ctx context.Context, fn func(ctx context.Context, uow *UnitOfWork) error) (err error) {
	uow := f.New()
	if err := uow.begin(ctx); err != nil {
		return Translate(err)
	}

	defer func() {
		if r := recover(); r != nil {
			f.release(uow, true)
			panic(r)
		}
		f.release(uow, err != nil)
		err = translateDone(ctx, err)
	}()

	return fn(ctx, uow)
}

func (f *SessionFactory) release(uow *UnitOfWork, failed bool) {
	if failed && uow.tx != nil {
		if err := uow.Rollback(); err != nil {
			f.log.Warn("rollback failed", zap.Error(err))
		}
	}
	if err := uow.Close(); err != nil {
		f.log.Warn("close failed", zap.Error(err))
	}
}

// translateDone covers the driver errors a cancelled context leaves
// behind, such as sql.ErrTxDone from a commit racing the rollback.
func translateDone(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := apperr.As(err); !ok && ctx.Err() != nil {
		return apperr.Transport("Database unavailable", fmt.Errorf("%w: %w", ctx.Err(), err))
	}
	return Translate(err)
}
