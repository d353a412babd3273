package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Avdeevkonst/dip-user/shared/apperr"
	sq "github.com/Masterminds/squirrel"
	"go.uber.org/zap"
)

var (
	ErrSessionNotInitialized = errors.New("session not initialized")
	ErrEmptyConditions       = errors.New("no conditions provided")
	ErrNoResult              = errors.New("no result found")
	ErrMultipleRows          = errors.New("multiple rows were found when exactly one was required")
)

// UnitOfWork owns one transaction. It never commits on its own; callers
// pick the commit point after composing repository calls.
type UnitOfWork struct {
	db      *sql.DB
	tx      *sql.Tx
	echo    bool
	log     *zap.Logger
	pending []Model
}

func (u *UnitOfWork) begin(ctx context.Context) error {
	tx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	u.tx = tx
	return nil
}

func (u *UnitOfWork) session() (*sql.Tx, error) {
	if u.tx == nil {
		return nil, apperr.Usage(ErrSessionNotInitialized)
	}
	return u.tx, nil
}

// Add stages m for insertion on the next flush.
func (u *UnitOfWork) Add(m Model) error {
	if _, err := u.session(); err != nil {
		return err
	}
	u.pending = append(u.pending, m)
	return nil
}

// Flush writes staged models without ending the transaction. Each row
// returned by the insert is scanned back into its model.
func (u *UnitOfWork) Flush(ctx context.Context) error {
	tx, err := u.session()
	if err != nil {
		return err
	}
	for len(u.pending) > 0 {
		m := u.pending[0]
		query, args, err := NewQuery(m).Insert(m).ToSql()
		if err != nil {
			return fmt.Errorf("failed to build insert: %w", err)
		}
		u.echoStatement(query, args)
		if err := tx.QueryRowContext(ctx, query, args...).Scan(m.ScanDest()...); err != nil {
			return fmt.Errorf("failed to insert into %s: %w", m.TableName(), err)
		}
		u.pending = u.pending[1:]
	}
	return nil
}

// Refresh reloads m from its persisted row.
func (u *UnitOfWork) Refresh(ctx context.Context, m Model) error {
	q := NewQuery(m)
	rows, err := u.Query(ctx, q.Select(q.ByID(m.PrimaryKey())))
	if err != nil {
		return err
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return err
		}
		return ErrNoResult
	}
	return rows.Scan(m.ScanDest()...)
}

// Execute runs a statement that returns no rows. Staged models are
// flushed first.
func (u *UnitOfWork) Execute(ctx context.Context, stmt sq.Sqlizer) (sql.Result, error) {
	tx, err := u.session()
	if err != nil {
		return nil, err
	}
	if err := u.Flush(ctx); err != nil {
		return nil, err
	}
	query, args, err := stmt.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build statement: %w", err)
	}
	u.echoStatement(query, args)
	return tx.ExecContext(ctx, query, args...)
}

// Query runs a statement that returns rows. Staged models are flushed first.
func (u *UnitOfWork) Query(ctx context.Context, stmt sq.Sqlizer) (*sql.Rows, error) {
	tx, err := u.session()
	if err != nil {
		return nil, err
	}
	if err := u.Flush(ctx); err != nil {
		return nil, err
	}
	query, args, err := stmt.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build statement: %w", err)
	}
	u.echoStatement(query, args)
	return tx.QueryContext(ctx, query, args...)
}

// Commit flushes staged models and commits. The session is finished
// afterwards.
func (u *UnitOfWork) Commit(ctx context.Context) error {
	tx, err := u.session()
	if err != nil {
		return err
	}
	if err := u.Flush(ctx); err != nil {
		return err
	}
	u.tx = nil
	u.pending = nil
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

func (u *UnitOfWork) Rollback() error {
	tx, err := u.session()
	if err != nil {
		return err
	}
	u.tx = nil
	u.pending = nil
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return fmt.Errorf("failed to rollback: %w", err)
	}
	return nil
}

// Close releases the connection, rolling back anything uncommitted.
// Closing a finished session is a no-op.
func (u *UnitOfWork) Close() error {
	if u.tx == nil {
		return nil
	}
	return u.Rollback()
}

func (u *UnitOfWork) echoStatement(query string, args []any) {
	if !u.echo {
		return
	}
	u.log.Info("sql", zap.String("statement", query), zap.Int("args", len(args)))
}
