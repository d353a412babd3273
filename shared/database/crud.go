package database

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Avdeevkonst/dip-user/shared/apperr"
	sq "github.com/Masterminds/squirrel"
)

// CrudEntity is the generic repository over one model type. Every call
// runs on the caller's unit of work; nothing here commits.
type CrudEntity[T any, PT ModelPtr[T]] struct {
	uow   *UnitOfWork
	query *Query
	now   func() time.Time
}

func NewCrudEntity[T any, PT ModelPtr[T]](uow *UnitOfWork) *CrudEntity[T, PT] {
	return &CrudEntity[T, PT]{
		uow:   uow,
		query: NewQuery(PT(new(T))),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (c *CrudEntity[T, PT]) Query() *Query {
	return c.query
}

// Create stamps the creation time, stages m and flushes it. The returned
// model holds the stored row, generated values included.
func (c *CrudEntity[T, PT]) Create(ctx context.Context, m PT) (PT, error) {
	m.SetCreatedAt(c.now())
	if err := c.uow.Add(m); err != nil {
		return nil, err
	}
	if err := c.uow.Flush(ctx); err != nil {
		return nil, err
	}
	return m, nil
}

// Update applies changes to the single row matching conditions.
func (c *CrudEntity[T, PT]) Update(ctx context.Context, changes, conditions Fields) (PT, error) {
	body := c.query.MakeChanges(changes)
	if len(body) == 0 {
		return nil, apperr.Validation("No fields to update")
	}
	if col := PT(new(T)).UpdatedAtColumn(); col != "" {
		body[col] = c.now()
	}

	where := c.query.MakeConditions(conditions)
	if len(where) == 0 {
		return nil, apperr.Usage(ErrEmptyConditions)
	}

	rows, err := c.uow.Query(ctx, c.query.Update(where, body))
	if err != nil {
		return nil, err
	}
	updated, err := scanOne[T, PT](rows)
	if err != nil {
		return nil, err
	}
	if err := c.uow.Flush(ctx); err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes every row matching conditions and reports how many went.
// An empty condition set is refused before anything reaches the store.
func (c *CrudEntity[T, PT]) Delete(ctx context.Context, conditions Fields) (int64, error) {
	where := c.query.MakeConditions(conditions)
	stmt, err := c.query.Delete(where)
	if err != nil {
		return 0, err
	}
	res, err := c.uow.Execute(ctx, stmt)
	if err != nil {
		return 0, err
	}
	if err := c.uow.Flush(ctx); err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (c *CrudEntity[T, PT]) GetByID(ctx context.Context, id any) (PT, error) {
	return c.one(ctx, c.query.ByID(id))
}

// GetOneByConditions fails with ErrNoResult on zero rows and with
// ErrMultipleRows on more than one.
func (c *CrudEntity[T, PT]) GetOneByConditions(ctx context.Context, conditions Fields) (PT, error) {
	return c.one(ctx, c.query.MakeConditions(conditions))
}

// GetOptionalByConditions returns (nil, nil) when nothing matches.
func (c *CrudEntity[T, PT]) GetOptionalByConditions(ctx context.Context, conditions Fields) (PT, error) {
	m, err := c.one(ctx, c.query.MakeConditions(conditions))
	if errors.Is(err, ErrNoResult) {
		return nil, nil
	}
	return m, err
}

func (c *CrudEntity[T, PT]) GetMany(ctx context.Context, conditions Fields) ([]PT, error) {
	return c.many(ctx, c.query.MakeConditions(conditions))
}

func (c *CrudEntity[T, PT]) GetAll(ctx context.Context) ([]PT, error) {
	return c.many(ctx, nil)
}

func (c *CrudEntity[T, PT]) one(ctx context.Context, where []sq.Sqlizer) (PT, error) {
	rows, err := c.uow.Query(ctx, c.query.Select(where))
	if err != nil {
		return nil, err
	}
	return scanOne[T, PT](rows)
}

func (c *CrudEntity[T, PT]) many(ctx context.Context, where []sq.Sqlizer) ([]PT, error) {
	rows, err := c.uow.Query(ctx, c.query.Select(where))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PT
	for rows.Next() {
		m := PT(new(T))
		if err := rows.Scan(m.ScanDest()...); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func scanOne[T any, PT ModelPtr[T]](rows *sql.Rows) (PT, error) {
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, ErrNoResult
	}
	m := PT(new(T))
	if err := rows.Scan(m.ScanDest()...); err != nil {
		return nil, err
	}
	if rows.Next() {
		return nil, ErrMultipleRows
	}
	return m, rows.Err()
}
