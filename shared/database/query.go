package database

import (
	"strings"

	"github.com/Avdeevkonst/dip-user/shared/apperr"
	sq "github.com/Masterminds/squirrel"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Query builds statements against the table of one model type.
type Query struct {
	table   string
	idCol   string
	columns []string
	known   map[string]struct{}
}

func NewQuery(m Model) *Query {
	cols := m.Columns()
	known := make(map[string]struct{}, len(cols))
	for _, c := range cols {
		known[c] = struct{}{}
	}
	return &Query{
		table:   m.TableName(),
		idCol:   m.IDColumn(),
		columns: cols,
		known:   known,
	}
}

func (q *Query) returning() string {
	return "RETURNING " + strings.Join(q.columns, ", ")
}

func (q *Query) HasColumn(name string) bool {
	_, ok := q.known[name]
	return ok
}

// Insert writes every column of m and returns the stored row.
func (q *Query) Insert(m Model) sq.InsertBuilder {
	return psql.Insert(q.table).
		Columns(q.columns...).
		Values(m.Values()...).
		Suffix(q.returning())
}

// Update overwrites changes on the rows matching conditions and returns them.
func (q *Query) Update(conditions []sq.Sqlizer, changes map[string]any) sq.UpdateBuilder {
	b := psql.Update(q.table).SetMap(changes)
	for _, c := range conditions {
		b = b.Where(c)
	}
	return b.Suffix(q.returning())
}

// Delete refuses an empty condition set: it would remove every row.
func (q *Query) Delete(conditions []sq.Sqlizer) (sq.DeleteBuilder, error) {
	if len(conditions) == 0 {
		return sq.DeleteBuilder{}, apperr.Usage(ErrEmptyConditions)
	}
	b := psql.Delete(q.table)
	for _, c := range conditions {
		b = b.Where(c)
	}
	return b, nil
}

// Select returns all columns of the matching rows, or of every row when
// conditions is empty. No ordering is applied.
func (q *Query) Select(conditions []sq.Sqlizer) sq.SelectBuilder {
	b := psql.Select(q.columns...).From(q.table)
	for _, c := range conditions {
		b = b.Where(c)
	}
	return b
}

// ByID is the condition set matching one identifier.
func (q *Query) ByID(id any) []sq.Sqlizer {
	return []sq.Sqlizer{sq.Eq{q.idCol: id}}
}

// MakeConditions turns every set field naming a column into an equality
// predicate. Enums are compared through their string form because the
// column stores text. Unknown names are skipped.
func (q *Query) MakeConditions(fields Fields) []sq.Sqlizer {
	var conditions []sq.Sqlizer
	for _, f := range fields.Present() {
		if !q.HasColumn(f.Name) {
			continue
		}
		if e, ok := f.Value.(Enum); ok {
			conditions = append(conditions, sq.Expr("CAST("+f.Name+" AS TEXT) = ?", e.EnumValue()))
			continue
		}
		conditions = append(conditions, sq.Eq{f.Name: f.Value})
	}
	return conditions
}

// MakeChanges is the SET clause counterpart of MakeConditions.
func (q *Query) MakeChanges(fields Fields) map[string]any {
	changes := make(map[string]any)
	for _, f := range fields.Present() {
		if !q.HasColumn(f.Name) || f.Name == q.idCol {
			continue
		}
		changes[f.Name] = storedValue(f.Value)
	}
	return changes
}
