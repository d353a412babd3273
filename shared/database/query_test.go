package database

import (
	"testing"

	"github.com/Avdeevkonst/dip-user/shared/apperr"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestMakeConditions(t *testing.T) {
	q := NewQuery(&widget{})
	kind := kindGear

	tests := []struct {
		name     string
		fields   Fields
		wantSQL  []string
		wantArgs [][]any
	}{
		{
			name:     "single set field gives one predicate",
			fields:   Fields{Opt("name", strPtr("bolt")), Opt[string]("kind", nil)},
			wantSQL:  []string{"name = ?"},
			wantArgs: [][]any{{"bolt"}},
		},
		{
			name:     "enum compared by its string value",
			fields:   Fields{Opt("kind", &kind)},
			wantSQL:  []string{"CAST(kind AS TEXT) = ?"},
			wantArgs: [][]any{{"gear"}},
		},
		{
			name:     "unknown names are ignored",
			fields:   Fields{Set("colour", "red"), Set("name", "bolt")},
			wantSQL:  []string{"name = ?"},
			wantArgs: [][]any{{"bolt"}},
		},
		{
			name:   "nothing set gives no predicates",
			fields: Fields{Opt[string]("name", nil)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conds := q.MakeConditions(tt.fields)
			require.Len(t, conds, len(tt.wantSQL))
			for i, c := range conds {
				sql, args, err := c.ToSql()
				require.NoError(t, err)
				assert.Equal(t, tt.wantSQL[i], sql)
				assert.Equal(t, tt.wantArgs[i], args)
			}
		})
	}
}

func TestMakeConditionsDoesNotAccumulate(t *testing.T) {
	q := NewQuery(&widget{})
	q.MakeConditions(Fields{Set("name", "a")})
	assert.Len(t, q.MakeConditions(Fields{Set("name", "b")}), 1)
}

func TestMakeChanges(t *testing.T) {
	q := NewQuery(&widget{})
	changes := q.MakeChanges(Fields{
		Set("id", uuid.New()),
		Set("kind", kindSpoke),
		Set("name", "wheel"),
		Set("unknown", 1),
		Opt[string]("created_at", nil),
	})
	assert.Equal(t, map[string]any{"kind": "spoke", "name": "wheel"}, changes)
}

func TestStatements(t *testing.T) {
	q := NewQuery(&widget{})
	w := &widget{ID: uuid.New(), Name: "bolt", Kind: kindGear}

	sql, args, err := q.Insert(w).ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "INSERT INTO widgets (id,name,kind,created_at,updated_at) VALUES ($1,$2,$3,$4,$5)")
	assert.Contains(t, sql, "RETURNING id, name, kind, created_at, updated_at")
	assert.Len(t, args, 5)

	sql, _, err = q.Select(nil).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id, name, kind, created_at, updated_at FROM widgets", sql)

	sql, args, err = q.Select(q.MakeConditions(Fields{Set("name", "bolt")})).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id, name, kind, created_at, updated_at FROM widgets WHERE name = $1", sql)
	assert.Equal(t, []any{"bolt"}, args)

	sql, _, err = q.Update(q.ByID(w.ID), map[string]any{"name": "nut"}).ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "UPDATE widgets SET name = $1 WHERE id = $2")
	assert.Contains(t, sql, "RETURNING")
}

func TestDeleteRejectsEmptyConditions(t *testing.T) {
	q := NewQuery(&widget{})

	_, err := q.Delete(nil)
	assert.ErrorIs(t, err, ErrEmptyConditions)
	assert.True(t, apperr.IsKind(err, apperr.KindUsage))

	stmt, err := q.Delete(q.ByID("x"))
	require.NoError(t, err)
	sql, _, err := stmt.ToSql()
	require.NoError(t, err)
	assert.Equal(t, "DELETE FROM widgets WHERE id = $1", sql)
}
