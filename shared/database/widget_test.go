package database

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type widgetKind string

func (k widgetKind) EnumValue() string { return string(k) }

const (
	kindGear  widgetKind = "gear"
	kindSpoke widgetKind = "spoke"
)

type widget struct {
	ID        uuid.UUID
	Name      string
	Kind      widgetKind
	CreatedAt time.Time
	UpdatedAt sql.NullTime
}

func (w *widget) TableName() string { return "widgets" }
func (w *widget) IDColumn() string  { return "id" }
func (w *widget) PrimaryKey() any   { return w.ID }

func (w *widget) Columns() []string {
	return []string{"id", "name", "kind", "created_at", "updated_at"}
}

func (w *widget) Values() []any {
	return []any{w.ID, w.Name, string(w.Kind), w.CreatedAt, w.UpdatedAt}
}

func (w *widget) ScanDest() []any {
	return []any{&w.ID, &w.Name, &w.Kind, &w.CreatedAt, &w.UpdatedAt}
}

func (w *widget) SetCreatedAt(t time.Time) { w.CreatedAt = t }
func (w *widget) UpdatedAtColumn() string  { return "updated_at" }

var widgetColumns = []string{"id", "name", "kind", "created_at", "updated_at"}

func widgetRows(ws ...widget) *sqlmock.Rows {
	rows := sqlmock.NewRows(widgetColumns)
	for _, w := range ws {
		var updated any
		if w.UpdatedAt.Valid {
			updated = w.UpdatedAt.Time
		}
		rows.AddRow(w.ID.String(), w.Name, string(w.Kind), w.CreatedAt, updated)
	}
	return rows
}

func newTestFactory(t *testing.T) (*SessionFactory, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewSessionFactory(db, true, zap.NewNop()), mock
}
