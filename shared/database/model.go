package database

import "time"

// Model describes how a persisted type maps onto its table. Columns,
// Values and ScanDest must list the columns in the same order.
type Model interface {
	TableName() string
	Columns() []string
	Values() []any
	ScanDest() []any
	IDColumn() string
	PrimaryKey() any
	SetCreatedAt(time.Time)
	// UpdatedAtColumn returns "" when the table has no update timestamp.
	UpdatedAtColumn() string
}

// ModelPtr lets the generic repository allocate a fresh T to scan into.
type ModelPtr[T any] interface {
	*T
	Model
}

// Enum values are stored as strings and compared by their string form.
type Enum interface {
	EnumValue() string
}
