package database

// Field is one named, possibly unset value of a filter or change set.
type Field struct {
	Name  string
	Value any
	set   bool
}

// Fields is a sparse filter or change set. Only set fields are used.
type Fields []Field

// Set returns a field that always carries value.
func Set(name string, value any) Field {
	return Field{Name: name, Value: value, set: true}
}

// Opt returns a field that is set only when value is non-nil.
func Opt[T any](name string, value *T) Field {
	if value == nil {
		return Field{Name: name}
	}
	return Field{Name: name, Value: *value, set: true}
}

func (f Field) IsSet() bool {
	return f.set
}

// Present returns the set fields in their original order.
func (fs Fields) Present() Fields {
	out := make(Fields, 0, len(fs))
	for _, f := range fs {
		if f.set {
			out = append(out, f)
		}
	}
	return out
}

func (fs Fields) Empty() bool {
	return len(fs.Present()) == 0
}

// storedValue converts enums to the string the column holds.
func storedValue(v any) any {
	if e, ok := v.(Enum); ok {
		return e.EnumValue()
	}
	return v
}
