package field

import "fmt"

// Type is the storage type of a field.
type Type string

// Field type constants.
const (
	String  Type = "string"
	Int64   Type = "int64"
	Float32 Type = "float32"
	// Vector is a fixed-dimension float32 array used for similarity search.
	Vector Type = "vector"
)

// IsValid checks if the field type is supported.
func (t Type) IsValid() bool {
	switch t {
	case String, Int64, Float32, Vector:
		return true
	}
	return false
}

const maxNameLen = 64

// Field is an immutable value object describing a typed collection field.
type Field struct {
	name      string
	fieldType Type
	maxLength int
	dim       int
	primary   bool
}

// Option configures type-specific constraints in New.
type Option func(*Field)

// WithMaxLength sets the maximum length of a string field.
func WithMaxLength(n int) Option {
	return func(f *Field) { f.maxLength = n }
}

// WithDim sets the dimension of a vector field.
func WithDim(n int) Option {
	return func(f *Field) { f.dim = n }
}

// PrimaryKey marks the field as the collection primary key.
func PrimaryKey() Option {
	return func(f *Field) { f.primary = true }
}

// New validates and creates a Field.
// maxLength is required for string fields and forbidden otherwise;
// dim is required for vector fields and forbidden otherwise.
// Only string and int64 fields can be primary keys.
func New(name string, ft Type, opts ...Option) (Field, error) {
	if name == "" {
		return Field{}, fmt.Errorf("field name is required")
	}
	if len(name) > maxNameLen {
		return Field{}, fmt.Errorf("field name %q too long (max %d)", name, maxNameLen)
	}
	if !ft.IsValid() {
		return Field{}, fmt.Errorf("invalid field type %q for %q", ft, name)
	}

	f := Field{name: name, fieldType: ft}
	for _, opt := range opts {
		opt(&f)
	}

	switch {
	case ft == String && f.maxLength <= 0:
		return Field{}, fmt.Errorf("string field %q requires a positive max length", name)
	case ft != String && f.maxLength != 0:
		return Field{}, fmt.Errorf("max length is only valid for string fields, got %q on %s", name, ft)
	case ft == Vector && f.dim <= 0:
		return Field{}, fmt.Errorf("vector field %q requires a positive dimension", name)
	case ft != Vector && f.dim != 0:
		return Field{}, fmt.Errorf("dimension is only valid for vector fields, got %q on %s", name, ft)
	case f.primary && ft != String && ft != Int64:
		return Field{}, fmt.Errorf("field %q of type %s cannot be a primary key", name, ft)
	}

	return f, nil
}

// Reconstruct creates a Field without validation (storage hydration).
func Reconstruct(name string, ft Type, maxLength, dim int, primary bool) Field {
	return Field{name: name, fieldType: ft, maxLength: maxLength, dim: dim, primary: primary}
}

// Name returns the field name.
func (f Field) Name() string { return f.name }

// FieldType returns the field's storage type.
func (f Field) FieldType() Type { return f.fieldType }

// MaxLength returns the max length of a string field, 0 otherwise.
func (f Field) MaxLength() int { return f.maxLength }

// Dim returns the dimension of a vector field, 0 otherwise.
func (f Field) Dim() int { return f.dim }

// IsPrimary reports whether the field is the primary key.
func (f Field) IsPrimary() bool { return f.primary }

// IsVector reports whether the field holds embeddings.
func (f Field) IsVector() bool { return f.fieldType == Vector }
