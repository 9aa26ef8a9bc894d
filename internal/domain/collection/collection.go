package collection

import (
	"fmt"
	"regexp"

	"github.com/kailas-cloud/vecprov/internal/domain/collection/field"
	"github.com/kailas-cloud/vecprov/internal/domain/collection/index"
)

var nameRegex = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

const maxNameLen = 255

// Spec is the declared shape of one collection (immutable value object).
type Spec struct {
	name          string
	description   string
	fields        []field.Field
	indexes       map[string]index.Spec
	dynamicFields bool
}

// Option configures optional collection settings in New.
type Option func(*Spec)

// WithDynamicFields lets the store accept fields not declared in the schema.
func WithDynamicFields() Option {
	return func(s *Spec) { s.dynamicFields = true }
}

func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("collection name is required")
	}
	if len(name) > maxNameLen {
		return fmt.Errorf("collection name too long (max %d)", maxNameLen)
	}
	if !nameRegex.MatchString(name) {
		return fmt.Errorf("collection name %q must be alphanumeric with underscores, not starting with a digit", name)
	}
	return nil
}

func validateFields(fields []field.Field) error {
	seen := make(map[string]bool, len(fields))
	primaries, vectors := 0, 0
	for _, f := range fields {
		if seen[f.Name()] {
			return fmt.Errorf("duplicate field name: %s", f.Name())
		}
		seen[f.Name()] = true
		if f.IsPrimary() {
			primaries++
		}
		if f.IsVector() {
			vectors++
		}
	}
	if primaries != 1 {
		return fmt.Errorf("exactly one primary key field is required, got %d", primaries)
	}
	if vectors == 0 {
		return fmt.Errorf("at least one vector field is required")
	}
	return nil
}

func validateIndexes(fields []field.Field, indexes map[string]index.Spec) error {
	for name := range indexes {
		f, ok := findField(fields, name)
		if !ok {
			return fmt.Errorf("index on unknown field %q", name)
		}
		if !f.IsVector() {
			return fmt.Errorf("index on non-vector field %q", name)
		}
	}
	return nil
}

// New validates and creates a Spec.
// Exactly one field must be the primary key, at least one must be a vector,
// and every index must target a declared vector field.
func New(
	name, description string, fields []field.Field,
	indexes map[string]index.Spec, opts ...Option,
) (Spec, error) {
	if err := validateName(name); err != nil {
		return Spec{}, err
	}
	if err := validateFields(fields); err != nil {
		return Spec{}, fmt.Errorf("collection %s: %w", name, err)
	}
	if err := validateIndexes(fields, indexes); err != nil {
		return Spec{}, fmt.Errorf("collection %s: %w", name, err)
	}

	s := Spec{
		name:        name,
		description: description,
		fields:      append([]field.Field(nil), fields...),
		indexes:     make(map[string]index.Spec, len(indexes)),
	}
	for k, v := range indexes {
		s.indexes[k] = v
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s, nil
}

// Name returns the collection name.
func (s Spec) Name() string { return s.name }

// Description returns the human-readable description.
func (s Spec) Description() string { return s.description }

// Fields returns the ordered field definitions.
func (s Spec) Fields() []field.Field { return append([]field.Field(nil), s.fields...) }

// DynamicFields reports whether undeclared fields are accepted.
func (s Spec) DynamicFields() bool { return s.dynamicFields }

// Index returns the index configured on a field.
func (s Spec) Index(fieldName string) (index.Spec, bool) {
	idx, ok := s.indexes[fieldName]
	return idx, ok
}

// IndexedFields returns the names of fields with an index, in field order.
func (s Spec) IndexedFields() []string {
	names := make([]string, 0, len(s.indexes))
	for _, f := range s.fields {
		if _, ok := s.indexes[f.Name()]; ok {
			names = append(names, f.Name())
		}
	}
	return names
}

// PrimaryKey returns the primary key field.
func (s Spec) PrimaryKey() field.Field {
	for _, f := range s.fields {
		if f.IsPrimary() {
			return f
		}
	}
	return field.Field{}
}

// FieldByName looks up a field by name.
func (s Spec) FieldByName(name string) (field.Field, bool) {
	return findField(s.fields, name)
}

func findField(fields []field.Field, name string) (field.Field, bool) {
	for _, f := range fields {
		if f.Name() == name {
			return f, true
		}
	}
	return field.Field{}, false
}
