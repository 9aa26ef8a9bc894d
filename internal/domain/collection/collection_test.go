package collection

import (
	"strings"
	"testing"

	"github.com/kailas-cloud/vecprov/internal/domain/collection/field"
	"github.com/kailas-cloud/vecprov/internal/domain/collection/index"
)

func makeField(t *testing.T, name string, ft field.Type, opts ...field.Option) field.Field {
	t.Helper()
	f, err := field.New(name, ft, opts...)
	if err != nil {
		t.Fatalf("field.New(%q, %q): %v", name, ft, err)
	}
	return f
}

func makeIndex(t *testing.T, nlist int) index.Spec {
	t.Helper()
	idx, err := index.New(index.Cosine, "IVF_FLAT", map[string]any{"nlist": nlist})
	if err != nil {
		t.Fatalf("index.New: %v", err)
	}
	return idx
}

func baseFields(t *testing.T) []field.Field {
	t.Helper()
	return []field.Field{
		makeField(t, "id", field.String, field.WithMaxLength(64), field.PrimaryKey()),
		makeField(t, "content", field.String, field.WithMaxLength(65535)),
		makeField(t, "embedding", field.Vector, field.WithDim(1536)),
		makeField(t, "created_at", field.Int64),
	}
}

func TestNew_Valid(t *testing.T) {
	idx := makeIndex(t, 1024)
	s, err := New("docs", "documents", baseFields(t),
		map[string]index.Spec{"embedding": idx}, WithDynamicFields())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if s.Name() != "docs" || s.Description() != "documents" {
		t.Errorf("unexpected identity: %q %q", s.Name(), s.Description())
	}
	if !s.DynamicFields() {
		t.Error("expected dynamic fields enabled")
	}
	if len(s.Fields()) != 4 {
		t.Errorf("Fields() len = %d, want 4", len(s.Fields()))
	}
	if s.PrimaryKey().Name() != "id" {
		t.Errorf("PrimaryKey() = %q, want id", s.PrimaryKey().Name())
	}
	got, ok := s.Index("embedding")
	if !ok || got.Algorithm() != "IVF_FLAT" {
		t.Errorf("Index(embedding) = %+v, %v", got, ok)
	}
	if names := s.IndexedFields(); len(names) != 1 || names[0] != "embedding" {
		t.Errorf("IndexedFields() = %v", names)
	}
}

func TestNew_IndexedFieldsFollowFieldOrder(t *testing.T) {
	fields := []field.Field{
		makeField(t, "id", field.Int64, field.PrimaryKey()),
		makeField(t, "title_vec", field.Vector, field.WithDim(8)),
		makeField(t, "body_vec", field.Vector, field.WithDim(16)),
		makeField(t, "image_vec", field.Vector, field.WithDim(4)),
	}
	indexes := map[string]index.Spec{
		"image_vec": makeIndex(t, 1),
		"title_vec": makeIndex(t, 2),
		"body_vec":  makeIndex(t, 3),
	}

	for range 20 {
		s, err := New("multi", "", fields, indexes)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got := strings.Join(s.IndexedFields(), ",")
		if got != "title_vec,body_vec,image_vec" {
			t.Fatalf("IndexedFields() = %s", got)
		}
	}
}

func TestNew_Immutable(t *testing.T) {
	fields := baseFields(t)
	s, err := New("docs", "", fields, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	fields[0] = makeField(t, "other", field.Int64)
	s.Fields()[1] = makeField(t, "other", field.Int64)
	if s.Fields()[0].Name() != "id" || s.Fields()[1].Name() != "content" {
		t.Errorf("spec fields were aliased: %+v", s.Fields())
	}
}

func TestNew_InvalidName(t *testing.T) {
	for _, name := range []string{"", "has-dash", "9starts_with_digit", "sp ace", strings.Repeat("x", 256)} {
		if _, err := New(name, "", baseFields(t), nil); err == nil {
			t.Errorf("expected error for name %q", name)
		}
	}
}

func TestNew_PrimaryKeyRules(t *testing.T) {
	noPK := []field.Field{
		makeField(t, "id", field.String, field.WithMaxLength(64)),
		makeField(t, "embedding", field.Vector, field.WithDim(8)),
	}
	if _, err := New("c", "", noPK, nil); err == nil {
		t.Error("expected error without primary key")
	}

	twoPK := []field.Field{
		makeField(t, "id", field.String, field.WithMaxLength(64), field.PrimaryKey()),
		makeField(t, "seq", field.Int64, field.PrimaryKey()),
		makeField(t, "embedding", field.Vector, field.WithDim(8)),
	}
	_, err := New("c", "", twoPK, nil)
	if err == nil {
		t.Fatal("expected error with two primary keys")
	}
	if !strings.Contains(err.Error(), "primary key") {
		t.Errorf("error = %q, want mention of primary key", err)
	}
}

func TestNew_RequiresVector(t *testing.T) {
	fields := []field.Field{
		makeField(t, "id", field.String, field.WithMaxLength(64), field.PrimaryKey()),
		makeField(t, "weight", field.Float32),
	}
	if _, err := New("c", "", fields, nil); err == nil {
		t.Error("expected error without vector field")
	}
}

func TestNew_DuplicateField(t *testing.T) {
	fields := append(baseFields(t), makeField(t, "content", field.Int64))
	if _, err := New("c", "", fields, nil); err == nil {
		t.Error("expected error for duplicate field")
	}
}

func TestNew_IndexTargets(t *testing.T) {
	if _, err := New("c", "", baseFields(t), map[string]index.Spec{"missing": makeIndex(t, 1)}); err == nil {
		t.Error("expected error for index on unknown field")
	}
	if _, err := New("c", "", baseFields(t), map[string]index.Spec{"content": makeIndex(t, 1)}); err == nil {
		t.Error("expected error for index on scalar field")
	}
}

func TestFieldByName(t *testing.T) {
	s, err := New("docs", "", baseFields(t), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f, ok := s.FieldByName("embedding")
	if !ok || f.Dim() != 1536 {
		t.Errorf("FieldByName(embedding) = %+v, %v", f, ok)
	}
	if _, ok := s.FieldByName("nope"); ok {
		t.Error("expected missing field")
	}
}
