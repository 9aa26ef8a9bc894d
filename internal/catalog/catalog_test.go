package catalog

import (
	"strings"
	"testing"

	"github.com/kailas-cloud/vecprov/internal/domain/collection/field"
)

func TestDefault_Order(t *testing.T) {
	specs := Default()
	want := []string{
		"mota_knowledge_vectors",
		"mota_news_vectors",
		"mota_chat_history_vectors",
		"mota_task_vectors",
		"mota_proposal_vectors",
		"mota_user_preference_vectors",
	}
	if len(specs) != len(want) {
		t.Fatalf("Default() returned %d collections, want %d", len(specs), len(want))
	}
	for i, s := range specs {
		if s.Name() != want[i] {
			t.Errorf("collection %d = %s, want %s", i, s.Name(), want[i])
		}
		if s.Description() == "" {
			t.Errorf("%s has no description", s.Name())
		}
		if !s.DynamicFields() {
			t.Errorf("%s should accept dynamic fields", s.Name())
		}
		if s.PrimaryKey().Name() != "id" || s.PrimaryKey().MaxLength() != 64 {
			t.Errorf("%s primary key = %+v", s.Name(), s.PrimaryKey())
		}
	}
}

func TestDefault_Descriptions(t *testing.T) {
	want := map[string]string{
		"mota_knowledge_vectors":       "知识库文档向量集合",
		"mota_news_vectors":            "新闻向量集合",
		"mota_chat_history_vectors":    "对话历史向量集合",
		"mota_task_vectors":            "任务向量集合",
		"mota_proposal_vectors":        "方案向量集合",
		"mota_user_preference_vectors": "用户偏好向量集合",
	}
	for _, s := range Default() {
		if s.Description() != want[s.Name()] {
			t.Errorf("%s description = %q, want %q", s.Name(), s.Description(), want[s.Name()])
		}
	}
}

func TestDefault_Deterministic(t *testing.T) {
	a, b := Default(), Default()
	for i := range a {
		if a[i].Name() != b[i].Name() || len(a[i].Fields()) != len(b[i].Fields()) {
			t.Fatalf("Default() differs between calls at %d", i)
		}
	}
}

func TestDefault_Dimensions(t *testing.T) {
	for _, s := range Default() {
		f, ok := s.FieldByName(VectorField)
		if !ok {
			t.Fatalf("%s has no %s field", s.Name(), VectorField)
		}
		want := DimLarge
		if s.Name() == "mota_user_preference_vectors" {
			want = DimSmall
		}
		if f.Dim() != want {
			t.Errorf("%s dim = %d, want %d", s.Name(), f.Dim(), want)
		}
	}
}

func TestDefault_Indexes(t *testing.T) {
	nlist := map[string]int{
		"mota_knowledge_vectors":       1024,
		"mota_news_vectors":            512,
		"mota_chat_history_vectors":    512,
		"mota_task_vectors":            512,
		"mota_proposal_vectors":        512,
		"mota_user_preference_vectors": 256,
	}
	for _, s := range Default() {
		if got := strings.Join(s.IndexedFields(), ","); got != VectorField {
			t.Errorf("%s indexed fields = %s", s.Name(), got)
		}
		idx, _ := s.Index(VectorField)
		if idx.Metric() != "COSINE" || idx.Algorithm() != "IVF_FLAT" {
			t.Errorf("%s index = %s/%s", s.Name(), idx.Metric(), idx.Algorithm())
		}
		if got, _ := idx.Param("nlist"); got != nlist[s.Name()] {
			t.Errorf("%s nlist = %v, want %d", s.Name(), got, nlist[s.Name()])
		}
	}
}

func TestDefault_KnowledgeSchema(t *testing.T) {
	s := Default()[0]
	type col struct {
		name   string
		ft     field.Type
		maxLen int
	}
	want := []col{
		{"id", field.String, 64},
		{"tenant_id", field.String, 64},
		{"file_id", field.String, 64},
		{"chunk_index", field.Int64, 0},
		{"content", field.String, 65535},
		{"embedding", field.Vector, 0},
		{"metadata", field.String, 4096},
		{"created_at", field.Int64, 0},
	}
	fields := s.Fields()
	if len(fields) != len(want) {
		t.Fatalf("fields = %d, want %d", len(fields), len(want))
	}
	for i, w := range want {
		f := fields[i]
		if f.Name() != w.name || f.FieldType() != w.ft || f.MaxLength() != w.maxLen {
			t.Errorf("field %d = %s/%s/%d, want %+v", i, f.Name(), f.FieldType(), f.MaxLength(), w)
		}
	}
}

func TestDefault_PreferenceWeightIsFloat(t *testing.T) {
	s := Default()[5]
	f, ok := s.FieldByName("weight")
	if !ok || f.FieldType() != field.Float32 {
		t.Errorf("weight = %+v, %v", f, ok)
	}
}
