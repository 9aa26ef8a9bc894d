// Package catalog declares the collections the platform needs.
//
// The built-in catalog is a table: each row is one collection, and adding a
// collection means adding a row. A YAML file with the same shape can replace it.
package catalog

import (
	"fmt"

	"github.com/kailas-cloud/vecprov/internal/domain/collection"
	"github.com/kailas-cloud/vecprov/internal/domain/collection/field"
	"github.com/kailas-cloud/vecprov/internal/domain/collection/index"
)

// Embedding dimensionalities used by the built-in catalog.
const (
	DimLarge = 1536
	DimSmall = 768
)

// VectorField is the name of the indexed embedding field in every built-in collection.
const VectorField = "embedding"

type column struct {
	name   string
	ft     field.Type
	maxLen int
	pk     bool
}

func pk(name string, n int) column { return column{name: name, ft: field.String, maxLen: n, pk: true} }
func str(name string, n int) column { return column{name: name, ft: field.String, maxLen: n} }
func i64(name string) column        { return column{name: name, ft: field.Int64} }
func f32(name string) column        { return column{name: name, ft: field.Float32} }
func vec() column                   { return column{name: VectorField, ft: field.Vector} }

type row struct {
	name        string
	description string
	dim         int
	nlist       int
	columns     []column
}

var table = []row{
	{
		name: "mota_knowledge_vectors", description: "知识库文档向量集合",
		dim: DimLarge, nlist: 1024,
		columns: []column{
			pk("id", 64), str("tenant_id", 64), str("file_id", 64), i64("chunk_index"),
			str("content", 65535), vec(), str("metadata", 4096), i64("created_at"),
		},
	},
	{
		name: "mota_news_vectors", description: "新闻向量集合",
		dim: DimLarge, nlist: 512,
		columns: []column{
			pk("id", 64), str("news_id", 64), str("title", 1024), str("category", 64),
			str("industry", 64), vec(), i64("publish_time"), i64("created_at"),
		},
	},
	{
		name: "mota_chat_history_vectors", description: "对话历史向量集合",
		dim: DimLarge, nlist: 512,
		columns: []column{
			pk("id", 64), str("tenant_id", 64), str("user_id", 64), str("session_id", 64),
			str("role", 32), str("content", 32768), vec(), i64("created_at"),
		},
	},
	{
		name: "mota_task_vectors", description: "任务向量集合",
		dim: DimLarge, nlist: 512,
		columns: []column{
			pk("id", 64), str("tenant_id", 64), str("project_id", 64), str("task_id", 64),
			str("title", 1024), str("description", 16384), vec(), str("status", 32), i64("created_at"),
		},
	},
	{
		name: "mota_proposal_vectors", description: "方案向量集合",
		dim: DimLarge, nlist: 512,
		columns: []column{
			pk("id", 64), str("tenant_id", 64), str("proposal_id", 64), i64("section_index"),
			str("title", 1024), str("content", 65535), vec(), str("category", 64), i64("created_at"),
		},
	},
	{
		name: "mota_user_preference_vectors", description: "用户偏好向量集合",
		dim: DimSmall, nlist: 256,
		columns: []column{
			pk("id", 64), str("tenant_id", 64), str("user_id", 64), str("preference_type", 64),
			vec(), f32("weight"), i64("updated_at"),
		},
	},
}

// Default returns the built-in catalog in provisioning order.
// Every collection has dynamic fields and a COSINE/IVF_FLAT index on VectorField.
func Default() []collection.Spec {
	specs := make([]collection.Spec, len(table))
	for i, r := range table {
		s, err := build(r)
		if err != nil {
			panic(fmt.Sprintf("catalog: built-in collection %s: %v", r.name, err))
		}
		specs[i] = s
	}
	return specs
}

func build(r row) (collection.Spec, error) {
	fields := make([]field.Field, 0, len(r.columns))
	for _, c := range r.columns {
		var opts []field.Option
		switch c.ft {
		case field.String:
			opts = append(opts, field.WithMaxLength(c.maxLen))
		case field.Vector:
			opts = append(opts, field.WithDim(r.dim))
		}
		if c.pk {
			opts = append(opts, field.PrimaryKey())
		}
		f, err := field.New(c.name, c.ft, opts...)
		if err != nil {
			return collection.Spec{}, err
		}
		fields = append(fields, f)
	}

	idx, err := index.New(index.Cosine, "IVF_FLAT", map[string]any{"nlist": r.nlist})
	if err != nil {
		return collection.Spec{}, err
	}

	return collection.New(r.name, r.description, fields,
		map[string]index.Spec{VectorField: idx}, collection.WithDynamicFields())
}
