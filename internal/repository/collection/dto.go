package collection

import (
	"github.com/kailas-cloud/vecprov/internal/db"
	domcol "github.com/kailas-cloud/vecprov/internal/domain/collection"
	"github.com/kailas-cloud/vecprov/internal/domain/collection/field"
	"github.com/kailas-cloud/vecprov/internal/domain/collection/index"
)

var fieldTypes = map[field.Type]db.FieldType{
	field.String:  db.FieldVarChar,
	field.Int64:   db.FieldInt64,
	field.Float32: db.FieldFloat,
	field.Vector:  db.FieldFloatVector,
}

// toSchema converts a domain Spec into the store schema, preserving field order.
func toSchema(spec domcol.Spec) *db.CollectionSchema {
	fields := spec.Fields()
	out := &db.CollectionSchema{
		Name:          spec.Name(),
		Description:   spec.Description(),
		Fields:        make([]db.FieldSchema, len(fields)),
		DynamicFields: spec.DynamicFields(),
	}
	for i, f := range fields {
		out.Fields[i] = db.FieldSchema{
			Name:       f.Name(),
			Type:       fieldTypes[f.FieldType()],
			MaxLength:  f.MaxLength(),
			Dim:        f.Dim(),
			PrimaryKey: f.IsPrimary(),
		}
	}
	return out
}

func toIndexParams(idx index.Spec) *db.IndexParams {
	return &db.IndexParams{
		Metric:    string(idx.Metric()),
		Algorithm: idx.Algorithm(),
		Params:    idx.Params(),
	}
}

func fromCollectionInfo(name string, info *db.CollectionInfo) domcol.Info {
	out := domcol.Info{Name: name}
	if info == nil {
		return out
	}
	out.Description = info.Description
	out.Fields = append([]string(nil), info.Fields...)
	out.EntityCount = info.EntityCount
	return out
}
