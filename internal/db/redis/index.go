package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/vecprov/internal/db"
)

// CreateIndex builds an FT index over the collection's documents for one vector field.
// Scalar fields are indexed alongside so filters work on the same index.
func (s *Store) CreateIndex(ctx context.Context, collection, field string, params *db.IndexParams) error {
	meta, err := s.loadMeta(ctx, collection, db.OpCreateIndex)
	if err != nil {
		return err
	}
	if meta.hasIndex(field) {
		return nil
	}

	def, err := s.buildDefinition(collection, field, meta, params)
	if err != nil {
		return &db.Error{Op: db.OpCreateIndex, Err: err}
	}
	s.logger.Debug("creating index", zap.String("collection", collection), zap.String("definition", def.String()))

	args, err := buildCreateArgs(def)
	if err != nil {
		return &db.Error{Op: db.OpCreateIndex, Err: err}
	}

	cmd := s.b().Arbitrary("FT.CREATE").Args(args...).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		if !isRedisErr(err, "index already exists") {
			return &db.Error{Op: db.OpCreateIndex, Err: err}
		}
	}

	if err := s.recordIndex(ctx, collection, meta, field); err != nil {
		return &db.Error{Op: db.OpCreateIndex, Err: fmt.Errorf("record index: %w", err)}
	}
	return nil
}

func (s *Store) buildDefinition(
	collection, field string, meta *collectionMeta, params *db.IndexParams,
) (*IndexDefinition, error) {
	if params == nil {
		return nil, errors.New("index params are required")
	}
	vec, ok := meta.field(field)
	if !ok {
		return nil, fmt.Errorf("field %s not found in %s", field, collection)
	}
	if vec.Type != db.FieldFloatVector {
		return nil, fmt.Errorf("field %s is not a vector", field)
	}

	distance, err := mapMetric(params.Metric)
	if err != nil {
		return nil, err
	}

	b := NewIndex(s.indexName(collection, field)).Prefix(s.docPrefix(collection))
	for _, f := range meta.fields {
		if f.PrimaryKey || f.Name == field {
			continue
		}
		switch f.Type {
		case db.FieldVarChar:
			b.Tag(f.Name)
		case db.FieldInt64, db.FieldFloat:
			b.Numeric(f.Name)
		}
	}

	switch strings.ToUpper(params.Algorithm) {
	case string(VectorHNSW):
		m, err := intParam(params.Params, "M")
		if err != nil {
			return nil, err
		}
		ef, err := intParam(params.Params, "efConstruction")
		if err != nil {
			return nil, err
		}
		b.VectorHNSW(field, vec.Dim, distance, m, ef)
	case string(VectorFlat):
		bs, err := intParam(params.Params, "block_size")
		if err != nil {
			return nil, err
		}
		b.VectorFlat(field, vec.Dim, distance, bs)
	case "IVF_FLAT":
		if nlist, ok := params.Params["nlist"]; ok {
			s.logger.Debug("nlist has no counterpart on the search engine, serving IVF_FLAT with FLAT",
				zap.String("collection", collection), zap.Any("nlist", nlist))
		}
		b.VectorFlat(field, vec.Dim, distance, 0)
	default:
		return nil, fmt.Errorf("%w: index algorithm %q", db.ErrUnsupported, params.Algorithm)
	}

	return b.Build()
}

func mapMetric(metric string) (DistanceMetric, error) {
	switch strings.ToUpper(metric) {
	case "COSINE":
		return DistanceCosine, nil
	case "L2":
		return DistanceL2, nil
	case "IP":
		return DistanceIP, nil
	default:
		return "", fmt.Errorf("%w: metric %q", db.ErrUnsupported, metric)
	}
}

// intParam reads an optional integer index param. Missing keys yield 0.
func intParam(params map[string]any, key string) (int, error) {
	v, ok := params[key]
	if !ok {
		return 0, nil
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		return int(n), nil
	case string:
		i, err := strconv.Atoi(n)
		if err != nil {
			return 0, fmt.Errorf("param %s: %w", key, err)
		}
		return i, nil
	default:
		return 0, fmt.Errorf("param %s: unsupported type %T", key, v)
	}
}

func buildCreateArgs(idx *IndexDefinition) ([]string, error) {
	if err := idx.Validate(); err != nil {
		return nil, err
	}

	args := []string{idx.Name, "ON", "HASH"}

	if len(idx.Prefixes) > 0 {
		args = append(args, "PREFIX", strconv.Itoa(len(idx.Prefixes)))
		args = append(args, idx.Prefixes...)
	}

	args = append(args, "SCHEMA")

	for i := range idx.Fields {
		fieldArgs, err := buildFieldArgs(&idx.Fields[i])
		if err != nil {
			return nil, err
		}
		args = append(args, fieldArgs...)
	}

	return args, nil
}

func buildFieldArgs(f *IndexField) ([]string, error) {
	args := []string{f.Name}

	switch f.Type {
	case IndexFieldNumeric:
		args = append(args, "NUMERIC")
	case IndexFieldTag:
		args = append(args, "TAG")
	case IndexFieldVector:
		args = append(args, buildVectorFieldArgs(f)...)
	default:
		return nil, errors.New("unknown field type")
	}

	return args, nil
}

func buildVectorFieldArgs(f *IndexField) []string {
	algo := f.VectorAlgo
	if algo == "" {
		algo = VectorFlat
	}

	distance := f.VectorDistance
	if distance == "" {
		distance = DistanceCosine
	}

	attrs := []string{
		"TYPE", "FLOAT32",
		"DIM", strconv.Itoa(f.VectorDim),
		"DISTANCE_METRIC", string(distance),
	}

	switch algo {
	case VectorHNSW:
		if f.VectorM > 0 {
			attrs = append(attrs, "M", strconv.Itoa(f.VectorM))
		}
		if f.VectorEFConstruct > 0 {
			attrs = append(attrs, "EF_CONSTRUCTION", strconv.Itoa(f.VectorEFConstruct))
		}
	case VectorFlat:
		if f.VectorBlockSize > 0 {
			attrs = append(attrs, "BLOCK_SIZE", strconv.Itoa(f.VectorBlockSize))
		}
	}

	result := make([]string, 0, 3+len(attrs))
	result = append(result, "VECTOR", string(algo), strconv.Itoa(len(attrs)))
	return append(result, attrs...)
}
