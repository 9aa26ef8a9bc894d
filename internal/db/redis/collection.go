package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/kailas-cloud/vecprov/internal/db"
)

// Metadata hash field names.
const (
	metaName        = "name"
	metaDescription = "description"
	metaFields      = "fields_json"
	metaDynamic     = "dynamic"
	metaCreatedAt   = "created_at"
	metaIndexes     = "indexes"
)

// HasCollection reports whether the collection metadata hash exists.
func (s *Store) HasCollection(ctx context.Context, name string) (bool, error) {
	cmd := s.b().Exists().Key(s.metaKey(name)).Build()
	count, err := s.do(ctx, cmd).AsInt64()
	if err != nil {
		return false, &db.Error{Op: db.OpHasCollection, Err: err}
	}
	return count > 0, nil
}

// CreateCollection records the collection schema. The name field is claimed with
// HSETNX so that concurrent creators see db.ErrCollectionExists.
func (s *Store) CreateCollection(ctx context.Context, schema *db.CollectionSchema) error {
	if schema == nil || schema.Name == "" {
		return &db.Error{Op: db.OpCreateCollection, Err: fmt.Errorf("collection name is required")}
	}
	fieldsJSON, err := json.Marshal(schema.Fields)
	if err != nil {
		return &db.Error{Op: db.OpCreateCollection, Err: fmt.Errorf("marshal fields: %w", err)}
	}

	key := s.metaKey(schema.Name)
	claim := s.b().Hsetnx().Key(key).Field(metaName).Value(schema.Name).Build()
	claimed, err := s.do(ctx, claim).AsInt64()
	if err != nil {
		return &db.Error{Op: db.OpCreateCollection, Err: err}
	}
	if claimed == 0 {
		return db.ErrCollectionExists
	}

	cmd := s.b().Hset().Key(key).FieldValue().
		FieldValue(metaDescription, schema.Description).
		FieldValue(metaFields, string(fieldsJSON)).
		FieldValue(metaDynamic, strconv.FormatBool(schema.DynamicFields)).
		FieldValue(metaCreatedAt, strconv.FormatInt(time.Now().Unix(), 10)).
		FieldValue(metaIndexes, "").
		Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: db.OpCreateCollection, Err: err}
	}
	return nil
}

// ListCollections scans metadata hashes and returns collection names sorted.
func (s *Store) ListCollections(ctx context.Context) ([]string, error) {
	keyPrefix := s.metaKey("")
	var names []string
	var cursor uint64

	for {
		cmd := s.b().Scan().Cursor(cursor).Match(keyPrefix + "*").Count(100).Build()
		res, err := s.do(ctx, cmd).AsScanEntry()
		if err != nil {
			return nil, &db.Error{Op: db.OpListCollections, Err: err}
		}
		for _, k := range res.Elements {
			names = append(names, strings.TrimPrefix(k, keyPrefix))
		}
		cursor = res.Cursor
		if cursor == 0 {
			break
		}
	}

	sort.Strings(names)
	return names, nil
}

// DescribeCollection reads the metadata hash and counts documents through the first index.
func (s *Store) DescribeCollection(ctx context.Context, name string) (*db.CollectionInfo, error) {
	meta, err := s.loadMeta(ctx, name, db.OpDescribeCollection)
	if err != nil {
		return nil, err
	}

	info := &db.CollectionInfo{
		Name:        name,
		Description: meta.description,
		Fields:      make([]string, 0, len(meta.fields)),
	}
	for _, f := range meta.fields {
		info.Fields = append(info.Fields, f.Name)
	}

	switch {
	case s.scanCount:
		count, err := s.scanDocs(ctx, s.docPrefix(name))
		if err != nil {
			return info, &db.Error{Op: db.OpDescribeCollection, Err: err}
		}
		info.EntityCount = count
	case len(meta.indexes) > 0:
		count, err := s.countDocs(ctx, s.indexName(name, meta.indexes[0]))
		if err != nil {
			return info, &db.Error{Op: db.OpDescribeCollection, Err: err}
		}
		info.EntityCount = count
	}
	return info, nil
}

type collectionMeta struct {
	description string
	fields      []db.FieldSchema
	dynamic     bool
	indexes     []string
}

func (m *collectionMeta) field(name string) (db.FieldSchema, bool) {
	for _, f := range m.fields {
		if f.Name == name {
			return f, true
		}
	}
	return db.FieldSchema{}, false
}

func (m *collectionMeta) hasIndex(field string) bool {
	for _, f := range m.indexes {
		if f == field {
			return true
		}
	}
	return false
}

func (s *Store) loadMeta(ctx context.Context, name, op string) (*collectionMeta, error) {
	cmd := s.b().Hgetall().Key(s.metaKey(name)).Build()
	raw, err := s.do(ctx, cmd).AsStrMap()
	if err != nil {
		return nil, &db.Error{Op: op, Err: err}
	}
	if len(raw) == 0 {
		return nil, db.ErrCollectionNotFound
	}

	meta := &collectionMeta{description: raw[metaDescription]}
	if fj := raw[metaFields]; fj != "" {
		if err := json.Unmarshal([]byte(fj), &meta.fields); err != nil {
			return nil, &db.Error{Op: op, Err: fmt.Errorf("decode fields of %s: %w", name, err)}
		}
	}
	meta.dynamic, _ = strconv.ParseBool(raw[metaDynamic])
	if ix := raw[metaIndexes]; ix != "" {
		meta.indexes = strings.Split(ix, ",")
	}
	return meta, nil
}

// countDocs returns the total of an FT index without fetching documents.
func (s *Store) countDocs(ctx context.Context, index string) (int64, error) {
	cmd := s.b().Arbitrary("FT.SEARCH").Args(index, "*", "LIMIT", "0", "0").Build()
	arr, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", index, err)
	}
	if len(arr) == 0 {
		return 0, nil
	}
	return arr[0].AsInt64()
}

func (s *Store) scanDocs(ctx context.Context, prefix string) (int64, error) {
	var total int64
	var cursor uint64
	for {
		cmd := s.b().Scan().Cursor(cursor).Match(prefix + "*").Count(100).Build()
		res, err := s.do(ctx, cmd).AsScanEntry()
		if err != nil {
			return 0, fmt.Errorf("scan %s: %w", prefix, err)
		}
		total += int64(len(res.Elements))
		cursor = res.Cursor
		if cursor == 0 {
			return total, nil
		}
	}
}

func (s *Store) recordIndex(ctx context.Context, name string, meta *collectionMeta, field string) error {
	indexes := append(append([]string(nil), meta.indexes...), field)
	cmd := s.b().Hset().Key(s.metaKey(name)).FieldValue().
		FieldValue(metaIndexes, strings.Join(indexes, ",")).
		Build()
	return s.do(ctx, cmd).Error()
}
