package catalog

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/vecprov/internal/domain"
	"github.com/kailas-cloud/vecprov/internal/domain/collection"
	"github.com/kailas-cloud/vecprov/internal/domain/collection/field"
	"github.com/kailas-cloud/vecprov/internal/domain/collection/index"
)

// Document is the YAML form of a catalog.
type Document struct {
	Collections []CollectionDoc `yaml:"collections"`
}

// CollectionDoc is one collection in a catalog file.
type CollectionDoc struct {
	Name          string              `yaml:"name"`
	Description   string              `yaml:"description,omitempty"`
	DynamicFields bool                `yaml:"dynamic_fields"`
	Fields        []FieldDoc          `yaml:"fields"`
	Indexes       map[string]IndexDoc `yaml:"indexes,omitempty"`
}

// FieldDoc is one field in a catalog file.
type FieldDoc struct {
	Name      string `yaml:"name"`
	Type      string `yaml:"type"`
	MaxLength int    `yaml:"max_length,omitempty"`
	Dim       int    `yaml:"dim,omitempty"`
	Primary   bool   `yaml:"primary,omitempty"`
}

// IndexDoc is one vector index in a catalog file.
type IndexDoc struct {
	Metric    string         `yaml:"metric"`
	Algorithm string         `yaml:"algorithm"`
	Params    map[string]any `yaml:"params,omitempty"`
}

// Resolve returns the catalog at path, or Default when path is empty.
func Resolve(path string) ([]collection.Spec, error) {
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

// Load reads and validates a YAML catalog file.
func Load(path string) ([]collection.Spec, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from operator config
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML catalog document.
func Parse(data []byte) ([]collection.Spec, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return doc.Specs()
}

// Specs validates the document through the domain constructors.
func (d Document) Specs() ([]collection.Spec, error) {
	if len(d.Collections) == 0 {
		return nil, fmt.Errorf("catalog declares no collections: %w", domain.ErrInvalidSchema)
	}

	seen := make(map[string]bool, len(d.Collections))
	specs := make([]collection.Spec, 0, len(d.Collections))
	for i, c := range d.Collections {
		if seen[c.Name] {
			return nil, fmt.Errorf("collection %d: duplicate name %q: %w", i, c.Name, domain.ErrInvalidSchema)
		}
		seen[c.Name] = true

		s, err := c.spec()
		if err != nil {
			return nil, errors.Join(fmt.Errorf("collection %d (%s): %w", i, c.Name, err), domain.ErrInvalidSchema)
		}
		specs = append(specs, s)
	}
	return specs, nil
}

func (c CollectionDoc) spec() (collection.Spec, error) {
	fields := make([]field.Field, 0, len(c.Fields))
	for _, fd := range c.Fields {
		var opts []field.Option
		if fd.MaxLength != 0 {
			opts = append(opts, field.WithMaxLength(fd.MaxLength))
		}
		if fd.Dim != 0 {
			opts = append(opts, field.WithDim(fd.Dim))
		}
		if fd.Primary {
			opts = append(opts, field.PrimaryKey())
		}
		f, err := field.New(fd.Name, field.Type(fd.Type), opts...)
		if err != nil {
			return collection.Spec{}, err
		}
		fields = append(fields, f)
	}

	indexes := make(map[string]index.Spec, len(c.Indexes))
	for name, id := range c.Indexes {
		metric, err := index.ParseMetric(id.Metric)
		if err != nil {
			return collection.Spec{}, fmt.Errorf("index %s: %w", name, err)
		}
		idx, err := index.New(metric, id.Algorithm, id.Params)
		if err != nil {
			return collection.Spec{}, fmt.Errorf("index %s: %w", name, err)
		}
		indexes[name] = idx
	}

	var opts []collection.Option
	if c.DynamicFields {
		opts = append(opts, collection.WithDynamicFields())
	}
	return collection.New(c.Name, c.Description, fields, indexes, opts...)
}

// Encode renders specs in catalog file form.
func Encode(specs []collection.Spec) Document {
	doc := Document{Collections: make([]CollectionDoc, 0, len(specs))}
	for _, s := range specs {
		cd := CollectionDoc{
			Name:          s.Name(),
			Description:   s.Description(),
			DynamicFields: s.DynamicFields(),
		}
		for _, f := range s.Fields() {
			cd.Fields = append(cd.Fields, FieldDoc{
				Name:      f.Name(),
				Type:      string(f.FieldType()),
				MaxLength: f.MaxLength(),
				Dim:       f.Dim(),
				Primary:   f.IsPrimary(),
			})
		}
		for _, name := range s.IndexedFields() {
			idx, _ := s.Index(name)
			if cd.Indexes == nil {
				cd.Indexes = make(map[string]IndexDoc)
			}
			cd.Indexes[name] = IndexDoc{
				Metric:    string(idx.Metric()),
				Algorithm: idx.Algorithm(),
				Params:    idx.Params(),
			}
		}
		doc.Collections = append(doc.Collections, cd)
	}
	return doc
}

// Marshal renders specs as a YAML catalog document.
func Marshal(specs []collection.Spec) ([]byte, error) {
	data, err := yaml.Marshal(Encode(specs))
	if err != nil {
		return nil, fmt.Errorf("marshal catalog: %w", err)
	}
	return data, nil
}
