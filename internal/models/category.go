package models

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// CategoryCount is the size of the fixed expense taxonomy
const CategoryCount = 21

//go:embed taxonomy.yaml
var taxonomyYAML []byte

// Category is an expense category label from the fixed taxonomy
type Category string

// CategoryDefinition describes a category together with the merchant
// examples the model uses to disambiguate it
type CategoryDefinition struct {
	Name     Category `yaml:"name" json:"name"`
	Examples []string `yaml:"examples" json:"examples"`
}

// Taxonomy is the ordered, immutable set of expense categories
type Taxonomy struct {
	definitions []CategoryDefinition
	index       map[Category]int
}

var (
	defaultTaxonomy    *Taxonomy
	defaultTaxonomyErr error
	taxonomyOnce       sync.Once
)

// DefaultTaxonomy returns the taxonomy compiled into the binary.
// It panics if the embedded file is malformed, which can only happen at build time.
func DefaultTaxonomy() *Taxonomy {
	taxonomyOnce.Do(func() {
		defaultTaxonomy, defaultTaxonomyErr = ParseTaxonomy(taxonomyYAML)
	})
	if defaultTaxonomyErr != nil {
		panic("embedded taxonomy is invalid: " + defaultTaxonomyErr.Error())
	}
	return defaultTaxonomy
}

// ParseTaxonomy parses and validates a taxonomy document
func ParseTaxonomy(data []byte) (*Taxonomy, error) {
	var doc struct {
		Categories []CategoryDefinition `yaml:"categories"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse taxonomy: %w", err)
	}

	if len(doc.Categories) != CategoryCount {
		return nil, fmt.Errorf("taxonomy must define %d categories, got %d", CategoryCount, len(doc.Categories))
	}

	index := make(map[Category]int, len(doc.Categories))
	for i, def := range doc.Categories {
		if strings.TrimSpace(string(def.Name)) == "" {
			return nil, fmt.Errorf("category %d has an empty name", i)
		}
		if _, exists := index[def.Name]; exists {
			return nil, fmt.Errorf("duplicate category %q", def.Name)
		}
		index[def.Name] = i
	}

	return &Taxonomy{
		definitions: doc.Categories,
		index:       index,
	}, nil
}

// Definitions returns a copy of the category definitions in prompt order
func (t *Taxonomy) Definitions() []CategoryDefinition {
	out := make([]CategoryDefinition, len(t.definitions))
	for i, def := range t.definitions {
		out[i] = CategoryDefinition{
			Name:     def.Name,
			Examples: append([]string(nil), def.Examples...),
		}
	}
	return out
}

// Names returns the category labels in prompt order
func (t *Taxonomy) Names() []Category {
	names := make([]Category, len(t.definitions))
	for i, def := range t.definitions {
		names[i] = def.Name
	}
	return names
}

// Contains reports whether the label belongs to the taxonomy
func (t *Taxonomy) Contains(c Category) bool {
	_, ok := t.index[c]
	return ok
}

// Len returns the number of categories
func (t *Taxonomy) Len() int {
	return len(t.definitions)
}
