// Package catalog defines the static category tree that drives traversal
// order. The tree is configuration data: read-only after process start and
// never mutated by the traversal.
package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Item is a leaf search term within a subcategory.
type Item string

// Subcategory groups an ordered list of item terms.
type Subcategory struct {
	Name  string `yaml:"name"`
	Items []Item `yaml:"items"`
}

// Category is a top-level node of the catalog tree.
type Category struct {
	Name          string        `yaml:"name"`
	Subcategories []Subcategory `yaml:"subcategories"`
}

// Tree is the full category/subcategory/item hierarchy.
type Tree struct {
	Categories []Category `yaml:"categories"`
}

// Load reads a catalog tree from a YAML file.
func Load(path string) (*Tree, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var tree Tree
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file: %w", err)
	}

	if err := tree.Validate(); err != nil {
		return nil, err
	}

	return &tree, nil
}

// Validate checks structural invariants: no empty names, every subcategory
// carries at least one item.
func (t *Tree) Validate() error {
	if len(t.Categories) == 0 {
		return fmt.Errorf("catalog has no categories")
	}

	for _, cat := range t.Categories {
		if cat.Name == "" {
			return fmt.Errorf("category with empty name")
		}
		for _, sub := range cat.Subcategories {
			if sub.Name == "" {
				return fmt.Errorf("subcategory with empty name in %q", cat.Name)
			}
			if len(sub.Items) == 0 {
				return fmt.Errorf("subcategory %q in %q has no items", sub.Name, cat.Name)
			}
		}
	}

	return nil
}

// ItemCount returns the number of leaf items in the tree.
func (t *Tree) ItemCount() int {
	count := 0
	for _, cat := range t.Categories {
		for _, sub := range cat.Subcategories {
			count += len(sub.Items)
		}
	}
	return count
}
