package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTree(t *testing.T) {
	tree := Default()

	require.NoError(t, tree.Validate())
	assert.NotEmpty(t, tree.Categories)
	assert.Greater(t, tree.ItemCount(), 50)
	assert.Equal(t, "Apparel & Fashion", tree.Categories[0].Name)
	assert.Equal(t, "Men's Clothing", tree.Categories[0].Subcategories[0].Name)
	assert.Equal(t, Item("T-Shirts"), tree.Categories[0].Subcategories[0].Items[0])
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")

	yaml := `categories:
  - name: Apparel
    subcategories:
      - name: Shirts
        items: [T-Shirts, Polos]
      - name: Trousers
        items: [Jeans]
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0644))

	tree, err := Load(path)
	require.NoError(t, err)

	assert.Len(t, tree.Categories, 1)
	assert.Equal(t, "Apparel", tree.Categories[0].Name)
	assert.Len(t, tree.Categories[0].Subcategories, 2)
	assert.Equal(t, 3, tree.ItemCount())
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(dir, "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("subcategory without items", func(t *testing.T) {
		path := filepath.Join(dir, "bad.yaml")
		yaml := `categories:
  - name: Apparel
    subcategories:
      - name: Shirts
        items: []
`
		require.NoError(t, os.WriteFile(path, []byte(yaml), 0644))

		_, err := Load(path)
		assert.ErrorContains(t, err, "has no items")
	})

	t.Run("empty tree", func(t *testing.T) {
		path := filepath.Join(dir, "empty.yaml")
		require.NoError(t, os.WriteFile(path, []byte("categories: []"), 0644))

		_, err := Load(path)
		assert.ErrorContains(t, err, "no categories")
	})
}
