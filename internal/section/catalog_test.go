package section

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalogIsOrderedAndComplete(t *testing.T) {
	require.NotEmpty(t, DefaultCatalog)
	seen := map[int]bool{}
	last := 0
	for _, topic := range DefaultCatalog {
		assert.Greater(t, topic.ID, last)
		assert.False(t, seen[topic.ID], "duplicate topic id %d", topic.ID)
		assert.NotEmpty(t, topic.Title)
		assert.NotEmpty(t, topic.Spec)
		seen[topic.ID] = true
		last = topic.ID
	}
}

func TestLoadCatalogSortsByID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
- id: 2
  title: SECOND
  spec: second spec
- id: 1
  title: FIRST
  spec: first spec
`), 0o644))

	topics, err := LoadCatalog(path)
	require.NoError(t, err)
	require.Len(t, topics, 2)
	assert.Equal(t, 1, topics[0].ID)
	assert.Equal(t, "FIRST", topics[0].Title)
	assert.Equal(t, 2, topics[1].ID)
}

func TestLoadCatalogRejectsInvalidEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- id: 0\n  title: BAD\n"), 0o644))
	_, err := LoadCatalog(path)
	assert.Error(t, err)
}

func TestStoreRoundTrip(t *testing.T) {
	store := NewStore(t.TempDir())
	_, ok := store.Load("3_refined")
	assert.False(t, ok)

	require.NoError(t, store.Save("3_refined", "<p>content</p>"))
	got, ok := store.Load("3_refined")
	require.True(t, ok)
	assert.Equal(t, "<p>content</p>", got)
}
