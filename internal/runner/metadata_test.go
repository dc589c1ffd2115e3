package runner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetadataLifecycle(t *testing.T) {
	dir := t.TempDir()
	meta, err := NewMetadataFile(dir, "Acme Industries", 2, 8)
	require.NoError(t, err)

	loaded, err := ReadMetadata(dir)
	require.NoError(t, err)
	assert.Equal(t, StatusInitializing, loaded.Status)
	assert.Equal(t, "Acme Industries", loaded.CompanyName)
	assert.Equal(t, 2, loaded.DocumentCount)
	assert.NotEmpty(t, loaded.CreationDate)

	require.NoError(t, meta.MarkProcessing())
	require.NoError(t, meta.SectionCompleted())
	require.NoError(t, meta.SectionCompleted())

	loaded, err = ReadMetadata(dir)
	require.NoError(t, err)
	assert.Equal(t, StatusProcessing, loaded.Status)
	assert.Equal(t, 2, loaded.SectionsCompleted)
	assert.NotEmpty(t, loaded.LastUpdated)

	require.NoError(t, meta.MarkCompleted())
	loaded, err = ReadMetadata(dir)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, loaded.Status)
	assert.NotEmpty(t, loaded.CompletionDate)
}

func TestOpenMetadataFileResetsCounters(t *testing.T) {
	dir := t.TempDir()
	meta, err := NewMetadataFile(dir, "Acme", 1, 3)
	require.NoError(t, err)
	require.NoError(t, meta.SectionCompleted())
	require.NoError(t, meta.MarkCompleted())

	reopened, err := OpenMetadataFile(dir, 5)
	require.NoError(t, err)
	snap := reopened.Snapshot()
	assert.Equal(t, "Acme", snap.CompanyName)
	assert.Equal(t, 5, snap.SectionsTotal)
	assert.Equal(t, 0, snap.SectionsCompleted)
	assert.Empty(t, snap.CompletionDate)
}

func TestFindLatestRunPicksNewestFolder(t *testing.T) {
	base := t.TempDir()
	_, ok := FindLatestRun(base, "Acme")
	assert.False(t, ok)

	older, err := CreateRunFolder(base, "Acme")
	require.NoError(t, err)
	_ = older

	dir, ok := FindLatestRun(base, "Acme")
	require.True(t, ok)
	assert.Contains(t, dir, "profile_Acme_")
}

func TestCreateRunFolderCleansCompanyName(t *testing.T) {
	base := t.TempDir()
	dir, err := CreateRunFolder(base, "Acme & Co / GmbH")
	require.NoError(t, err)
	assert.NotContains(t, dir, "&")
	assert.NotContains(t, dir, "/GmbH")
	assert.Contains(t, dir, "profile_Acme___Co___GmbH_")
}
