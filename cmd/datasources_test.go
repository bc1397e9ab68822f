package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/earth-metabolome-initiative/gnverifier-cli/internal/export"
	"github.com/earth-metabolome-initiative/gnverifier-cli/pkg/gnverifier"
)

func testSources() []gnverifier.DataSource {
	return []gnverifier.DataSource{
		{ID: 11, Title: "GBIF Backbone Taxonomy", RecordCount: 5000, UpdatedAt: "2023-01-01"},
		{ID: 1, Title: "Catalogue of Life", RecordCount: 9000, UpdatedAt: "2024-10-08"},
	}
}

func TestSortSources(t *testing.T) {
	t.Parallel()

	sources := testSources()
	require.NoError(t, sortSources(sources, "id", false))
	assert.Equal(t, 1, sources[0].ID)

	require.NoError(t, sortSources(sources, "records", true))
	assert.Equal(t, 9000, sources[0].RecordCount)

	require.NoError(t, sortSources(sources, "title", false))
	assert.Equal(t, "Catalogue of Life", sources[0].Title)

	require.NoError(t, sortSources(sources, "updated", true))
	assert.Equal(t, "2024-10-08", sources[0].UpdatedAt)
}

func TestSortSources_UnknownKey(t *testing.T) {
	t.Parallel()

	err := sortSources(testSources(), "color", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown sort key")
}

func TestExportSources_JSON(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "sources.json")
	require.NoError(t, exportSources(path, testSources()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got []gnverifier.DataSource
	require.NoError(t, json.Unmarshal(data, &got))
	require.Len(t, got, 2)
	assert.Equal(t, "GBIF Backbone Taxonomy", got[0].Title)
}

func TestExportSources_CSV(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "sources.csv")
	require.NoError(t, exportSources(path, testSources()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Catalogue of Life")
	assert.Contains(t, string(data), "recordCount")
}

func TestExportSources_UnsupportedFormat(t *testing.T) {
	t.Parallel()

	err := exportSources(filepath.Join(t.TempDir(), "sources.docx"), testSources())
	require.Error(t, err)

	var formatErr *export.UnsupportedFormatError
	assert.ErrorAs(t, err, &formatErr)
}
