package export

import (
	"compress/gzip"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
	"gopkg.in/yaml.v3"
)

func TestWrite_JSON(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, Write(path, map[string]int{"namesNumber": 1}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got map[string]int
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, 1, got["namesNumber"])
}

func TestWrite_JSONGz(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out.json.gz")
	require.NoError(t, Write(path, []string{"Pomatomus saltatrix"}))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close() //nolint:errcheck

	zr, err := gzip.NewReader(f)
	require.NoError(t, err)

	var got []string
	require.NoError(t, json.NewDecoder(zr).Decode(&got))
	assert.Equal(t, []string{"Pomatomus saltatrix"}, got)
}

func TestWrite_YAML(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out.yaml")
	require.NoError(t, Write(path, map[string]string{"kingdom": "Animalia"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got map[string]string
	require.NoError(t, yaml.Unmarshal(data, &got))
	assert.Equal(t, "Animalia", got["kingdom"])
}

func TestWrite_UnsupportedExtension(t *testing.T) {
	t.Parallel()

	err := Write(filepath.Join(t.TempDir(), "out.parquet"), nil)
	require.Error(t, err)

	var formatErr *UnsupportedFormatError
	require.ErrorAs(t, err, &formatErr)
	assert.Contains(t, err.Error(), ".json")
	assert.Contains(t, err.Error(), ".xlsx")
}

func TestWriteTable_CSV(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out.csv")
	header := []string{"id", "title"}
	rows := [][]string{{"1", "Catalogue of Life"}, {"11", "GBIF"}}
	require.NoError(t, WriteTable(path, header, rows))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close() //nolint:errcheck

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, header, records[0])
	assert.Equal(t, rows[0], records[1])
}

func TestWriteTable_TSV(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out.tsv")
	require.NoError(t, WriteTable(path, []string{"id", "title"}, [][]string{{"1", "COL"}}))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close() //nolint:errcheck

	r := csv.NewReader(f)
	r.Comma = '\t'
	records, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"1", "COL"}, records[1])
}

func TestWriteTable_XLSX(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out.xlsx")
	require.NoError(t, WriteTable(path, []string{"id", "title"}, [][]string{{"1", "COL"}}))

	wb, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	require.Len(t, wb.Sheets, 1)
	require.Len(t, wb.Sheets[0].Rows, 2)
	assert.Equal(t, "title", wb.Sheets[0].Rows[0].Cells[1].String())
	assert.Equal(t, "COL", wb.Sheets[0].Rows[1].Cells[1].String())
}

func TestWriteTable_JSONRowsKeyedByHeader(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, WriteTable(path, []string{"id", "title"}, [][]string{{"1", "COL"}}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got []map[string]string
	require.NoError(t, json.Unmarshal(data, &got))
	require.Len(t, got, 1)
	assert.Equal(t, "COL", got[0]["title"])
}

func TestWriteTable_UnsupportedExtension(t *testing.T) {
	t.Parallel()

	err := WriteTable(filepath.Join(t.TempDir(), "out.pdf"), nil, nil)
	require.Error(t, err)

	var formatErr *UnsupportedFormatError
	assert.ErrorAs(t, err, &formatErr)
}
