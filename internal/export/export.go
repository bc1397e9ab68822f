// Package export writes results to files, dispatching the format on the
// output path's extension.
package export

import (
	"compress/gzip"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"gopkg.in/yaml.v3"
)

// Formats supported for tabular output. JSON and YAML additionally accept any
// marshalable value.
var supportedExtensions = []string{".json", ".json.gz", ".yaml", ".yml", ".csv", ".tsv", ".xlsx"}

// UnsupportedFormatError reports an output path whose extension maps to no
// known writer.
type UnsupportedFormatError struct {
	Path string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported output format %q, supported extensions are: %s",
		e.Path, strings.Join(supportedExtensions, ", "))
}

// Write marshals v to path as JSON, gzipped JSON, or YAML depending on the
// extension.
func Write(path string, v any) error {
	switch {
	case strings.HasSuffix(path, ".json.gz"):
		return writeJSONGz(path, v)
	case strings.HasSuffix(path, ".json"):
		return writeJSON(path, v)
	case strings.HasSuffix(path, ".yaml"), strings.HasSuffix(path, ".yml"):
		return writeYAML(path, v)
	}
	return &UnsupportedFormatError{Path: path}
}

// WriteTable writes a header and rows to path. CSV, TSV and XLSX take the
// rows as-is; JSON and YAML receive one mapping per row keyed by header.
func WriteTable(path string, header []string, rows [][]string) error {
	switch {
	case strings.HasSuffix(path, ".csv"):
		return writeSeparated(path, header, rows, ',')
	case strings.HasSuffix(path, ".tsv"):
		return writeSeparated(path, header, rows, '\t')
	case strings.HasSuffix(path, ".xlsx"):
		return writeXLSX(path, header, rows)
	case strings.HasSuffix(path, ".json.gz"), strings.HasSuffix(path, ".json"),
		strings.HasSuffix(path, ".yaml"), strings.HasSuffix(path, ".yml"):
		return Write(path, tableToMaps(header, rows))
	}
	return &UnsupportedFormatError{Path: path}
}

func tableToMaps(header []string, rows [][]string) []map[string]string {
	out := make([]map[string]string, 0, len(rows))
	for _, row := range rows {
		m := make(map[string]string, len(header))
		for i, h := range header {
			if i < len(row) {
				m[h] = row[i]
			}
		}
		out = append(out, m)
	}
	return out
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrap(err, "export: create file")
	}
	defer f.Close() //nolint:errcheck

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return eris.Wrap(err, "export: encode json")
	}
	return f.Close()
}

func writeJSONGz(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrap(err, "export: create file")
	}
	defer f.Close() //nolint:errcheck

	zw := gzip.NewWriter(f)
	if err := json.NewEncoder(zw).Encode(v); err != nil {
		return eris.Wrap(err, "export: encode json")
	}
	if err := zw.Close(); err != nil {
		return eris.Wrap(err, "export: close gzip writer")
	}
	return f.Close()
}

func writeYAML(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrap(err, "export: create file")
	}
	defer f.Close() //nolint:errcheck

	enc := yaml.NewEncoder(f)
	if err := enc.Encode(v); err != nil {
		return eris.Wrap(err, "export: encode yaml")
	}
	if err := enc.Close(); err != nil {
		return eris.Wrap(err, "export: close yaml encoder")
	}
	return f.Close()
}

func writeSeparated(path string, header []string, rows [][]string, sep rune) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrap(err, "export: create file")
	}
	defer f.Close() //nolint:errcheck

	w := csv.NewWriter(f)
	w.Comma = sep
	if err := w.Write(header); err != nil {
		return eris.Wrap(err, "export: write header")
	}
	if err := w.WriteAll(rows); err != nil {
		return eris.Wrap(err, "export: write rows")
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return eris.Wrap(err, "export: flush writer")
	}
	return f.Close()
}

func writeXLSX(path string, header []string, rows [][]string) error {
	wb := xlsx.NewFile()
	sheet, err := wb.AddSheet("results")
	if err != nil {
		return eris.Wrap(err, "export: add sheet")
	}

	hr := sheet.AddRow()
	for _, h := range header {
		hr.AddCell().SetString(h)
	}
	for _, row := range rows {
		r := sheet.AddRow()
		for _, cell := range row {
			r.AddCell().SetString(cell)
		}
	}

	if err := wb.Save(path); err != nil {
		return eris.Wrap(err, "export: save workbook")
	}
	return nil
}
