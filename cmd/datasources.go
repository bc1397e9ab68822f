package main

import (
	"encoding/json"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/earth-metabolome-initiative/gnverifier-cli/internal/export"
	"github.com/earth-metabolome-initiative/gnverifier-cli/pkg/gnverifier"
)

var dataSourcesCmd = &cobra.Command{
	Use:   "data-sources",
	Short: "List the verifier's reference data sources",
	Long:  "Fetches the catalog of data sources the verifier can match against and prints or exports it.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		client, cleanup, err := newClient(ctx)
		if err != nil {
			return err
		}
		defer cleanup()

		sources, err := client.DataSources(ctx)
		if err != nil {
			return eris.Wrap(err, "data-sources")
		}

		sortKey, _ := cmd.Flags().GetString("sort-key")
		descending, _ := cmd.Flags().GetBool("descending")
		if err := sortSources(sources, sortKey, descending); err != nil {
			return err
		}

		if output, _ := cmd.Flags().GetString("output"); output != "" {
			return exportSources(output, sources)
		}

		format, _ := cmd.Flags().GetString("format")
		switch format {
		case "json":
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(sources)
		case "pretty":
			formatSources(os.Stdout, sources)
			return nil
		}
		return eris.Errorf("unknown format %q, use pretty or json", format)
	},
}

// sortSources orders the catalog in place by the given key.
func sortSources(sources []gnverifier.DataSource, key string, descending bool) error {
	var less func(a, b gnverifier.DataSource) bool
	switch key {
	case "id":
		less = func(a, b gnverifier.DataSource) bool { return a.ID < b.ID }
	case "title":
		less = func(a, b gnverifier.DataSource) bool { return a.Title < b.Title }
	case "records":
		less = func(a, b gnverifier.DataSource) bool { return a.RecordCount < b.RecordCount }
	case "updated":
		less = func(a, b gnverifier.DataSource) bool { return a.UpdatedAt < b.UpdatedAt }
	default:
		return eris.Errorf("unknown sort key %q, use id, title, records, or updated", key)
	}
	sort.SliceStable(sources, func(i, j int) bool {
		if descending {
			return less(sources[j], sources[i])
		}
		return less(sources[i], sources[j])
	})
	return nil
}

// exportSources writes the catalog to a file, full objects for structured
// formats and tabular rows otherwise.
func exportSources(path string, sources []gnverifier.DataSource) error {
	if strings.HasSuffix(path, ".json") || strings.HasSuffix(path, ".json.gz") ||
		strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		return export.Write(path, sources)
	}

	header := []string{"id", "uuid", "title", "titleShort", "version", "description",
		"homeURL", "isOutlinkReady", "curation", "hasTaxonData", "recordCount", "updatedAt"}
	rows := make([][]string, 0, len(sources))
	for _, ds := range sources {
		rows = append(rows, []string{
			strconv.Itoa(ds.ID),
			ds.UUID,
			ds.Title,
			ds.TitleShort,
			ds.Version,
			ds.Description,
			ds.HomeURL,
			strconv.FormatBool(ds.IsOutlinkReady),
			ds.Curation,
			strconv.FormatBool(ds.HasTaxonData),
			strconv.Itoa(ds.RecordCount),
			ds.UpdatedAt,
		})
	}
	return export.WriteTable(path, header, rows)
}

func init() {
	dataSourcesCmd.Flags().StringP("format", "f", "pretty", "output format (pretty, json)")
	dataSourcesCmd.Flags().String("sort-key", "id", "sort key (id, title, records, updated)")
	dataSourcesCmd.Flags().Bool("descending", false, "sort in descending order")
	dataSourcesCmd.Flags().StringP("output", "o", "", "export to file (.json, .json.gz, .yaml, .csv, .tsv, .xlsx)")

	rootCmd.AddCommand(dataSourcesCmd)
}
