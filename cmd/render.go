package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/earth-metabolome-initiative/gnverifier-cli/pkg/gnverifier"
)

var numPrinter = message.NewPrinter(language.English)

// formatSources renders the data source catalog as an aligned table.
func formatSources(out io.Writer, sources []gnverifier.DataSource) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tTITLE\tVERSION\tRECORDS\tCURATION\tUPDATED")
	_, _ = fmt.Fprintln(w, "--\t-----\t-------\t-------\t--------\t-------")

	for _, ds := range sources {
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			ds.ID,
			ds.Title,
			ds.Version,
			numPrinter.Sprintf("%d", ds.RecordCount),
			ds.Curation,
			ds.UpdatedAt,
		)
	}
	_ = w.Flush()
}

// formatVerification renders a verification response: the metadata summary
// followed by one block per input name.
func formatVerification(out io.Writer, resp *gnverifier.Response, verbose bool) {
	formatMetadata(out, resp.Metadata)

	for _, name := range resp.Names {
		_, _ = fmt.Fprintf(out, "\n%s (%s)\n", name.Name, name.MatchType)

		matches := name.Matches()
		if len(matches) == 0 {
			_, _ = fmt.Fprintln(out, "  no match")
			continue
		}

		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(w, "  SOURCE\tMATCHED NAME\tSTATUS\tOUTLINK")
		for _, m := range matches {
			_, _ = fmt.Fprintf(w, "  %s\t%s\t%s\t%s\n",
				m.DataSourceTitleShort, m.MatchedName, m.TaxonomicStatus, m.Outlink)
		}
		_ = w.Flush()

		if verbose {
			for _, m := range matches {
				for _, taxon := range m.Classification.Taxa {
					_, _ = fmt.Fprintf(out, "    %s: %s (%s)\n", taxon.Rank, taxon.Name, taxon.ID)
				}
			}
		}
	}
}

func formatMetadata(out io.Writer, meta gnverifier.Metadata) {
	_, _ = fmt.Fprintf(out, "Names: %d\n", meta.NamesNumber)
	if !meta.WithStats {
		return
	}
	_, _ = fmt.Fprintf(out, "Main taxon: %s (%.2f%%)\n", meta.MainTaxon, meta.MainTaxonPercentage*100)
	_, _ = fmt.Fprintf(out, "Kingdom: %s (%.2f%%)\n", meta.Kingdom, meta.KingdomPercentage*100)
	for _, k := range meta.Kingdoms {
		_, _ = fmt.Fprintf(out, "  %s: %d (%.2f%%)\n", k.KingdomName, k.NamesNumber, k.Percentage*100)
	}
}
