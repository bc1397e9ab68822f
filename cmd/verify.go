package main

import (
	"encoding/json"
	"os"
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/earth-metabolome-initiative/gnverifier-cli/internal/export"
	"github.com/earth-metabolome-initiative/gnverifier-cli/pkg/gnverifier"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify scientific names",
	Long:  "Submits scientific names to the verifier and reports the matches found in the selected data sources.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		names, _ := cmd.Flags().GetStringSlice("names")
		if len(names) == 0 {
			return eris.New("no names given, use --names")
		}

		client, cleanup, err := newClient(ctx)
		if err != nil {
			return err
		}
		defer cleanup()

		rc := gnverifier.NewRequestConfiguration(client)

		threshold, _ := cmd.Flags().GetFloat64("main-taxon-threshold")
		if err := rc.MainTaxonThreshold(threshold); err != nil {
			return err
		}

		if on, _ := cmd.Flags().GetBool("all-matches"); on {
			rc.WithAllMatches()
		}
		if on, _ := cmd.Flags().GetBool("capitalization"); on {
			rc.WithCapitalization()
		}
		if on, _ := cmd.Flags().GetBool("species-group"); on {
			rc.WithSpeciesGroup()
		}
		if on, _ := cmd.Flags().GetBool("uninomial-fuzzy-match"); on {
			rc.WithUninomialFuzzyMatch()
		}
		if on, _ := cmd.Flags().GetBool("stats"); on {
			rc.WithStats()
		}

		selections, _ := cmd.Flags().GetStringSlice("source")
		for _, sel := range selections {
			// Numeric selections bypass catalog resolution.
			if id, convErr := strconv.Atoi(sel); convErr == nil {
				rc.IncludeDataSourceID(id)
				continue
			}
			if err := rc.IncludeDataSource(ctx, sel); err != nil {
				return err
			}
		}

		zap.L().Debug("verifying names",
			zap.Int("count", len(names)),
			zap.Ints("data_sources", rc.SelectedDataSources()),
		)

		resp, err := client.Verify(ctx, rc, names)
		if err != nil {
			return eris.Wrap(err, "verify")
		}

		if output, _ := cmd.Flags().GetString("output"); output != "" {
			return export.Write(output, resp)
		}

		format, _ := cmd.Flags().GetString("format")
		switch format {
		case "json":
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(resp)
		case "pretty":
			verbose, _ := cmd.Flags().GetBool("verbose")
			formatVerification(os.Stdout, resp, verbose)
			return nil
		}
		return eris.Errorf("unknown format %q, use pretty or json", format)
	},
}

func init() {
	verifyCmd.Flags().StringSliceP("names", "n", nil, "scientific names to verify (comma-separated)")
	verifyCmd.Flags().StringSliceP("source", "s", nil, "restrict matching to data sources, by title or numeric id (repeatable)")
	verifyCmd.Flags().Bool("all-matches", false, "return every match instead of only the best one")
	verifyCmd.Flags().Bool("capitalization", false, "match with capitalization sensitivity")
	verifyCmd.Flags().Bool("species-group", false, "expand matching to the species group")
	verifyCmd.Flags().Bool("uninomial-fuzzy-match", false, "enable fuzzy matching of uninomial names")
	verifyCmd.Flags().Bool("stats", false, "include taxonomic statistics in the response")
	verifyCmd.Flags().Float64("main-taxon-threshold", 0.6, "main taxon threshold, between 0 and 1")
	verifyCmd.Flags().StringP("format", "f", "pretty", "output format (pretty, json)")
	verifyCmd.Flags().StringP("output", "o", "", "export to file (.json, .json.gz, .yaml)")
	verifyCmd.Flags().BoolP("verbose", "v", false, "include classification lineages in pretty output")

	rootCmd.AddCommand(verifyCmd)
}
