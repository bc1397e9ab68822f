package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/earth-metabolome-initiative/gnverifier-cli/pkg/gnverifier"
)

func TestFormatSources(t *testing.T) {
	t.Parallel()

	sources := []gnverifier.DataSource{
		{ID: 1, Title: "Catalogue of Life", Version: "2024-09", RecordCount: 1234567, Curation: "Curated", UpdatedAt: "2024-10-08"},
	}

	var sb strings.Builder
	formatSources(&sb, sources)

	out := sb.String()
	assert.Contains(t, out, "Catalogue of Life")
	assert.Contains(t, out, "1,234,567")
	assert.Contains(t, out, "Curated")
}

func TestFormatVerification(t *testing.T) {
	t.Parallel()

	cls, err := gnverifier.ParseClassification("Animalia|Chordata", "kingdom|phylum", "1|2")
	require.NoError(t, err)

	resp := &gnverifier.Response{
		Metadata: gnverifier.Metadata{NamesNumber: 1},
		Names: []gnverifier.NameResult{
			{
				Name:      "Pomatomus saltatrix",
				MatchType: "Exact",
				BestResult: &gnverifier.MatchResult{
					DataSourceTitleShort: "COL",
					MatchedName:          "Pomatomus saltatrix (Linnaeus, 1766)",
					TaxonomicStatus:      "Accepted",
					Outlink:              "https://example.org/4t7y2",
					Classification:       cls,
				},
			},
		},
	}

	var sb strings.Builder
	formatVerification(&sb, resp, false)

	out := sb.String()
	assert.Contains(t, out, "Names: 1")
	assert.Contains(t, out, "Pomatomus saltatrix (Exact)")
	assert.Contains(t, out, "COL")
	assert.Contains(t, out, "Accepted")
	assert.NotContains(t, out, "kingdom: Animalia")
}

func TestFormatVerification_Verbose(t *testing.T) {
	t.Parallel()

	cls, err := gnverifier.ParseClassification("Animalia", "kingdom", "1")
	require.NoError(t, err)

	resp := &gnverifier.Response{
		Names: []gnverifier.NameResult{
			{
				Name: "Animalia",
				BestResult: &gnverifier.MatchResult{
					DataSourceTitleShort: "COL",
					MatchedName:          "Animalia",
					Classification:       cls,
				},
			},
		},
	}

	var sb strings.Builder
	formatVerification(&sb, resp, true)

	assert.Contains(t, sb.String(), "kingdom: Animalia (1)")
}

func TestFormatVerification_NoMatch(t *testing.T) {
	t.Parallel()

	resp := &gnverifier.Response{
		Names: []gnverifier.NameResult{{Name: "Nonexistus fakus", MatchType: "NoMatch"}},
	}

	var sb strings.Builder
	formatVerification(&sb, resp, false)

	assert.Contains(t, sb.String(), "no match")
}

func TestFormatVerification_Stats(t *testing.T) {
	t.Parallel()

	resp := &gnverifier.Response{
		Metadata: gnverifier.Metadata{
			NamesNumber:         2,
			WithStats:           true,
			MainTaxon:           "Chordata",
			MainTaxonPercentage: 0.5,
			Kingdom:             "Animalia",
			KingdomPercentage:   1.0,
			Kingdoms: []gnverifier.KingdomDistribution{
				{KingdomName: "Animalia", NamesNumber: 2, Percentage: 1.0},
			},
		},
	}

	var sb strings.Builder
	formatVerification(&sb, resp, false)

	out := sb.String()
	assert.Contains(t, out, "Main taxon: Chordata (50.00%)")
	assert.Contains(t, out, "Kingdom: Animalia (100.00%)")
	assert.Contains(t, out, "Animalia: 2 (100.00%)")
}
