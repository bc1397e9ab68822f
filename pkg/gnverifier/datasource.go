package gnverifier

import (
	"context"
	"encoding/json"
	"iter"
	"strings"
)

// DataSource describes one reference catalog the verifier can match against.
type DataSource struct {
	ID             int    `json:"id"`
	UUID           string `json:"uuid"`
	Title          string `json:"title"`
	TitleShort     string `json:"titleShort"`
	Version        string `json:"version"`
	Description    string `json:"description"`
	HomeURL        string `json:"homeURL"`
	IsOutlinkReady bool   `json:"isOutlinkReady"`
	Curation       string `json:"curation"`
	HasTaxonData   bool   `json:"hasTaxonData"`
	RecordCount    int    `json:"recordCount"`
	UpdatedAt      string `json:"updatedAt"`
}

// UnmarshalJSON decodes a catalog record, substituting documented defaults for
// absent optional fields. The upstream API is treated as loosely typed:
// missing keys never fail the decode.
func (d *DataSource) UnmarshalJSON(b []byte) error {
	var raw struct {
		ID             int     `json:"id"`
		UUID           *string `json:"uuid"`
		Title          *string `json:"title"`
		TitleShort     *string `json:"titleShort"`
		Version        *string `json:"version"`
		Description    *string `json:"description"`
		HomeURL        *string `json:"homeURL"`
		IsOutlinkReady *bool   `json:"isOutlinkReady"`
		Curation       *string `json:"curation"`
		HasTaxonData   *bool   `json:"hasTaxonData"`
		RecordCount    *int    `json:"recordCount"`
		UpdatedAt      *string `json:"updatedAt"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	d.ID = raw.ID
	d.UUID = stringOr(raw.UUID, "N/A")
	d.Title = stringOr(raw.Title, "N/A")
	d.TitleShort = stringOr(raw.TitleShort, "N/A")
	d.Version = stringOr(raw.Version, "N/A")
	d.Description = stringOr(raw.Description, "No description available")
	d.HomeURL = stringOr(raw.HomeURL, "N/A")
	d.IsOutlinkReady = boolOr(raw.IsOutlinkReady)
	d.Curation = stringOr(raw.Curation, "Unknown")
	d.HasTaxonData = boolOr(raw.HasTaxonData)
	d.RecordCount = intOr(raw.RecordCount)
	d.UpdatedAt = stringOr(raw.UpdatedAt, "N/A")
	return nil
}

// IterDataSources returns a single-pass iterator over the catalog for
// callers that only need one traversal. The fetch happens when iteration
// begins; a fetch error is yielded once with a zero DataSource.
func IterDataSources(ctx context.Context, c Client) iter.Seq2[DataSource, error] {
	return func(yield func(DataSource, error) bool) {
		sources, err := c.DataSources(ctx)
		if err != nil {
			yield(DataSource{}, err)
			return
		}
		for _, ds := range sources {
			if !yield(ds, nil) {
				return
			}
		}
	}
}

var argNameReplacer = strings.NewReplacer(" ", "-", "_", "-")

// ArgName returns the hyphenated lowercase form of the title, used for CLI
// flag-style selection. Presentational only, never authoritative.
func (d DataSource) ArgName() string {
	return strings.ToLower(argNameReplacer.Replace(d.Title))
}

// ShortArgName is ArgName derived from the short title.
func (d DataSource) ShortArgName() string {
	return strings.ToLower(argNameReplacer.Replace(d.TitleShort))
}

// matchesName reports whether name equals any of the four accepted forms.
func (d DataSource) matchesName(name string) bool {
	switch name {
	case d.ArgName(), d.ShortArgName(), d.Title, d.TitleShort:
		return true
	}
	return false
}

func stringOr(s *string, def string) string {
	if s == nil {
		return def
	}
	return *s
}

func boolOr(b *bool) bool {
	return b != nil && *b
}

func intOr(i *int) int {
	if i == nil {
		return 0
	}
	return *i
}
