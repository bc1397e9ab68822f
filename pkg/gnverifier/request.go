package gnverifier

import (
	"context"
	"sort"

	"github.com/rotisserie/eris"
)

// VerificationRequest is the wire payload for POST /verifications.
type VerificationRequest struct {
	NameStrings             []string `json:"nameStrings"`
	DataSources             []int    `json:"dataSources"`
	WithAllMatches          bool     `json:"withAllMatches"`
	WithCapitalization      bool     `json:"withCapitalization"`
	WithSpeciesGroup        bool     `json:"withSpeciesGroup"`
	WithUninomialFuzzyMatch bool     `json:"withUninomialFuzzyMatch"`
	WithStats               bool     `json:"withStats"`
	MainTaxonThreshold      float64  `json:"mainTaxonThreshold"`
}

// defaultTaxonThreshold mirrors the upstream service default.
const defaultTaxonThreshold = 0.6

// RequestConfiguration accumulates verification options. Boolean mutators are
// one-directional (each sets its flag permanently true) and return the
// configuration for chaining. The catalog used for name resolution is fetched
// once, lazily, on the first IncludeDataSource call.
type RequestConfiguration struct {
	catalog catalogProvider

	dataSources             map[int]struct{}
	withAllMatches          bool
	withCapitalization      bool
	withSpeciesGroup        bool
	withUninomialFuzzyMatch bool
	withStats               bool
	mainTaxonThreshold      float64

	sources []DataSource
	fetched bool
}

// catalogProvider is the slice of Client the builder needs.
type catalogProvider interface {
	DataSources(ctx context.Context) ([]DataSource, error)
}

// NewRequestConfiguration returns a configuration resolving data-source names
// through the given catalog provider, usually a Client.
func NewRequestConfiguration(catalog catalogProvider) *RequestConfiguration {
	return &RequestConfiguration{
		catalog:            catalog,
		dataSources:        make(map[int]struct{}),
		mainTaxonThreshold: defaultTaxonThreshold,
	}
}

// WithAllMatches requests every match per name instead of the single best one.
func (c *RequestConfiguration) WithAllMatches() *RequestConfiguration {
	c.withAllMatches = true
	return c
}

// WithCapitalization makes matching sensitive to capitalization.
func (c *RequestConfiguration) WithCapitalization() *RequestConfiguration {
	c.withCapitalization = true
	return c
}

// WithSpeciesGroup expands matching to the species group.
func (c *RequestConfiguration) WithSpeciesGroup() *RequestConfiguration {
	c.withSpeciesGroup = true
	return c
}

// WithUninomialFuzzyMatch enables fuzzy matching of uninomial names.
func (c *RequestConfiguration) WithUninomialFuzzyMatch() *RequestConfiguration {
	c.withUninomialFuzzyMatch = true
	return c
}

// WithStats requests taxonomic statistics in the response metadata.
func (c *RequestConfiguration) WithStats() *RequestConfiguration {
	c.withStats = true
	return c
}

// MainTaxonThreshold sets the main-taxon threshold, validating it immediately.
// Values outside [0, 1] fail with InvalidTaxonThresholdError.
func (c *RequestConfiguration) MainTaxonThreshold(threshold float64) error {
	if threshold < 0.0 || threshold > 1.0 {
		return &InvalidTaxonThresholdError{Threshold: threshold}
	}
	c.mainTaxonThreshold = threshold
	return nil
}

// IncludeDataSourceID adds a data source by its numeric id without consulting
// the catalog. Duplicates are collapsed.
func (c *RequestConfiguration) IncludeDataSourceID(id int) *RequestConfiguration {
	c.dataSources[id] = struct{}{}
	return c
}

// IncludeDataSource resolves a data source given any of its four accepted
// forms (hyphenated argument name, short argument name, full title, short
// title) and adds its id to the selection. An unrecognized name fails with
// UnknownDataSourceError carrying every known title.
func (c *RequestConfiguration) IncludeDataSource(ctx context.Context, name string) error {
	sources, err := c.loadCatalog(ctx)
	if err != nil {
		return err
	}

	for _, ds := range sources {
		if ds.matchesName(name) {
			c.dataSources[ds.ID] = struct{}{}
			return nil
		}
	}

	known := make([]string, 0, len(sources))
	for _, ds := range sources {
		known = append(known, ds.Title)
	}
	return &UnknownDataSourceError{Name: name, Known: known}
}

// SelectedDataSources returns the accumulated ids in ascending order.
func (c *RequestConfiguration) SelectedDataSources() []int {
	ids := make([]int, 0, len(c.dataSources))
	for id := range c.dataSources {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// BuildRequest renders the accumulated state and the given names into the
// wire payload.
func (c *RequestConfiguration) BuildRequest(names []string) VerificationRequest {
	return VerificationRequest{
		NameStrings:             names,
		DataSources:             c.SelectedDataSources(),
		WithAllMatches:          c.withAllMatches,
		WithCapitalization:      c.withCapitalization,
		WithSpeciesGroup:        c.withSpeciesGroup,
		WithUninomialFuzzyMatch: c.withUninomialFuzzyMatch,
		WithStats:               c.withStats,
		MainTaxonThreshold:      c.mainTaxonThreshold,
	}
}

func (c *RequestConfiguration) loadCatalog(ctx context.Context) ([]DataSource, error) {
	if c.fetched {
		return c.sources, nil
	}
	if c.catalog == nil {
		return nil, eris.New("gnverifier: no catalog provider configured")
	}
	sources, err := c.catalog.DataSources(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "gnverifier: fetch data source catalog")
	}
	c.sources = sources
	c.fetched = true
	return c.sources, nil
}
