package gnverifier

import (
	"fmt"
	"strings"
)

// InvalidTaxonThresholdError reports a main-taxon threshold outside [0, 1].
type InvalidTaxonThresholdError struct {
	Threshold float64
}

func (e *InvalidTaxonThresholdError) Error() string {
	return fmt.Sprintf("invalid taxon threshold %g: must be between 0 and 1", e.Threshold)
}

// UnknownDataSourceError reports a data-source name that matched none of the
// catalog's accepted forms. Known carries every catalog title so the caller
// can present the valid choices.
type UnknownDataSourceError struct {
	Name  string
	Known []string
}

func (e *UnknownDataSourceError) Error() string {
	return fmt.Sprintf("unknown data source %q, available data sources are: %s",
		e.Name, strings.Join(e.Known, ", "))
}

// ClassificationMismatchError reports parallel classification strings that
// split into different segment counts.
type ClassificationMismatchError struct {
	PathLen int
	RankLen int
	IDLen   int
}

func (e *ClassificationMismatchError) Error() string {
	return fmt.Sprintf("classification arrays disagree: %d path segments, %d ranks, %d ids",
		e.PathLen, e.RankLen, e.IDLen)
}
