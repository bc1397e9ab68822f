package gnverifier

import (
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"
)

// Response is a completed verification: summary metadata plus one result per
// submitted name. Constructed once from the API payload, read-only afterward.
type Response struct {
	Metadata Metadata     `json:"metadata"`
	Names    []NameResult `json:"names"`
}

// UnmarshalJSON tolerates an absent metadata object, substituting defaults.
func (r *Response) UnmarshalJSON(b []byte) error {
	var raw struct {
		Metadata json.RawMessage `json:"metadata"`
		Names    []NameResult    `json:"names"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	meta := raw.Metadata
	if meta == nil {
		meta = []byte("{}")
	}
	if err := json.Unmarshal(meta, &r.Metadata); err != nil {
		return err
	}
	r.Names = raw.Names
	return nil
}

// Metadata summarizes a verification batch.
type Metadata struct {
	NamesNumber         int                   `json:"namesNumber"`
	WithStats           bool                  `json:"withStats"`
	DataSources         []int                 `json:"dataSources"`
	MainTaxonThreshold  float64               `json:"mainTaxonThreshold"`
	StatsNamesNum       int                   `json:"statsNamesNum"`
	MainTaxon           string                `json:"mainTaxon"`
	MainTaxonPercentage float64               `json:"mainTaxonPercentage"`
	Kingdom             string                `json:"kingdom"`
	KingdomPercentage   float64               `json:"kingdomPercentage"`
	Kingdoms            []KingdomDistribution `json:"kingdoms"`
}

// KingdomDistribution is one kingdom's share of a verified batch.
type KingdomDistribution struct {
	KingdomName string  `json:"kingdomName"`
	NamesNumber int     `json:"namesNumber"`
	Percentage  float64 `json:"percentage"`
}

// UnmarshalJSON applies the documented defaults for absent fields.
func (m *Metadata) UnmarshalJSON(b []byte) error {
	var raw struct {
		NamesNumber         int                   `json:"namesNumber"`
		WithStats           bool                  `json:"withStats"`
		DataSources         []int                 `json:"dataSources"`
		MainTaxonThreshold  float64               `json:"mainTaxonThreshold"`
		StatsNamesNum       int                   `json:"statsNamesNum"`
		MainTaxon           *string               `json:"mainTaxon"`
		MainTaxonPercentage float64               `json:"mainTaxonPercentage"`
		Kingdom             *string               `json:"kingdom"`
		KingdomPercentage   float64               `json:"kingdomPercentage"`
		Kingdoms            []KingdomDistribution `json:"kingdoms"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	m.NamesNumber = raw.NamesNumber
	m.WithStats = raw.WithStats
	m.DataSources = raw.DataSources
	if m.DataSources == nil {
		m.DataSources = []int{}
	}
	m.MainTaxonThreshold = raw.MainTaxonThreshold
	m.StatsNamesNum = raw.StatsNamesNum
	m.MainTaxon = stringOr(raw.MainTaxon, "N/A")
	m.MainTaxonPercentage = raw.MainTaxonPercentage
	m.Kingdom = stringOr(raw.Kingdom, "N/A")
	m.KingdomPercentage = raw.KingdomPercentage
	m.Kingdoms = raw.Kingdoms
	if m.Kingdoms == nil {
		m.Kingdoms = []KingdomDistribution{}
	}
	return nil
}

// NameResult is the outcome for one input name. Depending on the request,
// the service returns either a single best match (BestResult) or the full
// match list (Results); the unused field stays nil.
type NameResult struct {
	Name        string        `json:"name"`
	Cardinality int           `json:"cardinality"`
	MatchType   string        `json:"matchType"`
	Curation    string        `json:"curation"`
	BestResult  *MatchResult  `json:"bestResult,omitempty"`
	Results     []MatchResult `json:"results,omitempty"`
}

func (n *NameResult) UnmarshalJSON(b []byte) error {
	var raw struct {
		Name        *string       `json:"name"`
		Cardinality int           `json:"cardinality"`
		MatchType   *string       `json:"matchType"`
		Curation    *string       `json:"curation"`
		BestResult  *MatchResult  `json:"bestResult"`
		Results     []MatchResult `json:"results"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	n.Name = stringOr(raw.Name, "N/A")
	n.Cardinality = raw.Cardinality
	n.MatchType = stringOr(raw.MatchType, "N/A")
	n.Curation = stringOr(raw.Curation, "N/A")
	n.BestResult = raw.BestResult
	n.Results = raw.Results
	return nil
}

// Matches returns the match records regardless of response shape: the single
// best result when present, otherwise the all-matches list.
func (n NameResult) Matches() []MatchResult {
	if n.BestResult != nil {
		return []MatchResult{*n.BestResult}
	}
	return n.Results
}

// MatchResult is one matched record's full detail.
type MatchResult struct {
	DataSourceID           int             `json:"dataSourceId"`
	DataSourceTitleShort   string          `json:"dataSourceTitleShort"`
	Curation               string          `json:"curation"`
	RecordID               string          `json:"recordId"`
	Outlink                string          `json:"outlink"`
	EntryDate              string          `json:"entryDate"`
	SortScore              float64         `json:"sortScore"`
	MatchedNameID          string          `json:"matchedNameID"`
	MatchedName            string          `json:"matchedName"`
	MatchedCardinality     int             `json:"matchedCardinality"`
	MatchedCanonicalSimple string          `json:"matchedCanonicalSimple"`
	MatchedCanonicalFull   string          `json:"matchedCanonicalFull"`
	CurrentRecordID        string          `json:"currentRecordId"`
	CurrentNameID          string          `json:"currentNameId"`
	CurrentName            string          `json:"currentName"`
	CurrentCardinality     int             `json:"currentCardinality"`
	CurrentCanonicalSimple string          `json:"currentCanonicalSimple"`
	CurrentCanonicalFull   string          `json:"currentCanonicalFull"`
	TaxonomicStatus        string          `json:"taxonomicStatus"`
	IsSynonym              bool            `json:"isSynonym"`
	EditDistance           int             `json:"editDistance"`
	StemEditDistance       int             `json:"stemEditDistance"`
	MatchType              string          `json:"matchType"`
	ScoreDetails           json.RawMessage `json:"scoreDetails,omitempty"`
	Classification         Classification  `json:"classification"`
}

// UnmarshalJSON decodes a match record. dataSourceId and matchedName identify
// the record and are mandatory; every other field defaults when absent. The
// classification arrives as three pipe-delimited parallel strings and is
// parsed into triples here.
func (m *MatchResult) UnmarshalJSON(b []byte) error {
	var raw struct {
		DataSourceID           *int            `json:"dataSourceId"`
		DataSourceTitleShort   string          `json:"dataSourceTitleShort"`
		Curation               string          `json:"curation"`
		RecordID               string          `json:"recordId"`
		Outlink                string          `json:"outlink"`
		EntryDate              string          `json:"entryDate"`
		SortScore              float64         `json:"sortScore"`
		MatchedNameID          string          `json:"matchedNameID"`
		MatchedName            *string         `json:"matchedName"`
		MatchedCardinality     int             `json:"matchedCardinality"`
		MatchedCanonicalSimple string          `json:"matchedCanonicalSimple"`
		MatchedCanonicalFull   string          `json:"matchedCanonicalFull"`
		CurrentRecordID        string          `json:"currentRecordId"`
		CurrentNameID          string          `json:"currentNameId"`
		CurrentName            string          `json:"currentName"`
		CurrentCardinality     int             `json:"currentCardinality"`
		CurrentCanonicalSimple string          `json:"currentCanonicalSimple"`
		CurrentCanonicalFull   string          `json:"currentCanonicalFull"`
		TaxonomicStatus        string          `json:"taxonomicStatus"`
		IsSynonym              bool            `json:"isSynonym"`
		EditDistance           int             `json:"editDistance"`
		StemEditDistance       int             `json:"stemEditDistance"`
		MatchType              string          `json:"matchType"`
		ScoreDetails           json.RawMessage `json:"scoreDetails"`
		ClassificationPath     string          `json:"classificationPath"`
		ClassificationRanks    string          `json:"classificationRanks"`
		ClassificationIDs      string          `json:"classificationIds"`
		Classification         *Classification `json:"classification"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	if raw.DataSourceID == nil {
		return eris.New("gnverifier: match result missing dataSourceId")
	}
	if raw.MatchedName == nil {
		return eris.New("gnverifier: match result missing matchedName")
	}

	// The wire format carries three pipe-delimited parallel strings; an
	// already-parsed classification object (our own marshaled form) is
	// accepted as-is.
	var cls Classification
	if raw.Classification != nil {
		cls = *raw.Classification
	} else {
		var err error
		cls, err = ParseClassification(raw.ClassificationPath, raw.ClassificationRanks, raw.ClassificationIDs)
		if err != nil {
			return err
		}
	}

	m.DataSourceID = *raw.DataSourceID
	m.DataSourceTitleShort = raw.DataSourceTitleShort
	m.Curation = raw.Curation
	m.RecordID = raw.RecordID
	m.Outlink = raw.Outlink
	m.EntryDate = raw.EntryDate
	m.SortScore = raw.SortScore
	m.MatchedNameID = raw.MatchedNameID
	m.MatchedName = *raw.MatchedName
	m.MatchedCardinality = raw.MatchedCardinality
	m.MatchedCanonicalSimple = raw.MatchedCanonicalSimple
	m.MatchedCanonicalFull = raw.MatchedCanonicalFull
	m.CurrentRecordID = raw.CurrentRecordID
	m.CurrentNameID = raw.CurrentNameID
	m.CurrentName = raw.CurrentName
	m.CurrentCardinality = raw.CurrentCardinality
	m.CurrentCanonicalSimple = raw.CurrentCanonicalSimple
	m.CurrentCanonicalFull = raw.CurrentCanonicalFull
	m.TaxonomicStatus = raw.TaxonomicStatus
	m.IsSynonym = raw.IsSynonym
	m.EditDistance = raw.EditDistance
	m.StemEditDistance = raw.StemEditDistance
	m.MatchType = raw.MatchType
	m.ScoreDetails = raw.ScoreDetails
	m.Classification = cls
	return nil
}

// Taxon is one level of a classification lineage.
type Taxon struct {
	Rank string `json:"rank"`
	Name string `json:"name"`
	ID   string `json:"id"`
}

// Classification is a parsed taxonomic lineage. Path, Ranks and IDs keep the
// raw split segments; Taxa holds them zipped position-wise.
type Classification struct {
	Path  []string `json:"path"`
	Ranks []string `json:"ranks"`
	IDs   []string `json:"ids"`
	Taxa  []Taxon  `json:"classification"`
}

// ParseClassification splits the three pipe-delimited parallel strings and
// zips them into ordered (rank, name, id) triples. The three strings must
// split into the same number of segments; disagreement is a hard error rather
// than silent truncation. Three empty strings yield an empty lineage.
func ParseClassification(path, ranks, ids string) (Classification, error) {
	if path == "" && ranks == "" && ids == "" {
		return Classification{Path: []string{}, Ranks: []string{}, IDs: []string{}, Taxa: []Taxon{}}, nil
	}

	paths := strings.Split(path, "|")
	rankList := strings.Split(ranks, "|")
	idList := strings.Split(ids, "|")

	if len(paths) != len(rankList) || len(paths) != len(idList) {
		return Classification{}, &ClassificationMismatchError{
			PathLen: len(paths),
			RankLen: len(rankList),
			IDLen:   len(idList),
		}
	}

	taxa := make([]Taxon, len(paths))
	for i := range paths {
		taxa[i] = Taxon{Rank: rankList[i], Name: paths[i], ID: idList[i]}
	}
	return Classification{Path: paths, Ranks: rankList, IDs: idList, Taxa: taxa}, nil
}
