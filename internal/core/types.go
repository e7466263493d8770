package core

import (
	"github.com/jackc/pgx/v5/pgtype"
)

// Kind is the record shape a row mapping was classified as.
// The set is closed: every row is exactly one of these.
type Kind int

const (
	KindUnrecognized Kind = iota
	KindPlacement
	KindLegResult
)

// String returns a lowercase label for logs and metrics.
func (k Kind) String() string {
	switch k {
	case KindPlacement:
		return "placement"
	case KindLegResult:
		return "leg_result"
	default:
		return "unrecognized"
	}
}

// Column names recognized in uploaded CSV headers.
const (
	ColYear          = "year"
	ColDivision      = "division"
	ColDivisionPlace = "division_place"
	ColDivisionTeams = "division_teams"
	ColOverallPlace  = "overall_place"
	ColOverallTeams  = "overall_teams"
	ColBib           = "bib"
	ColLegNumber     = "leg_number"
	ColLegVersion    = "leg_version"
	ColRunner        = "runner"
	ColLapTime       = "lap_time"
)

// PlacementColumns is the canonical header order for placement rows.
var PlacementColumns = []string{
	ColYear, ColDivision, ColDivisionPlace, ColDivisionTeams,
	ColOverallPlace, ColOverallTeams, ColBib,
}

// LegResultColumns is the canonical header order for leg result rows.
var LegResultColumns = []string{
	ColYear, ColLegNumber, ColLegVersion, ColRunner, ColLapTime,
}

// Placement is a team's finishing rank and metadata for one season.
//
// Numeric fields use pgtype.Int8: a value that failed coercion has
// Valid=false and serializes as JSON null, so callers can tell it apart
// from a real zero.
type Placement struct {
	Year          pgtype.Int8 `json:"year"`
	Division      string      `json:"division"`
	DivisionPlace pgtype.Int8 `json:"division_place"`
	DivisionTeams pgtype.Int8 `json:"division_teams"`
	OverallPlace  pgtype.Int8 `json:"overall_place"`
	OverallTeams  pgtype.Int8 `json:"overall_teams"`
	Bib           pgtype.Int8 `json:"bib"`
}

// LegResult is one runner's time on one leg in one season.
// LapTime is kept exactly as uploaded (HH:MM:SS or MM:SS).
type LegResult struct {
	Year       pgtype.Int8 `json:"year"`
	LegNumber  pgtype.Int8 `json:"leg_number"`
	LegVersion pgtype.Int8 `json:"leg_version"`
	Runner     string      `json:"runner"`
	LapTime    string      `json:"lap_time"`
}

// Batch is the classified output of one upload.
// Both slices are non-nil so they encode as [] rather than null.
type Batch struct {
	Placements []Placement `json:"placements"`
	Results    []LegResult `json:"results"`

	// Dropped counts rows that matched neither shape.
	Dropped int `json:"-"`
}

// NewBatch returns an empty batch with non-nil slices.
func NewBatch() Batch {
	return Batch{
		Placements: []Placement{},
		Results:    []LegResult{},
	}
}

// Total returns the number of records in the batch.
func (b Batch) Total() int {
	return len(b.Placements) + len(b.Results)
}
