package core

import (
	"iter"
	"strings"
)

// Classify decides a row's record kind from the keys it carries.
// Values are never inspected. A placement key wins over leg_number.
func Classify(r Row) Kind {
	switch {
	case r.Has(ColDivision) || r.Has(ColDivisionPlace):
		return KindPlacement
	case r.Has(ColLegNumber):
		return KindLegResult
	default:
		return KindUnrecognized
	}
}

// Partition classifies and coerces rows, keeping input order within each
// kind. Unrecognized rows are counted in Batch.Dropped and otherwise ignored.
func Partition(rows iter.Seq[Row]) Batch {
	b := NewBatch()
	for r := range rows {
		switch Classify(r) {
		case KindPlacement:
			b.Placements = append(b.Placements, PlacementFromRow(r))
		case KindLegResult:
			b.Results = append(b.Results, LegResultFromRow(r))
		default:
			b.Dropped++
		}
	}
	return b
}

// PlacementFromRow coerces a placement-shaped row.
func PlacementFromRow(r Row) Placement {
	return Placement{
		Year:          ToPgInt8(r.Value(ColYear)),
		Division:      strings.TrimSpace(r.Value(ColDivision)),
		DivisionPlace: ToPgInt8(r.Value(ColDivisionPlace)),
		DivisionTeams: ToPgInt8(r.Value(ColDivisionTeams)),
		OverallPlace:  ToPgInt8(r.Value(ColOverallPlace)),
		OverallTeams:  ToPgInt8(r.Value(ColOverallTeams)),
		Bib:           ToPgInt8(r.Value(ColBib)),
	}
}

// LegResultFromRow coerces a leg-result-shaped row.
// Runner and lap time pass through untouched.
func LegResultFromRow(r Row) LegResult {
	return LegResult{
		Year:       ToPgInt8(r.Value(ColYear)),
		LegNumber:  ToPgInt8(r.Value(ColLegNumber)),
		LegVersion: ToPgInt8(r.Value(ColLegVersion)),
		Runner:     r.Value(ColRunner),
		LapTime:    r.Value(ColLapTime),
	}
}

// CSVRow renders p as cells in PlacementColumns order.
func (p Placement) CSVRow() []string {
	return []string{
		FormatInt8(p.Year),
		p.Division,
		FormatInt8(p.DivisionPlace),
		FormatInt8(p.DivisionTeams),
		FormatInt8(p.OverallPlace),
		FormatInt8(p.OverallTeams),
		FormatInt8(p.Bib),
	}
}

// CSVRow renders r as cells in LegResultColumns order.
func (r LegResult) CSVRow() []string {
	return []string{
		FormatInt8(r.Year),
		FormatInt8(r.LegNumber),
		FormatInt8(r.LegVersion),
		r.Runner,
		r.LapTime,
	}
}
