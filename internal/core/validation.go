package core

// validation.go checks classified records before they are committed.
//
// The upload pipeline is lenient and lets invalid numbers through as nulls.
// Validate is the strict pass a caller runs before persisting: it reports
// every problem at once so the reviewer can fix the whole file in one go.
// Cross-row checks (duplicate years, results without a placement) are left
// to the database.

import (
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"
)

// ValidationError represents a single problem with one record field.
type ValidationError struct {
	Kind    Kind   `json:"-"`
	Record  string `json:"record"` // "placement" or "leg_result"
	Index   int    `json:"index"`  // position within its slice
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s[%d].%s: %s", e.Record, e.Index, e.Field, e.Message)
}

// ValidationErrors collects every ValidationError found in a batch.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	msgs := make([]string, len(e))
	for i, ve := range e {
		msgs[i] = ve.Error()
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Validate checks every record in b. Returns nil or ValidationErrors.
func Validate(b Batch) error {
	var errs ValidationErrors

	for i, p := range b.Placements {
		errs = append(errs, validatePlacement(i, p)...)
	}
	for i, r := range b.Results {
		errs = append(errs, validateLegResult(i, r)...)
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validatePlacement(idx int, p Placement) ValidationErrors {
	v := recordValidator{kind: KindPlacement, index: idx}

	v.positive(ColYear, p.Year)
	if strings.TrimSpace(p.Division) == "" {
		v.fail(ColDivision, "required field is empty")
	}
	v.rank(ColDivisionPlace, ColDivisionTeams, p.DivisionPlace, p.DivisionTeams)
	v.rank(ColOverallPlace, ColOverallTeams, p.OverallPlace, p.OverallTeams)
	v.positive(ColBib, p.Bib)

	return v.errs
}

func validateLegResult(idx int, r LegResult) ValidationErrors {
	v := recordValidator{kind: KindLegResult, index: idx}

	v.positive(ColYear, r.Year)
	v.positive(ColLegNumber, r.LegNumber)
	v.positive(ColLegVersion, r.LegVersion)
	if strings.TrimSpace(r.Runner) == "" {
		v.fail(ColRunner, "required field is empty")
	}
	if strings.TrimSpace(r.LapTime) == "" {
		v.fail(ColLapTime, "required field is empty")
	} else if _, err := ParseLapTime(r.LapTime); err != nil {
		v.fail(ColLapTime, "invalid lap time, use HH:MM:SS or MM:SS")
	}

	return v.errs
}

type recordValidator struct {
	kind  Kind
	index int
	errs  ValidationErrors
}

func (v *recordValidator) fail(field, msg string) {
	v.errs = append(v.errs, ValidationError{
		Kind:    v.kind,
		Record:  v.kind.String(),
		Index:   v.index,
		Field:   field,
		Message: msg,
	})
}

// positive requires a valid number >= 1.
func (v *recordValidator) positive(field string, n pgtype.Int8) bool {
	if !n.Valid {
		v.fail(field, "invalid number")
		return false
	}
	if n.Int64 < 1 {
		v.fail(field, "must be at least 1")
		return false
	}
	return true
}

// rank requires 1 <= place <= teams.
func (v *recordValidator) rank(placeField, teamsField string, place, teams pgtype.Int8) {
	okPlace := v.positive(placeField, place)
	okTeams := v.positive(teamsField, teams)
	if okPlace && okTeams && place.Int64 > teams.Int64 {
		v.fail(placeField, fmt.Sprintf("place %d exceeds %s %d", place.Int64, teamsField, teams.Int64))
	}
}
