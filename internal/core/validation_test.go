package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validPlacement() Placement {
	return Placement{
		Year:          Int8(2023),
		Division:      "Open",
		DivisionPlace: Int8(2),
		DivisionTeams: Int8(10),
		OverallPlace:  Int8(15),
		OverallTeams:  Int8(120),
		Bib:           Int8(42),
	}
}

func validResult() LegResult {
	return LegResult{
		Year:       Int8(2023),
		LegNumber:  Int8(1),
		LegVersion: Int8(1),
		Runner:     "Jane Doe",
		LapTime:    "00:32:15",
	}
}

func TestValidate_ValidBatch(t *testing.T) {
	b := Batch{
		Placements: []Placement{validPlacement()},
		Results:    []LegResult{validResult()},
	}
	assert.NoError(t, Validate(b))
}

func TestValidate_EmptyBatch(t *testing.T) {
	assert.NoError(t, Validate(NewBatch()))
}

func TestValidate_Placement(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Placement)
		wantField string
	}{
		{"null year", func(p *Placement) { p.Year = ToPgInt8("abc") }, ColYear},
		{"zero year", func(p *Placement) { p.Year = Int8(0) }, ColYear},
		{"blank division", func(p *Placement) { p.Division = "  " }, ColDivision},
		{"place beyond teams", func(p *Placement) { p.DivisionPlace = Int8(11) }, ColDivisionPlace},
		{"null overall teams", func(p *Placement) { p.OverallTeams = ToPgInt8("") }, ColOverallTeams},
		{"negative bib", func(p *Placement) { p.Bib = Int8(-3) }, ColBib},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validPlacement()
			tt.mutate(&p)

			err := Validate(Batch{Placements: []Placement{p}})
			require.Error(t, err)

			var verrs ValidationErrors
			require.True(t, errors.As(err, &verrs))
			require.Len(t, verrs, 1)
			assert.Equal(t, tt.wantField, verrs[0].Field)
			assert.Equal(t, "placement", verrs[0].Record)
			assert.Equal(t, KindPlacement, verrs[0].Kind)
			assert.Equal(t, 0, verrs[0].Index)
		})
	}
}

func TestValidate_LegResult(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*LegResult)
		wantField string
		wantMsg   string
	}{
		{"null leg number", func(r *LegResult) { r.LegNumber = ToPgInt8("x") }, ColLegNumber, "invalid number"},
		{"zero leg version", func(r *LegResult) { r.LegVersion = Int8(0) }, ColLegVersion, "must be at least 1"},
		{"blank runner", func(r *LegResult) { r.Runner = "" }, ColRunner, "required field is empty"},
		{"blank lap time", func(r *LegResult) { r.LapTime = " " }, ColLapTime, "required field is empty"},
		{"bad lap time", func(r *LegResult) { r.LapTime = "32 minutes" }, ColLapTime, "invalid lap time"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validResult()
			tt.mutate(&r)

			err := Validate(Batch{Results: []LegResult{r}})

			var verrs ValidationErrors
			require.True(t, errors.As(err, &verrs))
			require.Len(t, verrs, 1)
			assert.Equal(t, tt.wantField, verrs[0].Field)
			assert.Contains(t, verrs[0].Message, tt.wantMsg)
			assert.Equal(t, "leg_result", verrs[0].Record)
		})
	}
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	bad := validResult()
	bad.Year = ToPgInt8("")
	bad.Runner = ""

	b := Batch{
		Placements: []Placement{validPlacement(), {Division: "Open"}},
		Results:    []LegResult{validResult(), validResult(), bad},
	}

	err := Validate(b)
	var verrs ValidationErrors
	require.True(t, errors.As(err, &verrs))

	var placementErrs, resultErrs int
	for _, ve := range verrs {
		switch ve.Kind {
		case KindPlacement:
			assert.Equal(t, 1, ve.Index)
			placementErrs++
		case KindLegResult:
			assert.Equal(t, 2, ve.Index)
			resultErrs++
		}
	}
	// year, division_place, division_teams, overall_place, overall_teams, bib
	assert.Equal(t, 6, placementErrs)
	assert.Equal(t, 2, resultErrs)
}

func TestValidationErrors_Error(t *testing.T) {
	errs := ValidationErrors{
		{Record: "placement", Index: 0, Field: "year", Message: "invalid number"},
		{Record: "leg_result", Index: 3, Field: "runner", Message: "required field is empty"},
	}
	assert.Equal(t,
		"validation failed: placement[0].year: invalid number; leg_result[3].runner: required field is empty",
		errs.Error())
	assert.Equal(t, "VAL007", MapError(errs).Code)
}
