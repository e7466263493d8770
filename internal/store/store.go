// Package store persists reviewed placements and leg results in Postgres.
//
// Tables are managed outside this service. The queries assume:
//
//	placements(year PRIMARY KEY, division, division_place, division_teams,
//	           overall_place, overall_teams, bib)
//	results(year, leg_number, leg_version, runner, lap_time,
//	        UNIQUE (year, leg_number, leg_version))
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ngamolsky/XtremeRepo/internal/core"
)

// ErrSeasonNotFound is returned by Season when no placement exists for the year.
var ErrSeasonNotFound = errors.New("season not found")

// DBTX is the interface for database operations.
// Satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	Query(context.Context, string, ...any) (pgx.Rows, error)
	QueryRow(context.Context, string, ...any) pgx.Row
}

// Conn is a DBTX that can open transactions, such as *pgxpool.Pool.
type Conn interface {
	DBTX
	Begin(context.Context) (pgx.Tx, error)
}

// Store reads and writes race data.
type Store struct {
	db Conn
}

// New returns a Store backed by db.
func New(db Conn) *Store {
	return &Store{db: db}
}

// CommitResult reports how many rows each upsert touched.
type CommitResult struct {
	Placements int64 `json:"placements"`
	Results    int64 `json:"results"`
}

// Season is one year's placement with its leg results.
type Season struct {
	Placement core.Placement   `json:"placement"`
	Results   []core.LegResult `json:"results"`
	TotalTime string           `json:"total_time"`
	LegCount  int              `json:"leg_count"`
}

const upsertPlacement = `
INSERT INTO placements (year, division, division_place, division_teams, overall_place, overall_teams, bib)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (year) DO UPDATE SET
	division       = EXCLUDED.division,
	division_place = EXCLUDED.division_place,
	division_teams = EXCLUDED.division_teams,
	overall_place  = EXCLUDED.overall_place,
	overall_teams  = EXCLUDED.overall_teams,
	bib            = EXCLUDED.bib`

const upsertResult = `
INSERT INTO results (year, leg_number, leg_version, runner, lap_time)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (year, leg_number, leg_version) DO UPDATE SET
	runner   = EXCLUDED.runner,
	lap_time = EXCLUDED.lap_time`

// Commit upserts every record in b inside one transaction. Placements are
// written first so results can reference their season. Callers validate b
// beforehand; the database still has the final word on constraints.
func (s *Store) Commit(ctx context.Context, b core.Batch) (CommitResult, error) {
	var res CommitResult
	if b.Total() == 0 {
		return res, nil
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return res, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) // No-op once committed

	batch := &pgx.Batch{}
	for _, p := range b.Placements {
		batch.Queue(upsertPlacement,
			p.Year, p.Division, p.DivisionPlace, p.DivisionTeams,
			p.OverallPlace, p.OverallTeams, p.Bib)
	}
	for _, r := range b.Results {
		batch.Queue(upsertResult, r.Year, r.LegNumber, r.LegVersion, r.Runner, r.LapTime)
	}

	br := tx.SendBatch(ctx, batch)
	for i := range batch.Len() {
		tag, err := br.Exec()
		if err != nil {
			br.Close()
			return CommitResult{}, fmt.Errorf("%s: %w", describeQueued(b, i), err)
		}
		if i < len(b.Placements) {
			res.Placements += tag.RowsAffected()
		} else {
			res.Results += tag.RowsAffected()
		}
	}
	if err := br.Close(); err != nil {
		return CommitResult{}, fmt.Errorf("failed to close batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return CommitResult{}, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return res, nil
}

// describeQueued names the record behind the i-th queued statement.
func describeQueued(b core.Batch, i int) string {
	if i < len(b.Placements) {
		return fmt.Sprintf("upsert placement %d (year %s)", i, core.FormatInt8(b.Placements[i].Year))
	}
	j := i - len(b.Placements)
	r := b.Results[j]
	return fmt.Sprintf("upsert result %d (year %s leg %s.%s)", j,
		core.FormatInt8(r.Year), core.FormatInt8(r.LegNumber), core.FormatInt8(r.LegVersion))
}

const listPlacements = `
SELECT year, COALESCE(division, ''), division_place, division_teams, overall_place, overall_teams, bib
FROM placements
ORDER BY year DESC`

// ListPlacements returns every season's placement, newest first.
func (s *Store) ListPlacements(ctx context.Context) ([]core.Placement, error) {
	rows, err := s.db.Query(ctx, listPlacements)
	if err != nil {
		return nil, fmt.Errorf("query placements: %w", err)
	}

	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (core.Placement, error) {
		return scanPlacement(row)
	})
	if err != nil {
		return nil, fmt.Errorf("scan placements: %w", err)
	}
	return out, nil
}

const getPlacement = `
SELECT year, COALESCE(division, ''), division_place, division_teams, overall_place, overall_teams, bib
FROM placements
WHERE year = $1`

const listSeasonResults = `
SELECT year, leg_number, leg_version, COALESCE(runner, ''), COALESCE(lap_time::text, '')
FROM results
WHERE year = $1
ORDER BY leg_number, leg_version`

// Season loads the placement and ordered results for year.
func (s *Store) Season(ctx context.Context, year int64) (*Season, error) {
	p, err := scanPlacement(s.db.QueryRow(ctx, getPlacement, year))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", ErrSeasonNotFound, year)
	}
	if err != nil {
		return nil, fmt.Errorf("query placement %d: %w", year, err)
	}

	rows, err := s.db.Query(ctx, listSeasonResults, year)
	if err != nil {
		return nil, fmt.Errorf("query results %d: %w", year, err)
	}
	results, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (core.LegResult, error) {
		return scanLegResult(row)
	})
	if err != nil {
		return nil, fmt.Errorf("scan results %d: %w", year, err)
	}

	return Summarize(p, results), nil
}

// Summarize totals the parseable lap times of results.
func Summarize(p core.Placement, results []core.LegResult) *Season {
	if results == nil {
		results = []core.LegResult{}
	}

	var total time.Duration
	for _, r := range results {
		if d, err := core.ParseLapTime(r.LapTime); err == nil {
			total += d
		}
	}

	return &Season{
		Placement: p,
		Results:   results,
		TotalTime: core.FormatLapTime(total),
		LegCount:  len(results),
	}
}

func scanPlacement(row pgx.Row) (core.Placement, error) {
	var p core.Placement
	err := row.Scan(&p.Year, &p.Division, &p.DivisionPlace, &p.DivisionTeams,
		&p.OverallPlace, &p.OverallTeams, &p.Bib)
	return p, err
}

func scanLegResult(row pgx.Row) (core.LegResult, error) {
	var r core.LegResult
	err := row.Scan(&r.Year, &r.LegNumber, &r.LegVersion, &r.Runner, &r.LapTime)
	return r, err
}
