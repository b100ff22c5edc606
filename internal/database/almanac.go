package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/zapponejosh/patro-api/internal/calendar"
)

// =============================================================================
// Models
// =============================================================================

// AlmanacYear is one stored row of the almanac.
type AlmanacYear struct {
	Year      int        `json:"year"`
	Months    [12]int    `json:"months"`
	Days      int        `json:"days"`
	Source    string     `json:"source"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// Import records one bulk replacement of the almanac.
type Import struct {
	ID         string     `json:"id"`
	Source     string     `json:"source"`
	Years      int        `json:"years"`
	MinYear    int        `json:"min_year"`
	MaxYear    int        `json:"max_year"`
	ImportedAt *time.Time `json:"imported_at,omitempty"`
}

// =============================================================================
// Helper Functions
// =============================================================================

// parseTimestamp parses a timestamp from SQLite TEXT format.
// Returns nil if the value is empty or unparseable.
func parseTimestamp(ns sql.NullString) *time.Time {
	if !ns.Valid || ns.String == "" {
		return nil
	}

	for _, layout := range []string{
		time.RFC3339,
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05.999999",
	} {
		if t, err := time.Parse(layout, ns.String); err == nil {
			return &t
		}
	}
	return nil
}

func sumDays(months [12]int) int {
	total := 0
	for _, n := range months {
		total += n
	}
	return total
}

func checkMonths(year int, months [12]int) error {
	for i, n := range months {
		if n < calendar.MinMonthDays || n > calendar.MaxMonthDays {
			return fmt.Errorf("%w: year %d month %d has %d days", ErrInvalidAlmanac, year, i+1, n)
		}
	}
	return nil
}

const upsertYearSQL = `
	INSERT INTO almanac_years (
		year, m1, m2, m3, m4, m5, m6, m7, m8, m9, m10, m11, m12, source, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, datetime('now'))
	ON CONFLICT(year) DO UPDATE SET
		m1 = excluded.m1, m2 = excluded.m2, m3 = excluded.m3,
		m4 = excluded.m4, m5 = excluded.m5, m6 = excluded.m6,
		m7 = excluded.m7, m8 = excluded.m8, m9 = excluded.m9,
		m10 = excluded.m10, m11 = excluded.m11, m12 = excluded.m12,
		source = excluded.source,
		updated_at = excluded.updated_at
`

func upsertArgs(year int, months [12]int, source string) []any {
	args := make([]any, 0, 14)
	args = append(args, year)
	for _, n := range months {
		args = append(args, n)
	}
	return append(args, source)
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// queryer is satisfied by *DB and *Tx.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func scanYear(s scanner) (*AlmanacYear, error) {
	var y AlmanacYear
	var updatedAt sql.NullString

	dest := []any{&y.Year}
	for i := range y.Months {
		dest = append(dest, &y.Months[i])
	}
	dest = append(dest, &y.Source, &updatedAt)

	if err := s.Scan(dest...); err != nil {
		return nil, err
	}
	y.Days = sumDays(y.Months)
	y.UpdatedAt = parseTimestamp(updatedAt)
	return &y, nil
}

const selectYearColumns = `
	SELECT year, m1, m2, m3, m4, m5, m6, m7, m8, m9, m10, m11, m12, source, updated_at
	FROM almanac_years
`

// =============================================================================
// Almanac Writes
// =============================================================================

// ReplaceAlmanac swaps the stored almanac for years in one transaction and
// records the import. The new almanac must be buildable as a calendar table:
// contiguous years, every month 29-32 days.
func (db *DB) ReplaceAlmanac(ctx context.Context, years map[int][12]int, source string) (*Import, error) {
	if _, err := calendar.NewTable(years); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAlmanac, err)
	}

	keys := make([]int, 0, len(years))
	for y := range years {
		keys = append(keys, y)
	}
	sort.Ints(keys)

	imp := &Import{
		ID:      uuid.NewString(),
		Source:  source,
		Years:   len(keys),
		MinYear: keys[0],
		MaxYear: keys[len(keys)-1],
	}

	err := db.WithTx(ctx, func(tx *Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM almanac_years"); err != nil {
			return fmt.Errorf("clear almanac: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx, upsertYearSQL)
		if err != nil {
			return fmt.Errorf("prepare almanac insert: %w", err)
		}
		defer stmt.Close()

		for _, y := range keys {
			if _, err := stmt.ExecContext(ctx, upsertArgs(y, years[y], source)...); err != nil {
				return fmt.Errorf("insert year %d: %w", y, err)
			}
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO almanac_imports (import_id, source, years, min_year, max_year)
			VALUES (?, ?, ?, ?, ?)
		`, imp.ID, imp.Source, imp.Years, imp.MinYear, imp.MaxYear)
		if err != nil {
			return fmt.Errorf("record import: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	imp.ImportedAt = &now

	db.logger.Info("almanac replaced",
		"import_id", imp.ID,
		"source", source,
		"years", imp.Years,
		"min_year", imp.MinYear,
		"max_year", imp.MaxYear,
	)

	return imp, nil
}

// UpsertYear inserts or corrects one year. A new year must extend the stored
// range at either end so the almanac stays contiguous, and the result must
// still be placeable on the Gregorian calendar.
func (db *DB) UpsertYear(ctx context.Context, year int, months [12]int, source string) (*AlmanacYear, error) {
	if err := checkMonths(year, months); err != nil {
		return nil, err
	}

	var result *AlmanacYear
	err := db.WithTx(ctx, func(tx *Tx) error {
		stored, err := listYears(ctx, tx)
		if err != nil {
			return err
		}

		if len(stored) > 0 {
			lo, hi := stored[0].Year, stored[len(stored)-1].Year
			if year < lo-1 || year > hi+1 {
				return fmt.Errorf("%w: year %d would leave a gap after %d-%d", ErrInvalidAlmanac, year, lo, hi)
			}
		}

		years := make(map[int][12]int, len(stored)+1)
		for _, y := range stored {
			years[y.Year] = y.Months
		}
		years[year] = months
		if _, err := calendar.NewTable(years); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidAlmanac, err)
		}

		if _, err := tx.ExecContext(ctx, upsertYearSQL, upsertArgs(year, months, source)...); err != nil {
			return fmt.Errorf("upsert year %d: %w", year, err)
		}

		result, err = scanYear(tx.QueryRowContext(ctx, selectYearColumns+" WHERE year = ?", year))
		if err != nil {
			return fmt.Errorf("reload year %d: %w", year, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	db.logger.Info("almanac year updated", "year", year, "source", source, "days", result.Days)
	return result, nil
}

// =============================================================================
// Almanac Reads
// =============================================================================

// LoadAlmanac returns every stored year in the form calendar.NewTable takes.
// An empty table yields ErrNotFound.
func (db *DB) LoadAlmanac(ctx context.Context) (map[int][12]int, error) {
	years, err := db.ListYears(ctx)
	if err != nil {
		return nil, err
	}
	if len(years) == 0 {
		return nil, ErrNotFound
	}

	out := make(map[int][12]int, len(years))
	for _, y := range years {
		out[y.Year] = y.Months
	}
	return out, nil
}

// GetYear retrieves one year. Returns ErrNotFound if it is not stored.
func (db *DB) GetYear(ctx context.Context, year int) (*AlmanacYear, error) {
	y, err := scanYear(db.QueryRowContext(ctx, selectYearColumns+" WHERE year = ?", year))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query year %d: %w", year, err)
	}
	return y, nil
}

// ListYears returns all stored years in ascending order.
func (db *DB) ListYears(ctx context.Context) ([]AlmanacYear, error) {
	return listYears(ctx, db)
}

func listYears(ctx context.Context, q queryer) ([]AlmanacYear, error) {
	rows, err := q.QueryContext(ctx, selectYearColumns+" ORDER BY year")
	if err != nil {
		return nil, fmt.Errorf("query almanac: %w", err)
	}
	defer rows.Close()

	var years []AlmanacYear
	for rows.Next() {
		y, err := scanYear(rows)
		if err != nil {
			return nil, fmt.Errorf("scan almanac year: %w", err)
		}
		years = append(years, *y)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate almanac: %w", err)
	}
	return years, nil
}

// ListImports returns the most recent imports, newest first.
func (db *DB) ListImports(ctx context.Context, limit int) ([]Import, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := db.QueryContext(ctx, `
		SELECT import_id, source, years, min_year, max_year, imported_at
		FROM almanac_imports
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query imports: %w", err)
	}
	defer rows.Close()

	var imports []Import
	for rows.Next() {
		var imp Import
		var importedAt sql.NullString
		if err := rows.Scan(&imp.ID, &imp.Source, &imp.Years, &imp.MinYear, &imp.MaxYear, &importedAt); err != nil {
			return nil, fmt.Errorf("scan import: %w", err)
		}
		imp.ImportedAt = parseTimestamp(importedAt)
		imports = append(imports, imp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate imports: %w", err)
	}
	return imports, nil
}

// LoadTable builds a calendar table from the stored almanac.
func (db *DB) LoadTable(ctx context.Context) (*calendar.Table, error) {
	years, err := db.LoadAlmanac(ctx)
	if err != nil {
		return nil, err
	}
	t, err := calendar.NewTable(years)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAlmanac, err)
	}
	return t, nil
}
