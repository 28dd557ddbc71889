package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	_ "github.com/marcboeker/go-duckdb"
	"github.com/shanehull/ratescout/internal/model"
)

// DuckDBRepo flattens reports into a rates table for ad-hoc querying and CSV
// export. An empty path keeps the database in memory.
type DuckDBRepo struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewDuckDBRepo(path string, logger *slog.Logger) (*DuckDBRepo, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, err
	}
	return &DuckDBRepo{db: db, logger: logger}, nil
}

func (r *DuckDBRepo) Init(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS rates (
		generated DATE,
		label TEXT,
		checkin DATE,
		hotel TEXT,
		low INTEGER,
		high INTEGER,
		rate TEXT,
		position INTEGER
	);`
	_, err := r.db.ExecContext(ctx, query)
	return err
}

// LoadReport replaces any rows previously loaded for the same generated date.
func (r *DuckDBRepo) LoadReport(ctx context.Context, report *model.RateReport) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM rates WHERE generated = ?", report.Generated); err != nil {
		return 0, err
	}

	checkins := make(map[model.Label]any, len(report.Checkins))
	for _, c := range report.Checkins {
		checkins[c.Label] = c.Date
	}

	query := `INSERT INTO rates (generated, label, checkin, hotel, low, high, rate, position) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	n := 0
	for _, day := range report.Days {
		for _, hr := range day.Rates {
			var low, high sql.NullInt64
			if hr.Observation.Available() {
				lo, hi := hr.Observation.Bounds()
				low = sql.NullInt64{Int64: int64(lo), Valid: true}
				high = sql.NullInt64{Int64: int64(hi), Valid: true}
			}
			if _, err := tx.ExecContext(ctx, query, report.Generated, string(day.Label), checkins[day.Label], hr.Hotel, low, high, hr.Observation.String(), n); err != nil {
				return 0, fmt.Errorf("insert %s/%s: %w", day.Label, hr.Hotel, err)
			}
			n++
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	r.logger.Debug("Report loaded", "generated", report.Generated.Format(model.DateLayout), "rows", n)
	return n, nil
}

type ExportFilter struct {
	Hotel         string   // Case-insensitive substring
	Labels        []string // Check-in labels to keep
	AvailableOnly bool
	MaxPrice      int // Upper bound on the low end of the rate
}

func (f ExportFilter) where() string {
	conds := []string{"TRUE"}
	if f.Hotel != "" {
		conds = append(conds, fmt.Sprintf("contains(lower(hotel), %s)", quote(strings.ToLower(f.Hotel))))
	}
	var labels []string
	for _, l := range f.Labels {
		if l = strings.TrimSpace(l); l != "" {
			labels = append(labels, quote(l))
		}
	}
	if len(labels) > 0 {
		conds = append(conds, fmt.Sprintf("label IN (%s)", strings.Join(labels, ", ")))
	}
	if f.AvailableOnly {
		conds = append(conds, "low IS NOT NULL")
	}
	if f.MaxPrice > 0 {
		conds = append(conds, fmt.Sprintf("low <= %d", f.MaxPrice))
	}
	return strings.Join(conds, " AND ")
}

func (r *DuckDBRepo) ExportCSV(ctx context.Context, path string, f ExportFilter) error {
	query := fmt.Sprintf(`
		COPY (
			SELECT generated, label, checkin, hotel, low, high, rate
			FROM rates
			WHERE %s
			ORDER BY generated, position
		) TO %s (HEADER, DELIMITER ',');`, f.where(), quote(path))

	_, err := r.db.ExecContext(ctx, query)
	return err
}

// Count returns how many loaded rows match the filter.
func (r *DuckDBRepo) Count(ctx context.Context, f ExportFilter) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, "SELECT count(*) FROM rates WHERE "+f.where()).Scan(&n)
	return n, err
}

func (r *DuckDBRepo) Close() error {
	return r.db.Close()
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
