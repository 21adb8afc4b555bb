// Package sqlite implements the report store on SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"time"

	_ "modernc.org/sqlite"

	"github.com/marketpulse/salescope/pkg/salescope/store"
)

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db *sql.DB
}

// Open opens a SQLite database with WAL mode and foreign keys enabled and
// initializes the report schema.
func Open(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	// Child rows cascade with their report
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist. Table names are the
// external contract consumed by downstream query tooling.
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS reports (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	filename TEXT NOT NULL,
	report_week_ending TEXT,
	report_week_num INTEGER,
	region TEXT,
	ingest_id TEXT,
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS county_summary (
	report_id INTEGER NOT NULL,
	county_group TEXT NOT NULL,
	projects INTEGER,
	traffic INTEGER,
	sales INTEGER,
	cancels INTEGER,
	net_sales INTEGER,
	avg_sales REAL,
	ytd_avg REAL,
	ytd_diff TEXT,
	prev13_avg REAL,
	prev13_diff TEXT,
	FOREIGN KEY(report_id) REFERENCES reports(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS weekly_metrics (
	report_id INTEGER NOT NULL,
	label TEXT NOT NULL,
	as_of_date TEXT,
	traffic_to_sales TEXT,
	projects REAL,
	traffic REAL,
	sales REAL,
	cancels REAL,
	net_sales REAL,
	avg_sales REAL,
	ytd_avg REAL,
	prev13_avg REAL,
	projects_diff TEXT,
	traffic_diff TEXT,
	sales_diff TEXT,
	cancels_diff TEXT,
	net_sales_diff TEXT,
	avg_sales_diff TEXT,
	ytd_diff TEXT,
	prev13_diff TEXT,
	FOREIGN KEY(report_id) REFERENCES reports(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS yearly_comparison (
	report_id INTEGER NOT NULL,
	year INTEGER NOT NULL,
	avg_weekly_projects REAL,
	avg_weekly_traffic REAL,
	avg_weekly_sales REAL,
	avg_weekly_cancels REAL,
	avg_project_sales REAL,
	year_end_avg_proj_sales REAL,
	FOREIGN KEY(report_id) REFERENCES reports(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS project_stats (
	report_id INTEGER NOT NULL,
	county_group TEXT,
	projects_participating INTEGER,
	development_name TEXT NOT NULL,
	developer TEXT,
	city_code TEXT,
	notes TEXT,
	product_type TEXT,
	units INTEGER,
	new_release INTEGER,
	released_remaining INTEGER,
	traffic INTEGER,
	wk_sales INTEGER,
	wk_cancels INTEGER,
	sold_to_date INTEGER,
	sold_ytd INTEGER,
	avg_sales_week REAL,
	avg_sales_ytd REAL,
	FOREIGN KEY(report_id) REFERENCES reports(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS project_totals (
	report_id INTEGER NOT NULL,
	county_group TEXT,
	no_reporting INTEGER,
	avg_sales REAL,
	traffic_to_sales TEXT,
	net_sales INTEGER,
	FOREIGN KEY(report_id) REFERENCES reports(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS mls_survey (
	report_id INTEGER NOT NULL,
	market_name TEXT NOT NULL,
	month TEXT NOT NULL,
	active INTEGER,
	active_dom INTEGER,
	pending INTEGER,
	pending_dom INTEGER,
	closed INTEGER,
	avg_price INTEGER,
	FOREIGN KEY(report_id) REFERENCES reports(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS city_codes (
	report_id INTEGER NOT NULL,
	city_code TEXT NOT NULL,
	city_name TEXT NOT NULL,
	UNIQUE(report_id, city_code),
	FOREIGN KEY(report_id) REFERENCES reports(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_reports_identity ON reports(report_week_ending, region);
CREATE INDEX IF NOT EXISTS idx_reports_filename ON reports(filename);

CREATE VIEW IF NOT EXISTS project_stats_named AS
SELECT ps.rowid AS seq, ps.*, cc.city_name
FROM project_stats ps
LEFT JOIN city_codes cc
	ON cc.report_id = ps.report_id AND cc.city_code = ps.city_code;
`

	_, err := db.ExecContext(ctx, schema)
	return err
}

// ReplaceReport deletes any prior report matching the bundle's identity and
// inserts the new report with all of its section rows, in one transaction.
// Re-running ingestion on a corrected document replaces, never duplicates.
func (s *sqliteStore) ReplaceReport(ctx context.Context, b store.Bundle) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if err := deleteByIdentity(ctx, tx, b.Identity); err != nil {
		return 0, err
	}

	created := b.Report.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}

	var reportID int64
	err = tx.QueryRowContext(ctx, `
INSERT INTO reports (filename, report_week_ending, report_week_num, region, ingest_id, created_at)
VALUES (?, ?, ?, ?, ?, ?)
RETURNING id;
`,
		b.Report.Filename,
		b.Report.WeekEnding,
		b.Report.WeekNum,
		b.Report.Region,
		b.Report.IngestID,
		created.Format(time.RFC3339),
	).Scan(&reportID)
	if err != nil {
		return 0, err
	}

	if err := insertCountySummaries(ctx, tx, reportID, b.CountySummaries); err != nil {
		return 0, err
	}
	if err := insertWeeklyMetrics(ctx, tx, reportID, b.WeeklyMetrics); err != nil {
		return 0, err
	}
	if err := insertYearlyComparisons(ctx, tx, reportID, b.YearlyComparisons); err != nil {
		return 0, err
	}
	if err := insertProjectStats(ctx, tx, reportID, b.ProjectStats); err != nil {
		return 0, err
	}
	if err := insertProjectTotals(ctx, tx, reportID, b.ProjectTotals); err != nil {
		return 0, err
	}
	if err := insertMLSSurveys(ctx, tx, reportID, b.MLSSurveys); err != nil {
		return 0, err
	}
	if err := insertCityCodes(ctx, tx, reportID, b.CityCodes); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return reportID, nil
}

// deleteByIdentity removes any live report matching the identity; the
// schema cascades the children.
func deleteByIdentity(ctx context.Context, tx *sql.Tx, id store.Identity) error {
	if id.ByContent() {
		_, err := tx.ExecContext(ctx,
			`DELETE FROM reports WHERE report_week_ending = ? AND region = ?`,
			id.WeekEnding, id.Region)
		return err
	}
	_, err := tx.ExecContext(ctx, `DELETE FROM reports WHERE filename = ?`, id.Filename)
	return err
}

func insertCountySummaries(ctx context.Context, tx *sql.Tx, reportID int64, rows []store.CountySummary) error {
	if len(rows) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO county_summary (
	report_id, county_group, projects, traffic, sales, cancels, net_sales,
	avg_sales, ytd_avg, ytd_diff, prev13_avg, prev13_diff
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx, reportID,
			r.CountyGroup, r.Projects, r.Traffic, r.Sales, r.Cancels, r.NetSales,
			r.AvgSales, r.YTDAvg, r.YTDDiff, r.Prev13Avg, r.Prev13Diff,
		); err != nil {
			return err
		}
	}
	return nil
}

func insertWeeklyMetrics(ctx context.Context, tx *sql.Tx, reportID int64, rows []store.WeeklyMetric) error {
	if len(rows) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO weekly_metrics (
	report_id, label, as_of_date, traffic_to_sales,
	projects, traffic, sales, cancels, net_sales, avg_sales, ytd_avg, prev13_avg,
	projects_diff, traffic_diff, sales_diff, cancels_diff, net_sales_diff,
	avg_sales_diff, ytd_diff, prev13_diff
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx, reportID,
			r.Label, r.AsOfDate, r.TrafficToSales,
			r.Projects, r.Traffic, r.Sales, r.Cancels, r.NetSales,
			r.AvgSales, r.YTDAvg, r.Prev13Avg,
			r.ProjectsDiff, r.TrafficDiff, r.SalesDiff, r.CancelsDiff,
			r.NetSalesDiff, r.AvgSalesDiff, r.YTDDiff, r.Prev13Diff,
		); err != nil {
			return err
		}
	}
	return nil
}

func insertYearlyComparisons(ctx context.Context, tx *sql.Tx, reportID int64, rows []store.YearlyComparison) error {
	if len(rows) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO yearly_comparison (
	report_id, year, avg_weekly_projects, avg_weekly_traffic, avg_weekly_sales,
	avg_weekly_cancels, avg_project_sales, year_end_avg_proj_sales
) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx, reportID,
			r.Year, r.AvgWeeklyProjects, r.AvgWeeklyTraffic, r.AvgWeeklySales,
			r.AvgWeeklyCancels, r.AvgProjectSales, r.YearEndAvgProjSales,
		); err != nil {
			return err
		}
	}
	return nil
}

func insertProjectStats(ctx context.Context, tx *sql.Tx, reportID int64, rows []store.ProjectStat) error {
	if len(rows) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO project_stats (
	report_id, county_group, projects_participating, development_name, developer,
	city_code, notes, product_type, units, new_release, released_remaining, traffic,
	wk_sales, wk_cancels, sold_to_date, sold_ytd, avg_sales_week, avg_sales_ytd
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx, reportID,
			r.CountyGroup, r.ProjectsParticipating, r.DevelopmentName, r.Developer,
			r.CityCode, r.Notes, r.ProductType, r.Units, r.NewRelease,
			r.ReleasedRemaining, r.Traffic, r.WkSales, r.WkCancels,
			r.SoldToDate, r.SoldYTD, r.AvgSalesWeek, r.AvgSalesYTD,
		); err != nil {
			return err
		}
	}
	return nil
}

func insertProjectTotals(ctx context.Context, tx *sql.Tx, reportID int64, rows []store.ProjectTotal) error {
	if len(rows) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO project_totals (
	report_id, county_group, no_reporting, avg_sales, traffic_to_sales, net_sales
) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx, reportID,
			r.CountyGroup, r.NoReporting, r.AvgSales, r.TrafficToSales, r.NetSales,
		); err != nil {
			return err
		}
	}
	return nil
}

func insertMLSSurveys(ctx context.Context, tx *sql.Tx, reportID int64, rows []store.MLSSurvey) error {
	if len(rows) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO mls_survey (
	report_id, market_name, month, active, active_dom, pending, pending_dom, closed, avg_price
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx, reportID,
			r.MarketName, r.Month, r.Active, r.ActiveDOM, r.Pending,
			r.PendingDOM, r.Closed, r.AvgPrice,
		); err != nil {
			return err
		}
	}
	return nil
}

func insertCityCodes(ctx context.Context, tx *sql.Tx, reportID int64, rows []store.CityCode) error {
	if len(rows) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `
INSERT OR IGNORE INTO city_codes (report_id, city_code, city_name) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, r := range rows {
		if r.Code == "" || r.Name == "" {
			continue
		}
		if _, err := stmt.ExecContext(ctx, reportID, r.Code, r.Name); err != nil {
			return err
		}
	}
	return nil
}

// GetReportByIdentity retrieves the live report for an identity.
func (s *sqliteStore) GetReportByIdentity(ctx context.Context, id store.Identity) (store.Report, bool, error) {
	var (
		query string
		args  []interface{}
	)
	if id.ByContent() {
		query = `SELECT id, filename, report_week_ending, report_week_num, region, ingest_id, created_at
FROM reports WHERE report_week_ending = ? AND region = ? ORDER BY id DESC LIMIT 1`
		args = []interface{}{id.WeekEnding, id.Region}
	} else {
		query = `SELECT id, filename, report_week_ending, report_week_num, region, ingest_id, created_at
FROM reports WHERE filename = ? ORDER BY id DESC LIMIT 1`
		args = []interface{}{id.Filename}
	}

	report, err := scanReport(s.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return store.Report{}, false, nil
	}
	if err != nil {
		return store.Report{}, false, err
	}
	return report, true, nil
}

// ListReports returns the most recent reports, newest first.
func (s *sqliteStore) ListReports(ctx context.Context, limit int) ([]store.Report, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT id, filename, report_week_ending, report_week_num, region, ingest_id, created_at
FROM reports ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []store.Report
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}
	return reports, rows.Err()
}

// TableCounts reports per-table row counts for one report.
func (s *sqliteStore) TableCounts(ctx context.Context, reportID int64) (store.Counts, error) {
	var counts store.Counts
	for _, q := range []struct {
		table string
		dst   *int
	}{
		{"county_summary", &counts.CountySummaries},
		{"weekly_metrics", &counts.WeeklyMetrics},
		{"yearly_comparison", &counts.YearlyComparisons},
		{"project_stats", &counts.ProjectStats},
		{"project_totals", &counts.ProjectTotals},
		{"mls_survey", &counts.MLSSurveys},
		{"city_codes", &counts.CityCodes},
	} {
		err := s.db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM `+q.table+` WHERE report_id = ?`, reportID,
		).Scan(q.dst)
		if err != nil {
			return store.Counts{}, err
		}
	}
	return counts, nil
}

// ProjectStatsResolved reads project rows through the join view, so an
// unknown city code surfaces a null city name rather than a failure.
func (s *sqliteStore) ProjectStatsResolved(ctx context.Context, reportID int64) ([]store.ResolvedProjectStat, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT county_group, projects_participating, development_name, developer,
	city_code, notes, product_type, units, new_release, released_remaining,
	traffic, wk_sales, wk_cancels, sold_to_date, sold_ytd,
	avg_sales_week, avg_sales_ytd, city_name
FROM project_stats_named
WHERE report_id = ?
ORDER BY seq`, reportID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []store.ResolvedProjectStat
	for rows.Next() {
		var r store.ResolvedProjectStat
		if err := rows.Scan(
			&r.CountyGroup, &r.ProjectsParticipating, &r.DevelopmentName, &r.Developer,
			&r.CityCode, &r.Notes, &r.ProductType, &r.Units, &r.NewRelease,
			&r.ReleasedRemaining, &r.Traffic, &r.WkSales, &r.WkCancels,
			&r.SoldToDate, &r.SoldYTD, &r.AvgSalesWeek, &r.AvgSalesYTD, &r.CityName,
		); err != nil {
			return nil, err
		}
		stats = append(stats, r)
	}
	return stats, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanReport(row rowScanner) (store.Report, error) {
	var (
		report  store.Report
		created string
	)
	err := row.Scan(&report.ID, &report.Filename, &report.WeekEnding,
		&report.WeekNum, &report.Region, &report.IngestID, &created)
	if err != nil {
		return store.Report{}, err
	}
	if parsed, perr := time.Parse(time.RFC3339, created); perr == nil {
		report.CreatedAt = parsed
	}
	return report, nil
}
