// Package store defines the persistence contract for ingested weekly
// reports. A report row owns all of its section rows by foreign key; no
// child row is meaningful without its parent.
package store

import (
	"context"
	"database/sql"
	"time"
)

// IdentityPolicy decides which key supersedes an existing report.
type IdentityPolicy string

const (
	// PolicyContent prefers (week ending, region) parsed from the document,
	// falling back to filename when either is missing.
	PolicyContent IdentityPolicy = "content"
	// PolicyFilename always keys re-ingestion by filename.
	PolicyFilename IdentityPolicy = "filename"
)

// Identity is the key deciding whether a new ingestion supersedes a
// previously persisted report.
type Identity struct {
	Filename   string
	WeekEnding string // ISO date, empty when undetected
	Region     string
	Policy     IdentityPolicy
}

// ByContent reports whether this identity resolves by document content
// rather than filename.
func (id Identity) ByContent() bool {
	return id.Policy != PolicyFilename && id.WeekEnding != "" && id.Region != ""
}

// Store is the interface for persisting and querying report data.
type Store interface {
	Close() error

	// ReplaceReport atomically deletes any prior report matching the
	// bundle's identity (children cascade) and inserts the new report row
	// plus all section rows. Either everything commits or nothing does.
	ReplaceReport(ctx context.Context, b Bundle) (int64, error)

	GetReportByIdentity(ctx context.Context, id Identity) (Report, bool, error)
	ListReports(ctx context.Context, limit int) ([]Report, error)
	TableCounts(ctx context.Context, reportID int64) (Counts, error)

	// ProjectStatsResolved reads project rows with city codes joined to the
	// same report's legend; unknown codes surface a null city name.
	ProjectStatsResolved(ctx context.Context, reportID int64) ([]ResolvedProjectStat, error)
}

// Bundle holds one report and every section record parsed from it.
type Bundle struct {
	Identity Identity
	Report   Report

	CountySummaries   []CountySummary
	WeeklyMetrics     []WeeklyMetric
	YearlyComparisons []YearlyComparison
	ProjectStats      []ProjectStat
	ProjectTotals     []ProjectTotal
	MLSSurveys        []MLSSurvey
	CityCodes         []CityCode
}

// Report is the parent row for one ingested document.
type Report struct {
	ID         int64
	Filename   string
	WeekEnding sql.NullString // ISO date
	WeekNum    sql.NullInt64
	Region     sql.NullString
	IngestID   string // ULID of the ingestion run that wrote this row
	CreatedAt  time.Time
}

// CountySummary is one county group's weekly roll-up.
type CountySummary struct {
	CountyGroup string
	Projects    sql.NullInt64
	Traffic     sql.NullInt64
	Sales       sql.NullInt64
	Cancels     sql.NullInt64
	NetSales    sql.NullInt64
	AvgSales    sql.NullFloat64
	YTDAvg      sql.NullFloat64
	YTDDiff     string // signed display text like "+3.2%", or ""
	Prev13Avg   sql.NullFloat64
	Prev13Diff  string
}

// WeeklyMetric is one labeled row of the region-wide trend table:
// current week totals, year-ago, per-project average, or percent change.
type WeeklyMetric struct {
	Label          string
	AsOfDate       sql.NullString
	TrafficToSales string
	Projects       sql.NullFloat64
	Traffic        sql.NullFloat64
	Sales          sql.NullFloat64
	Cancels        sql.NullFloat64
	NetSales       sql.NullFloat64
	AvgSales       sql.NullFloat64
	YTDAvg         sql.NullFloat64
	Prev13Avg      sql.NullFloat64

	// Delta text for the percent-change row; display values, kept verbatim.
	ProjectsDiff string
	TrafficDiff  string
	SalesDiff    string
	CancelsDiff  string
	NetSalesDiff string
	AvgSalesDiff string
	YTDDiff      string
	Prev13Diff   string
}

// YearlyComparison is one calendar year in the multi-year block.
type YearlyComparison struct {
	Year                int64
	AvgWeeklyProjects   sql.NullFloat64
	AvgWeeklyTraffic    sql.NullFloat64
	AvgWeeklySales      sql.NullFloat64
	AvgWeeklyCancels    sql.NullFloat64
	AvgProjectSales     sql.NullFloat64
	YearEndAvgProjSales sql.NullFloat64
}

// ProjectStat is one development line item.
type ProjectStat struct {
	CountyGroup           sql.NullString // inherited from document order
	ProjectsParticipating sql.NullInt64
	DevelopmentName       string
	Developer             string
	CityCode              string // raw code; resolution happens at read time
	Notes                 string
	ProductType           string
	Units                 sql.NullInt64
	NewRelease            sql.NullInt64
	ReleasedRemaining     sql.NullInt64
	Traffic               sql.NullInt64
	WkSales               sql.NullInt64
	WkCancels             sql.NullInt64
	SoldToDate            sql.NullInt64
	SoldYTD               sql.NullInt64
	AvgSalesWeek          sql.NullFloat64
	AvgSalesYTD           sql.NullFloat64
}

// ResolvedProjectStat is a ProjectStat with its city name joined from the
// same report's city-code legend.
type ResolvedProjectStat struct {
	ProjectStat
	CityName sql.NullString
}

// ProjectTotal is a county group's subtotal line.
type ProjectTotal struct {
	CountyGroup    sql.NullString
	NoReporting    sql.NullInt64
	AvgSales       sql.NullFloat64
	TrafficToSales string
	NetSales       sql.NullInt64
}

// MLSSurvey is one (market, month) row of MLS listing statistics.
type MLSSurvey struct {
	MarketName string
	Month      string // "Mon-YY"
	Active     sql.NullInt64
	ActiveDOM  sql.NullInt64
	Pending    sql.NullInt64
	PendingDOM sql.NullInt64
	Closed     sql.NullInt64
	AvgPrice   sql.NullInt64
}

// CityCode maps a short code to a city name, scoped per report because
// code meanings may shift between reports.
type CityCode struct {
	Code string
	Name string
}

// Counts reports per-table row counts for one report.
type Counts struct {
	CountySummaries   int
	WeeklyMetrics     int
	YearlyComparisons int
	ProjectStats      int
	ProjectTotals     int
	MLSSurveys        int
	CityCodes         int
}

// NullInt wraps a coercion result as a nullable integer.
func NullInt(v int64, ok bool) sql.NullInt64 {
	return sql.NullInt64{Int64: v, Valid: ok}
}

// NullFloat wraps a coercion result as a nullable real.
func NullFloat(v float64, ok bool) sql.NullFloat64 {
	return sql.NullFloat64{Float64: v, Valid: ok}
}

// NullStr treats the empty string as null.
func NullStr(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
