// Package salescope assembles the ingestion pipeline for weekly sales
// reports: segmentation, section parsing, and idempotent persistence.
package salescope

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/marketpulse/salescope/pkg/salescope/citycode"
	"github.com/marketpulse/salescope/pkg/salescope/coerce"
	"github.com/marketpulse/salescope/pkg/salescope/internalerr"
	"github.com/marketpulse/salescope/pkg/salescope/parse"
	"github.com/marketpulse/salescope/pkg/salescope/segment"
	"github.com/marketpulse/salescope/pkg/salescope/source"
	"github.com/marketpulse/salescope/pkg/salescope/store"
)

// Engine is the ingestion facade.
type Engine struct {
	store    store.Store
	policy   store.IdentityPolicy
	ingestID string
	log      *slog.Logger
}

// Options configures an Engine.
type Options struct {
	Store          store.Store
	IdentityPolicy store.IdentityPolicy

	// IngestID tags every report this engine writes with the run that
	// produced it, typically a ULID minted once per invocation.
	IngestID string

	Logger *slog.Logger
}

// New creates an Engine with the given dependencies.
func New(opts Options) *Engine {
	policy := opts.IdentityPolicy
	if policy == "" {
		policy = store.PolicyContent
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Engine{store: opts.Store, policy: policy, ingestID: opts.IngestID, log: log}
}

// Close cleanly shuts down the engine.
func (e *Engine) Close() error {
	return e.store.Close()
}

// Summary reports what one ingestion run produced.
type Summary struct {
	ReportID int64
	Identity store.Identity
	Counts   store.Counts
	Warnings []parse.Warning
}

// Ingest parses one document's lines and replaces its report in the store.
// Malformed rows inside sections degrade to warnings; the only fatal parse
// condition is a document with no header block at all.
func (e *Engine) Ingest(ctx context.Context, filename string, lines []source.Line) (Summary, error) {
	if len(lines) == 0 {
		return Summary{}, fmt.Errorf("%s: %w", filename, internalerr.ErrEmptyDocument)
	}

	runs := segment.Segment(lines)

	c := coerce.New()
	pctx := parse.NewContext(filename)

	var (
		bundle   store.Bundle
		warnings []parse.Warning
		seenHead bool
	)

	for _, run := range runs {
		if err := ctx.Err(); err != nil {
			return Summary{}, err
		}

		switch run.Kind {
		case segment.KindHeader:
			if !seenHead {
				pctx.SetMeta(parse.ParseHeader(run.Lines, c))
				seenHead = true
			}
		case segment.KindCountySummary:
			rows, warns := parse.ParseCountySummary(run.Lines, c)
			bundle.CountySummaries = append(bundle.CountySummaries, rows...)
			warnings = append(warnings, warns...)
		case segment.KindWeeklyMetrics:
			rows, warns := parse.ParseWeeklyMetrics(run.Lines, c)
			bundle.WeeklyMetrics = append(bundle.WeeklyMetrics, rows...)
			warnings = append(warnings, warns...)
		case segment.KindYearlyComparison:
			rows, warns := parse.ParseYearlyComparison(run.Lines, c)
			bundle.YearlyComparisons = append(bundle.YearlyComparisons, rows...)
			warnings = append(warnings, warns...)
		case segment.KindProjectStats:
			rows, warns := parse.ParseProjectStats(run.Lines, pctx, c)
			bundle.ProjectStats = append(bundle.ProjectStats, rows...)
			warnings = append(warnings, warns...)
		case segment.KindProjectTotals:
			rows, warns := parse.ParseProjectTotals(run.Lines, pctx, c)
			bundle.ProjectTotals = append(bundle.ProjectTotals, rows...)
			warnings = append(warnings, warns...)
		case segment.KindMLSSurvey:
			rows, warns := parse.ParseMLSSurvey(run.Lines, c)
			bundle.MLSSurveys = append(bundle.MLSSurveys, rows...)
			warnings = append(warnings, warns...)
		case segment.KindCityCodes:
			rows, warns := parse.ParseCityCodes(run.Lines, c)
			bundle.CityCodes = append(bundle.CityCodes, rows...)
			warnings = append(warnings, warns...)
		}
	}

	if !seenHead {
		return Summary{}, fmt.Errorf("%s: %w", filename, internalerr.ErrNoHeader)
	}

	// Legend cross-check: codes the join view cannot resolve degrade to
	// warnings here rather than null surprises at query time.
	if resolver := citycode.NewResolver(bundle.CityCodes); resolver.Len() > 0 {
		for _, ps := range bundle.ProjectStats {
			if ps.CityCode == "" {
				continue
			}
			if _, ok := resolver.Resolve(ps.CityCode); !ok {
				warnings = append(warnings, parse.Warning{
					Section: "project_stats",
					Reason:  fmt.Sprintf("city code %q for %q is not in the legend", ps.CityCode, ps.DevelopmentName),
				})
			}
		}
	}

	meta, _ := pctx.Meta()
	bundle.Report = reportRow(meta)
	bundle.Report.IngestID = e.ingestID
	bundle.Identity = store.Identity{
		Filename:   filename,
		WeekEnding: bundle.Report.WeekEnding.String,
		Region:     meta.Region,
		Policy:     e.policy,
	}

	for _, w := range warnings {
		e.log.Warn("degraded row", "file", filename, "section", w.Section,
			"page", w.Page, "line", w.Line, "reason", w.Reason)
	}

	id, err := e.store.ReplaceReport(ctx, bundle)
	if err != nil {
		return Summary{}, fmt.Errorf("persist %s: %w", filename, err)
	}

	counts, err := e.store.TableCounts(ctx, id)
	if err != nil {
		return Summary{}, fmt.Errorf("counts for %s: %w", filename, err)
	}

	e.log.Info("ingested report",
		"file", filename,
		"report_id", id,
		"week_ending", bundle.Report.WeekEnding.String,
		"region", meta.Region,
		"warnings", len(warnings))

	return Summary{
		ReportID: id,
		Identity: bundle.Identity,
		Counts:   counts,
		Warnings: warnings,
	}, nil
}

func reportRow(meta parse.ReportMeta) store.Report {
	r := store.Report{
		Filename: meta.Filename,
		WeekNum:  meta.WeekNum,
		Region:   store.NullStr(meta.Region),
	}
	if meta.HasWeekEnd {
		r.WeekEnding = store.NullStr(meta.WeekEnding.Format("2006-01-02"))
	}
	return r
}
