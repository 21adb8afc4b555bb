package main

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/oklog/ulid/v2"
	"github.com/urfave/cli/v2"

	"github.com/marketpulse/salescope/internal/batch"
	"github.com/marketpulse/salescope/internal/pdftext"
	"github.com/marketpulse/salescope/pkg/salescope"
	"github.com/marketpulse/salescope/pkg/salescope/config"
	"github.com/marketpulse/salescope/pkg/salescope/source"
	"github.com/marketpulse/salescope/pkg/salescope/store"
	"github.com/marketpulse/salescope/pkg/salescope/store/sqlite"
)

func main() {
	app := &cli.App{
		Name:  "salescope",
		Usage: "ingest weekly market sales reports into SQLite",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "db", Usage: "database path (overrides config)"},
			&cli.StringFlag{Name: "config", Usage: "path to YAML config file"},
			&cli.BoolFlag{Name: "quiet", Usage: "only log errors"},
		},
		Commands: []*cli.Command{
			{
				Name:      "ingest",
				Usage:     "ingest a single report file (.pdf or .txt)",
				ArgsUsage: "<file>",
				Action:    ingestAction,
			},
			{
				Name:      "batch",
				Usage:     "ingest every report in a directory",
				ArgsUsage: "<dir>",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "workers", Usage: "concurrent files (overrides config)"},
				},
				Action: batchAction,
			},
			{
				Name:   "inspect",
				Usage:  "show table counts for the most recent reports",
				Action: inspectAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger(c *cli.Context) *slog.Logger {
	level := slog.LevelInfo
	if c.Bool("quiet") {
		level = slog.LevelError
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func loadConfig(c *cli.Context) (config.Config, error) {
	cfg := config.Default()
	if path := c.String("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}
	if db := c.String("db"); db != "" {
		cfg.DB = db
	}
	return cfg, nil
}

func openStore(ctx context.Context, cfg config.Config) (store.Store, error) {
	return sqlite.Open(ctx, cfg.DB)
}

func ingestAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("usage: salescope ingest <file>", 2)
	}
	path := c.Args().First()
	log := newLogger(c)

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	ctx := c.Context
	st, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	lines, err := readDocument(path)
	if err != nil {
		return err
	}

	eng := salescope.New(salescope.Options{
		Store:          st,
		IdentityPolicy: cfg.Policy(),
		IngestID:       ulid.MustNew(ulid.Now(), ulid.Monotonic(rand.Reader, 0)).String(),
		Logger:         log,
	})

	sum, err := eng.Ingest(ctx, path, lines)
	if err != nil {
		return err
	}

	fmt.Printf("report %d  week_ending=%s region=%s warnings=%d\n",
		sum.ReportID, orDash(sum.Identity.WeekEnding), orDash(sum.Identity.Region), len(sum.Warnings))
	return nil
}

func readDocument(path string) ([]source.Line, error) {
	if strings.EqualFold(filepath.Ext(path), ".txt") {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return source.FromReader(f)
	}
	return pdftext.ExtractLines(path)
}

func batchAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("usage: salescope batch <dir>", 2)
	}
	dir := c.Args().First()
	log := newLogger(c)

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	workers := cfg.Workers
	if c.IsSet("workers") {
		workers = c.Int("workers")
	}

	ctx := c.Context
	st, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	runner := batch.New(batch.Options{
		Store:          st,
		IdentityPolicy: cfg.Policy(),
		Workers:        workers,
		Timeout:        cfg.IngestTimeout.Std(),
		Logger:         log,
	})

	results, err := runner.Run(ctx, dir)
	if err != nil {
		return err
	}

	for _, res := range results {
		if res.Err != nil {
			fmt.Printf("%-30s %s  %v\n", res.Path, res.Status, res.Err)
			continue
		}
		fmt.Printf("%-30s %s  report=%d warnings=%d\n", res.Path, res.Status, res.ReportID, res.Warnings)
	}

	if failed := batch.Failed(results); failed > 0 {
		return cli.Exit(fmt.Sprintf("%d of %d files failed", failed, len(results)), 1)
	}
	return nil
}

func inspectAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	ctx := c.Context
	st, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	reports, err := st.ListReports(ctx, 20)
	if err != nil {
		return err
	}
	if len(reports) == 0 {
		fmt.Println("no reports ingested yet")
		return nil
	}

	fmt.Printf("%-4s %-30s %-12s %-12s %s\n", "id", "file", "week_ending", "region", "rows")
	for _, r := range reports {
		counts, err := st.TableCounts(ctx, r.ID)
		if err != nil {
			return err
		}
		total := counts.CountySummaries + counts.WeeklyMetrics + counts.YearlyComparisons +
			counts.ProjectStats + counts.ProjectTotals + counts.MLSSurveys + counts.CityCodes
		fmt.Printf("%-4d %-30s %-12s %-12s %d\n",
			r.ID, r.Filename, orDash(r.WeekEnding.String), orDash(r.Region.String), total)
	}
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
