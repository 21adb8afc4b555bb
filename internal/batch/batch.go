// Package batch runs directory-wide ingestion with per-file isolation.
package batch

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/marketpulse/salescope/internal/pdftext"
	"github.com/marketpulse/salescope/pkg/salescope"
	"github.com/marketpulse/salescope/pkg/salescope/source"
	"github.com/marketpulse/salescope/pkg/salescope/store"
)

// Status is the per-file outcome of a batch run.
type Status string

const (
	StatusIngested     Status = "ingested"
	StatusWithWarnings Status = "ingested-with-warnings"
	StatusFailed       Status = "failed"
)

// Result is one file's outcome. A failed file never blocks its siblings.
type Result struct {
	Path     string
	Status   Status
	ReportID int64
	Warnings int
	Err      error
}

// Runner ingests every report document in a directory through a worker
// pool. All reports written by one run share an ingest ULID.
type Runner struct {
	engine   *salescope.Engine
	ingestID string
	workers  int
	timeout  time.Duration
	log      *slog.Logger
}

// Options configures a Runner.
type Options struct {
	Store          store.Store
	IdentityPolicy store.IdentityPolicy
	Workers        int
	// Timeout bounds each file's ingestion; zero means no per-file limit.
	Timeout time.Duration
	Logger  *slog.Logger
}

// New creates a Runner and mints the run's ingest ID.
func New(opts Options) *Runner {
	workers := opts.Workers
	if workers <= 0 {
		workers = 4
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	ingestID := ulid.MustNew(ulid.Now(), ulid.Monotonic(rand.Reader, 0)).String()

	return &Runner{
		engine: salescope.New(salescope.Options{
			Store:          opts.Store,
			IdentityPolicy: opts.IdentityPolicy,
			IngestID:       ingestID,
			Logger:         log,
		}),
		ingestID: ingestID,
		workers:  workers,
		timeout:  opts.Timeout,
		log:      log,
	}
}

// IngestID returns the ULID stamped on every report this run writes.
func (r *Runner) IngestID() string { return r.ingestID }

// Run ingests every .pdf and .txt file directly under dir. It returns one
// Result per file, sorted by path. Only an unreadable directory is fatal.
func (r *Runner) Run(ctx context.Context, dir string) ([]Result, error) {
	paths, err := scanDir(dir)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, nil
	}

	r.log.Info("starting batch run",
		"dir", dir, "files", len(paths), "workers", r.workers, "ingest_id", r.ingestID)

	var wg sync.WaitGroup
	jobs := make(chan string, len(paths))
	results := make(chan Result, len(paths))

	for w := 0; w < r.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				results <- r.ingestFile(ctx, path)
			}
		}()
	}

	for _, p := range paths {
		jobs <- p
	}
	close(jobs)
	wg.Wait()
	close(results)

	out := make([]Result, 0, len(paths))
	for res := range results {
		out = append(out, res)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

func (r *Runner) ingestFile(ctx context.Context, path string) Result {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	lines, err := readLines(path)
	if err != nil {
		r.log.Error("read failed", "file", path, "error", err)
		return Result{Path: path, Status: StatusFailed, Err: err}
	}

	sum, err := r.engine.Ingest(ctx, filepath.Base(path), lines)
	if err != nil {
		r.log.Error("ingest failed", "file", path, "error", err)
		return Result{Path: path, Status: StatusFailed, Err: err}
	}

	status := StatusIngested
	if len(sum.Warnings) > 0 {
		status = StatusWithWarnings
	}
	return Result{Path: path, Status: status, ReportID: sum.ReportID, Warnings: len(sum.Warnings)}
}

func readLines(path string) ([]source.Line, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return pdftext.ExtractLines(path)
	case ".txt":
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return source.FromReader(f)
	default:
		return nil, fmt.Errorf("unsupported file type: %s", path)
	}
}

func scanDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".pdf", ".txt":
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// Failed counts results that did not ingest.
func Failed(results []Result) int {
	n := 0
	for _, res := range results {
		if res.Status == StatusFailed {
			n++
		}
	}
	return n
}
