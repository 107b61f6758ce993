// Package backlog runs the report-to-issues pipeline: parse, enrich with
// source context, classify, number, and write the outputs.
package backlog

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/Andrei-Barwood/todo2issues/internal/classify"
	"github.com/Andrei-Barwood/todo2issues/internal/format"
	"github.com/Andrei-Barwood/todo2issues/internal/logging"
	"github.com/Andrei-Barwood/todo2issues/internal/model"
	"github.com/Andrei-Barwood/todo2issues/internal/naming"
	"github.com/Andrei-Barwood/todo2issues/internal/parser"
	"github.com/Andrei-Barwood/todo2issues/internal/report"
	"github.com/Andrei-Barwood/todo2issues/internal/source"
)

// ErrInputNotFound is returned by BuildFile when the report does not exist.
var ErrInputNotFound = errors.New("input report not found")

type Options struct {
	ProjectRoot string
	DocExt      string
	Fetcher     source.Fetcher
	Logger      *zap.SugaredLogger
}

type Builder struct {
	opts Options
	log  *zap.SugaredLogger
}

func New(opts Options) *Builder {
	if opts.ProjectRoot == "" {
		opts.ProjectRoot = "."
	}
	if opts.DocExt == "" {
		opts.DocExt = naming.DefaultExt
	}
	if opts.Fetcher == nil {
		opts.Fetcher = source.NewFileFetcher(opts.ProjectRoot)
	}
	if opts.Logger == nil {
		opts.Logger = logging.Nop()
	}
	return &Builder{opts: opts, log: opts.Logger}
}

// BuildFile runs Build over the report at path.
func (b *Builder) BuildFile(path string) (model.Result, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return model.Result{}, fmt.Errorf("%w: %s", ErrInputNotFound, path)
		}
		return model.Result{}, fmt.Errorf("open report: %w", err)
	}
	defer f.Close()

	return b.Build(report.NewTextReader(f)), nil
}

// Build parses r and returns classified findings numbered in input order.
// Nothing in the report aborts the run: if r fails mid-read, the findings
// parsed so far are kept and the failure is recorded in Notes.
func (b *Builder) Build(r io.Reader) model.Result {
	findings, skipped, readErr := parser.ParseReport(r)
	if readErr != nil {
		b.log.Errorw("report read stopped early", "findings", len(findings), "error", readErr)
	}
	b.log.Debugw("parsed report", "findings", len(findings), "skipped", skipped)

	result := model.Result{Skipped: skipped}
	for i := range findings {
		f := &findings[i]
		f.Context = b.opts.Fetcher.Fetch(f.FilePath, f.Line)
		if f.Context.Status == model.SnippetReadFailed {
			b.log.Debugw("source context unavailable", "file", f.FilePath, "error", f.Context.Err)
		}
		classify.Apply(f)
	}
	naming.Assign(findings, b.opts.DocExt)

	if n := countStatus(findings, model.SnippetNotFound); n > 0 {
		result.Notes = append(result.Notes, fmt.Sprintf("%d referenced source file(s) not found under %s", n, b.opts.ProjectRoot))
	}
	if n := countStatus(findings, model.SnippetReadFailed); n > 0 {
		result.Notes = append(result.Notes, fmt.Sprintf("%d referenced source file(s) could not be read", n))
	}
	if skipped > 0 {
		result.Notes = append(result.Notes, fmt.Sprintf("%d unparsable report line(s) ignored", skipped))
	}
	if readErr != nil {
		result.Notes = append(result.Notes, fmt.Sprintf("report truncated after %d finding(s): %v", len(findings), readErr))
	}

	result.Findings = findings
	return result
}

// WriteOptions names every output location. Tickets go directly under
// OutputDir; the CSV, index and JSON paths are usually inside it too.
type WriteOptions struct {
	OutputDir string
	CSVPath   string
	IndexPath string
	JSONPath  string // empty disables the JSON export
	DocExt    string
	BOM       bool
}

// Write renders every output for result. Each file is attempted even if an
// earlier one failed; failures are logged and returned in the outcomes.
func (b *Builder) Write(result model.Result, opts WriteOptions) []report.WriteOutcome {
	outcomes := make([]report.WriteOutcome, 0, len(result.Findings)+3)
	record := func(path string, err error) {
		if err != nil {
			b.log.Errorw("failed to write output", "path", path, "error", err)
		} else {
			b.log.Debugw("wrote output", "path", path)
		}
		outcomes = append(outcomes, report.WriteOutcome{Path: path, Err: err})
	}

	record(opts.CSVPath, report.SaveWith(opts.CSVPath, func(w io.Writer) error {
		return format.WriteCSV(w, result.Findings, format.CSVOptions{BOM: opts.BOM})
	}))

	for _, f := range result.Findings {
		path := filepath.Join(opts.OutputDir, f.FileName)
		record(path, report.Save(path, format.Document(f)))
	}

	index := format.Index(opts.OutputDir, filepath.Base(opts.CSVPath), opts.DocExt)
	record(opts.IndexPath, report.Save(opts.IndexPath, index))

	if opts.JSONPath != "" {
		data, err := format.JSON(result)
		if err == nil {
			err = report.Save(opts.JSONPath, data)
		}
		record(opts.JSONPath, err)
	}

	return outcomes
}

// Failed returns the outcomes that carry an error.
func Failed(outcomes []report.WriteOutcome) []report.WriteOutcome {
	var out []report.WriteOutcome
	for _, o := range outcomes {
		if !o.OK() {
			out = append(out, o)
		}
	}
	return out
}

func countStatus(findings []model.Finding, status model.SnippetStatus) int {
	n := 0
	for _, f := range findings {
		if f.Context.Status == status {
			n++
		}
	}
	return n
}
