package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/nao1215/wikinovels/internal/config"
	"github.com/nao1215/wikinovels/internal/model"
	"github.com/nao1215/wikinovels/internal/wikipedia"
)

// progressEvery is how many records are fetched between progress marks.
const progressEvery = 10

// CategorySearcher lists the pages of a category.
// *wikipedia.Client implements it.
type CategorySearcher interface {
	PagesInCategory(ctx context.Context, category string, limit int, deep bool) (wikipedia.Result, error)
}

// RecordExtractor builds the record for a page title.
// *extract.Extractor implements it.
type RecordExtractor interface {
	Extract(ctx context.Context, title string) (model.Record, error)
}

// RunRecorder stores a summary of a finished run.
// *cache.EntityDB implements it.
type RunRecorder interface {
	RecordRun(ctx context.Context, run *model.Run, elapsed time.Duration) error
}

// EnumerateStep fills the run's candidates from the category search.
type EnumerateStep struct {
	// searcher performs the category search.
	searcher CategorySearcher

	// ignorePatterns are glob patterns of titles to drop.
	ignorePatterns []string

	// logger for structured logging.
	logger *slog.Logger
}

// EnumerateStepOption configures an EnumerateStep.
type EnumerateStepOption func(*EnumerateStep)

// WithIgnorePatterns drops candidates whose title matches any glob pattern
// (e.g. "List of *").
func WithIgnorePatterns(patterns []string) EnumerateStepOption {
	return func(s *EnumerateStep) {
		s.ignorePatterns = patterns
	}
}

// WithEnumerateLogger sets a custom logger for the enumerate step.
func WithEnumerateLogger(logger *slog.Logger) EnumerateStepOption {
	return func(s *EnumerateStep) {
		s.logger = logger
	}
}

// NewEnumerateStep creates a new enumerate step.
func NewEnumerateStep(searcher CategorySearcher, opts ...EnumerateStepOption) *EnumerateStep {
	s := &EnumerateStep{
		searcher: searcher,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *EnumerateStep) Name() string {
	return "enumerate"
}

// Do executes the enumerate step.
func (s *EnumerateStep) Do(ctx context.Context, run *model.Run) error {
	result, err := s.searcher.PagesInCategory(ctx, run.Category, run.Limit, run.Deep)
	if err != nil {
		return fmt.Errorf("failed to list pages in category %q: %w", run.Category, err)
	}

	run.Truncated = result.Truncated
	if result.Truncated {
		s.logger.Warn("reached candidate limit, category may hold more pages",
			"category", run.Category,
			"limit", run.Limit,
		)
	}

	seen := make(map[string]bool, len(result.Titles))
	for _, title := range result.Titles {
		if seen[title] {
			s.logger.Debug("duplicate candidate", "title", title)
			continue
		}
		seen[title] = true

		if s.ignored(title) {
			run.Skipped = append(run.Skipped, title)
			continue
		}
		run.Candidates = append(run.Candidates, title)
	}

	s.logger.Info("enumerated candidates",
		"category", run.Category,
		"candidates", len(run.Candidates),
		"skipped", len(run.Skipped),
	)
	return nil
}

// ignored reports whether title matches an ignore pattern.
// Patterns are validated when the configuration is loaded.
func (s *EnumerateStep) ignored(title string) bool {
	for _, pattern := range s.ignorePatterns {
		if ok, _ := doublestar.Match(pattern, title); ok { //nolint:errcheck // invalid patterns never match
			return true
		}
	}
	return false
}

// FetchStep extracts one record per candidate, in candidate order.
type FetchStep struct {
	// extractor builds the records.
	extractor RecordExtractor

	// progress receives a "N... " mark every progressEvery records.
	progress io.Writer

	// logger for structured logging.
	logger *slog.Logger
}

// FetchStepOption configures a FetchStep.
type FetchStepOption func(*FetchStep)

// WithProgress sets the writer that receives progress marks.
func WithProgress(w io.Writer) FetchStepOption {
	return func(s *FetchStep) {
		s.progress = w
	}
}

// WithFetchLogger sets a custom logger for the fetch step.
func WithFetchLogger(logger *slog.Logger) FetchStepOption {
	return func(s *FetchStep) {
		s.logger = logger
	}
}

// NewFetchStep creates a new fetch step.
func NewFetchStep(extractor RecordExtractor, opts ...FetchStepOption) *FetchStep {
	s := &FetchStep{
		extractor: extractor,
		progress:  io.Discard,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *FetchStep) Name() string {
	return "fetch"
}

// Do executes the fetch step. The first candidate that fails aborts the run.
func (s *FetchStep) Do(ctx context.Context, run *model.Run) error {
	for _, title := range run.Candidates {
		if err := ctx.Err(); err != nil {
			return err
		}

		rec, err := s.extractor.Extract(ctx, title)
		if err != nil {
			s.logger.Error("issue getting data for page", "title", title, "error", err)
			return fmt.Errorf("issue getting data for page %q: %w", title, err)
		}
		run.Records = append(run.Records, rec)

		if len(run.Records)%progressEvery == 0 {
			fmt.Fprintf(s.progress, "%d... ", len(run.Records))
		}
	}
	return nil
}

// SortStep orders the records by publication year, absent years first.
type SortStep struct{}

// NewSortStep creates a new sort step.
func NewSortStep() *SortStep {
	return &SortStep{}
}

// Name returns the step name.
func (s *SortStep) Name() string {
	return "sort"
}

// Do executes the sort step.
func (s *SortStep) Do(_ context.Context, run *model.Run) error {
	model.SortByPublicationYear(run.Records)
	return nil
}

// PersistStep writes the records as the JSON snapshot.
type PersistStep struct {
	// path is the snapshot file.
	path string
}

// NewPersistStep creates a new persist step writing to path.
func NewPersistStep(path string) *PersistStep {
	return &PersistStep{path: path}
}

// Name returns the step name.
func (s *PersistStep) Name() string {
	return "persist"
}

// Do executes the persist step.
func (s *PersistStep) Do(_ context.Context, run *model.Run) error {
	if err := model.SaveSnapshotFile(s.path, run.Records); err != nil {
		return err
	}
	run.SnapshotPath = s.path
	return nil
}

// RecordRunStep stores the run summary, e.g. in the entity cache.
type RecordRunStep struct {
	// recorder stores the summary.
	recorder RunRecorder

	// logger for structured logging.
	logger *slog.Logger
}

// NewRecordRunStep creates a new record-run step.
func NewRecordRunStep(recorder RunRecorder, logger *slog.Logger) *RecordRunStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &RecordRunStep{recorder: recorder, logger: logger}
}

// Name returns the step name.
func (s *RecordRunStep) Name() string {
	return "record_run"
}

// Do executes the record-run step. The snapshot is already written, so a
// failure here is logged and does not fail the run.
func (s *RecordRunStep) Do(ctx context.Context, run *model.Run) error {
	if err := s.recorder.RecordRun(ctx, run, run.Elapsed()); err != nil {
		s.logger.Warn("failed to record run", "run", run.ID, "error", err)
	}
	return nil
}

// CollectorConfig holds configuration for the collector pipeline.
type CollectorConfig struct {
	// SnapshotPath is where the records are written.
	SnapshotPath string

	// IgnorePatterns are glob patterns of candidate titles to drop.
	IgnorePatterns []string

	// Progress receives progress marks while fetching.
	Progress io.Writer

	// Recorder, if set, stores a summary of each finished run.
	Recorder RunRecorder
}

// CollectorOption configures a CollectorConfig.
type CollectorOption func(*CollectorConfig)

// WithSnapshotPath sets the snapshot file.
func WithSnapshotPath(path string) CollectorOption {
	return func(c *CollectorConfig) {
		c.SnapshotPath = path
	}
}

// WithCollectorIgnorePatterns sets candidate title patterns to skip.
func WithCollectorIgnorePatterns(patterns []string) CollectorOption {
	return func(c *CollectorConfig) {
		c.IgnorePatterns = patterns
	}
}

// WithCollectorProgress sets the progress writer.
func WithCollectorProgress(w io.Writer) CollectorOption {
	return func(c *CollectorConfig) {
		c.Progress = w
	}
}

// WithRunRecorder stores run summaries with recorder.
func WithRunRecorder(recorder RunRecorder) CollectorOption {
	return func(c *CollectorConfig) {
		c.Recorder = recorder
	}
}

// Collector creates the collector pipeline:
// enumerate, fetch, sort, persist and optionally record_run.
//
// The first variadic parameter accepts pipeline options (WithLogger, etc).
// The second accepts collector options (WithSnapshotPath, etc).
func Collector(searcher CategorySearcher, extractor RecordExtractor, pipelineOpts []Option, configOpts ...CollectorOption) *Pipeline {
	p := New(pipelineOpts...)

	cfg := &CollectorConfig{
		SnapshotPath: config.DefaultSnapshotFile,
		Progress:     io.Discard,
	}
	for _, opt := range configOpts {
		opt(cfg)
	}

	p.AddSteps(
		NewEnumerateStep(searcher,
			WithIgnorePatterns(cfg.IgnorePatterns),
			WithEnumerateLogger(p.logger),
		),
		NewFetchStep(extractor,
			WithProgress(cfg.Progress),
			WithFetchLogger(p.logger),
		),
		NewSortStep(),
		NewPersistStep(cfg.SnapshotPath),
	)
	if cfg.Recorder != nil {
		p.AddStep(NewRecordRunStep(cfg.Recorder, p.logger))
	}

	return p
}
