// Package pipeline runs the somatic STR extraction pipeline over a batch
// of paired tumor-normal VCF files and reduces the results into mutation
// count matrices.
package pipeline

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/inodb/strsig/internal/feature"
	"github.com/inodb/strsig/internal/matrix"
	"github.com/inodb/strsig/internal/somatic"
	"github.com/inodb/strsig/internal/vcf"
)

// ErrNoInput indicates a batch with zero input VCF files. A batch with
// files but zero somatic events is not an error.
var ErrNoInput = errors.New("no input VCF files found")

// Options configures a pipeline run.
type Options struct {
	// Configs maps an output name to a feature-key configuration; one
	// matrix is built per entry.
	Configs map[string]feature.Config
	// Workers is the worker pool size; 0 means runtime.NumCPU().
	Workers int
	// Strict fails the whole run on the first file-level error instead of
	// skipping the file and reporting it in the summary.
	Strict bool
	// KeepNonPass processes records whose FILTER is not PASS.
	KeepNonPass bool
	// CollectEvents retains every somatic event in the result, for event
	// sinks such as the DuckDB store or CSV export.
	CollectEvents bool
	Logger        *zap.Logger
}

// RecordError pairs a rejected record's context with the validation error.
type RecordError struct {
	Line  int
	Chrom string
	Pos   int64
	Err   error
}

// FileSummary reports what happened to a single input file.
type FileSummary struct {
	File             string
	Sample           string
	Records          int // data lines parsed
	Events           int // somatic events emitted
	SkippedFilter    int // FILTER != PASS
	SkippedImperfect int // INFO PERFECT=FALSE
	NonSomatic       int // valid records with zero tumor-normal change
	RecordErrors     []RecordError
	Err              error // file-level failure; nil if the file was processed
}

// SampleEvent attributes a somatic event to the tumor sample it was
// observed in.
type SampleEvent struct {
	Sample string
	Event  *somatic.Event
}

// Result is the outcome of a pipeline run.
type Result struct {
	// Matrices holds one built matrix per Options.Configs entry.
	Matrices map[string]*matrix.Matrix
	// Events is populated only when Options.CollectEvents is set, sorted
	// by sample, chromosome, and position.
	Events []SampleEvent
	// Files holds one summary per input file, sorted by file path.
	Files []FileSummary
}

// TotalEvents returns the number of somatic events across all files.
func (r *Result) TotalEvents() int {
	total := 0
	for _, f := range r.Files {
		total += f.Events
	}
	return total
}

// DiscoverInputs expands the given paths into a sorted list of VCF files.
// Directories contribute their *.vcf and *.vcf.gz entries; plain paths are
// used as-is. Returns ErrNoInput if nothing is found.
func DiscoverInputs(paths []string) ([]string, error) {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("stat input: %w", err)
		}
		if !info.IsDir() {
			files = append(files, path)
			continue
		}
		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, fmt.Errorf("read input directory: %w", err)
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			name := entry.Name()
			if strings.HasSuffix(name, ".vcf") || strings.HasSuffix(name, ".vcf.gz") {
				files = append(files, filepath.Join(path, name))
			}
		}
	}
	if len(files) == 0 {
		return nil, ErrNoInput
	}
	sort.Strings(files)
	return files, nil
}

// SampleName derives the tumor sample identifier from a VCF file path:
// the base name minus its .vcf or .vcf.gz extension.
func SampleName(path string) string {
	name := filepath.Base(path)
	name = strings.TrimSuffix(name, ".gz")
	name = strings.TrimSuffix(name, ".vcf")
	return name
}

// fileResult is a worker's partial output for one file.
type fileResult struct {
	aggs    map[string]*matrix.Aggregator
	events  []SampleEvent
	summary FileSummary
}

// Run processes each file independently on a fixed-size worker pool and
// folds the per-file partial aggregations into the final matrices. The
// fold uses the commutative Merge operation, so worker completion order
// cannot affect the result.
func Run(files []string, opts Options) (*Result, error) {
	if len(files) == 0 {
		return nil, ErrNoInput
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(files) {
		workers = len(files)
	}

	paths := make(chan string)
	results := make(chan *fileResult, workers)

	var wg sync.WaitGroup
	wg.Add(workers)
	for range workers {
		go func() {
			defer wg.Done()
			for path := range paths {
				results <- processFile(path, opts, logger)
			}
		}()
	}

	go func() {
		for _, path := range files {
			paths <- path
		}
		close(paths)
		wg.Wait()
		close(results)
	}()

	// Single-threaded reduce.
	merged := make(map[string]*matrix.Aggregator, len(opts.Configs))
	for name := range opts.Configs {
		merged[name] = matrix.NewAggregator()
	}

	result := &Result{Matrices: make(map[string]*matrix.Matrix, len(opts.Configs))}
	var firstErr error

	for fr := range results {
		result.Files = append(result.Files, fr.summary)
		if fr.summary.Err != nil {
			logger.Error("skipping file",
				zap.String("file", fr.summary.File),
				zap.Error(fr.summary.Err))
			if firstErr == nil {
				firstErr = fmt.Errorf("%s: %w", fr.summary.File, fr.summary.Err)
			}
			continue
		}
		for name, agg := range fr.aggs {
			merged[name].Merge(agg)
		}
		result.Events = append(result.Events, fr.events...)
	}

	if opts.Strict && firstErr != nil {
		return nil, firstErr
	}

	sort.Slice(result.Files, func(i, j int) bool {
		return result.Files[i].File < result.Files[j].File
	})
	sort.Slice(result.Events, func(i, j int) bool {
		a, b := result.Events[i], result.Events[j]
		if a.Sample != b.Sample {
			return a.Sample < b.Sample
		}
		if a.Event.Chrom != b.Event.Chrom {
			return a.Event.Chrom < b.Event.Chrom
		}
		return a.Event.Pos < b.Event.Pos
	})

	for name, agg := range merged {
		result.Matrices[name] = agg.Build()
	}

	return result, nil
}

// processFile parses one VCF file and aggregates its somatic events.
// Record-level failures are recorded in the summary and never abort
// sibling records; only file-level failures set summary.Err.
func processFile(path string, opts Options, logger *zap.Logger) *fileResult {
	fr := &fileResult{
		aggs:    make(map[string]*matrix.Aggregator, len(opts.Configs)),
		summary: FileSummary{File: path, Sample: SampleName(path)},
	}
	for name := range opts.Configs {
		fr.aggs[name] = matrix.NewAggregator()
	}
	sum := &fr.summary

	parser, err := vcf.NewParser(path)
	if err != nil {
		sum.Err = err
		return fr
	}
	defer parser.Close()

	for {
		v, err := parser.Next()
		if err != nil {
			var perr *vcf.ParseError
			if errors.As(err, &perr) {
				sum.RecordErrors = append(sum.RecordErrors, RecordError{Line: perr.Line, Err: err})
				continue
			}
			sum.Err = err
			return fr
		}
		if v == nil {
			break
		}
		sum.Records++

		if !opts.KeepNonPass && v.Filter != "PASS" {
			sum.SkippedFilter++
			continue
		}
		if v.Info["PERFECT"] == "FALSE" {
			sum.SkippedImperfect++
			continue
		}

		rec, err := v.STRRecord()
		if err != nil {
			sum.RecordErrors = append(sum.RecordErrors, RecordError{
				Line:  parser.LineNumber(),
				Chrom: v.Chrom,
				Pos:   v.Pos,
				Err:   err,
			})
			continue
		}

		ev, ok := somatic.Extract(rec)
		if !ok {
			sum.NonSomatic++
			continue
		}
		sum.Events++

		for name, cfg := range opts.Configs {
			if key, ok := cfg.Encode(ev); ok {
				fr.aggs[name].Add(sum.Sample, key)
			}
		}
		if opts.CollectEvents {
			fr.events = append(fr.events, SampleEvent{Sample: sum.Sample, Event: ev})
		}
	}

	logger.Info("processed file",
		zap.String("file", path),
		zap.String("sample", sum.Sample),
		zap.Int("records", sum.Records),
		zap.Int("events", sum.Events),
		zap.Int("skipped_filter", sum.SkippedFilter),
		zap.Int("skipped_imperfect", sum.SkippedImperfect),
		zap.Int("record_errors", len(sum.RecordErrors)))

	return fr
}

// BuildMatrix aggregates already-extracted events into a single matrix
// under one feature-key configuration.
func BuildMatrix(events []SampleEvent, cfg feature.Config) *matrix.Matrix {
	agg := matrix.NewAggregator()
	for _, se := range events {
		if key, ok := cfg.Encode(se.Event); ok {
			agg.Add(se.Sample, key)
		}
	}
	return agg.Build()
}
