package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/strsig/internal/duckdb"
	"github.com/inodb/strsig/internal/feature"
	"github.com/inodb/strsig/internal/matrix"
	"github.com/inodb/strsig/internal/pipeline"
)

// extractOptions holds the extract command's flag values.
type extractOptions struct {
	mode        string
	motifMode   string
	refLength   bool
	change      bool
	out         string
	outDir      string
	workers     int
	strict      bool
	keepNonPass bool
	eventsDB    string
	eventsCSV   string
	npyBase     string
}

func newExtractCmd() *cobra.Command {
	opts := &extractOptions{}

	cmd := &cobra.Command{
		Use:   "extract [flags] <vcf-file-or-dir>...",
		Short: "Extract somatic STR mutations and build count matrices",
		Long: `Extract reads paired tumor-normal STR-annotated VCF files (first
sample column = normal, second = tumor), detects loci where the tumor
repeat length differs from the normal repeat length, and aggregates the
somatic events into a sample-by-feature count matrix.

Each input file contributes one tumor sample, named after the file. The
matrix is written as TSV: an empty first header cell followed by feature
keys in sorted order, then one row per sample in sorted order.`,
		Example: `  # One matrix with the default feature keys (LEN1_10_+1 style)
  strsig extract --out counts.tsv vcfs/

  # Full repeat-unit keys (A_10_+1 style)
  strsig extract --mode ru --out counts.tsv vcfs/

  # Every preset at once, one matrix per file
  strsig extract --mode all --out-dir matrices/ vcfs/

  # Keep event-level rows for querying
  strsig extract --events-db events.duckdb --out counts.tsv vcfs/`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(opts, args)
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&opts.mode, "mode", "", "preset feature-key mode: ru, len, change_only, or all (overrides --motif/--ref-length/--change)")
	fs.StringVar(&opts.motifMode, "motif", "length", "motif component of feature keys: none, length, or ru")
	fs.BoolVar(&opts.refLength, "ref-length", true, "include the reference repeat length in feature keys")
	fs.BoolVar(&opts.change, "change", true, "include the signed tumor-normal change in feature keys")
	fs.StringVarP(&opts.out, "out", "o", "-", "output matrix file ('-' for stdout)")
	fs.StringVar(&opts.outDir, "out-dir", ".", "output directory for --mode all")
	fs.IntVar(&opts.workers, "workers", 0, "worker pool size (0 = number of CPUs)")
	fs.BoolVar(&opts.strict, "strict", false, "fail the run on the first file-level error instead of skipping the file")
	fs.BoolVar(&opts.keepNonPass, "keep-nonpass", false, "process records whose FILTER is not PASS")
	fs.StringVar(&opts.eventsDB, "events-db", "", "also write per-event rows to this DuckDB database")
	fs.StringVar(&opts.eventsCSV, "events-csv", "", "also write per-event rows to this CSV file")
	fs.StringVar(&opts.npyBase, "npy", "", "also write <base>.npy with sample/feature label sidecars")

	viper.BindPFlag("workers", fs.Lookup("workers"))
	viper.BindPFlag("strict", fs.Lookup("strict"))
	viper.BindPFlag("keep-nonpass", fs.Lookup("keep-nonpass"))

	return cmd
}

// resolveConfigs maps the mode/flag combination to named feature-key
// configurations, one output matrix per entry.
func resolveConfigs(opts *extractOptions) (map[string]feature.Config, error) {
	if opts.mode == "all" {
		configs := make(map[string]feature.Config, len(feature.Presets))
		for name, cfg := range feature.Presets {
			configs[name] = cfg
		}
		return configs, nil
	}
	if opts.mode != "" {
		cfg, ok := feature.Presets[opts.mode]
		if !ok {
			return nil, fmt.Errorf("unknown mode %q (expected one of %v, or all)", opts.mode, feature.PresetNames())
		}
		return map[string]feature.Config{opts.mode: cfg}, nil
	}

	motif, err := feature.ParseMotifMode(opts.motifMode)
	if err != nil {
		return nil, err
	}
	cfg := feature.Config{Motif: motif, RefLength: opts.refLength, Change: opts.change}
	if motif == feature.MotifNone && !opts.refLength && !opts.change {
		return nil, fmt.Errorf("feature keys need at least one of --motif, --ref-length, --change")
	}
	return map[string]feature.Config{"matrix": cfg}, nil
}

func runExtract(opts *extractOptions, args []string) error {
	configs, err := resolveConfigs(opts)
	if err != nil {
		return err
	}
	if opts.mode == "all" && opts.npyBase != "" {
		return fmt.Errorf("--npy is not supported with --mode all")
	}

	files, err := pipeline.DiscoverInputs(args)
	if err != nil {
		return err
	}
	logger.Info("discovered input files", zap.Int("files", len(files)))

	result, err := pipeline.Run(files, pipeline.Options{
		Configs:       configs,
		Workers:       viper.GetInt("workers"),
		Strict:        viper.GetBool("strict"),
		KeepNonPass:   viper.GetBool("keep-nonpass"),
		CollectEvents: opts.eventsDB != "" || opts.eventsCSV != "",
		Logger:        logger,
	})
	if err != nil {
		return err
	}

	logSummary(result)

	if opts.mode == "all" {
		if err := os.MkdirAll(opts.outDir, 0755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
		for _, name := range feature.PresetNames() {
			path := filepath.Join(opts.outDir, fmt.Sprintf("counts_%s.tsv", name))
			if err := writeMatrixFile(result.Matrices[name], path); err != nil {
				return err
			}
			logger.Info("wrote matrix", zap.String("mode", name), zap.String("path", path))
		}
	} else {
		var m *matrix.Matrix
		for _, mm := range result.Matrices {
			m = mm
		}
		if err := writeMatrix(m, opts.out); err != nil {
			return err
		}
		if opts.npyBase != "" {
			if err := m.WriteNpyFiles(opts.npyBase); err != nil {
				return err
			}
			logger.Info("wrote numpy export", zap.String("base", opts.npyBase))
		}
	}

	if opts.eventsCSV != "" {
		f, err := os.Create(opts.eventsCSV)
		if err != nil {
			return fmt.Errorf("create events csv: %w", err)
		}
		if err := pipeline.WriteEventsCSV(f, result.Events); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		logger.Info("wrote events csv", zap.String("path", opts.eventsCSV), zap.Int("events", len(result.Events)))
	}

	if opts.eventsDB != "" {
		store, err := duckdb.Open(opts.eventsDB)
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.WriteEvents(result.Events); err != nil {
			return err
		}
		logger.Info("wrote events database", zap.String("path", opts.eventsDB), zap.Int("events", len(result.Events)))
	}

	return nil
}

// logSummary reports per-file and batch-level statistics.
func logSummary(result *pipeline.Result) {
	var records, skippedFilter, skippedImperfect, recordErrors int
	for _, f := range result.Files {
		records += f.Records
		skippedFilter += f.SkippedFilter
		skippedImperfect += f.SkippedImperfect
		recordErrors += len(f.RecordErrors)
		for _, re := range f.RecordErrors {
			logger.Warn("rejected record",
				zap.String("file", f.File),
				zap.Int("line", re.Line),
				zap.Error(re.Err))
		}
	}
	logger.Info("extraction complete",
		zap.Int("files", len(result.Files)),
		zap.Int("records", records),
		zap.Int("events", result.TotalEvents()),
		zap.Int("skipped_filter", skippedFilter),
		zap.Int("skipped_imperfect", skippedImperfect),
		zap.Int("record_errors", recordErrors))
}

func writeMatrix(m *matrix.Matrix, out string) error {
	if out == "-" || out == "" {
		return m.WriteTSV(os.Stdout)
	}
	return writeMatrixFile(m, out)
}

func writeMatrixFile(m *matrix.Matrix, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create matrix file: %w", err)
	}
	if err := m.WriteTSV(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
