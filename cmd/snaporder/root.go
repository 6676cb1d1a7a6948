package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"snaporder/constants"
	"snaporder/internal/async"
	"snaporder/internal/common"
	"snaporder/internal/export"
	"snaporder/internal/ingest"
	"snaporder/internal/llm"
	"snaporder/internal/ocr"
	"snaporder/internal/pipeline"
	"snaporder/internal/review"
)

var (
	cfgFile      string
	createConfig bool
	logLevel     string

	flagInput       string
	flagOutput      string
	flagFormat      string
	flagParallel    bool
	flagWorkers     int
	flagUseAI       string
	flagProvider    string
	flagOllamaModel string
	flagOpenAIModel string
	flagThreshold   float64
	flagInteractive bool
	flagWatch       bool
	flagAggressive  bool
)

var rootCmd = &cobra.Command{
	Use:   "snaporder",
	Short: "Extract order data from online-order screenshots",
	Long: `snaporder OCRs a folder of order screenshots, pulls out order IDs,
items, prices, dates and sellers with regex extraction, and optionally
escalates hard screenshots to a vision model (ollama, openai, claude or
gemini). Results land in CSV, Excel, JSON or HTML.`,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	f := rootCmd.Flags()
	f.StringVar(&cfgFile, "config", "", "config file (default: ./snaporder.yaml)")
	f.BoolVar(&createConfig, "create-config", false, "write a default config file and exit")
	f.StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")

	f.StringVarP(&flagInput, "input", "i", "", "folder of screenshots to process")
	f.StringVarP(&flagOutput, "output", "o", "", "output file path")
	f.StringVar(&flagFormat, "format", "", "output format: csv, excel, json, html, all")
	f.BoolVar(&flagParallel, "parallel", false, "process screenshots concurrently")
	f.IntVar(&flagWorkers, "workers", 0, "worker count for --parallel")
	f.StringVar(&flagUseAI, "use-ai", "", "AI escalation mode: never, hybrid, always")
	f.StringVar(&flagProvider, "ai-provider", "", "vision provider: ollama, openai, claude, gemini")
	f.StringVar(&flagOllamaModel, "ollama-model", "", "ollama vision model name")
	f.StringVar(&flagOpenAIModel, "openai-model", "", "openai vision model name")
	f.Float64Var(&flagThreshold, "confidence-threshold", 0, "OCR confidence below which hybrid mode escalates")
	f.BoolVar(&flagInteractive, "interactive", false, "review non-success records before export")
	f.BoolVar(&flagWatch, "watch", false, "watch the input folder and process new screenshots")
	f.BoolVar(&flagAggressive, "aggressive", false, "try every crop strategy and save enhanced images")
}

func run(cmd *cobra.Command, _ []string) error {
	logger := newLogger(logLevel)
	slog.SetDefault(logger)

	if createConfig {
		path := cfgFile
		if path == "" {
			path = "snaporder.yaml"
		}
		if err := common.WriteDefaultConfig(path); err != nil {
			return err
		}
		fmt.Printf("wrote default config to %s\n", path)
		return nil
	}

	cfg, err := common.LoadConfig(cfgFile)
	if err != nil {
		return err
	}
	applyFlagOverrides(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	engine := ocr.NewEngine(cfg.OCR, logger)
	if err := engine.CheckAvailable(ctx); err != nil {
		return err
	}

	extractor, err := buildExtractor(cfg, logger)
	if err != nil {
		return err
	}

	proc := pipeline.NewProcessor(cfg, engine, extractor, logger)
	workers := 1
	if cfg.Processing.Parallel {
		workers = cfg.Processing.MaxWorkers
	}
	pool := async.NewPool(proc, logger, async.WithWorkers(workers))

	if cfg.Input.Watch {
		return runWatch(ctx, cfg, pool, logger)
	}
	return runBatch(ctx, cfg, pool, logger)
}

// buildExtractor resolves the AI adapter per the configured mode. A broken
// provider is fatal when escalation is mandatory, in hybrid mode the run
// degrades to local-only with a warning.
func buildExtractor(cfg *common.Config, logger *slog.Logger) (llm.FieldExtractor, error) {
	if cfg.AI.Mode == constants.AIModeNever {
		return nil, nil
	}
	extractor, err := llm.NewExtractor(cfg.AI, logger)
	if err != nil {
		if cfg.AI.Mode == constants.AIModeAlways {
			return nil, err
		}
		logger.Warn("startup.ai.unavailable", "error", err,
			"action", "continuing with local extraction only")
		return nil, nil
	}
	return extractor, nil
}

func runBatch(ctx context.Context, cfg *common.Config, pool *async.Pool, logger *slog.Logger) error {
	paths, err := ingest.ScanDirectory(cfg.Input.Folder)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		logger.Info("batch.empty", "folder", cfg.Input.Folder)
		fmt.Printf("no screenshots found in %s\n", cfg.Input.Folder)
		return nil
	}
	logger.Info("batch.start", "folder", cfg.Input.Folder, "files", len(paths))

	start := time.Now()
	records := pool.Run(ctx, paths)
	records = finishBatch(cfg, records, logger)

	export.PrintRecords(records)
	if cfg.Features.Analytics {
		export.PrintSummary(pipeline.Summarize(records, time.Since(start)))
	}
	return writeOutputs(cfg, records, time.Since(start), logger)
}

func runWatch(ctx context.Context, cfg *common.Config, pool *async.Pool, logger *slog.Logger) error {
	evCh, errCh, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
		Root:   cfg.Input.Folder,
		Logger: logger,
	})
	if err != nil {
		return err
	}
	fmt.Printf("watching %s for new screenshots, Ctrl-C to stop\n", cfg.Input.Folder)

	start := time.Now()
	var all []pipeline.ExtractionRecord
	for {
		select {
		case <-ctx.Done():
			if len(all) == 0 {
				return nil
			}
			records := finishBatch(cfg, all, logger)
			if cfg.Features.Analytics {
				export.PrintSummary(pipeline.Summarize(records, time.Since(start)))
			}
			return writeOutputs(cfg, records, time.Since(start), logger)
		case werr, ok := <-errCh:
			if ok && werr != nil {
				logger.Error("watch.error", "error", werr)
			}
		case path, ok := <-evCh:
			if !ok {
				continue
			}
			batch := pool.Run(ctx, []string{path})
			all = append(all, batch...)
			export.PrintRecords(batch)

			// rewrite outputs after every arrival so the files stay current
			records := finishBatch(cfg, append([]pipeline.ExtractionRecord{}, all...), logger)
			if err := writeOutputs(cfg, records, time.Since(start), logger); err != nil {
				logger.Error("watch.export.fail", "error", err)
			}
		}
	}
}

func finishBatch(cfg *common.Config, records []pipeline.ExtractionRecord, logger *slog.Logger) []pipeline.ExtractionRecord {
	if cfg.Features.DuplicateDetection {
		before := len(records)
		records = pipeline.Consolidate(records)
		if dropped := before - len(records); dropped > 0 {
			logger.Info("batch.duplicates.consolidated", "dropped", dropped)
		}
	}
	if cfg.Features.InteractiveReview {
		records = review.NewReviewer(os.Stdin, os.Stdout, logger).Run(records)
	}
	return records
}

func writeOutputs(cfg *common.Config, records []pipeline.ExtractionRecord, elapsed time.Duration, logger *slog.Logger) error {
	summary := pipeline.Summarize(records, elapsed)
	written, err := export.NewWriter(cfg.Output, logger).Write(records, summary)
	if err != nil {
		return err
	}
	for _, p := range written {
		fmt.Printf("wrote %s\n", p)
	}
	return nil
}

func applyFlagOverrides(cmd *cobra.Command, cfg *common.Config) {
	f := cmd.Flags()
	if f.Changed("input") {
		cfg.Input.Folder = flagInput
	}
	if f.Changed("output") {
		cfg.Output.Path = flagOutput
	}
	if f.Changed("format") {
		cfg.Output.Format = constants.OutputFormat(flagFormat)
	}
	if f.Changed("parallel") {
		cfg.Processing.Parallel = flagParallel
	}
	if f.Changed("workers") {
		cfg.Processing.MaxWorkers = flagWorkers
	}
	if f.Changed("use-ai") {
		cfg.AI.Mode = constants.AIMode(flagUseAI)
	}
	if f.Changed("ai-provider") {
		cfg.AI.Provider = constants.AIProvider(flagProvider)
	}
	if f.Changed("ollama-model") {
		cfg.AI.OllamaModel = flagOllamaModel
	}
	if f.Changed("openai-model") {
		cfg.AI.OpenAIModel = flagOpenAIModel
	}
	if f.Changed("confidence-threshold") {
		cfg.OCR.ConfidenceThreshold = flagThreshold
	}
	if f.Changed("interactive") {
		cfg.Features.InteractiveReview = flagInteractive
	}
	if f.Changed("watch") {
		cfg.Input.Watch = flagWatch
	}
	if f.Changed("aggressive") {
		cfg.Features.Aggressive = flagAggressive
		if flagAggressive {
			cfg.Features.SaveEnhanced = true
		}
	}
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
