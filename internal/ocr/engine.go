package ocr

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"

	"snaporder/internal/common"
	"snaporder/internal/imgproc"
)

// Result is a single recognition outcome over one image region.
type Result struct {
	Text       string
	Confidence float64 // mean word confidence, 0..100
	Processed  *image.NRGBA
	Inverted   bool
}

// Engine runs the tesseract binary over preprocessed screenshot variants.
type Engine struct {
	cfg    common.OCRConfig
	runner Runner
	logger *slog.Logger
}

func NewEngine(cfg common.OCRConfig, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.Language == "" {
		cfg.Language = "eng"
	}
	return &Engine{cfg: cfg, runner: execRunner{logger: logger}, logger: logger}
}

// CheckAvailable probes the tesseract binary. Called once at startup so a
// missing install fails fast instead of per image.
func (e *Engine) CheckAvailable(ctx context.Context) error {
	out, _, err := e.runner.Run(ctx, e.cfg.Tesseract, "--version")
	if err != nil {
		return fmt.Errorf("%w: tesseract not found at %q: %v", common.ErrStartup, e.cfg.Tesseract, err)
	}
	version := strings.TrimSpace(strings.SplitN(string(out), "\n", 2)[0])
	e.logger.Info("ocr.engine.ready", "tesseract", version)
	return nil
}

// Recognize preprocesses the image, OCRs both the normal and the inverted
// binarized variant, and returns whichever yields the higher mean word
// confidence. Light-on-dark screenshots win on the inverted pass.
func (e *Engine) Recognize(ctx context.Context, img image.Image) (Result, error) {
	normal, inverted := imgproc.PrepareForRecognition(img, e.cfg.UpscaleFactor)

	resNormal, errN := e.recognizeVariant(ctx, normal)
	resInverted, errI := e.recognizeVariant(ctx, inverted)
	if errN != nil && errI != nil {
		return Result{}, fmt.Errorf("%w: %v", common.ErrRecognition, errN)
	}

	best := resNormal
	best.Processed = normal
	if errN != nil || (errI == nil && resInverted.Confidence > resNormal.Confidence) {
		best = resInverted
		best.Processed = inverted
		best.Inverted = true
	}
	return best, nil
}

func (e *Engine) recognizeVariant(ctx context.Context, img *image.NRGBA) (Result, error) {
	tmp, err := os.CreateTemp("", "snaporder-ocr-*.png")
	if err != nil {
		return Result{}, fmt.Errorf("temp image: %w", err)
	}
	path := tmp.Name()
	_ = tmp.Close()
	defer func() { _ = os.Remove(path) }()

	if err := imaging.Save(img, path); err != nil {
		return Result{}, fmt.Errorf("save temp image: %w", err)
	}

	text, err := e.runText(ctx, path)
	if err != nil {
		return Result{}, err
	}
	conf, err := e.runTSVConfidence(ctx, path)
	if err != nil {
		return Result{}, err
	}
	return Result{Text: text, Confidence: conf}, nil
}

func (e *Engine) baseArgs(path string) []string {
	args := []string{path, "stdout", "-l", e.cfg.Language}
	if e.cfg.PSM > 0 {
		args = append(args, "--psm", strconv.Itoa(e.cfg.PSM))
	}
	if e.cfg.OEM > 0 {
		args = append(args, "--oem", strconv.Itoa(e.cfg.OEM))
	}
	return args
}

func (e *Engine) runText(ctx context.Context, path string) (string, error) {
	out, errb, err := e.runner.Run(ctx, e.cfg.Tesseract, e.baseArgs(path)...)
	if err != nil {
		return "", fmt.Errorf("tesseract: %w: %s", err, truncate(string(errb), 256))
	}
	return Normalize(string(out)), nil
}

// runTSVConfidence reruns tesseract in TSV mode and averages the per-word
// conf column. Structural rows carry conf -1 and are excluded.
func (e *Engine) runTSVConfidence(ctx context.Context, path string) (float64, error) {
	args := append(e.baseArgs(path), "tsv")
	out, errb, err := e.runner.Run(ctx, e.cfg.Tesseract, args...)
	if err != nil {
		return 0, fmt.Errorf("tesseract TSV: %w: %s", err, truncate(string(errb), 256))
	}
	return meanTSVConfidence(string(out)), nil
}

// meanTSVConfidence parses tesseract TSV output and returns the mean word
// confidence on a 0..100 scale. No confident words means 0.
func meanTSVConfidence(tsv string) float64 {
	lines := strings.Split(tsv, "\n")
	var sum, n float64
	for i, ln := range lines {
		if i == 0 || len(ln) == 0 {
			continue // header
		}
		cols := strings.Split(ln, "\t")
		if len(cols) < 12 {
			continue
		}
		confStr := cols[10]
		if confStr == "" || confStr == "-1" {
			continue
		}
		if v, err := strconv.ParseFloat(confStr, 64); err == nil {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / n
}
