package pipeline

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"

	"snaporder/constants"
	"snaporder/internal/common"
	"snaporder/internal/extract"
	"snaporder/internal/imgproc"
	"snaporder/internal/llm"
	"snaporder/internal/ocr"
)

// CropFinder is the recognition dependency of the processor. *ocr.Engine
// implements it.
type CropFinder interface {
	FindBestCrop(ctx context.Context, img image.Image, strategies []imgproc.CropStrategy, exhaustive bool) (ocr.CropResult, error)
}

// Processor coordinates the full per-file flow: load, crop search, regex
// extraction, optional vision escalation, merge and scoring.
type Processor struct {
	cfg       *common.Config
	engine    CropFinder
	extractor llm.FieldExtractor // nil when escalation is off or unavailable
	logger    *slog.Logger
}

func NewProcessor(cfg *common.Config, engine CropFinder, extractor llm.FieldExtractor, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{cfg: cfg, engine: engine, extractor: extractor, logger: logger}
}

// ProcessFile turns one screenshot into an ExtractionRecord. It never
// returns an error: every failure mode maps to a record status so one bad
// file cannot take down a batch.
func (p *Processor) ProcessFile(ctx context.Context, path string) (rec ExtractionRecord) {
	start := time.Now()
	rec = ExtractionRecord{
		FileName:    filepath.Base(path),
		ProcessedAt: start,
	}
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("pipeline.panic", "file", rec.FileName, "panic", r)
			rec.Status = constants.StatusError
			rec.ErrorDetail = fmt.Errorf("%w: panic: %v", common.ErrTask, r).Error()
			if rec.Fields == nil {
				rec.Fields = extract.ExtractAll("")
			}
		}
		rec.Duration = time.Since(start)
	}()

	img, err := imgproc.LoadAndValidate(path, p.cfg.Input.MaxImageSizeMB)
	if err != nil {
		err = fmt.Errorf("%w: %v", common.ErrLoad, err)
		p.logger.Warn("pipeline.load.fail", "file", rec.FileName, "error", err)
		rec.Status = constants.StatusFailedLoad
		rec.ErrorDetail = err.Error()
		rec.Fields = extract.ExtractAll("")
		return rec
	}

	crop, err := p.engine.FindBestCrop(ctx, img, p.cfg.Crops, p.cfg.Features.Aggressive)
	if err != nil {
		// recognition is degraded, not fatal: continue with empty text so
		// escalation can still rescue the file
		p.logger.Warn("pipeline.ocr.fail", "file", rec.FileName, "error", err)
	}
	if crop.Cropped == nil {
		crop.Cropped = img
	}
	rec.OCRConfidence = crop.Confidence
	rec.CropUsed = crop.Strategy
	text := crop.Text
	if p.cfg.Output.IncludeRawText {
		rec.RawSnippet = snippet(text, 200)
	}

	fields := extract.ExtractAll(text)
	conf := extract.CalculateConfidence(fields, crop.Confidence)

	// escalation is judged on the raw recognition confidence, not the
	// derived score, so a clean read with sparse fields stays local
	if p.extractor != nil && ShouldUseAI(fields, crop.Confidence, p.cfg.AI.Mode, p.cfg.OCR.ConfidenceThreshold) {
		rec.AIUsed = true
		rec.AIProvider = p.cfg.AI.Provider
		fields, conf = p.escalate(ctx, &rec, crop, text, fields, conf)
	}

	rec.Fields = fields
	rec.OverallConfidence = conf
	rec.Status = DeriveStatus(fields)

	if p.cfg.Features.Validation {
		_, rec.ValidationIssues = extract.ValidateExtraction(fields)
	}
	if p.cfg.Features.SaveEnhanced && crop.Processed != nil {
		if cropped, processed, serr := p.saveEnhanced(path, crop); serr != nil {
			p.logger.Warn("pipeline.enhanced.save_fail", "file", rec.FileName, "error", serr)
		} else {
			rec.CroppedImage = cropped
			rec.ProcessedImage = processed
		}
	}

	p.logger.Info("pipeline.file.done",
		"file", rec.FileName,
		"status", rec.Status,
		"confidence", rec.OverallConfidence,
		"crop", rec.CropUsed,
		"ai_used", rec.AIUsed,
		"duration_ms", rec.Duration.Milliseconds(),
	)
	return rec
}

// escalate sends the winning crop to the vision model and merges its answer
// over the local fields. The crop goes out as a temp JPEG that is always
// removed, whatever the provider does.
func (p *Processor) escalate(ctx context.Context, rec *ExtractionRecord, crop ocr.CropResult, text string, fields *extract.FieldSet, conf float64) (*extract.FieldSet, float64) {
	tmp, err := os.CreateTemp("", "snaporder-ai-*.jpg")
	if err != nil {
		rec.AIStatus = p.extractor.Name() + " Image Save Failed"
		p.logger.Warn("pipeline.ai.temp_fail", "file", rec.FileName, "error", err)
		return fields, conf
	}
	aiPath := tmp.Name()
	_ = tmp.Close()
	defer func() { _ = os.Remove(aiPath) }()

	if err := imaging.Save(crop.Cropped, aiPath, imaging.JPEGQuality(92)); err != nil {
		rec.AIStatus = p.extractor.Name() + " Image Save Failed"
		p.logger.Warn("pipeline.ai.temp_fail", "file", rec.FileName, "error", err)
		return fields, conf
	}

	aiFields, status, err := p.extractor.ExtractFields(ctx, llm.ExtractRequest{
		ImagePath: aiPath,
		OCRText:   text,
	})
	rec.AIStatus = status
	if err != nil {
		return fields, conf
	}
	merged := MergeFields(fields, aiFields)
	return merged, extract.CalculateConfidence(merged, crop.Confidence)
}

// saveEnhanced persists the debugging artifacts: the winning crop in color
// (only when a crop actually beat the full image) and the binarized variant
// that was fed to recognition.
func (p *Processor) saveEnhanced(srcPath string, crop ocr.CropResult) (cropped, processed string, err error) {
	folder := p.cfg.Output.EnhancedFolder
	if folder == "" {
		folder = "enhanced"
	}
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return "", "", err
	}
	stem := strings.TrimSuffix(filepath.Base(srcPath), filepath.Ext(srcPath))

	if crop.Strategy != ocr.FullImageStrategy && crop.Cropped != nil {
		name := fmt.Sprintf("%s_cropped_%s.png", stem, slugify(crop.Strategy))
		cropped = filepath.Join(folder, name)
		if err := imaging.Save(crop.Cropped, cropped); err != nil {
			return "", "", err
		}
	}

	processed = filepath.Join(folder, stem+"_processed.png")
	if err := imaging.Save(crop.Processed, processed); err != nil {
		return cropped, "", err
	}
	return cropped, processed, nil
}

func slugify(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "%", "")
	s = strings.Join(strings.Fields(s), "_")
	return s
}

func snippet(s string, max int) string {
	s = strings.TrimSpace(s)
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
