package ocr

import (
	"context"
	"image"
	"regexp"

	"snaporder/internal/imgproc"
)

// FullImageStrategy names the no-crop baseline in crop search results.
const FullImageStrategy = "Full Image"

// orderIDBonus dominates raw confidence so a slightly noisier crop that
// surfaces an order ID still beats a clean crop without one.
const orderIDBonus = 100.0

var reOrderID = regexp.MustCompile(`\d{3}-\d{7}-\d{7}`)

// CropResult is the winning region from a crop search.
type CropResult struct {
	Result
	Strategy string
	Score    float64
	Cropped  image.Image
}

func scoreResult(r Result) float64 {
	score := r.Confidence
	if reOrderID.MatchString(r.Text) {
		score += orderIDBonus
	}
	return score
}

func goodEnough(r Result, threshold float64) bool {
	return r.Confidence >= threshold && reOrderID.MatchString(r.Text)
}

// FindBestCrop recognizes the full image and each crop strategy in turn,
// keeping the candidate with the strictly highest score. Unless exhaustive is
// set, the search stops at the first candidate that clears the confidence
// threshold with an order ID present.
func (e *Engine) FindBestCrop(ctx context.Context, img image.Image, strategies []imgproc.CropStrategy, exhaustive bool) (CropResult, error) {
	full, err := e.Recognize(ctx, img)
	if err != nil {
		return CropResult{Strategy: FullImageStrategy}, err
	}
	best := CropResult{
		Result:   full,
		Strategy: FullImageStrategy,
		Score:    scoreResult(full),
		Cropped:  img,
	}
	if !exhaustive && goodEnough(full, e.cfg.ConfidenceThreshold) {
		return best, nil
	}

	for _, s := range strategies {
		if err := ctx.Err(); err != nil {
			return best, err
		}
		cropped, ok := s.Apply(img)
		if !ok {
			e.logger.Debug("ocr.crop.skip", "strategy", s.Name)
			continue
		}
		res, err := e.Recognize(ctx, cropped)
		if err != nil {
			e.logger.Warn("ocr.crop.fail", "strategy", s.Name, "error", err)
			continue
		}
		score := scoreResult(res)
		e.logger.Debug("ocr.crop.scored", "strategy", s.Name, "confidence", res.Confidence, "score", score)
		if score > best.Score {
			best = CropResult{Result: res, Strategy: s.Name, Score: score, Cropped: cropped}
			if !exhaustive && goodEnough(res, e.cfg.ConfidenceThreshold) {
				break
			}
		}
	}
	return best, nil
}
