package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"syscall"
	"time"

	"github.com/avast/retry-go/v4"

	"snaporder/internal/common"
	"snaporder/internal/extract"
)

// callFunc performs one provider request and returns the model's raw text
// answer. Providers only differ in this function.
type callFunc func(ctx context.Context, prompt, imageB64, mimeType string) (string, error)

type client struct {
	name    string
	keyHint string // env var named in auth error statuses, empty for local providers
	retries uint
	http    *http.Client
	logger  *slog.Logger
	call    callFunc
}

func newClient(name, keyHint string, retries int, timeout time.Duration, logger *slog.Logger) *client {
	if logger == nil {
		logger = slog.Default()
	}
	if retries < 1 {
		retries = 1
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &client{
		name:    name,
		keyHint: keyHint,
		retries: uint(retries),
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

func (c *client) Name() string { return c.name }

func (c *client) ExtractFields(ctx context.Context, req ExtractRequest) (*extract.FieldSet, string, error) {
	start := time.Now()
	b64, mimeType, err := encodeImage(req.ImagePath)
	if err != nil {
		return nil, c.name + " Failed After Retries",
			fmt.Errorf("%w: read image: %v", common.ErrAIAdapter, err)
	}
	prompt := BuildPrompt(req.OCRText)

	c.logger.Info("llm.extract.start",
		"provider", c.name,
		"image", req.ImagePath,
		"image_bytes", len(b64)*3/4,
		"ocr_hint_len", len(req.OCRText),
	)

	var content string
	err = retry.Do(
		func() error {
			out, callErr := c.call(ctx, prompt, b64, mimeType)
			if callErr != nil {
				var ae *apiError
				if errors.As(callErr, &ae) && (ae.Status == 401 || ae.Status == 403) {
					return retry.Unrecoverable(callErr)
				}
				return callErr
			}
			content = out
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(c.retries),
		retry.Delay(time.Second),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			c.logger.Warn("llm.extract.retry", "provider", c.name, "attempt", n+1, "error", err)
		}),
	)
	if err != nil {
		status := c.classify(err)
		c.logger.Error("llm.extract.fail",
			"provider", c.name, "status", status, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		return nil, status, fmt.Errorf("%w: %s: %v", common.ErrAIAdapter, c.name, err)
	}

	m, perr := ParseModelJSON(content)
	if perr != nil {
		c.logger.Error("llm.extract.parse_fail",
			"provider", c.name, "error", perr, "content_len", len(content),
			"elapsed_ms", time.Since(start).Milliseconds())
		return nil, c.name + " JSON Parse Failed",
			fmt.Errorf("%w: %s: %v", common.ErrAIAdapter, c.name, perr)
	}
	if raw, merr := json.Marshal(m); merr == nil {
		if verr := ValidateJSONAgainstSchema(BuildOrderJSONSchema(), raw); verr != nil {
			// log only, NormalizeFields tolerates loose shapes
			c.logger.Warn("llm.extract.schema_mismatch", "provider", c.name, "error", verr)
		}
	}

	fs := NormalizeFields(m)
	c.logger.Info("llm.extract.ok",
		"provider", c.name,
		"order_ids", len(fs.OrderIDs),
		"items", len(fs.Items),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return fs, c.name + " Success", nil
}

func (c *client) classify(err error) string {
	var ae *apiError
	var netErr net.Error
	switch {
	case errors.As(err, &ae) && (ae.Status == 401 || ae.Status == 403):
		if c.keyHint != "" {
			return c.name + " Auth Error (check " + c.keyHint + ")"
		}
		return c.name + " Auth Error"
	case errors.Is(err, context.DeadlineExceeded),
		errors.As(err, &netErr) && netErr.Timeout():
		return c.name + " Timeout"
	case c.name == "Ollama" && isConnRefused(err):
		return "Ollama Not Running (start with 'ollama serve')"
	default:
		return c.name + " Failed After Retries"
	}
}

func isConnRefused(err error) bool {
	return errors.Is(err, syscall.ECONNREFUSED) ||
		strings.Contains(err.Error(), "connection refused")
}
