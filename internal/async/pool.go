package async

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"snaporder/internal/pipeline"
)

// FileProcessor turns one screenshot path into a record.
type FileProcessor interface {
	ProcessFile(ctx context.Context, path string) pipeline.ExtractionRecord
}

// Pool fans a batch of screenshot paths out to workers and collects the
// records. Cancellation stops feeding new files but every record already
// finished is kept.
type Pool struct {
	proc    FileProcessor
	logger  *slog.Logger
	workers int
	timeout time.Duration
}

type Option func(*Pool)

func WithWorkers(n int) Option {
	return func(p *Pool) {
		if n > 0 {
			p.workers = n
		}
	}
}

// WithFileTimeout caps how long a single screenshot may take, crop search
// plus escalation included.
func WithFileTimeout(d time.Duration) Option {
	return func(p *Pool) {
		if d > 0 {
			p.timeout = d
		}
	}
}

func NewPool(proc FileProcessor, logger *slog.Logger, opts ...Option) *Pool {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Pool{
		proc:    proc,
		logger:  logger,
		workers: 4,
		timeout: 3 * time.Minute,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Run processes every path and returns the finished records in input order.
func (p *Pool) Run(ctx context.Context, paths []string) []pipeline.ExtractionRecord {
	if len(paths) == 0 {
		return []pipeline.ExtractionRecord{}
	}
	if p.workers <= 1 || len(paths) == 1 {
		return p.runSequential(ctx, paths)
	}

	// results land in input-position slots so identical base names in
	// different subfolders never collide
	type job struct {
		idx  int
		path string
	}
	jobs := make(chan job)
	results := make([]pipeline.ExtractionRecord, len(paths))
	done := make([]bool, len(paths))

	var wg sync.WaitGroup
	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			p.logger.Debug("async.worker.start", "worker_id", workerID)
			for j := range jobs {
				results[j.idx] = p.processOne(ctx, j.path)
				done[j.idx] = true
			}
			p.logger.Debug("async.worker.stop", "worker_id", workerID)
		}(i + 1)
	}

	go func() {
		defer close(jobs)
		for i, path := range paths {
			select {
			case <-ctx.Done():
				p.logger.Warn("async.feed.cancelled", "error", ctx.Err())
				return
			case jobs <- job{idx: i, path: path}:
			}
		}
	}()

	wg.Wait()

	out := make([]pipeline.ExtractionRecord, 0, len(paths))
	for i := range results {
		if done[i] {
			out = append(out, results[i])
		}
	}
	return out
}

func (p *Pool) runSequential(ctx context.Context, paths []string) []pipeline.ExtractionRecord {
	out := make([]pipeline.ExtractionRecord, 0, len(paths))
	for _, path := range paths {
		if ctx.Err() != nil {
			p.logger.Warn("async.sequential.cancelled", "error", ctx.Err())
			break
		}
		out = append(out, p.processOne(ctx, path))
	}
	return out
}

func (p *Pool) processOne(ctx context.Context, path string) pipeline.ExtractionRecord {
	fileCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	return p.proc.ProcessFile(fileCtx, path)
}
