package async

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"snaporder/constants"
	"snaporder/internal/pipeline"
)

type stubProcessor struct {
	mu   sync.Mutex
	seen []string
}

func (s *stubProcessor) ProcessFile(_ context.Context, path string) pipeline.ExtractionRecord {
	s.mu.Lock()
	s.seen = append(s.seen, path)
	s.mu.Unlock()
	return pipeline.ExtractionRecord{
		FileName: filepath.Base(path),
		CropUsed: path,
		Status:   constants.StatusSuccess,
	}
}

func TestPoolRunPreservesInputOrder(t *testing.T) {
	proc := &stubProcessor{}
	pool := NewPool(proc, nil, WithWorkers(4))

	paths := []string{"dir/c.png", "dir/a.png", "dir/b.png"}
	records := pool.Run(context.Background(), paths)

	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}
	for i, want := range []string{"c.png", "a.png", "b.png"} {
		if records[i].FileName != want {
			t.Fatalf("record %d = %s, want %s", i, records[i].FileName, want)
		}
	}
}

func TestPoolRunKeepsSameBaseNameApart(t *testing.T) {
	proc := &stubProcessor{}
	pool := NewPool(proc, nil, WithWorkers(4))

	paths := []string{"a/shot.png", "b/shot.png"}
	records := pool.Run(context.Background(), paths)

	if len(records) != 2 {
		t.Fatalf("got %d records, want one per path", len(records))
	}
	for i, want := range paths {
		if records[i].CropUsed != want {
			t.Fatalf("record %d came from %s, want %s", i, records[i].CropUsed, want)
		}
	}
}

func TestPoolRunSequentialWhenSingleWorker(t *testing.T) {
	proc := &stubProcessor{}
	pool := NewPool(proc, nil, WithWorkers(1))

	records := pool.Run(context.Background(), []string{"a.png", "b.png"})
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if proc.seen[0] != "a.png" || proc.seen[1] != "b.png" {
		t.Fatalf("sequential order broken: %v", proc.seen)
	}
}

func TestPoolRunEmptyBatch(t *testing.T) {
	pool := NewPool(&stubProcessor{}, nil)
	if records := pool.Run(context.Background(), nil); len(records) != 0 {
		t.Fatalf("got %d records for empty batch", len(records))
	}
}

func TestPoolCancellationKeepsFinishedRecords(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	proc := &stubProcessor{}
	pool := NewPool(proc, nil, WithWorkers(1))
	records := pool.Run(ctx, []string{"a.png", "b.png"})
	if len(records) != 0 {
		t.Fatalf("pre-cancelled run produced %d records", len(records))
	}
}
