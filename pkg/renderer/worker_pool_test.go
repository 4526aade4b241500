package renderer

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
)

func TestWorkerPool_RunsEveryTask(t *testing.T) {
	var done atomic.Int64
	pool := NewWorkerPool(func(task SampleTask) *Canvas {
		return NewCanvas(1, 1)
	}, 3, func() { done.Add(1) })

	ctx := context.Background()
	pool.Start(ctx)

	go func() {
		for i := 0; i < 20; i++ {
			if err := pool.SubmitTask(ctx, SampleTask{Index: i, Seed: int64(i)}); err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		}
		pool.Stop()
	}()

	seen := make(map[int]bool)
	for result := range pool.Results() {
		if result.Error != nil {
			t.Errorf("Unexpected error: %v", result.Error)
		}
		seen[result.Index] = true
	}

	if len(seen) != 20 {
		t.Errorf("Expected 20 distinct results, got %d", len(seen))
	}
	if done.Load() != 20 {
		t.Errorf("Expected 20 completion signals, got %d", done.Load())
	}
	if pool.GetNumWorkers() != 3 {
		t.Errorf("Expected 3 workers, got %d", pool.GetNumWorkers())
	}
}

func TestWorkerPool_RecoversPanics(t *testing.T) {
	pool := NewWorkerPool(func(task SampleTask) *Canvas {
		if task.Index%2 == 1 {
			panic("odd pass")
		}
		return NewCanvas(1, 1)
	}, 2, nil)

	ctx := context.Background()
	pool.Start(ctx)

	go func() {
		for i := 0; i < 6; i++ {
			_ = pool.SubmitTask(ctx, SampleTask{Index: i})
		}
		pool.Stop()
	}()

	failed := 0
	for result := range pool.Results() {
		if result.Error == nil {
			continue
		}
		failed++
		if !errors.Is(result.Error, ErrPassPanicked) || result.Canvas != nil {
			t.Errorf("Unexpected failed result: %+v", result)
		}
		if result.Index%2 != 1 {
			t.Errorf("Pass %d should not have failed", result.Index)
		}
	}

	if failed != 3 {
		t.Errorf("Expected 3 failed passes, got %d", failed)
	}
}

func TestWorkerPool_SubmitAfterCancel(t *testing.T) {
	// No workers are started, so the queue fills and submission must give up
	pool := NewWorkerPool(func(task SampleTask) *Canvas { return nil }, 1, nil)

	ctx, cancel := context.WithCancel(context.Background())
	if err := pool.SubmitTask(ctx, SampleTask{}); err != nil {
		t.Fatalf("First task fits in the queue: %v", err)
	}
	cancel()

	if err := pool.SubmitTask(ctx, SampleTask{Index: 1}); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestWorkerPool_DefaultsToCPUCount(t *testing.T) {
	pool := NewWorkerPool(func(task SampleTask) *Canvas { return nil }, 0, nil)
	if pool.GetNumWorkers() <= 0 {
		t.Errorf("Expected a positive worker count, got %d", pool.GetNumWorkers())
	}
}
