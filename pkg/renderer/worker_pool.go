package renderer

import (
	"context"
	"fmt"
	"runtime"
	"sync"
)

// SampleTask is one full-resolution pass to render
type SampleTask struct {
	Index int   // 0-based pass index
	Seed  int64 // Seed for the pass random generator
}

// SampleResult contains the result from rendering a pass
type SampleResult struct {
	Index  int
	Canvas *Canvas
	Error  error
}

// PassFunc renders the pass described by task
type PassFunc func(task SampleTask) *Canvas

// WorkerPool manages parallel pass rendering
type WorkerPool struct {
	taskQueue   chan SampleTask
	resultQueue chan SampleResult
	workers     []*Worker
	numWorkers  int
	wg          sync.WaitGroup
}

// Worker handles individual pass rendering tasks
type Worker struct {
	ID          int
	render      PassFunc
	onDone      func()
	taskQueue   chan SampleTask
	resultQueue chan SampleResult
}

// NewWorkerPool creates a worker pool with the specified number of workers.
// onDone, if set, is called by a worker after each finished task.
func NewWorkerPool(render PassFunc, numWorkers int, onDone func()) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	// Finished passes are full canvases; keep at most one in flight per worker
	wp := &WorkerPool{
		taskQueue:   make(chan SampleTask, numWorkers),
		resultQueue: make(chan SampleResult, numWorkers),
		numWorkers:  numWorkers,
	}

	for i := 0; i < numWorkers; i++ {
		worker := &Worker{
			ID:          i,
			render:      render,
			onDone:      onDone,
			taskQueue:   wp.taskQueue,
			resultQueue: wp.resultQueue,
		}
		wp.workers = append(wp.workers, worker)
	}

	return wp
}

// Start begins all workers. Workers stop delivering results once ctx is done.
func (wp *WorkerPool) Start(ctx context.Context) {
	for _, worker := range wp.workers {
		wp.wg.Add(1)
		go worker.run(ctx, &wp.wg)
	}
}

// Stop closes the task queue, waits for the workers and closes the results
func (wp *WorkerPool) Stop() {
	close(wp.taskQueue) // No more tasks
	wp.wg.Wait()        // Wait for workers to finish
	close(wp.resultQueue)
}

// SubmitTask queues a task, blocking while every worker is busy
func (wp *WorkerPool) SubmitTask(ctx context.Context, task SampleTask) error {
	select {
	case wp.taskQueue <- task:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Results returns the channel of finished passes. It is closed by Stop.
func (wp *WorkerPool) Results() <-chan SampleResult {
	return wp.resultQueue
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// run is the main worker loop
func (w *Worker) run(ctx context.Context, wg *sync.WaitGroup) {
	defer wg.Done()

	for task := range w.taskQueue {
		// Skip queued work once the render is abandoned
		if ctx.Err() != nil {
			continue
		}

		result := w.execute(task)
		if w.onDone != nil {
			w.onDone()
		}

		select {
		case w.resultQueue <- result:
		case <-ctx.Done():
		}
	}
}

// execute renders one pass, turning a panic into a lost pass
func (w *Worker) execute(task SampleTask) (result SampleResult) {
	result.Index = task.Index

	defer func() {
		if r := recover(); r != nil {
			result.Canvas = nil
			result.Error = fmt.Errorf("%w: pass %d on worker %d: %v", ErrPassPanicked, task.Index, w.ID, r)
		}
	}()

	result.Canvas = w.render(task)
	return result
}
