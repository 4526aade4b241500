package renderer

import (
	"io"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
)

// DefaultProgressInterval is how often the progress display is refreshed
const DefaultProgressInterval = 500 * time.Millisecond

// ProgressTracker counts finished passes and periodically redraws a progress
// bar. It only observes the render.
type ProgressTracker struct {
	bar       *progressbar.ProgressBar
	signals   chan struct{}
	stop      chan struct{}
	done      chan struct{}
	interval  time.Duration
	total     int
	completed int
	stopOnce  sync.Once
}

// NewProgressTracker creates a tracker for total passes drawing to w
func NewProgressTracker(total int, w io.Writer) *ProgressTracker {
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("Rendering"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionSetWidth(40),
	)

	return &ProgressTracker{
		bar: bar,
		// Room for every signal, so workers never block on the tracker
		signals:  make(chan struct{}, total),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
		interval: DefaultProgressInterval,
		total:    total,
	}
}

// Start launches the reporting goroutine
func (p *ProgressTracker) Start() {
	go p.run()
}

// Signal records one finished pass. It never blocks, and signals after Stop are ignored.
func (p *ProgressTracker) Signal() {
	select {
	case p.signals <- struct{}{}:
	default:
	}
}

// Stop counts pending signals, draws the final state and waits for the
// reporter. Nothing is written to the bar once Stop returns.
func (p *ProgressTracker) Stop() {
	p.stopOnce.Do(func() {
		close(p.stop)
	})
	<-p.done
}

// Completed returns the number of passes counted. Valid after Stop.
func (p *ProgressTracker) Completed() int {
	return p.completed
}

func (p *ProgressTracker) run() {
	defer close(p.done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-p.signals:
			p.completed++
		case <-p.stop:
			p.drain()
			_ = p.bar.Set(p.completed)
			if p.completed == p.total {
				_ = p.bar.Finish()
			}
			return
		case <-ticker.C:
			_ = p.bar.Set(p.completed)
		}
	}
}

func (p *ProgressTracker) drain() {
	for {
		select {
		case <-p.signals:
			p.completed++
		default:
			return
		}
	}
}
