package reindex

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// ProgressTracker reports reindexing progress to a writer.
type ProgressTracker struct {
	writer         io.Writer
	total          int
	current        int
	reportInterval int
	lastReported   int
	startTime      time.Time
	started        bool
	mu             sync.Mutex
}

// NewProgressTracker creates a progress tracker.
// writer: where to write progress output (typically os.Stderr)
// total: total number of chunks to process
// reportInterval: report progress every N chunks
func NewProgressTracker(writer io.Writer, total, reportInterval int) *ProgressTracker {
	return &ProgressTracker{
		writer:         writer,
		total:          total,
		reportInterval: reportInterval,
	}
}

// Start begins tracking progress.
func (p *ProgressTracker) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.startTime = time.Now()
	p.started = true
	p.report()
}

// Increment advances progress by one and reports when the interval is
// reached.
func (p *ProgressTracker) Increment() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.current++
	if p.current-p.lastReported >= p.reportInterval || p.current == p.total {
		p.report()
		p.lastReported = p.current
	}
}

// Finish reports the final count and elapsed time.
func (p *ProgressTracker) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started || p.writer == nil {
		return
	}
	elapsed := time.Since(p.startTime).Round(time.Second)
	fmt.Fprintf(p.writer, "reindexed %d/%d chunks in %s\n", p.current, p.total, elapsed)
}

func (p *ProgressTracker) report() {
	if p.writer == nil {
		return
	}
	fmt.Fprintf(p.writer, "reindexing %d/%d chunks\n", p.current, p.total)
}
