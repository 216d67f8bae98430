package report

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/krishisakhi/sakhi-session/internal/logger"
	"github.com/krishisakhi/sakhi-session/internal/model"
)

var _ model.ErrorReporter = (*LogReporter)(nil)

// Recorder counts reported and dropped errors.
type Recorder interface {
	ErrorReported(tag string)
	ReportDropped()
}

type entry struct {
	id  string
	err error
	tag string
	at  time.Time
}

// LogReporter writes reported errors to the logger from a background
// goroutine. Report never blocks: when the queue is full the report is
// dropped and counted.
type LogReporter struct {
	logger   *logger.Logger
	recorder Recorder
	queue    chan entry
	done     chan struct{}

	mu     sync.RWMutex
	closed bool
}

// NewLogReporter starts a reporter with a queue of the given size.
// recorder may be nil.
func NewLogReporter(logger *logger.Logger, queueSize int, recorder Recorder) *LogReporter {
	if queueSize < 1 {
		queueSize = 1
	}
	r := &LogReporter{
		logger:   logger,
		recorder: recorder,
		queue:    make(chan entry, queueSize),
		done:     make(chan struct{}),
	}
	go r.run()
	return r
}

// Report enqueues err under the given context tag. Nil errors are ignored.
func (r *LogReporter) Report(err error, tag string) {
	if err == nil {
		return
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		r.dropped()
		return
	}

	select {
	case r.queue <- entry{id: uuid.NewString(), err: err, tag: tag, at: time.Now()}:
	default:
		r.dropped()
	}
}

// Close flushes queued reports and stops the background goroutine.
func (r *LogReporter) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		<-r.done
		return
	}
	r.closed = true
	close(r.queue)
	r.mu.Unlock()

	<-r.done
}

func (r *LogReporter) run() {
	defer close(r.done)
	for e := range r.queue {
		r.logger.Error("error reported",
			"report_id", e.id,
			"tag", e.tag,
			"reported_at", e.at.Format(time.RFC3339),
			"error", e.err.Error())
		if r.recorder != nil {
			r.recorder.ErrorReported(e.tag)
		}
	}
}

func (r *LogReporter) dropped() {
	if r.recorder != nil {
		r.recorder.ReportDropped()
	}
}
