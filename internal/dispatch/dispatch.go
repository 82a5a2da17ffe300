// Package dispatch runs the background delivery of dialog log entries. The
// caller-visible response never waits on, and never fails because of, a log
// write: enqueueing is non-blocking and delivery errors end at a warning.
package dispatch

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/annalabs/widget-proxy/internal/model"
	"github.com/annalabs/widget-proxy/internal/sink"
	"github.com/annalabs/widget-proxy/pkg/logger"
	"github.com/annalabs/widget-proxy/pkg/metrics"
)

// Dispatcher owns a bounded queue of log entries consumed by one worker.
type Dispatcher struct {
	sink    *sink.LogSink
	logger  *logger.Logger
	timeout time.Duration

	queue     chan model.LogEntry
	done      chan struct{}
	running   atomic.Bool
	closeOnce sync.Once
}

// New creates a dispatcher. Start must be called before Enqueue delivers
// anything.
func New(s *sink.LogSink, queueSize int, timeout time.Duration, log *logger.Logger) *Dispatcher {
	if queueSize <= 0 {
		queueSize = 256
	}
	return &Dispatcher{
		sink:    s,
		logger:  log,
		timeout: timeout,
		queue:   make(chan model.LogEntry, queueSize),
		done:    make(chan struct{}),
	}
}

// Start launches the delivery worker.
func (d *Dispatcher) Start() {
	d.running.Store(true)
	go d.run()
}

// Enqueue hands a log entry to the worker without blocking. When the queue
// is full the entry is dropped with a warning.
func (d *Dispatcher) Enqueue(entry model.LogEntry) {
	select {
	case d.queue <- entry:
		metrics.LogQueueDepth.Set(float64(len(d.queue)))
	default:
		metrics.LogQueueDropsTotal.Inc()
		d.logger.Warn("log queue full, entry dropped",
			zap.String("user_id", entry.UserID),
		)
	}
}

// Close stops intake and waits for the worker to drain the queue, up to the
// drain timeout.
func (d *Dispatcher) Close(drainTimeout time.Duration) {
	d.closeOnce.Do(func() {
		close(d.queue)
		select {
		case <-d.done:
		case <-time.After(drainTimeout):
			d.logger.Warn("log queue drain timed out",
				zap.Int("pending", len(d.queue)),
			)
		}
	})
}

// Running reports whether the worker is alive. Used by the readiness probe.
func (d *Dispatcher) Running() bool {
	return d.running.Load()
}

func (d *Dispatcher) run() {
	defer d.running.Store(false)
	defer close(d.done)

	for entry := range d.queue {
		metrics.LogQueueDepth.Set(float64(len(d.queue)))
		d.deliver(entry)
	}
}

func (d *Dispatcher) deliver(entry model.LogEntry) {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	err := d.sink.Append(ctx, entry)
	metrics.RecordSinkDelivery("logs", err)
	if err != nil && !errors.Is(err, sink.ErrDisabled) {
		d.logger.Warn("dialog log delivery failed",
			zap.String("user_id", entry.UserID),
			zap.Error(err),
		)
	}
}
