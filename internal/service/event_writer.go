package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/guttosm/assembly-service/internal/domain/model"
	"github.com/guttosm/assembly-service/internal/logger"
)

// EventWriterConfig holds configuration for the async event writer.
type EventWriterConfig struct {
	// BufferSize is the size of the event channel buffer.
	BufferSize int
	// NumWorkers is the number of worker goroutines persisting events.
	NumWorkers int
	// WriteTimeout is the timeout for writing an event to the database.
	WriteTimeout time.Duration
}

// DefaultEventWriterConfig returns sensible defaults for the event writer.
func DefaultEventWriterConfig() EventWriterConfig {
	return EventWriterConfig{
		BufferSize:   1000,
		NumWorkers:   4,
		WriteTimeout: 5 * time.Second,
	}
}

// AsyncEventWriter persists engine events through a buffered worker pool,
// keeping scan and weight handling off the database write path.
type AsyncEventWriter struct {
	eventLog     EventLogService
	eventCh      chan *model.Event
	wg           sync.WaitGroup
	stopCh       chan struct{}
	writeTimeout time.Duration

	// Metrics
	enqueued int64
	dropped  int64
	written  int64
	errors   int64
}

// NewAsyncEventWriter creates a new async event writer with the given configuration.
func NewAsyncEventWriter(eventLog EventLogService, cfg EventWriterConfig) *AsyncEventWriter {
	if eventLog == nil {
		return nil
	}

	w := &AsyncEventWriter{
		eventLog:     eventLog,
		eventCh:      make(chan *model.Event, cfg.BufferSize),
		stopCh:       make(chan struct{}),
		writeTimeout: cfg.WriteTimeout,
	}

	// Start worker pool
	for i := 0; i < cfg.NumWorkers; i++ {
		w.wg.Add(1)
		go w.worker()
	}

	return w
}

// worker persists events from the channel.
func (w *AsyncEventWriter) worker() {
	defer w.wg.Done()

	for {
		select {
		case event, ok := <-w.eventCh:
			if !ok {
				return // Channel closed
			}
			w.writeEvent(event)
		case <-w.stopCh:
			// Drain remaining events before stopping
			for {
				select {
				case event := <-w.eventCh:
					w.writeEvent(event)
				default:
					return
				}
			}
		}
	}
}

// writeEvent persists a single event to the database.
func (w *AsyncEventWriter) writeEvent(event *model.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), w.writeTimeout)
	defer cancel()

	if err := w.eventLog.RecordEvent(ctx, event); err != nil {
		atomic.AddInt64(&w.errors, 1)
		// Log the error locally but don't propagate
		log := logger.Logger()
		log.Warn().Err(err).Str("kind", string(event.Kind)).Msg("Failed to persist assembly event")
	} else {
		atomic.AddInt64(&w.written, 1)
	}
}

// Publish enqueues an event for async persistence.
// Returns true if the event was enqueued, false if the buffer is full.
func (w *AsyncEventWriter) Publish(event *model.Event) bool {
	select {
	case w.eventCh <- event:
		atomic.AddInt64(&w.enqueued, 1)
		return true
	default:
		// Buffer full, drop the event
		atomic.AddInt64(&w.dropped, 1)
		return false
	}
}

// Stop gracefully shuts down the event writer.
// It waits for all pending events to be persisted.
func (w *AsyncEventWriter) Stop() {
	close(w.stopCh)
	w.wg.Wait()
	close(w.eventCh)
}

// Stats returns current event writer statistics.
func (w *AsyncEventWriter) Stats() (enqueued, dropped, written, errors int64) {
	return atomic.LoadInt64(&w.enqueued),
		atomic.LoadInt64(&w.dropped),
		atomic.LoadInt64(&w.written),
		atomic.LoadInt64(&w.errors)
}
