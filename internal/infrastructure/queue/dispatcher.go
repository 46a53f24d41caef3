package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/microtasks/internal/api/metrics"
	"github.com/99minutos/microtasks/internal/core/domain"
	"github.com/99minutos/microtasks/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	writeTimeout   = 5 * time.Second
)

// Dispatcher routes review events to a fixed set of workers using consistent
// hashing on the submission ID, preserving per-submission ordering.
type Dispatcher struct {
	workers []chan domain.ReviewEvent
	repo    ports.ReviewAuditRepository
	log     zerolog.Logger

	mu      sync.RWMutex
	stopped bool
	wg      sync.WaitGroup
}

var _ ports.ReviewRecorder = (*Dispatcher)(nil)

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, repo ports.ReviewAuditRepository, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.ReviewEvent, numWorkers),
		repo:    repo,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.ReviewEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Queued events are still written after
// ctx is cancelled; call Stop to drain and release the workers.
func (d *Dispatcher) Start(ctx context.Context) {
	base := context.WithoutCancel(ctx)
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(base, i, ch)
	}
}

// Record hands an event to the worker responsible for its submission. It never
// blocks: when the worker's buffer is full or the dispatcher is stopped the
// event is dropped and logged.
func (d *Dispatcher) Record(event domain.ReviewEvent) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.stopped {
		d.drop(event, "dispatcher stopped")
		return
	}

	idx := d.shardIndex(event.SubmissionID)
	select {
	case d.workers[idx] <- event:
		metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		d.drop(event, "queue full")
	}
}

// Stop closes the worker channels and waits until every queued event has been
// handled. It is safe to call more than once.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if !d.stopped {
		d.stopped = true
		for _, ch := range d.workers {
			close(ch)
		}
	}
	d.mu.Unlock()
	d.wg.Wait()
}

// shardIndex maps a submission ID deterministically to a worker index.
func (d *Dispatcher) shardIndex(submissionID int64) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strconv.FormatInt(submissionID, 10)))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) drop(event domain.ReviewEvent, reason string) {
	metrics.AuditEventsTotal.WithLabelValues("dropped").Inc()
	d.log.Warn().
		Int64("submission_id", event.SubmissionID).
		Str("status", string(event.To)).
		Str("reason", reason).
		Msg("review audit event dropped")
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.ReviewEvent) {
	defer d.wg.Done()
	label := strconv.Itoa(id)

	for event := range ch {
		metrics.AuditQueueDepth.WithLabelValues(label).Set(float64(len(ch)))

		start := time.Now()
		writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
		err := d.repo.Insert(writeCtx, event)
		cancel()
		metrics.AuditWriteDuration.Observe(time.Since(start).Seconds())

		if err != nil {
			metrics.AuditEventsTotal.WithLabelValues("failed").Inc()
			d.log.Error().Err(err).
				Int64("submission_id", event.SubmissionID).
				Int("worker_id", id).
				Msg("review audit write failed")
			continue
		}
		metrics.AuditEventsTotal.WithLabelValues("persisted").Inc()
	}
}

// NopRecorder discards review events. Used when no audit store is configured.
type NopRecorder struct{}

func (NopRecorder) Record(domain.ReviewEvent) {}
