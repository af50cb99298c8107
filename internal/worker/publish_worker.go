package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"mortgage/internal/amqp"
	applog "mortgage/internal/log"
)

// Publisher sends recompute events to the broker
type Publisher interface {
	PublishPaymentRecomputed(ctx context.Context, msg *amqp.PaymentRecomputedMessage) error
}

// PublishWorker moves recompute events off the edit path. Enqueue never
// blocks: when the buffer is full the event is dropped and counted.
type PublishWorker struct {
	publisher Publisher
	logger    *applog.Logger
	timeout   time.Duration

	queue    chan *amqp.PaymentRecomputedMessage
	wg       sync.WaitGroup
	stopOnce sync.Once

	mu     sync.RWMutex
	closed bool

	published atomic.Int64
	failed    atomic.Int64
	dropped   atomic.Int64
}

// Stats is a point-in-time view of the worker counters
type Stats struct {
	Published int64
	Failed    int64
	Dropped   int64
	Pending   int
}

// NewPublishWorker starts a single goroutine draining a queue of size buffer
func NewPublishWorker(publisher Publisher, logger *applog.Logger, buffer int, timeout time.Duration) *PublishWorker {
	if buffer < 1 {
		buffer = 1
	}
	w := &PublishWorker{
		publisher: publisher,
		logger:    logger.WithComponent(applog.ComponentAMQP),
		timeout:   timeout,
		queue:     make(chan *amqp.PaymentRecomputedMessage, buffer),
	}
	w.wg.Add(1)
	go w.run()
	return w
}

// Enqueue hands msg to the worker and reports whether it was accepted
func (w *PublishWorker) Enqueue(msg *amqp.PaymentRecomputedMessage) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		w.dropped.Add(1)
		return false
	}

	select {
	case w.queue <- msg:
		return true
	default:
		w.dropped.Add(1)
		w.logger.Warn("Publish queue full, dropping event",
			applog.FieldSessionID, msg.SessionID,
			applog.FieldRevision, msg.Revision)
		return false
	}
}

func (w *PublishWorker) run() {
	defer w.wg.Done()
	for msg := range w.queue {
		w.publish(msg)
	}
}

func (w *PublishWorker) publish(msg *amqp.PaymentRecomputedMessage) {
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()

	if err := w.publisher.PublishPaymentRecomputed(ctx, msg); err != nil {
		w.failed.Add(1)
		w.logger.Error("Failed to publish payment recomputed event",
			applog.FieldSessionID, msg.SessionID,
			applog.FieldRevision, msg.Revision,
			applog.FieldOperation, applog.OpPublish,
			applog.FieldError, err)
		return
	}
	w.published.Add(1)
}

// Stats returns the worker counters
func (w *PublishWorker) Stats() Stats {
	return Stats{
		Published: w.published.Load(),
		Failed:    w.failed.Load(),
		Dropped:   w.dropped.Load(),
		Pending:   len(w.queue),
	}
}

// Stop refuses new events, drains what is queued and waits for the goroutine
func (w *PublishWorker) Stop() {
	w.stopOnce.Do(func() {
		w.mu.Lock()
		w.closed = true
		close(w.queue)
		w.mu.Unlock()
		w.wg.Wait()
	})
}
