package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"mortgage/internal/amqp"
	"mortgage/internal/core"
	applog "mortgage/internal/log"
)

type fakePublisher struct {
	mu    sync.Mutex
	got   []*amqp.PaymentRecomputedMessage
	err   error
	block chan struct{}
}

func (f *fakePublisher) PublishPaymentRecomputed(ctx context.Context, msg *amqp.PaymentRecomputedMessage) error {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.got = append(f.got, msg)
	return f.err
}

func (f *fakePublisher) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.got)
}

func message(rev uint64) *amqp.PaymentRecomputedMessage {
	return amqp.NewPaymentRecomputedMessage("s", "principal", rev, core.DefaultLoanParameters(), core.AmortizationResult{})
}

func TestPublishWorker_DeliversInOrder(t *testing.T) {
	pub := &fakePublisher{}
	w := NewPublishWorker(pub, applog.Discard(), 8, time.Second)

	for i := uint64(1); i <= 3; i++ {
		if !w.Enqueue(message(i)) {
			t.Fatalf("enqueue %d rejected", i)
		}
	}
	w.Stop()

	if pub.count() != 3 {
		t.Fatalf("published %d, want 3", pub.count())
	}
	for i, msg := range pub.got {
		if msg.Revision != uint64(i+1) {
			t.Errorf("message %d has revision %d", i, msg.Revision)
		}
	}
	if s := w.Stats(); s.Published != 3 || s.Failed != 0 || s.Dropped != 0 {
		t.Errorf("stats = %+v", s)
	}
}

func TestPublishWorker_CountsFailures(t *testing.T) {
	pub := &fakePublisher{err: errors.New("connection refused")}
	w := NewPublishWorker(pub, applog.Discard(), 4, time.Second)

	w.Enqueue(message(1))
	w.Stop()

	if s := w.Stats(); s.Failed != 1 || s.Published != 0 {
		t.Errorf("stats = %+v", s)
	}
}

func TestPublishWorker_DropsWhenFull(t *testing.T) {
	pub := &fakePublisher{block: make(chan struct{})}
	w := NewPublishWorker(pub, applog.Discard(), 1, time.Second)

	// The first message may already be in flight, so fill until a drop.
	dropped := false
	for i := uint64(1); i <= 5; i++ {
		if !w.Enqueue(message(i)) {
			dropped = true
			break
		}
	}
	close(pub.block)
	w.Stop()

	if !dropped {
		t.Fatal("expected a full queue to drop an event")
	}
	if w.Stats().Dropped == 0 {
		t.Error("drop not counted")
	}
}

func TestPublishWorker_EnqueueAfterStop(t *testing.T) {
	w := NewPublishWorker(&fakePublisher{}, applog.Discard(), 1, time.Second)
	w.Stop()
	w.Stop()

	if w.Enqueue(message(1)) {
		t.Error("enqueue after stop should be rejected")
	}
}
