// Package form implements the interactive calculator state: the current loan
// parameters, the result derived from them, and the recompute-on-edit
// contract that display layers bind to.
package form

import (
	"context"
	"sync"

	"mortgage/internal/core"
)

// Recompute describes one accepted edit and the result it produced.
type Recompute struct {
	Field    Field
	Params   core.LoanParameters
	Result   core.AmortizationResult
	Revision uint64
}

// Subscriber is told about every recompute, synchronously and in
// registration order, after the controller state has been replaced.
// The controller is locked during the call: a subscriber must not call back
// into it, and everything it needs is carried by the event.
type Subscriber interface {
	OnRecompute(ctx context.Context, ev Recompute)
}

// SubscriberFunc adapts a plain function to Subscriber.
type SubscriberFunc func(ctx context.Context, ev Recompute)

// OnRecompute implements Subscriber
func (f SubscriberFunc) OnRecompute(ctx context.Context, ev Recompute) {
	f(ctx, ev)
}

// Snapshot is a consistent view of the controller state.
type Snapshot struct {
	Params   core.LoanParameters
	Result   core.AmortizationResult
	Revision uint64
}

// Controller owns one calculator's parameters and result.
// Edits are serialized: each runs to completion, subscribers included,
// before the next one starts.
type Controller struct {
	mu          sync.Mutex
	params      core.LoanParameters
	result      core.AmortizationResult
	revision    uint64
	subscribers []Subscriber
}

// Option configures a Controller at construction.
type Option func(*Controller)

// WithParams replaces the default starting parameters.
func WithParams(p core.LoanParameters) Option {
	return func(c *Controller) {
		c.params = p
	}
}

// WithSubscriber registers s before the initial computation is done.
func WithSubscriber(s Subscriber) Option {
	return func(c *Controller) {
		if s != nil {
			c.subscribers = append(c.subscribers, s)
		}
	}
}

// New creates a controller holding the default parameters and their result.
// The initial computation does not notify subscribers.
func New(opts ...Option) *Controller {
	c := &Controller{params: core.DefaultLoanParameters()}
	for _, opt := range opts {
		opt(c)
	}
	c.result = core.Compute(c.params)
	return c
}

// Subscribe registers s for all later recomputes.
func (c *Controller) Subscribe(s Subscriber) {
	if s == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subscribers = append(c.subscribers, s)
}

// Edit applies raw text typed into field.
//
// Empty text and text without a leading number are ignored and leave both
// the parameters and the result untouched. Otherwise the field is replaced,
// the result is recomputed in full and subscribers are notified. Edit
// reports whether the edit was accepted.
func (c *Controller) Edit(ctx context.Context, field Field, raw string) bool {
	_, ok := c.Apply(ctx, field, raw)
	return ok
}

// Apply is Edit returning the state the accepted edit produced, taken under
// the same lock. On rejection it returns the unchanged current state.
func (c *Controller) Apply(ctx context.Context, field Field, raw string) (Snapshot, bool) {
	v, err := core.ParseAmount(raw)
	if err != nil || !field.IsValid() {
		return c.Snapshot(), false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.params = field.apply(c.params, v)
	c.result = core.Compute(c.params)
	c.revision++

	ev := Recompute{
		Field:    field,
		Params:   c.params,
		Result:   c.result,
		Revision: c.revision,
	}
	for _, s := range c.subscribers {
		s.OnRecompute(ctx, ev)
	}
	return Snapshot{Params: c.params, Result: c.result, Revision: c.revision}, true
}

// Params returns the current loan parameters.
func (c *Controller) Params() core.LoanParameters {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.params
}

// Result returns the result computed from the current parameters.
func (c *Controller) Result() core.AmortizationResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result
}

// Revision counts accepted edits since construction.
func (c *Controller) Revision() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.revision
}

// Snapshot returns parameters, result and revision taken together.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{Params: c.params, Result: c.result, Revision: c.revision}
}
