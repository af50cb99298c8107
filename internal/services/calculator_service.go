package services

import (
	"context"

	"mortgage/internal/amqp"
	"mortgage/internal/core"
	"mortgage/internal/form"
	applog "mortgage/internal/log"
)

// EventSink receives recompute events for delivery outside the process
type EventSink interface {
	Enqueue(msg *amqp.PaymentRecomputedMessage) bool
	Stop()
}

// CalculatorService builds per-session controllers and serves one-shot
// calculations for the API and CLI
type CalculatorService struct {
	logger *applog.Logger
	events EventSink
}

// NewCalculatorService creates the service. events may be nil, in which case
// recomputes are only logged.
func NewCalculatorService(logger *applog.Logger, events EventSink) *CalculatorService {
	return &CalculatorService{
		logger: logger.WithComponent(applog.ComponentCalculator),
		events: events,
	}
}

// NewController returns a controller at default parameters, wired to the
// logging subscriber and, when configured, the event sink
func (s *CalculatorService) NewController(sessionID string) *form.Controller {
	opts := []form.Option{
		form.WithSubscriber(s.logSubscriber(sessionID)),
	}
	if s.events != nil {
		opts = append(opts, form.WithSubscriber(s.publishSubscriber(sessionID)))
	}
	return form.New(opts...)
}

func (s *CalculatorService) logSubscriber(sessionID string) form.Subscriber {
	return form.SubscriberFunc(func(ctx context.Context, ev form.Recompute) {
		fields := applog.NewFields().
			WithSession(sessionID).
			WithOperation(applog.OpEdit).
			WithLoan(ev.Params.Principal, ev.Params.AnnualRatePercent, ev.Params.TermYears, ev.Params.DownPayment).
			WithPayment(ev.Result.MonthlyPayment, ev.Result.MonthlyWithExtras, ev.Result.TotalInterest)
		fields[applog.FieldField] = ev.Field.String()
		fields[applog.FieldRevision] = ev.Revision

		s.logger.DebugContext(ctx, "Payment recomputed", fields.ToSlice()...)
	})
}

func (s *CalculatorService) publishSubscriber(sessionID string) form.Subscriber {
	return form.SubscriberFunc(func(ctx context.Context, ev form.Recompute) {
		s.events.Enqueue(amqp.NewPaymentRecomputedMessage(
			sessionID, ev.Field.String(), ev.Revision, ev.Params, ev.Result,
		))
	})
}

// Calculate runs the engine once, without any session state
func (s *CalculatorService) Calculate(ctx context.Context, p core.LoanParameters) core.AmortizationResult {
	result := core.Compute(p)
	s.logger.DebugContext(ctx, "One-shot calculation",
		applog.NewFields().
			WithOperation(applog.OpCalculate).
			WithLoan(p.Principal, p.AnnualRatePercent, p.TermYears, p.DownPayment).
			WithPayment(result.MonthlyPayment, result.MonthlyWithExtras, result.TotalInterest).
			ToSlice()...)
	return result
}

// Close drains pending events
func (s *CalculatorService) Close() error {
	if s.events != nil {
		s.events.Stop()
	}
	return nil
}
