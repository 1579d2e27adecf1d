// file: internals/events/event_bus.go
//
// Package events carries audit events from the rating stores to their
// consumers. Publishing never blocks a transition: events are queued and
// dispatched by a single background worker.
package events

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"creditrating_backend/internals/metrics"
)

type Action string

const (
	TemplateCreated    Action = "template.created"
	TemplateUpdated    Action = "template.updated"
	TemplateApproved   Action = "template.approved"
	TemplateRejected   Action = "template.rejected"
	TemplateVisibility Action = "template.visibility"
	TemplateDeleted    Action = "template.deleted"

	AssessmentCreated     Action = "assessment.created"
	AssessmentApproved    Action = "assessment.approved"
	AssessmentRejected    Action = "assessment.rejected"
	AssessmentResubmitted Action = "assessment.resubmitted"
	AssessmentVisibility  Action = "assessment.visibility"
)

const (
	EntityTemplate   = "template"
	EntityAssessment = "assessment"
)

type Event struct {
	Action      Action
	EntityType  string
	EntityID    string
	Actor       string
	Description string
	Metadata    map[string]any
	OccurredAt  time.Time
}

type Handler func(ctx context.Context, e Event) error

// Publisher is what the stores depend on.
type Publisher interface {
	Publish(e Event)
}

type Bus struct {
	log      *logrus.Logger
	queue    chan Event
	mu       sync.RWMutex
	handlers []Handler

	startOnce sync.Once
	stopOnce  sync.Once
	done      chan struct{}
	cancel    context.CancelFunc
}

func NewBus(log *logrus.Logger, queueSize int) *Bus {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if queueSize <= 0 {
		queueSize = 256
	}
	return &Bus{
		log:   log,
		queue: make(chan Event, queueSize),
		done:  make(chan struct{}),
	}
}

func (b *Bus) Subscribe(h Handler) {
	if h == nil {
		return
	}
	b.mu.Lock()
	b.handlers = append(b.handlers, h)
	b.mu.Unlock()
}

// Publish enqueues e. When the queue is full the event is dropped.
func (b *Bus) Publish(e Event) {
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now()
	}
	select {
	case b.queue <- e:
		metrics.AuditEvent("published")
	default:
		metrics.AuditEvent("dropped")
		b.log.WithFields(logrus.Fields{
			"action":    e.Action,
			"entity_id": e.EntityID,
		}).Warn("events: queue full, audit event dropped")
	}
}

// Start launches the dispatch worker. Calling it more than once is a no-op.
func (b *Bus) Start(ctx context.Context) {
	b.startOnce.Do(func() {
		ctx, b.cancel = context.WithCancel(ctx)
		go b.run(ctx)
	})
}

// Close stops accepting work, drains what is already queued and waits for the
// worker, or for ctx to expire.
func (b *Bus) Close(ctx context.Context) error {
	b.stopOnce.Do(func() {
		if b.cancel != nil {
			b.cancel()
		} else {
			close(b.done)
		}
	})
	select {
	case <-b.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (b *Bus) run(ctx context.Context) {
	defer close(b.done)
	for {
		select {
		case e := <-b.queue:
			b.dispatch(e)
		case <-ctx.Done():
			for {
				select {
				case e := <-b.queue:
					b.dispatch(e)
				default:
					return
				}
			}
		}
	}
}

func (b *Bus) dispatch(e Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers))
	copy(handlers, b.handlers)
	b.mu.RUnlock()

	for _, h := range handlers {
		b.call(h, e)
	}
}

func (b *Bus) call(h Handler, e Event) {
	defer func() {
		if r := recover(); r != nil {
			metrics.AuditEvent("failed")
			b.log.WithField("action", e.Action).Errorf("events: handler panicked: %v", r)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := h(ctx, e); err != nil {
		metrics.AuditEvent("failed")
		b.log.WithFields(logrus.Fields{
			"action":    e.Action,
			"entity_id": e.EntityID,
		}).WithError(err).Error("events: handler failed")
		return
	}
	metrics.AuditEvent("delivered")
}

// Discard is a Publisher that drops everything.
type Discard struct{}

func (Discard) Publish(Event) {}

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Publish(e Event) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

func (r *Recorder) Actions() []Action {
	evs := r.Events()
	out := make([]Action, len(evs))
	for i, e := range evs {
		out[i] = e.Action
	}
	return out
}
