package audit

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Store persists audit events.
type Store interface {
	Save(ctx context.Context, event Event) error
	ListByFirm(ctx context.Context, firmID string) ([]Event, error)
}

// Publisher emits audit events to a store, synchronously by default or
// through a buffered channel when configured async. Close drains the buffer.
type Publisher struct {
	store  Store
	logger *slog.Logger
	clock  func() time.Time

	mu     sync.Mutex
	closed bool
	buffer chan Event
	wg     sync.WaitGroup
	once   sync.Once
}

// Option configures a Publisher.
type Option func(*Publisher)

// WithAsyncBuffer switches the publisher to asynchronous emission with the
// given channel capacity. A full buffer falls back to synchronous writes so
// events are never dropped.
func WithAsyncBuffer(size int) Option {
	return func(p *Publisher) {
		if size > 0 {
			p.buffer = make(chan Event, size)
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) { p.logger = logger }
}

func WithClock(clock func() time.Time) Option {
	return func(p *Publisher) { p.clock = clock }
}

// NewPublisher creates a publisher over the given store.
func NewPublisher(store Store, opts ...Option) *Publisher {
	p := &Publisher{
		store:  store,
		logger: slog.Default(),
		clock:  time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.buffer != nil {
		p.wg.Add(1)
		go p.drain()
	}
	return p
}

// Emit records an event, filling in the timestamp and category. Emission
// failures are logged, never surfaced: audit problems must not fail the
// operation being audited.
func (p *Publisher) Emit(ctx context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = p.clock()
	}
	if event.Category == "" {
		event.Category = CategoryOf(AuditEvent(event.Action))
	}

	if p.enqueue(event) {
		return nil
	}

	if err := p.store.Save(ctx, event); err != nil {
		p.logger.ErrorContext(ctx, "audit save failed", "action", event.Action, "error", err)
	}
	return nil
}

// enqueue tries the async buffer. False when the publisher is synchronous,
// closing, or the buffer is full; the caller then writes synchronously so
// the event is never dropped. Sends hold the mutex so Close cannot close
// the channel under a pending send.
func (p *Publisher) enqueue(event Event) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.buffer == nil || p.closed {
		return false
	}
	select {
	case p.buffer <- event:
		return true
	default:
		return false
	}
}

// List returns a firm's audit trail.
func (p *Publisher) List(ctx context.Context, firmID string) ([]Event, error) {
	return p.store.ListByFirm(ctx, firmID)
}

// Close stops the async worker after the buffer is drained. Emits racing a
// Close fall back to synchronous writes.
func (p *Publisher) Close() {
	p.once.Do(func() {
		p.mu.Lock()
		p.closed = true
		p.mu.Unlock()

		if p.buffer != nil {
			close(p.buffer)
			p.wg.Wait()
		}
	})
}

func (p *Publisher) drain() {
	defer p.wg.Done()
	for event := range p.buffer {
		if err := p.store.Save(context.Background(), event); err != nil {
			p.logger.Error("audit save failed", "action", event.Action, "error", err)
		}
	}
}
