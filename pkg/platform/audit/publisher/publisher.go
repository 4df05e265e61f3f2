// Package publisher provides the store-backed audit publisher. By default
// events are appended synchronously; an async buffer can be enabled for
// high-volume callers, trading delivery guarantees for latency.
package publisher

import (
	"context"
	"log/slog"
	"sync"
	"time"

	id "clubdir/pkg/domain"
	audit "clubdir/pkg/platform/audit"
)

// Publisher writes events to an audit.Store, optionally through a buffered
// background worker.
type Publisher struct {
	store  audit.Store
	logger *slog.Logger

	buffer  chan audit.Event
	done    chan struct{}
	wg      sync.WaitGroup
	closeMu sync.Mutex
	closed  bool
}

// Option configures the Publisher.
type Option func(*Publisher)

// WithAsyncBuffer enables asynchronous publishing with the given buffer size.
// When the buffer is full, events are dropped rather than blocking the
// request path; drops are logged.
func WithAsyncBuffer(size int) Option {
	return func(p *Publisher) {
		if size > 0 {
			p.buffer = make(chan audit.Event, size)
		}
	}
}

// WithLogger sets a logger for drop and drain reporting.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

// NewPublisher creates a publisher over the given store.
func NewPublisher(store audit.Store, opts ...Option) *Publisher {
	p := &Publisher{
		store:  store,
		logger: slog.Default(),
		done:   make(chan struct{}),
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

// Emit publishes an event. In sync mode the store append happens inline; in
// async mode the event is queued and Emit never blocks.
func (p *Publisher) Emit(ctx context.Context, event audit.Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if p.buffer == nil {
		return p.store.Append(ctx, event)
	}

	select {
	case p.buffer <- event:
		return nil
	default:
		// The request path must not block on audit; drop and account for it.
		p.logger.Warn("audit buffer full, dropping event",
			"action", event.Action,
			"decision", event.Decision,
		)
		return nil
	}
}

// List returns events for a principal, for test assertions and operator
// inspection.
func (p *Publisher) List(ctx context.Context, principal id.PrincipalID) ([]audit.Event, error) {
	return p.store.ListByPrincipal(ctx, principal)
}

// Close drains the async buffer and stops the worker. Safe to call twice.
func (p *Publisher) Close() {
	p.closeMu.Lock()
	defer p.closeMu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	close(p.done)
	p.wg.Wait()
}

func (p *Publisher) drain() {
	defer p.wg.Done()
	for {
		select {
		case event := <-p.buffer:
			p.append(event)
		case <-p.done:
			// Drain whatever is left before returning.
			for {
				select {
				case event := <-p.buffer:
					p.append(event)
				default:
					return
				}
			}
		}
	}
}

func (p *Publisher) append(event audit.Event) {
	if err := p.store.Append(context.Background(), event); err != nil {
		p.logger.Error("audit append failed", "error", err, "action", event.Action)
	}
}
