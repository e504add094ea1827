// Package usecase delivers notifications off the request path.
package usecase

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"heartlink/internal/feature/notification/domain"
)

// Renderer turns a notification into an email.
type Renderer interface {
	Render(n domain.Notification) (domain.Email, error)
}

// Mailer sends a rendered email.
type Mailer interface {
	Send(ctx context.Context, e domain.Email) error
}

// ResultFunc observes the outcome of each delivery attempt.
type ResultFunc func(kind domain.Kind, err error)

// DefaultDeliveryTimeout bounds a single render-and-send attempt.
const DefaultDeliveryTimeout = time.Minute

// ErrQueueFull is reported to the ResultFunc when a notification is dropped.
var ErrQueueFull = errors.New("notification queue full")

// Dispatcher delivers notifications with a fixed pool of workers.
// Notify never blocks the caller and delivery errors are only logged.
type Dispatcher struct {
	renderer Renderer
	mailer   Mailer
	onResult ResultFunc
	timeout  time.Duration

	queue chan domain.Notification
	wg    sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithResultFunc registers f to observe delivery outcomes.
func WithResultFunc(f ResultFunc) Option {
	return func(d *Dispatcher) { d.onResult = f }
}

// WithDeliveryTimeout overrides DefaultDeliveryTimeout.
func WithDeliveryTimeout(d time.Duration) Option {
	return func(disp *Dispatcher) {
		if d > 0 {
			disp.timeout = d
		}
	}
}

// NewDispatcher starts workers goroutines reading from a queue of queueSize.
func NewDispatcher(renderer Renderer, mailer Mailer, workers, queueSize int, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		renderer: renderer,
		mailer:   mailer,
		onResult: func(domain.Kind, error) {},
		timeout:  DefaultDeliveryTimeout,
		queue:    make(chan domain.Notification, queueSize),
	}
	for _, opt := range opts {
		opt(d)
	}
	for range workers {
		d.wg.Add(1)
		go d.work()
	}
	return d
}

// Notify enqueues n. It drops n when the queue is full or the dispatcher is closed.
func (d *Dispatcher) Notify(_ context.Context, n domain.Notification) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		slog.Warn("notification dropped after shutdown", "kind", n.Kind)
		return
	}
	select {
	case d.queue <- n:
	default:
		slog.Warn("notification dropped", "kind", n.Kind, "error", ErrQueueFull)
		d.onResult(n.Kind, ErrQueueFull)
	}
}

// Close stops accepting notifications and waits for queued ones to be delivered
// or for ctx to expire.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) work() {
	defer d.wg.Done()
	for n := range d.queue {
		err := d.deliver(n)
		if err != nil {
			slog.Error("notification delivery failed", "kind", n.Kind, "error", err)
		}
		d.onResult(n.Kind, err)
	}
}

func (d *Dispatcher) deliver(n domain.Notification) error {
	email, err := d.renderer.Render(n)
	if err != nil {
		return err
	}
	// workers outlive requests, so delivery runs on its own context
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()
	return d.mailer.Send(ctx, email)
}
