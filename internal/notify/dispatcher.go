// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hireheaven Contributors

package notify

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/samber/oops"
)

// DefaultDispatchTimeout bounds a single detached publish.
const DefaultDispatchTimeout = 10 * time.Second

// Sink publishes one message. *Publisher implements it.
type Sink interface {
	Publish(ctx context.Context, subject string, v any) error
}

// Dispatcher runs each mail publish as a detached task. The caller's
// cancellation does not reach the task and its outcome is only logged.
type Dispatcher struct {
	sink    Sink
	subject string
	timeout time.Duration
	logger  *slog.Logger

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithTimeout bounds each publish.
func WithTimeout(d time.Duration) DispatcherOption {
	return func(disp *Dispatcher) {
		if d > 0 {
			disp.timeout = d
		}
	}
}

// WithSubject overrides the destination channel.
func WithSubject(subject string) DispatcherOption {
	return func(disp *Dispatcher) {
		if subject != "" {
			disp.subject = subject
		}
	}
}

// NewDispatcher creates a Dispatcher publishing to MailSubject through sink.
func NewDispatcher(sink Sink, logger *slog.Logger, opts ...DispatcherOption) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	d := &Dispatcher{
		sink:    sink,
		subject: MailSubject,
		timeout: DefaultDispatchTimeout,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch starts publishing mail and returns immediately.
func (d *Dispatcher) Dispatch(ctx context.Context, mail Mail) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		d.logger.WarnContext(ctx, "mail dispatcher closed, message dropped", "subject", d.subject)
		recordNotification(OutcomeDropped)
		return
	}
	d.wg.Add(1)
	d.mu.Unlock()

	detached := context.WithoutCancel(ctx)
	go func() {
		defer d.wg.Done()

		ctx, cancel := context.WithTimeout(detached, d.timeout)
		defer cancel()

		err := d.sink.Publish(ctx, d.subject, mail)
		if errors.Is(err, ErrNotConnected) {
			d.logger.WarnContext(ctx, "broker not connected, mail dropped", "subject", d.subject)
			recordNotification(OutcomeDropped)
			return
		}
		if err != nil {
			d.logger.WarnContext(ctx, "mail publish failed",
				"operation", "publish mail",
				"subject", d.subject,
				"error", err)
			recordNotification(OutcomeFailed)
			return
		}
		recordNotification(OutcomePublished)
	}()
}

// Close stops accepting mail and waits for in-flight publishes or ctx.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	d.closed = true
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
		return oops.Code("MAIL_DISPATCH_DRAIN_TIMEOUT").Wrap(ctx.Err())
	}
}
