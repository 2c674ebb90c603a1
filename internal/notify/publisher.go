// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hireheaven Contributors

package notify

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/samber/oops"
	"github.com/sethvargo/go-retry"
)

// jetStream is the subset of nats.JetStreamContext the publisher uses.
type jetStream interface {
	StreamNames(opts ...nats.JSOpt) <-chan string
	AddStream(cfg *nats.StreamConfig, opts ...nats.JSOpt) (*nats.StreamInfo, error)
	Publish(subj string, data []byte, opts ...nats.PubOpt) (*nats.PubAck, error)
}

// ErrNotConnected is returned by Publish before a successful Connect.
var ErrNotConnected = errors.New("broker publisher not connected")

// connector dials the broker and returns a JetStream handle plus its closer.
type connector func(ctx context.Context) (jetStream, func(), error)

// PublisherConfig configures the broker connection.
type PublisherConfig struct {
	URL string
	// Streams lists the channels provisioned on connect. Defaults to MailSubject.
	Streams []string
	// ConnectAttempts bounds connection retries. Defaults to 5.
	ConnectAttempts uint64
	// ConnectBackoff is the first retry delay, doubled per attempt. Defaults to 500ms.
	ConnectBackoff time.Duration
}

// Publisher publishes JSON messages onto JetStream streams.
// Publish before a successful Connect sends nothing and returns ErrNotConnected.
type Publisher struct {
	cfg     PublisherConfig
	connect connector
	logger  *slog.Logger

	mu    sync.RWMutex
	js    jetStream
	close func()
}

// NewPublisher creates a disconnected Publisher.
func NewPublisher(cfg PublisherConfig, logger *slog.Logger) *Publisher {
	if len(cfg.Streams) == 0 {
		cfg.Streams = []string{MailSubject}
	}
	if cfg.ConnectAttempts == 0 {
		cfg.ConnectAttempts = 5
	}
	if cfg.ConnectBackoff <= 0 {
		cfg.ConnectBackoff = 500 * time.Millisecond
	}
	if logger == nil {
		logger = slog.Default()
	}
	p := &Publisher{cfg: cfg, logger: logger}
	p.connect = p.dial
	return p
}

func (p *Publisher) dial(_ context.Context) (jetStream, func(), error) {
	nc, err := nats.Connect(p.cfg.URL, nats.Name("hireheaven-accounts"), nats.MaxReconnects(-1))
	if err != nil {
		return nil, nil, err
	}
	js, err := nc.JetStream()
	if err != nil {
		nc.Close()
		return nil, nil, err
	}
	closeFn := func() {
		if err := nc.Drain(); err != nil {
			nc.Close()
		}
	}
	return js, closeFn, nil
}

// Connect dials the broker with bounded exponential backoff and creates any
// configured stream that does not exist yet.
func (p *Publisher) Connect(ctx context.Context) error {
	backoff := retry.WithMaxRetries(p.cfg.ConnectAttempts-1, retry.NewExponential(p.cfg.ConnectBackoff))

	type conn struct {
		js    jetStream
		close func()
	}
	c, err := retry.DoValue(ctx, backoff, func(ctx context.Context) (conn, error) {
		js, closeFn, dialErr := p.connect(ctx)
		if dialErr != nil {
			p.logger.WarnContext(ctx, "broker connect attempt failed", "url", p.cfg.URL, "error", dialErr)
			return conn{}, retry.RetryableError(dialErr)
		}
		return conn{js: js, close: closeFn}, nil
	})
	if err != nil {
		return oops.Code("BROKER_CONNECT_FAILED").With("url", p.cfg.URL).Wrap(err)
	}

	if err := p.ensureStreams(ctx, c.js); err != nil {
		if c.close != nil {
			c.close()
		}
		return err
	}

	p.mu.Lock()
	p.js = c.js
	p.close = c.close
	p.mu.Unlock()

	p.logger.InfoContext(ctx, "broker publisher connected", "url", p.cfg.URL)
	return nil
}

func (p *Publisher) ensureStreams(ctx context.Context, js jetStream) error {
	var existing []string
	for name := range js.StreamNames(nats.Context(ctx)) {
		existing = append(existing, name)
	}

	for _, stream := range p.cfg.Streams {
		if slices.Contains(existing, stream) {
			continue
		}
		_, err := js.AddStream(&nats.StreamConfig{
			Name:     stream,
			Subjects: []string{stream},
			Storage:  nats.FileStorage,
			Replicas: 1,
		}, nats.Context(ctx))
		if err != nil {
			return oops.Code("BROKER_STREAM_CREATE_FAILED").With("stream", stream).Wrap(err)
		}
		p.logger.InfoContext(ctx, "broker stream created", "stream", stream)
	}
	return nil
}

// Connected reports whether Connect has succeeded.
func (p *Publisher) Connected() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.js != nil
}

// Publish encodes v as JSON and publishes it to subject.
func (p *Publisher) Publish(ctx context.Context, subject string, v any) error {
	p.mu.RLock()
	js := p.js
	p.mu.RUnlock()

	if js == nil {
		return ErrNotConnected
	}

	data, err := json.Marshal(v)
	if err != nil {
		return oops.Code("BROKER_ENCODE_FAILED").With("subject", subject).Wrap(err)
	}

	if _, err := js.Publish(subject, data, nats.Context(ctx)); err != nil {
		return oops.Code("BROKER_PUBLISH_FAILED").With("subject", subject).Wrap(err)
	}
	return nil
}

// Close drains the broker connection.
func (p *Publisher) Close() {
	p.mu.Lock()
	closeFn := p.close
	p.js = nil
	p.close = nil
	p.mu.Unlock()

	if closeFn != nil {
		closeFn()
	}
}
