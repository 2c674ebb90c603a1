// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hireheaven Contributors

package notify_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/hireheaven/hireheaven/internal/notify"
)

type recordingSink struct {
	mu       sync.Mutex
	subjects []string
	messages []any
	ctxErrs  []error
	err      error
	block    chan struct{}
}

func (s *recordingSink) Publish(ctx context.Context, subject string, v any) error {
	if s.block != nil {
		<-s.block
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subjects = append(s.subjects, subject)
	s.messages = append(s.messages, v)
	s.ctxErrs = append(s.ctxErrs, ctx.Err())
	return s.err
}

func (s *recordingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages)
}

func TestDispatcher_PublishesDetached(t *testing.T) {
	defer goleak.VerifyNone(t)

	sink := &recordingSink{}
	d := notify.NewDispatcher(sink, nil)

	ctx, cancel := context.WithCancel(context.Background())
	mail := notify.Mail{To: "ada@x.com", Subject: "s", HTML: "<p>hi</p>"}
	d.Dispatch(ctx, mail)
	cancel()

	require.NoError(t, d.Close(context.Background()))

	require.Equal(t, 1, sink.count())
	assert.Equal(t, notify.MailSubject, sink.subjects[0])
	assert.Equal(t, mail, sink.messages[0])
	assert.NoError(t, sink.ctxErrs[0], "caller cancellation must not reach the publish")
}

func TestDispatcher_DoesNotBlockCaller(t *testing.T) {
	defer goleak.VerifyNone(t)

	sink := &recordingSink{block: make(chan struct{})}
	d := notify.NewDispatcher(sink, nil)

	returned := make(chan struct{})
	go func() {
		d.Dispatch(context.Background(), notify.Mail{To: "a@b.c"})
		close(returned)
	}()

	select {
	case <-returned:
	case <-time.After(time.Second):
		t.Fatal("Dispatch blocked on the sink")
	}

	close(sink.block)
	require.NoError(t, d.Close(context.Background()))
	assert.Equal(t, 1, sink.count())
}

func TestDispatcher_FailureIsSwallowedAndCounted(t *testing.T) {
	defer goleak.VerifyNone(t)

	before := testutil.ToFloat64(notify.Notifications.WithLabelValues(notify.OutcomeFailed))

	sink := &recordingSink{err: errors.New("broker unavailable")}
	d := notify.NewDispatcher(sink, nil)
	d.Dispatch(context.Background(), notify.Mail{To: "a@b.c"})
	require.NoError(t, d.Close(context.Background()))

	after := testutil.ToFloat64(notify.Notifications.WithLabelValues(notify.OutcomeFailed))
	assert.Equal(t, before+1, after)
}

func TestDispatcher_CountsUnconnectedBrokerAsDropped(t *testing.T) {
	defer goleak.VerifyNone(t)

	publisher := notify.NewPublisher(notify.PublisherConfig{URL: "nats://unused"}, nil)
	d := notify.NewDispatcher(publisher, nil)

	dropped := notify.Notifications.WithLabelValues(notify.OutcomeDropped)
	published := notify.Notifications.WithLabelValues(notify.OutcomePublished)
	droppedBefore, publishedBefore := testutil.ToFloat64(dropped), testutil.ToFloat64(published)

	d.Dispatch(context.Background(), notify.Mail{To: "a@b.c"})
	require.NoError(t, d.Close(context.Background()))

	assert.InDelta(t, droppedBefore+1, testutil.ToFloat64(dropped), 0)
	assert.InDelta(t, publishedBefore, testutil.ToFloat64(published), 0)
}

func TestDispatcher_DropsAfterClose(t *testing.T) {
	defer goleak.VerifyNone(t)

	sink := &recordingSink{}
	d := notify.NewDispatcher(sink, nil, notify.WithSubject("custom"))
	require.NoError(t, d.Close(context.Background()))

	d.Dispatch(context.Background(), notify.Mail{To: "a@b.c"})
	assert.Equal(t, 0, sink.count())
}

func TestDispatcher_CloseHonoursContext(t *testing.T) {
	sink := &recordingSink{block: make(chan struct{})}
	d := notify.NewDispatcher(sink, nil)
	d.Dispatch(context.Background(), notify.Mail{To: "a@b.c"})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := d.Close(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(sink.block)
	require.NoError(t, d.Close(context.Background()))
}
