package kafka

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	kafka "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"

	"booking-flow/internal/service"
)

type fakeReader struct {
	mu        sync.Mutex
	msgs      []kafka.Message
	committed []int64
	drained   chan struct{}
}

func newFakeReader(msgs ...kafka.Message) *fakeReader {
	return &fakeReader{msgs: msgs, drained: make(chan struct{})}
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	r.mu.Lock()
	if len(r.msgs) > 0 {
		m := r.msgs[0]
		r.msgs = r.msgs[1:]
		r.mu.Unlock()
		return m, nil
	}
	r.mu.Unlock()
	select {
	case <-r.drained:
	default:
		close(r.drained)
	}
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func (r *fakeReader) Close() error { return nil }

type fakeWriter struct {
	mu   sync.Mutex
	msgs []kafka.Message
	err  error
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

type scriptedHandler struct {
	mu    sync.Mutex
	calls map[string]int
	fn    func(payload string, call int) error
}

func (h *scriptedHandler) HandleMessage(_ context.Context, payload []byte) error {
	h.mu.Lock()
	if h.calls == nil {
		h.calls = map[string]int{}
	}
	h.calls[string(payload)]++
	n := h.calls[string(payload)]
	h.mu.Unlock()
	return h.fn(string(payload), n)
}

func run(t *testing.T, c *Consumer, r *fakeReader) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Subscribe(ctx) }()

	select {
	case <-r.drained:
	case <-time.After(5 * time.Second):
		t.Fatal("consumer did not drain the reader")
	}
	cancel()
	require.NoError(t, <-done)
}

func msg(offset int64, value string) kafka.Message {
	return kafka.Message{Topic: "booking-requests", Offset: offset, Value: []byte(value)}
}

func TestSubscribe_RetriesThenCommits(t *testing.T) {
	r := newFakeReader(msg(1, "flaky"))
	dlq := &fakeWriter{}
	h := &scriptedHandler{fn: func(_ string, call int) error {
		if call < 3 {
			return fmt.Errorf("db busy")
		}
		return nil
	}}
	c := newConsumer(Config{Topic: "booking-requests", MaxRetries: 5, BaseBackoff: time.Millisecond}, r, dlq, h)

	run(t, c, r)

	require.Equal(t, 3, h.calls["flaky"])
	require.Equal(t, []int64{1}, r.committed)
	require.Empty(t, dlq.msgs)
}

func TestSubscribe_NonRetryable_ParkedOnce(t *testing.T) {
	r := newFakeReader(msg(7, "garbage"))
	dlq := &fakeWriter{}
	h := &scriptedHandler{fn: func(string, int) error {
		return fmt.Errorf("%w: unexpected end of JSON input", service.ErrDecode)
	}}
	c := newConsumer(Config{Topic: "booking-requests", GroupID: "booking-svc", MaxRetries: 5, BaseBackoff: time.Millisecond}, r, dlq, h)
	c.now = func() time.Time { return time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC) }

	run(t, c, r)

	require.Equal(t, 1, h.calls["garbage"])
	require.Equal(t, []int64{7}, r.committed)
	require.Len(t, dlq.msgs, 1)

	headers := map[string]string{}
	for _, hd := range dlq.msgs[0].Headers {
		headers[hd.Key] = string(hd.Value)
	}
	require.Equal(t, "1", headers["x-dlq-attempts"])
	require.Equal(t, "booking-requests", headers["x-dlq-source-topic"])
	require.Equal(t, "booking-svc", headers["x-dlq-group"])
	require.Equal(t, "2026-10-17T12:00:00Z", headers["x-dlq-ts"])
	require.Contains(t, headers["x-dlq-reason"], "decode")
}

func TestSubscribe_RetriesExhausted_ParkedWithAttempts(t *testing.T) {
	r := newFakeReader(msg(3, "down"))
	dlq := &fakeWriter{}
	h := &scriptedHandler{fn: func(string, int) error { return fmt.Errorf("connection refused") }}
	c := newConsumer(Config{MaxRetries: 2, BaseBackoff: time.Millisecond}, r, dlq, h)

	run(t, c, r)

	require.Equal(t, 3, h.calls["down"])
	require.Len(t, dlq.msgs, 1)
	var attempts string
	for _, hd := range dlq.msgs[0].Headers {
		if hd.Key == "x-dlq-attempts" {
			attempts = string(hd.Value)
		}
	}
	require.Equal(t, "3", attempts)
}

func TestSubscribe_NoDLQ_DropsAndCommits(t *testing.T) {
	r := newFakeReader(msg(4, "bad"))
	h := &scriptedHandler{fn: func(string, int) error { return service.ErrValidation }}
	c := newConsumer(Config{MaxRetries: 1, BaseBackoff: time.Millisecond}, r, nil, h)

	run(t, c, r)

	require.Equal(t, []int64{4}, r.committed)
}

func TestBackoff(t *testing.T) {
	base := 200 * time.Millisecond
	require.Equal(t, time.Duration(0), backoff(0, base))
	require.Equal(t, base, backoff(1, base))
	require.Equal(t, 2*base, backoff(2, base))
	require.Equal(t, 4*base, backoff(3, base))
	require.Equal(t, maxBackoff, backoff(10, base))
	require.Equal(t, maxBackoff, backoff(64, base))
}

func TestTrimErr(t *testing.T) {
	require.Empty(t, trimErr(nil))
	long := make([]byte, 1500)
	for i := range long {
		long[i] = 'x'
	}
	require.Len(t, trimErr(errors.New(string(long))), 1000)
}

func TestIsNonRetryable(t *testing.T) {
	require.True(t, isNonRetryable(fmt.Errorf("%w: bad json", service.ErrDecode)))
	require.True(t, isNonRetryable(fmt.Errorf("%w: field", service.ErrValidation)))
	require.False(t, isNonRetryable(errors.New("timeout")))
}

func TestPublisher_KeyedMessage(t *testing.T) {
	w := &fakeWriter{}
	p := &Publisher{writer: w}

	require.NoError(t, p.Publish(context.Background(), "conf-1", []byte(`{"id":"conf-1"}`)))
	require.NoError(t, p.Publish(context.Background(), "", []byte(`{}`)))

	require.Len(t, w.msgs, 2)
	require.Equal(t, []byte("conf-1"), w.msgs[0].Key)
	require.Nil(t, w.msgs[1].Key)
}
