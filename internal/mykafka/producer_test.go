package mykafka

import (
	"context"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func TestNewProducer_RequiresBrokers(t *testing.T) {
	t.Parallel()

	_, err := NewProducer(nil)
	require.Error(t, err)

	p, err := NewProducer([]string{"localhost:9092"})
	require.NoError(t, err)
	require.NotNil(t, p)
}

func TestProducer_PublishEvent(t *testing.T) {
	t.Parallel()

	w := &recordingWriter{}
	p := &Producer{writer: w}

	err := p.PublishEvent(context.Background(), TopicProductEvents, "manager@example.com", map[string]any{"type": "product_created", "id": 3})
	require.NoError(t, err)

	require.Len(t, w.msgs, 1)
	assert.Equal(t, TopicProductEvents, w.msgs[0].Topic)
	assert.Equal(t, "manager@example.com", string(w.msgs[0].Key))
	assert.JSONEq(t, `{"type":"product_created","id":3}`, string(w.msgs[0].Value))

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestProducer_PublishEvent_Errors(t *testing.T) {
	t.Parallel()

	boom := errors.New("broker down")
	p := &Producer{writer: &recordingWriter{err: boom}}
	require.ErrorIs(t, p.PublishEvent(context.Background(), TopicUserEvents, "k", "v"), boom)

	p = &Producer{writer: &recordingWriter{}}
	require.Error(t, p.PublishEvent(context.Background(), TopicUserEvents, "k", func() {}))
}

func TestNop(t *testing.T) {
	t.Parallel()

	var p Publisher = Nop{}
	assert.NoError(t, p.PublishEvent(context.Background(), TopicUserEvents, "k", nil))
}
