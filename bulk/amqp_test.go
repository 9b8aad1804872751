package bulk

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type publishCall struct {
	exchange, key string
	msg           amqp.Publishing
}

type fakePublisher struct {
	calls  []publishCall
	err    error
	closed bool
}

func (f *fakePublisher) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	if f.err != nil {
		return f.err
	}
	f.calls = append(f.calls, publishCall{exchange: exchange, key: key, msg: msg})
	return nil
}

func (f *fakePublisher) Close() error {
	f.closed = true
	return nil
}

type restaurant struct {
	Name string `json:"name"`
}

func TestAMQP_WriteBatch(t *testing.T) {
	ctx := context.Background()
	stamp := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	pub := &fakePublisher{}
	w := NewAMQP[restaurant](pub, AMQPConfig{Exchange: "restaurants", RoutingKey: "nyc", Persistent: true})
	w.now = func() time.Time { return stamp }

	batch := []restaurant{{Name: "Morris Park Bake Shop"}, {Name: "Wendy's"}}
	require.NoError(t, w.WriteBatch(ctx, batch))
	require.NoError(t, w.WriteBatch(ctx, batch[:1]))
	require.Len(t, pub.calls, 2)

	call := pub.calls[0]
	assert.Equal(t, "restaurants", call.exchange)
	assert.Equal(t, "nyc", call.key)
	assert.Equal(t, ContentTypeJSON, call.msg.ContentType)
	assert.Equal(t, amqp.Persistent, call.msg.DeliveryMode)
	assert.Equal(t, stamp, call.msg.Timestamp)
	assert.Equal(t, int32(2), call.msg.Headers[HeaderBatchSize])

	_, err := uuid.Parse(call.msg.MessageId)
	assert.NoError(t, err)
	assert.NotEqual(t, call.msg.MessageId, pub.calls[1].msg.MessageId)

	var decoded []restaurant
	require.NoError(t, json.Unmarshal(call.msg.Body, &decoded))
	assert.Equal(t, batch, decoded)

	require.NoError(t, w.Close(ctx))
	assert.True(t, pub.closed)
}

func TestAMQP_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("publish", func(t *testing.T) {
		refused := errors.New("channel/connection is not open")
		w := NewAMQP[int](&fakePublisher{err: refused}, AMQPConfig{RoutingKey: "q"})

		err := w.WriteBatch(ctx, []int{1})
		assert.ErrorIs(t, err, refused)
		assert.Contains(t, err.Error(), `"q"`)
	})

	t.Run("encode", func(t *testing.T) {
		pub := &fakePublisher{}
		encErr := errors.New("unsupported")
		w := NewAMQP[int](pub, AMQPConfig{}).WithEncoder(func([]int) ([]byte, error) {
			return nil, encErr
		}, "text/plain")

		assert.ErrorIs(t, w.WriteBatch(ctx, []int{1}), encErr)
		assert.Empty(t, pub.calls)
	})

	t.Run("custom encoder content type", func(t *testing.T) {
		pub := &fakePublisher{}
		w := NewAMQP[int](pub, AMQPConfig{}).WithEncoder(func(b []int) ([]byte, error) {
			return []byte("n"), nil
		}, "text/plain")

		require.NoError(t, w.WriteBatch(ctx, []int{1}))
		assert.Equal(t, "text/plain", pub.calls[0].msg.ContentType)
		assert.Equal(t, uint8(0), pub.calls[0].msg.DeliveryMode)
	})
}
