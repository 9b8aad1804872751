package bulk

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/MasterOfBinary/gochunk/sink"
)

// HeaderBatchID groups the messages written for one batch.
const HeaderBatchID = "batch-id"

// MessageWriter is the part of *kafka.Writer used by Kafka.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

var _ MessageWriter = (*kafka.Writer)(nil)

// Kafka writes each record of a batch as its own message, all in a single
// WriteMessages call. Every message of a batch carries the same batch-id
// header.
type Kafka[T any] struct {
	w      MessageWriter
	encode Encoder[T]
	key    func(T) []byte
	now    func() time.Time
}

// NewKafka creates a Kafka writer over w using JSON values.
func NewKafka[T any](w MessageWriter) *Kafka[T] {
	return &Kafka[T]{
		w:      w,
		encode: JSON[T],
		now:    time.Now,
	}
}

// WithEncoder replaces the value encoder.
func (k *Kafka[T]) WithEncoder(enc Encoder[T]) *Kafka[T] {
	k.encode = enc
	return k
}

// WithKey sets the function that derives a message key from a record. Without
// one, messages have no key and the writer's balancer picks the partition.
func (k *Kafka[T]) WithKey(key func(T) []byte) *Kafka[T] {
	k.key = key
	return k
}

// WriteBatch writes one message per record of batch.
func (k *Kafka[T]) WriteBatch(ctx context.Context, batch []T) error {
	if len(batch) == 0 {
		return nil
	}

	id := []byte(uuid.NewString())
	now := k.now()

	msgs := make([]kafka.Message, 0, len(batch))
	for i, v := range batch {
		value, err := k.encode(v)
		if err != nil {
			return fmt.Errorf("bulk: encode record %d: %w", i, err)
		}

		msg := kafka.Message{
			Value:   value,
			Time:    now,
			Headers: []kafka.Header{{Key: HeaderBatchID, Value: id}},
		}
		if k.key != nil {
			msg.Key = k.key(v)
		}
		msgs = append(msgs, msg)
	}

	if err := k.w.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("bulk: write %d messages: %w", len(msgs), err)
	}
	return nil
}

// Close closes the underlying writer.
func (k *Kafka[T]) Close(context.Context) error {
	return k.w.Close()
}

var _ sink.BulkWriter[int] = (*Kafka[int])(nil)
