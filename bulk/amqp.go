package bulk

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/MasterOfBinary/gochunk/sink"
)

// ContentTypeJSON is the content type of messages encoded with JSON.
const ContentTypeJSON = "application/json"

// HeaderBatchSize carries the number of records in a published batch.
const HeaderBatchSize = "x-batch-size"

// Publisher is the part of *amqp091.Channel used by AMQP.
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

var _ Publisher = (*amqp.Channel)(nil)

// AMQPConfig provides configuration options for an AMQP writer.
type AMQPConfig struct {
	// Exchange is the exchange to publish to. Empty means the default
	// exchange, which routes by queue name.
	Exchange string

	// RoutingKey is the routing key, or the queue name for the default
	// exchange.
	RoutingKey string

	// Persistent marks messages as persistent.
	Persistent bool
}

// AMQP publishes each batch as a single message whose body is the encoded
// batch.
type AMQP[T any] struct {
	pub         Publisher
	config      AMQPConfig
	encode      Encoder[[]T]
	contentType string
	now         func() time.Time
}

// NewAMQP creates an AMQP writer over pub using JSON bodies.
func NewAMQP[T any](pub Publisher, config AMQPConfig) *AMQP[T] {
	return &AMQP[T]{
		pub:         pub,
		config:      config,
		encode:      JSON[[]T],
		contentType: ContentTypeJSON,
		now:         time.Now,
	}
}

// WithEncoder replaces the body encoder and the content type it produces.
func (a *AMQP[T]) WithEncoder(enc Encoder[[]T], contentType string) *AMQP[T] {
	a.encode = enc
	a.contentType = contentType
	return a
}

// WriteBatch publishes batch as one message.
func (a *AMQP[T]) WriteBatch(ctx context.Context, batch []T) error {
	body, err := a.encode(batch)
	if err != nil {
		return fmt.Errorf("bulk: encode batch: %w", err)
	}

	msg := amqp.Publishing{
		ContentType: a.contentType,
		MessageId:   uuid.NewString(),
		Timestamp:   a.now(),
		Headers:     amqp.Table{HeaderBatchSize: int32(len(batch))},
		Body:        body,
	}
	if a.config.Persistent {
		msg.DeliveryMode = amqp.Persistent
	}

	if err := a.pub.PublishWithContext(ctx, a.config.Exchange, a.config.RoutingKey, false, false, msg); err != nil {
		return fmt.Errorf("bulk: publish to %q: %w", a.config.RoutingKey, err)
	}
	return nil
}

// Close closes the channel.
func (a *AMQP[T]) Close(context.Context) error {
	return a.pub.Close()
}

var _ sink.BulkWriter[int] = (*AMQP[int])(nil)
