package notifier

import (
	"context"
	"time"

	"iverr-backend/internal/pkg/config"
	"iverr-backend/internal/pkg/errs"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Notifier delivers drained outbox events to the outside world. Delivery is
// at-least-once; eventID travels with the message so consumers can dedupe.
type Notifier interface {
	Publish(ctx context.Context, eventID uuid.UUID, topic string, payload []byte) error
}

// AMQPNotifier publishes to a durable topic exchange, routing key = event topic.
type AMQPNotifier struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
}

func NewAMQPNotifier(cfg config.AMQPConfig) (*AMQPNotifier, func(), error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, nil, errs.Wrap(err, "failed to dial AMQP broker")
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, errs.Wrap(err, "failed to open AMQP channel")
	}

	err = ch.ExchangeDeclare(
		cfg.Exchange, // name
		"topic",      // kind
		true,         // durable
		false,        // autoDelete
		false,        // internal
		false,        // noWait
		nil,          // args
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, nil, errs.Wrap(err, "failed to declare AMQP exchange")
	}

	n := &AMQPNotifier{conn: conn, ch: ch, exchange: cfg.Exchange}
	cleanup := func() {
		_ = n.ch.Close()
		_ = n.conn.Close()
	}
	return n, cleanup, nil
}

func (n *AMQPNotifier) Publish(ctx context.Context, eventID uuid.UUID, topic string, payload []byte) error {
	err := n.ch.PublishWithContext(ctx,
		n.exchange,
		topic, // routing key
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    eventID.String(),
			Timestamp:    time.Now().UTC(),
			Body:         payload,
		},
	)
	if err != nil {
		return errs.Wrap(err, "failed to publish event")
	}
	return nil
}
