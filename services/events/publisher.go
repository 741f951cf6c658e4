package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"
	"github.com/rabbitmq/amqp091-go"

	"github.com/burnerpost/burnerpost/interfaces"
	"github.com/burnerpost/burnerpost/internal/logger"
	"github.com/burnerpost/burnerpost/internal/tracing"
)

const (
	ExchangeBurnerpostDirect = "burnerpost-direct"

	RoutingKeyEmailForwarded = "burnerpost-email-forwarded"

	DefaultPublishTimeout = 5 * time.Second
)

// EmailForwardedEvent is emitted after a message was confirmed delivered to
// its tenant and committed to the ledger.
type EmailForwardedEvent struct {
	ChatID      int64     `json:"chatId"`
	MessageID   string    `json:"messageId"`
	ForwardedAt time.Time `json:"forwardedAt"`
}

type RabbitMQPublisher struct {
	connection     *amqp091.Connection
	publishChannel *amqp091.Channel
	publishMutex   sync.Mutex
	url            string
	logger         logger.Logger
}

// NewRabbitMQPublisher connects eagerly so misconfiguration fails at startup,
// not on the first forwarded email.
func NewRabbitMQPublisher(rabbitmqURL string, logger logger.Logger) (interfaces.EventsPublisher, error) {
	publisher := &RabbitMQPublisher{
		url:    rabbitmqURL,
		logger: logger,
	}

	if err := publisher.connect(); err != nil {
		return nil, err
	}
	return publisher, nil
}

func (r *RabbitMQPublisher) connect() error {
	conn, err := amqp091.Dial(r.url)
	if err != nil {
		return errors.Wrap(err, "failed to connect to RabbitMQ")
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return errors.Wrap(err, "failed to open RabbitMQ channel")
	}

	err = channel.ExchangeDeclare(
		ExchangeBurnerpostDirect,
		"direct",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return errors.Wrap(err, "failed to declare exchange")
	}

	r.connection = conn
	r.publishChannel = channel
	return nil
}

func (r *RabbitMQPublisher) PublishEmailForwarded(ctx context.Context, chatID int64, messageID string) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "RabbitMQPublisher.PublishEmailForwarded")
	defer span.Finish()
	tracing.TagChatID(span, chatID)

	event := EmailForwardedEvent{
		ChatID:      chatID,
		MessageID:   messageID,
		ForwardedAt: time.Now().UTC(),
	}
	body, err := json.Marshal(event)
	if err != nil {
		tracing.TraceErr(span, err)
		return err
	}

	publishCtx, cancel := context.WithTimeout(ctx, DefaultPublishTimeout)
	defer cancel()

	r.publishMutex.Lock()
	defer r.publishMutex.Unlock()

	err = r.publishChannel.PublishWithContext(
		publishCtx,
		ExchangeBurnerpostDirect,
		RoutingKeyEmailForwarded,
		false, // mandatory
		false, // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		tracing.TraceErr(span, err)
		return errors.Wrap(err, "failed to publish forwarded event")
	}
	return nil
}

func (r *RabbitMQPublisher) Close() error {
	r.publishMutex.Lock()
	defer r.publishMutex.Unlock()

	if r.publishChannel != nil {
		if err := r.publishChannel.Close(); err != nil {
			r.logger.Warnf("Failed to close RabbitMQ channel: %v", err)
		}
	}
	if r.connection != nil {
		return r.connection.Close()
	}
	return nil
}
