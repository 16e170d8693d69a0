package mq

import (
	"context"
	"fmt"

	"github.com/bytedance/sonic"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/slyt3/pagedrop/internal/modules/model"
)

// Publisher delivers project lifecycle events to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, ev model.ProjectEvent) error
	Close() error
}

type rabbitPublisher struct {
	conn  *amqp.Connection
	queue string
}

// NewPublisher connects to RabbitMQ and declares a durable queue.
// An empty url yields a publisher that drops every event.
func NewPublisher(url, queue string) (Publisher, error) {
	if url == "" {
		return NoopPublisher{}, nil
	}
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	defer ch.Close()

	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("declare queue %s: %w", queue, err)
	}
	return &rabbitPublisher{conn: conn, queue: queue}, nil
}

func (p *rabbitPublisher) Publish(ctx context.Context, ev model.ProjectEvent) error {
	msg, err := encode(ev)
	if err != nil {
		return err
	}

	ch, err := p.conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	return ch.PublishWithContext(ctx, "", p.queue, false, false, msg)
}

func encode(ev model.ProjectEvent) (amqp.Publishing, error) {
	body, err := sonic.Marshal(ev)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("encode %s event: %w", ev.Type, err)
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    ev.ID.String(),
		Type:         string(ev.Type),
		Timestamp:    ev.OccurredAt,
		Body:         body,
	}, nil
}

func (p *rabbitPublisher) Close() error {
	return p.conn.Close()
}

type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, model.ProjectEvent) error { return nil }
func (NoopPublisher) Close() error                                      { return nil }
