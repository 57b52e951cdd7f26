// Package rabbitmq publishes relayed outbox events to a RabbitMQ topic
// exchange.
package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"staycal/internal/infra/outbox"
)

const DefaultExchange = "staycal.events"

// Publisher holds one connection and channel. The outbox topic becomes the
// routing key, so consumers bind with patterns like "reservation.#".
type Publisher struct {
	url      string
	exchange string

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

func NewPublisher(url, exchange string) (*Publisher, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}
	p := &Publisher{url: url, exchange: exchange}
	if err := p.connect(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Publisher) connect() error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("rabbitmq: dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("rabbitmq: open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(p.exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return fmt.Errorf("rabbitmq: declare exchange: %w", err)
	}
	p.conn, p.ch = conn, ch
	return nil
}

// Publish reconnects once if the channel was closed underneath it.
func (p *Publisher) Publish(ctx context.Context, topic, key string, payload []byte, headers map[string]string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ch == nil || p.ch.IsClosed() {
		if err := p.connect(); err != nil {
			return err
		}
	}
	return p.ch.PublishWithContext(ctx, p.exchange, topic, false, false, Message(key, payload, headers))
}

// Message builds the persistent AMQP message for one event.
func Message(key string, payload []byte, headers map[string]string) amqp.Publishing {
	table := amqp.Table{}
	for k, v := range headers {
		table[k] = v
	}
	contentType := headers["content-type"]
	if contentType == "" {
		contentType = "application/json"
	}
	return amqp.Publishing{
		ContentType:  contentType,
		DeliveryMode: amqp.Persistent,
		MessageId:    key,
		Timestamp:    time.Now().UTC(),
		Headers:      table,
		Body:         payload,
	}
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	var errs []error
	if p.ch != nil {
		errs = append(errs, p.ch.Close())
	}
	if p.conn != nil {
		errs = append(errs, p.conn.Close())
	}
	p.ch, p.conn = nil, nil
	return errors.Join(errs...)
}

var _ outbox.Publisher = (*Publisher)(nil)
