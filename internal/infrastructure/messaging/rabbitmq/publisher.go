package rabbitmq

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	DefaultExchange = "city.events"

	// how long to wait for the broker confirm
	confirmWait = 150 * time.Millisecond
)

var (
	ErrMissingRoutingKey = errors.New("missing routing key")
	ErrMissingMessageID  = errors.New("missing message id")
	ErrNotReady          = errors.New("publisher channel not ready")
	ErrNack              = errors.New("publish nack")
)

// Publisher emits activity events to a durable topic exchange with
// publisher confirms. Unrouted messages are dropped by the broker, since
// nothing is required to consume them.
type Publisher struct {
	url      string
	exchange string

	mu sync.Mutex

	conn *amqp.Connection
	ch   *amqp.Channel

	confirmCh <-chan amqp.Confirmation
}

func NewPublisher(url, exchange string) (*Publisher, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}

	p := &Publisher{
		url:      url,
		exchange: exchange,
	}
	if err := p.connect(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Publisher) connect() error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return err
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return err
	}

	if err := ch.ExchangeDeclare(p.exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return err
	}

	if err := ch.Confirm(false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return err
	}

	p.conn = conn
	p.ch = ch
	p.confirmCh = ch.NotifyPublish(make(chan amqp.Confirmation, 1))
	return nil
}

func (p *Publisher) Exchange() string { return p.exchange }

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
	return nil
}

// PublishEvent sends a JSON body under routingKey. messageID must be stable
// across redeliveries so consumers can dedupe on it.
func (p *Publisher) PublishEvent(ctx context.Context, routingKey, messageID string, body []byte) error {
	if strings.TrimSpace(routingKey) == "" {
		return ErrMissingRoutingKey
	}
	if strings.TrimSpace(messageID) == "" {
		return ErrMissingMessageID
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ch == nil {
		return ErrNotReady
	}

	seq := p.ch.GetNextPublishSeqNo()
	err := p.ch.PublishWithContext(
		ctx,
		p.exchange,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			MessageId:    messageID,
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	)
	if err != nil {
		return err
	}
	return awaitConfirm(ctx, p.confirmCh, seq, confirmWait)
}

// awaitConfirm waits for the confirm of delivery tag seq. Late confirms of
// earlier publishes that timed out are skipped.
func awaitConfirm(ctx context.Context, confirms <-chan amqp.Confirmation, seq uint64, wait time.Duration) error {
	timer := time.NewTimer(wait)
	defer timer.Stop()

	for {
		select {
		case conf, ok := <-confirms:
			if !ok {
				return ErrNotReady
			}
			if conf.DeliveryTag < seq {
				continue
			}
			if !conf.Ack {
				return ErrNack
			}
			return nil
		case <-timer.C:
			// no confirm in the window; the caller treats publishing as best-effort
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
