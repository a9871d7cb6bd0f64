package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/labstack/gommon/log"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/easycontent/contentgen/internal/queue"
)

// ErrPublishBufferFull is returned when events arrive faster than the broker
// accepts them.
var ErrPublishBufferFull = errors.New("activity publish buffer full")

// AMQPPublisher sends activity events to the activity queue. Publish only
// enqueues; a single Run goroutine owns the broker connection, so request
// handlers never wait on RabbitMQ.
type AMQPPublisher struct {
	url    string
	events chan queue.ActivityEvent

	conn *amqp.Connection
	ch   *amqp.Channel
}

// NewAMQPPublisher buffers up to buffer events before Publish starts
// rejecting them.
func NewAMQPPublisher(url string, buffer int) *AMQPPublisher {
	if buffer <= 0 {
		buffer = 256
	}
	return &AMQPPublisher{url: url, events: make(chan queue.ActivityEvent, buffer)}
}

// Publish queues ev for delivery.
func (p *AMQPPublisher) Publish(ctx context.Context, ev queue.ActivityEvent) error {
	select {
	case p.events <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return ErrPublishBufferFull
	}
}

// Run delivers queued events until ctx is done. A failed delivery drops the
// connection and the event; the next event redials.
func (p *AMQPPublisher) Run(ctx context.Context) {
	defer p.close()
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-p.events:
			if err := p.send(ctx, ev); err != nil {
				log.Warnf("rabbitmq: publish %s failed: %v", ev.Kind, err)
				p.close()
			}
		}
	}
}

func (p *AMQPPublisher) send(ctx context.Context, ev queue.ActivityEvent) error {
	if err := p.ensureChannel(); err != nil {
		return err
	}
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return p.ch.PublishWithContext(pctx,
		"",                  // default exchange
		queue.ActivityQueue, // routing key = queue name
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	)
}

func (p *AMQPPublisher) ensureChannel() error {
	if p.ch != nil && !p.ch.IsClosed() {
		return nil
	}
	p.close()
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("channel open: %w", err)
	}
	if _, err := ch.QueueDeclare(queue.ActivityQueue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("queue declare: %w", err)
	}
	p.conn, p.ch = conn, ch
	return nil
}

func (p *AMQPPublisher) close() {
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
}
