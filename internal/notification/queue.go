// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

var _ Notifier = &Queue{}

// Queue publishes pull request notifications to a durable AMQP queue for
// downstream automation consumers such as deployment triggers.
type Queue struct {
	conn      *amqp.Connection
	queueName string

	// publishMu guards channel: amqp channels are not goroutine safe and
	// deliveries can publish concurrently.
	publishMu sync.Mutex
	channel   *amqp.Channel
}

// NewQueue dials the broker at url and declares the durable queue the
// notifier publishes to.
func NewQueue(url, queueName string) (*Queue, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotificationFailed, err.Error())
	}

	channel, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%w: %s", ErrNotificationFailed, err.Error())
	}

	if _, err := channel.QueueDeclare(
		queueName, // queue name
		true,      // durable
		false,     // auto-delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // additional arguments
	); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%w: %s", ErrNotificationFailed, err.Error())
	}

	return &Queue{
		conn:      conn,
		channel:   channel,
		queueName: queueName,
	}, nil
}

// Notify implements Notifier publishing the event as a persistent JSON message.
func (q *Queue) Notify(ctx context.Context, event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrNotificationFailed, err.Error())
	}

	ctx, cancel := publishContext(ctx)
	defer cancel()

	q.publishMu.Lock()
	defer q.publishMu.Unlock()
	if err := q.channel.PublishWithContext(ctx,
		"",          // default exchange
		q.queueName, // routing key
		false,       // mandatory
		false,       // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	); err != nil {
		return fmt.Errorf("%w: %s", ErrNotificationFailed, err.Error())
	}
	return nil
}

// publishContext bounds a publish with the same timeout used for outbound
// HTTP calls, so a stalled broker cannot hold a delivery open.
func publishContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, defaultRequestTimeout)
}

// Close releases the broker connection.
func (q *Queue) Close() error {
	return q.conn.Close()
}
