package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/zaika-app/zaika/pkg/logger"
	"github.com/zaika-app/zaika/pkg/workerpool"
)

const publishTimeout = 5 * time.Second

// Producer writes order events to Kafka through a worker pool, keeping
// request handlers off the broker's latency path. A nil Producer is valid
// and drops every event, which is how the service runs without Kafka.
type Producer struct {
	writer *kafka.Writer
	pool   *workerpool.Pool
}

// NewProducer connects a Producer to the given brokers and topic.
// It returns nil when brokers is empty, disabling event publishing.
func NewProducer(brokers []string, topic string) *Producer {
	if len(brokers) == 0 {
		return nil
	}
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 10 * time.Millisecond,
	}
	return &Producer{
		writer: writer,
		pool:   workerpool.New(2, 256),
	}
}

// Publish queues an event for async delivery. Events are keyed by order id
// so one order's events stay in partition order.
func (p *Producer) Publish(ev OrderEvent) {
	if p == nil {
		return
	}
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now()
	}
	body, err := json.Marshal(ev)
	if err != nil {
		logger.Error("event marshal failed", "type", ev.Type, "error", err)
		return
	}
	msg := kafka.Message{
		Key:   []byte(fmt.Sprintf("%d", ev.OrderID)),
		Value: body,
	}
	err = p.pool.Submit(func() {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		if err := p.writer.WriteMessages(ctx, msg); err != nil {
			logger.Error("event publish failed", "type", ev.Type, "order_id", ev.OrderID, "error", err)
		}
	})
	if err != nil {
		logger.Warn("event dropped", "type", ev.Type, "order_id", ev.OrderID, "error", err)
	}
}

// Close drains queued events and closes the Kafka writer.
func (p *Producer) Close() error {
	if p == nil {
		return nil
	}
	p.pool.Shutdown()
	return p.writer.Close()
}
