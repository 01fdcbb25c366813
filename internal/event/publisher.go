package event

import (
	"context"
	"encoding/json"
	"strings"

	"dishpatch-be/internal/logger"
	"dishpatch-be/internal/metrics"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const headerEventID = "event-id"

// Publisher hands an event to the broker without blocking on delivery.
// Delivery is at-least-once; the outcome is reported asynchronously and
// never affects the caller's control flow.
type Publisher interface {
	Publish(ctx context.Context, evt OrderEvent) error
	Close() error
}

// messageWriter abstracts *kafka.Writer for tests.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	w      messageWriter
	ledger Ledger

	enqueued  metrics.Counter
	delivered metrics.Counter
	failed    metrics.Counter
}

// Stats reports broker delivery counters since startup.
type Stats struct {
	Enqueued  uint64
	Delivered uint64
	Failed    uint64
}

func (p *KafkaPublisher) Stats() Stats {
	return Stats{
		Enqueued:  p.enqueued.Load(),
		Delivered: p.delivered.Load(),
		Failed:    p.failed.Load(),
	}
}

// NewKafkaPublisher builds an async writer keyed by order id. The Hash
// balancer maps equal keys to the same partition, which gives every
// order's events a total order on the broker.
func NewKafkaPublisher(brokers, topic string, ledger Ledger) *KafkaPublisher {
	addrs := strings.Split(brokers, ",")

	p := &KafkaPublisher{ledger: ledger}
	p.w = &kafka.Writer{
		Addr:         kafka.TCP(addrs...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Async:        true,
		Completion:   p.onCompletion,
	}
	return p
}

func (p *KafkaPublisher) Close() error {
	return p.w.Close()
}

// Publish records the event in the pending ledger and enqueues it. The
// write returns as soon as the message is buffered; the broker ack (or
// failure) arrives later through onCompletion.
func (p *KafkaPublisher) Publish(ctx context.Context, evt OrderEvent) error {
	b, err := json.Marshal(evt)
	if err != nil {
		return err
	}

	if err := p.ledger.Record(ctx, evt); err != nil {
		// The ledger only backs reconciliation; delivery still goes
		// through the broker path.
		logger.FromCtx(ctx).Warn("event ledger record failed",
			zap.String("event_id", evt.ID),
			zap.Error(err),
		)
	}

	p.enqueued.Inc()
	return p.w.WriteMessages(ctx, kafka.Message{
		Key:   []byte(evt.OrderID),
		Value: b,
		Headers: []kafka.Header{
			{Key: headerEventID, Value: []byte(evt.ID)},
			{Key: "content-type", Value: []byte("application/json")},
		},
	})
}

func (p *KafkaPublisher) onCompletion(msgs []kafka.Message, err error) {
	ctx := context.Background()

	for _, m := range msgs {
		eventID := headerValue(m, headerEventID)

		if err != nil {
			// The order stays valid; the sweeper re-publishes the
			// event from the ledger.
			p.failed.Inc()
			logger.L().Error("event delivery failed",
				zap.String("event_id", eventID),
				zap.String("order_id", string(m.Key)),
				zap.Error(err),
			)
			continue
		}

		p.delivered.Inc()
		if ackErr := p.ledger.Ack(ctx, eventID); ackErr != nil {
			logger.L().Warn("event ledger ack failed",
				zap.String("event_id", eventID),
				zap.Error(ackErr),
			)
		}
	}
}

func headerValue(m kafka.Message, key string) string {
	for _, h := range m.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}
