package event

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Ledger tracks events awaiting a broker ack so an unacknowledged
// event can be re-published later.
type Ledger interface {
	Record(ctx context.Context, evt OrderEvent) error
	Ack(ctx context.Context, eventID string) error
	Pending(ctx context.Context, olderThan time.Duration) ([]OrderEvent, error)
}

type pendingEntry struct {
	Event      OrderEvent `json:"event"`
	RecordedAt time.Time  `json:"recorded_at"`
}

type redisLedger struct {
	client *redis.Client
	prefix string
}

func NewRedisLedger(addr string) Ledger {
	return &redisLedger{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		prefix: "events:pending:",
	}
}

func (l *redisLedger) key(eventID string) string {
	return fmt.Sprintf("%s%s", l.prefix, eventID)
}

func (l *redisLedger) Record(ctx context.Context, evt OrderEvent) error {
	b, err := json.Marshal(pendingEntry{Event: evt, RecordedAt: time.Now().UTC()})
	if err != nil {
		return err
	}
	return l.client.Set(ctx, l.key(evt.ID), b, 0).Err()
}

func (l *redisLedger) Ack(ctx context.Context, eventID string) error {
	return l.client.Del(ctx, l.key(eventID)).Err()
}

func (l *redisLedger) Pending(ctx context.Context, olderThan time.Duration) ([]OrderEvent, error) {
	cutoff := time.Now().UTC().Add(-olderThan)

	var events []OrderEvent
	iter := l.client.Scan(ctx, 0, l.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		raw, err := l.client.Get(ctx, iter.Val()).Result()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			return nil, err
		}

		var entry pendingEntry
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			continue
		}
		if entry.RecordedAt.Before(cutoff) {
			events = append(events, entry.Event)
		}
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}

	return events, nil
}

// noopLedger disables reconciliation when no redis address is
// configured; delivery then relies on the broker path alone.
type noopLedger struct{}

func NewNoopLedger() Ledger { return noopLedger{} }

func (noopLedger) Record(ctx context.Context, evt OrderEvent) error { return nil }
func (noopLedger) Ack(ctx context.Context, eventID string) error    { return nil }
func (noopLedger) Pending(ctx context.Context, olderThan time.Duration) ([]OrderEvent, error) {
	return nil, nil
}
