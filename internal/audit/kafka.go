package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"workledger/internal/platform/kafka"
)

// KafkaStore fans audit events out to a Kafka topic while delegating
// persistence and reads to an inner store. Events are keyed by record id so
// per-record ordering survives partitioning.
type KafkaStore struct {
	producer *kafka.Producer
	topic    string
	inner    Store
}

func NewKafkaStore(producer *kafka.Producer, topic string, inner Store) *KafkaStore {
	return &KafkaStore{producer: producer, topic: topic, inner: inner}
}

func (s *KafkaStore) Append(ctx context.Context, event Event) error {
	if err := s.inner.Append(ctx, event); err != nil {
		return err
	}

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}
	return s.producer.Produce(ctx, &kafka.Message{
		Topic: s.topic,
		Key:   []byte(strconv.FormatUint(event.RecordID, 10)),
		Value: value,
		Headers: map[string]string{
			"action": string(event.Action),
		},
	})
}

func (s *KafkaStore) ListByRecord(ctx context.Context, recordID uint64) ([]Event, error) {
	return s.inner.ListByRecord(ctx, recordID)
}
