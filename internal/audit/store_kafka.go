package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/twmb/franz-go/pkg/kgo"
)

// Producer is the subset of *kgo.Client the Kafka store needs.
type Producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
	Close()
}

// KafkaStore mirrors audit records to a topic, keyed by action.
type KafkaStore struct {
	producer Producer
	topic    string
}

// NewKafkaStore dials the brokers lazily; the first Append surfaces
// connectivity problems.
func NewKafkaStore(brokers []string, topic string) (*KafkaStore, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	return &KafkaStore{producer: client, topic: topic}, nil
}

// NewKafkaStoreWithProducer allows injecting a test producer.
func NewKafkaStoreWithProducer(p Producer, topic string) *KafkaStore {
	return &KafkaStore{producer: p, topic: topic}
}

func (s *KafkaStore) Append(ctx context.Context, rec Record) error {
	value, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode audit record: %w", err)
	}
	res := s.producer.ProduceSync(ctx, &kgo.Record{
		Topic: s.topic,
		Key:   []byte(rec.Action),
		Value: value,
	})
	if err := res.FirstErr(); err != nil {
		return fmt.Errorf("produce audit record: %w", err)
	}
	return nil
}

func (s *KafkaStore) Close() {
	s.producer.Close()
}
