package repository

import (
	"context"
	"fmt"

	"StockPilot/internal/domain/models"
	drepo "StockPilot/internal/domain/repository"
	pkgkafka "StockPilot/pkg/kafka"
)

// KafkaPublisher emits decision events to a Kafka topic, keyed by symbol
// so per-symbol ordering is preserved.
type KafkaPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

func NewKafkaPublisher(producer *pkgkafka.Producer, topic string) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

var _ drepo.Publisher = (*KafkaPublisher)(nil)

func (p *KafkaPublisher) PublishDecision(ctx context.Context, ev *models.DecisionEvent) error {
	if err := p.producer.Publish(ctx, p.topic, []byte(ev.Symbol), ev); err != nil {
		return fmt.Errorf("publish decision %s: %w", ev.Symbol, err)
	}
	return nil
}

// PublishMessage satisfies the log-collector publisher so aggregated error
// logs can ship over the same producer.
func (p *KafkaPublisher) PublishMessage(ctx context.Context, topic string, payload interface{}) error {
	return p.producer.Publish(ctx, topic, nil, payload)
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}
