package repository

import (
	"context"
	"fmt"

	"github.com/jomarcello/Signal-Processor/internal/domain/models"
	domrepo "github.com/jomarcello/Signal-Processor/internal/domain/repository"
	pkgkafka "github.com/jomarcello/Signal-Processor/pkg/kafka"
)

// KafkaAuditTrail publishes settled dispatch records to the audit topic.
// Records are keyed by symbol so one instrument's dispatches land on the same
// partition. The trail owns the producer and closes it on shutdown.
type KafkaAuditTrail struct {
	producer *pkgkafka.Producer
	topic    string
}

func NewKafkaAuditTrail(producer *pkgkafka.Producer, topic string) *KafkaAuditTrail {
	return &KafkaAuditTrail{producer: producer, topic: topic}
}

var _ domrepo.AuditTrail = (*KafkaAuditTrail)(nil)

func (t *KafkaAuditTrail) Record(ctx context.Context, rec *models.DispatchRecord) error {
	if err := t.producer.Publish(ctx, t.topic, []byte(rec.Symbol), rec); err != nil {
		return fmt.Errorf("publish dispatch record: %w", err)
	}
	return nil
}

func (t *KafkaAuditTrail) Close() error {
	return t.producer.Close()
}
