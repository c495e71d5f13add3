package repository

import (
	"context"

	pkgkafka "github.com/jomarcello/Signal-Processor/pkg/kafka"
	applogger "github.com/jomarcello/Signal-Processor/pkg/logger"
)

// KafkaLogPublisher feeds aggregated error logs from the log collector into
// Kafka. It shares the audit trail's producer; the trail owns the close.
type KafkaLogPublisher struct {
	producer *pkgkafka.Producer
}

func NewKafkaLogPublisher(producer *pkgkafka.Producer) *KafkaLogPublisher {
	return &KafkaLogPublisher{producer: producer}
}

var _ applogger.Publisher = (*KafkaLogPublisher)(nil)

func (p *KafkaLogPublisher) PublishMessage(ctx context.Context, topic string, payload interface{}) error {
	return p.producer.Publish(ctx, topic, nil, payload)
}
