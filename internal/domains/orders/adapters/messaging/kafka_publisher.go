package messaging

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/twmb/franz-go/pkg/kgo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/Apurer/store-orders-api/internal/domains/orders/ports"
)

// RecordProducer is the part of *kgo.Client the publisher needs.
type RecordProducer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
}

// KafkaPublisher writes one record per notification: the destination is the
// topic and the routing key is both the record key and a header.
type KafkaPublisher struct {
	producer RecordProducer
	now      func() time.Time
}

func NewKafkaPublisher(producer RecordProducer) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, now: time.Now}
}

func (p *KafkaPublisher) Publish(ctx context.Context, destination, routingKey string, payload any) error {
	if p == nil || p.producer == nil {
		return errors.New("kafka publisher not configured")
	}
	value, err := Encode(payload)
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", routingKey, err)
	}
	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)

	rec := &kgo.Record{
		Topic: destination,
		Key:   []byte(routingKey),
		Value: value,
		Headers: recordHeaders(carrier, map[string]string{
			HeaderRoutingKey: routingKey,
			HeaderMessageID:  uuid.NewString(),
		}),
		Timestamp: p.now().UTC(),
	}
	if err := p.producer.ProduceSync(ctx, rec).FirstErr(); err != nil {
		return fmt.Errorf("publish to kafka topic %s: %w", destination, err)
	}
	return nil
}

var _ ports.Publisher = (*KafkaPublisher)(nil)
