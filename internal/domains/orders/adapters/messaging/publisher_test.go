package messaging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/Apurer/store-orders-api/internal/domains/orders/domain"
)

type fakeProducer struct {
	records []*kgo.Record
	err     error
}

func (p *fakeProducer) ProduceSync(_ context.Context, rs ...*kgo.Record) kgo.ProduceResults {
	results := make(kgo.ProduceResults, 0, len(rs))
	for _, r := range rs {
		p.records = append(p.records, r)
		results = append(results, kgo.ProduceResult{Record: r, Err: p.err})
	}
	return results
}

type fakeSQS struct {
	inputs []*sqs.SendMessageInput
	err    error
}

func (f *fakeSQS) SendMessage(_ context.Context, params *sqs.SendMessageInput, _ ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	f.inputs = append(f.inputs, params)
	if f.err != nil {
		return nil, f.err
	}
	return &sqs.SendMessageOutput{MessageId: aws.String("m-1")}, nil
}

func headerValue(rec *kgo.Record, key string) string {
	for _, h := range rec.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func TestKafkaPublisher_WritesRecord(t *testing.T) {
	producer := &fakeProducer{}
	pub := NewKafkaPublisher(producer)

	err := pub.Publish(context.Background(), domain.DispatchedDestination, domain.DispatchedRoutingKey, &domain.Order{ID: 1, State: domain.StateDispatched})
	require.NoError(t, err)

	require.Len(t, producer.records, 1)
	rec := producer.records[0]
	assert.Equal(t, "order-client", rec.Topic)
	assert.Equal(t, []byte("order.client.updated.dispatched"), rec.Key)
	assert.Equal(t, "order.client.updated.dispatched", headerValue(rec, HeaderRoutingKey))
	assert.NotEmpty(t, headerValue(rec, HeaderMessageID))
	assert.Contains(t, string(rec.Value), `"state":"ENVIADO"`)
}

func TestKafkaPublisher_ReturnsProduceError(t *testing.T) {
	pub := NewKafkaPublisher(&fakeProducer{err: errors.New("leader not available")})
	err := pub.Publish(context.Background(), "order-client", "key", map[string]int{"id": 1})
	assert.ErrorContains(t, err, "leader not available")

	var unset *KafkaPublisher
	assert.Error(t, unset.Publish(context.Background(), "order-client", "key", nil))
}

func TestSQSPublisher_SendsAttributes(t *testing.T) {
	client := &fakeSQS{}
	pub := NewSQSPublisher(client, "https://sqs.local/queue/order-client")

	require.NoError(t, pub.Publish(context.Background(), domain.DispatchedDestination, domain.DispatchedRoutingKey, &domain.Order{ID: 1}))
	require.Len(t, client.inputs, 1)
	input := client.inputs[0]
	assert.Equal(t, "https://sqs.local/queue/order-client", aws.ToString(input.QueueUrl))
	assert.Equal(t, "order-client", aws.ToString(input.MessageAttributes["destination"].StringValue))
	assert.Equal(t, domain.DispatchedRoutingKey, aws.ToString(input.MessageAttributes[HeaderRoutingKey].StringValue))

	client.err = errors.New("throttled")
	assert.Error(t, pub.Publish(context.Background(), "order-client", "key", nil))
	assert.Error(t, NewSQSPublisher(client, "").Publish(context.Background(), "order-client", "key", nil))
}

func TestLogPublisher_WritesPayload(t *testing.T) {
	var buf bytes.Buffer
	pub := NewLogPublisher(slog.New(slog.NewTextHandler(&buf, nil)))

	require.NoError(t, pub.Publish(context.Background(), "order-client", "order.client.updated.dispatched", &domain.Order{ID: 5}))
	assert.Contains(t, buf.String(), "order.client.updated.dispatched")
	assert.Contains(t, buf.String(), "notification")
}
