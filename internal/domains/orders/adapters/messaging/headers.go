package messaging

import (
	"github.com/segmentio/kafka-go"
	"github.com/twmb/franz-go/pkg/kgo"
	"go.opentelemetry.io/otel/propagation"
)

// Header names written on every outbound record.
const (
	HeaderRoutingKey = "routing-key"
	HeaderMessageID  = "message-id"
)

func carrierFromKafkaHeaders(headers []kafka.Header) propagation.MapCarrier {
	carrier := propagation.MapCarrier{}
	for _, h := range headers {
		carrier[h.Key] = string(h.Value)
	}
	return carrier
}

func recordHeaders(carrier propagation.MapCarrier, extra map[string]string) []kgo.RecordHeader {
	headers := make([]kgo.RecordHeader, 0, len(carrier)+len(extra))
	for k, v := range extra {
		headers = append(headers, kgo.RecordHeader{Key: k, Value: []byte(v)})
	}
	for _, k := range carrier.Keys() {
		headers = append(headers, kgo.RecordHeader{Key: k, Value: []byte(carrier.Get(k))})
	}
	return headers
}
