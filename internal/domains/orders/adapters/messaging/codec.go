// Package messaging carries order events between the engine and the brokers:
// inbound decoding and consumption, outbound publishing.
package messaging

import (
	"encoding/json"

	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/Apurer/store-orders-api/internal/domains/orders/adapters/http/mapper"
	"github.com/Apurer/store-orders-api/internal/domains/orders/domain"
	"github.com/Apurer/store-orders-api/internal/shared/apperrors"
	"github.com/Apurer/store-orders-api/internal/shared/validation"
)

// Inbound topics.
const (
	TopicOrderCreated   = "order-store-created"
	TopicOrderDelivered = "order-store-updated-delivered"
)

// Topics lists every inbound topic the consumer subscribes to.
func Topics() []string {
	return []string{TopicOrderCreated, TopicOrderDelivered}
}

// deliveredMessage is the subset of the order document a delivery report
// needs. A report without a state means DELIVERED.
type deliveredMessage struct {
	ID             int64       `json:"id" validate:"gt=0"`
	State          string      `json:"state" validate:"omitempty"`
	OrderDelivered mapper.Date `json:"orderDelivered"`
}

// Decoder turns raw broker payloads into validated domain events.
type Decoder struct {
	validate *validatorv10.Validate
}

func NewDecoder() *Decoder {
	return &Decoder{validate: validation.New()}
}

// Decode picks the event type from the topic. Every failure it returns is permanent.
func (d *Decoder) Decode(topic string, payload []byte) (domain.Event, error) {
	switch topic {
	case TopicOrderCreated:
		var dto mapper.Order
		if err := json.Unmarshal(payload, &dto); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInvalidInput, err, "malformed %s payload: %s", topic, err.Error())
		}
		if err := validation.Struct(d.validate, dto); err != nil {
			return nil, err
		}
		return domain.OrderCreated{Order: mapper.ToDomainOrder(dto)}, nil
	case TopicOrderDelivered:
		var msg deliveredMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInvalidInput, err, "malformed %s payload: %s", topic, err.Error())
		}
		if err := validation.Struct(d.validate, msg); err != nil {
			return nil, err
		}
		var state domain.State
		if msg.State != "" {
			parsed, err := domain.ParseState(msg.State)
			if err != nil {
				return nil, apperrors.Validation(apperrors.FieldViolation{Field: "state", Message: "must be one of: CRIADO ENVIADO ENTREGUE"})
			}
			state = parsed
		}
		return domain.OrderDelivered{OrderID: msg.ID, State: state, DeliveredOn: msg.OrderDelivered.Time}, nil
	default:
		return nil, apperrors.New(apperrors.ErrInvalidInput, "no decoder for topic %s", topic)
	}
}

// Encode renders an outbound payload. Orders use the same document as the HTTP API.
func Encode(payload any) ([]byte, error) {
	switch v := payload.(type) {
	case *domain.Order:
		return json.Marshal(mapper.FromDomainOrder(v))
	case []byte:
		return v, nil
	default:
		return json.Marshal(payload)
	}
}
