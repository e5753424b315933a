package mapper

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Apurer/store-orders-api/internal/domains/orders/domain"
)

// Date is a calendar day encoded as a dd/MM/yyyy JSON string. The zero value encodes as null.
type Date struct {
	time.Time
}

func NewDate(t time.Time) Date {
	return Date{Time: domain.Day(t)}
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format(domain.DateLayout))
}

func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		d.Time = time.Time{}
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("date must be a dd/MM/yyyy string: %w", err)
	}
	if raw == "" {
		d.Time = time.Time{}
		return nil
	}
	parsed, err := domain.ParseDate(raw)
	if err != nil {
		return fmt.Errorf("date %q is not dd/MM/yyyy: %w", raw, err)
	}
	d.Time = parsed
	return nil
}
