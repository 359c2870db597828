package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const EventChargeSucceeded = "charge.success"

// Sentinel values returned by metadata lookups when a field is absent.
// Lookups never fail; the source data is customer supplied and cannot be
// trusted to carry every field.
const (
	DefaultProductTitle = "Unknown Product"
	DefaultFieldValue   = "N/A"
	DefaultNumericValue = "0"
)

const defaultCurrency = "NGN"

// PaymentEvent is one processor notification parsed from the raw request
// body. Parsing happens only after the signature over the raw bytes has been
// verified.
type PaymentEvent struct {
	Event string        `json:"event"`
	Data  PaymentRecord `json:"data"`
}

type PaymentRecord struct {
	Reference string    `json:"reference"`
	Amount    int64     `json:"amount"`
	Currency  string    `json:"currency"`
	Customer  Customer  `json:"customer"`
	Metadata  Metadata  `json:"metadata"`
	PaidAt    time.Time `json:"paid_at"`
}

type Customer struct {
	Email        string `json:"email"`
	CustomerCode string `json:"customer_code"`
}

// Field is one custom metadata entry. Value is normalized to a string no
// matter what scalar the processor delivered.
type Field struct {
	Name     string
	Variable string
	Value    string
}

func (f *Field) UnmarshalJSON(data []byte) error {
	var wire struct {
		DisplayName  string          `json:"display_name"`
		VariableName string          `json:"variable_name"`
		Value        json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return fmt.Errorf("core: decode metadata field: %w", err)
	}
	f.Name = strings.TrimSpace(wire.DisplayName)
	f.Variable = strings.TrimSpace(wire.VariableName)
	f.Value = scalarString(wire.Value)
	return nil
}

// Metadata is the ordered sequence of custom fields attached to a charge.
// The processor delivers it either as a bare array, as an object with a
// custom_fields key, or as a JSON string wrapping one of those shapes.
type Metadata struct {
	Fields []Field
}

func (m *Metadata) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		m.Fields = nil
		return nil
	}
	switch trimmed[0] {
	case '"':
		var wrapped string
		if err := json.Unmarshal(trimmed, &wrapped); err != nil {
			return fmt.Errorf("core: decode metadata string: %w", err)
		}
		wrapped = strings.TrimSpace(wrapped)
		if wrapped == "" {
			m.Fields = nil
			return nil
		}
		return m.UnmarshalJSON([]byte(wrapped))
	case '[':
		var fields []Field
		if err := json.Unmarshal(trimmed, &fields); err != nil {
			return fmt.Errorf("core: decode metadata fields: %w", err)
		}
		m.Fields = fields
		return nil
	case '{':
		var wire struct {
			CustomFields []Field `json:"custom_fields"`
		}
		if err := json.Unmarshal(trimmed, &wire); err != nil {
			return fmt.Errorf("core: decode metadata object: %w", err)
		}
		m.Fields = wire.CustomFields
		return nil
	default:
		// Scalar metadata (a number, a bool) carries no fields.
		m.Fields = nil
		return nil
	}
}

// Get returns the first field whose display or variable name matches exactly,
// or fallback when the field is absent or empty. Matching is first-match-wins
// and the lookup is total for any name.
func (m Metadata) Get(name string, fallback string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return fallback
	}
	for _, field := range m.Fields {
		if field.Name != name && field.Variable != name {
			continue
		}
		if value := strings.TrimSpace(field.Value); value != "" {
			return value
		}
		return fallback
	}
	return fallback
}

// ParsePaymentEvent decodes the received bytes exactly as delivered.
func ParsePaymentEvent(raw []byte) (PaymentEvent, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return PaymentEvent{}, fmt.Errorf("core: event body is required")
	}
	var event PaymentEvent
	if err := json.Unmarshal(raw, &event); err != nil {
		return PaymentEvent{}, fmt.Errorf("core: decode payment event: %w", err)
	}
	event.Event = strings.TrimSpace(event.Event)
	event.Data.Reference = strings.TrimSpace(event.Data.Reference)
	event.Data.Customer.Email = strings.TrimSpace(event.Data.Customer.Email)
	return event, nil
}

// FormatAmount renders an amount held in minor units (kobo, cents) as a
// grouped decimal string prefixed with the currency code.
func FormatAmount(minor int64, currency string) string {
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	units := minor / 100
	cents := minor % 100

	code := strings.ToUpper(strings.TrimSpace(currency))
	if code == "" {
		code = defaultCurrency
	}
	return fmt.Sprintf("%s %s%s.%02d", code, sign, groupThousands(units), cents)
}

func groupThousands(value int64) string {
	digits := strconv.FormatInt(value, 10)
	if len(digits) <= 3 {
		return digits
	}
	var out strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		out.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if out.Len() > 0 {
			out.WriteByte(',')
		}
		out.WriteString(digits[i : i+3])
	}
	return out.String()
}

func scalarString(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return ""
	}
	var asString string
	if err := json.Unmarshal(trimmed, &asString); err == nil {
		return strings.TrimSpace(asString)
	}
	var asNumber json.Number
	if err := json.Unmarshal(trimmed, &asNumber); err == nil {
		return asNumber.String()
	}
	var asBool bool
	if err := json.Unmarshal(trimmed, &asBool); err == nil {
		return strconv.FormatBool(asBool)
	}
	return string(trimmed)
}
