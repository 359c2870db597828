package core

import (
	"testing"
	"time"
)

func TestParsePaymentEvent_DecodesChargePayload(t *testing.T) {
	raw := []byte(`{
		"event": "charge.success",
		"data": {
			"reference": "ref_123",
			"amount": 500000,
			"currency": "NGN",
			"paid_at": "2024-05-01T10:30:00Z",
			"customer": {"email": " buyer@example.com ", "customer_code": "CUS_1"},
			"metadata": {
				"custom_fields": [
					{"display_name": "Product Title", "variable_name": "product_title", "value": "Blue Hoodie"},
					{"display_name": "Variant ID", "variable_name": "variant_id", "value": 987}
				]
			}
		}
	}`)

	event, err := ParsePaymentEvent(raw)
	if err != nil {
		t.Fatalf("parse payment event: %v", err)
	}
	if event.Event != EventChargeSucceeded {
		t.Fatalf("expected charge.success, got %q", event.Event)
	}
	if event.Data.Reference != "ref_123" {
		t.Fatalf("unexpected reference %q", event.Data.Reference)
	}
	if event.Data.Amount != 500000 {
		t.Fatalf("unexpected amount %d", event.Data.Amount)
	}
	if event.Data.Customer.Email != "buyer@example.com" {
		t.Fatalf("expected trimmed email, got %q", event.Data.Customer.Email)
	}
	if got := event.Data.Metadata.Get("variant_id", ""); got != "987" {
		t.Fatalf("expected numeric field normalized to string, got %q", got)
	}
	wantPaid := time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)
	if !event.Data.PaidAt.Equal(wantPaid) {
		t.Fatalf("unexpected paid_at %v", event.Data.PaidAt)
	}
}

func TestParsePaymentEvent_RejectsEmptyAndMalformedBodies(t *testing.T) {
	if _, err := ParsePaymentEvent(nil); err == nil {
		t.Fatalf("expected error for empty body")
	}
	if _, err := ParsePaymentEvent([]byte("   ")); err == nil {
		t.Fatalf("expected error for blank body")
	}
	if _, err := ParsePaymentEvent([]byte("{not json")); err == nil {
		t.Fatalf("expected error for malformed body")
	}
}

func TestMetadata_DecodesAllDeliveredShapes(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "bare array",
			raw:  `{"data":{"metadata":[{"display_name":"Phone","variable_name":"phone","value":"0800"}]}}`,
			want: "0800",
		},
		{
			name: "object with custom_fields",
			raw:  `{"data":{"metadata":{"custom_fields":[{"display_name":"Phone","variable_name":"phone","value":"0800"}]}}}`,
			want: "0800",
		},
		{
			name: "string wrapped object",
			raw:  `{"data":{"metadata":"{\"custom_fields\":[{\"display_name\":\"Phone\",\"variable_name\":\"phone\",\"value\":\"0800\"}]}"}}`,
			want: "0800",
		},
		{
			name: "null metadata",
			raw:  `{"data":{"metadata":null}}`,
			want: "",
		},
		{
			name: "scalar metadata",
			raw:  `{"data":{"metadata":42}}`,
			want: "",
		},
		{
			name: "empty string metadata",
			raw:  `{"data":{"metadata":""}}`,
			want: "",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			event, err := ParsePaymentEvent([]byte(tc.raw))
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if got := event.Data.Metadata.Get("phone", ""); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestMetadataGet_FallbackAndMatching(t *testing.T) {
	meta := Metadata{Fields: []Field{
		{Name: "Customer Name", Variable: "customer_name", Value: "Ada"},
		{Name: "Empty", Variable: "empty_field", Value: "   "},
		{Name: "Shadowed", Variable: "dup", Value: "first"},
		{Name: "Shadowed", Variable: "dup", Value: "second"},
	}}

	if got := meta.Get("customer_name", DefaultFieldValue); got != "Ada" {
		t.Fatalf("expected variable-name match, got %q", got)
	}
	if got := meta.Get("Customer Name", DefaultFieldValue); got != "Ada" {
		t.Fatalf("expected display-name match, got %q", got)
	}
	if got := meta.Get("missing", DefaultFieldValue); got != DefaultFieldValue {
		t.Fatalf("expected fallback for missing field, got %q", got)
	}
	if got := meta.Get("empty_field", DefaultFieldValue); got != DefaultFieldValue {
		t.Fatalf("expected fallback for blank value, got %q", got)
	}
	if got := meta.Get("dup", ""); got != "first" {
		t.Fatalf("expected first match to win, got %q", got)
	}
	if got := meta.Get("", DefaultFieldValue); got != DefaultFieldValue {
		t.Fatalf("expected fallback for empty name, got %q", got)
	}
}

func TestFormatAmount(t *testing.T) {
	cases := []struct {
		minor    int64
		currency string
		want     string
	}{
		{500000, "NGN", "NGN 5,000.00"},
		{1234567, "ngn", "NGN 12,345.67"},
		{99, "USD", "USD 0.99"},
		{100, "", "NGN 1.00"},
		{-250050, "NGN", "NGN -2,500.50"},
		{1000000000, "NGN", "NGN 10,000,000.00"},
	}
	for _, tc := range cases {
		if got := FormatAmount(tc.minor, tc.currency); got != tc.want {
			t.Fatalf("FormatAmount(%d, %q) = %q, want %q", tc.minor, tc.currency, got, tc.want)
		}
	}
}
