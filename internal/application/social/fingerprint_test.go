package social

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractFingerprint(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Fingerprint
	}{
		{
			name: "flat_fields",
			raw:  `{"id":"wh_1","type":"new order","eventId":"e1","eventTitle":"Launch Night","city":"Sydney","status":"paid","quantity":2}`,
			want: Fingerprint{
				EventType: "new order", EventID: "e1", EventTitle: "Launch Night", City: "Sydney",
				Status: "paid", Quantity: 2, EventKey: "e1", ProviderEventID: "wh_1",
			},
		},
		{
			name: "nested_fields",
			raw:  `{"webhookType":"order updated","event":{"id":42,"name":"Rooftop","venue":{"city":"Melbourne"}},"order":{"id":"o9","status":"refunded","quantity":"3"}}`,
			want: Fingerprint{
				EventType: "order updated", EventID: "42", EventTitle: "Rooftop", City: "Melbourne",
				Status: "refunded", Quantity: 3, EventKey: "42", ProviderEventID: "o9",
			},
		},
		{
			name: "tickets_array_counts_quantity",
			raw:  `{"type":"new order","eventTitle":"  Jazz   Night ","order":{"tickets":[{},{},{}]}}`,
			want: Fingerprint{
				EventType: "new order", EventTitle: "Jazz   Night", Quantity: 3,
				EventKey: "jazz night", ProviderEventID: "new order:jazz night:3",
			},
		},
		{
			name: "empty_object_defaults",
			raw:  `{}`,
			want: Fingerprint{
				EventType: "unknown", Quantity: 1, EventKey: "unknown", ProviderEventID: "unknown:unknown:1",
			},
		},
		{
			name: "nul_and_invalid_utf8_cleaned",
			raw:  "{\"type\":\"new order\",\"eventId\":\"e\\u00001\",\"eventTitle\":\"bad\xff\",\"city\":\"\\u0000\",\"location\":{\"city\":\"Perth\"}}",
			want: Fingerprint{
				EventType: "new order", EventID: "e1", EventTitle: "bad\uFFFD", City: "Perth",
				Quantity: 1, EventKey: "e1", ProviderEventID: "new order:e1:1",
			},
		},
		{
			name: "wrong_types_ignored",
			raw:  `{"type":{"x":1},"eventId":true,"quantity":[1],"id":null}`,
			want: Fingerprint{
				EventType: "unknown", Quantity: 1, EventKey: "unknown", ProviderEventID: "unknown:unknown:1",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractFingerprint([]byte(tt.raw)))
		})
	}
}

func TestExtractFingerprint_QuantityClamp(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{`{"quantity":999}`, 20},
		{`{"quantity":0}`, 1},
		{`{"quantity":-4}`, 1},
		{`{"quantity":2.9}`, 2},
		{`{"quantity":"7"}`, 7},
		{`{"quantity":"lots"}`, 1},
		{`{}`, 1},
		{`{"order":{"quantity":5}}`, 5},
		{`{"order":{"tickets":[]}}`, 1},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractFingerprint([]byte(tt.raw)).Quantity)
		})
	}
}

func TestEventKey(t *testing.T) {
	assert.Equal(t, "e1", EventKey(" e1 ", "Title"))
	assert.Equal(t, "launch night", EventKey("", "Launch  NIGHT"))
	assert.Equal(t, "unknown", EventKey("  ", "   "))
}
