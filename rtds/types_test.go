package rtds

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseCryptoPriceMessage(t *testing.T) {
	raw := []byte(`{
		"topic": "crypto_prices",
		"type": "update",
		"timestamp": 1753314064237,
		"payload": {
			"symbol": "solusdt",
			"timestamp": 1753314064213,
			"value": 189.55
		}
	}`)

	msgs, err := parser{}.Parse(raw)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(msgs) != 1 {
		t.Fatalf("Parse() returned %d messages, want 1", len(msgs))
	}

	price, ok := msgs[0].AsCryptoPrice()
	if !ok {
		t.Fatal("AsCryptoPrice() ok = false")
	}
	if price.Symbol != "solusdt" || !price.Value.Equal(decimal.RequireFromString("189.55")) {
		t.Errorf("price = %+v", price)
	}
	if _, ok := msgs[0].AsComment(); ok {
		t.Error("AsComment() must refuse a crypto_prices message")
	}
}

func TestParseMessageArray(t *testing.T) {
	raw := []byte(`[
		{"topic":"comments","type":"comment_created","timestamp":1,"payload":{"id":"c1","body":"hi"}},
		{"topic":"comments","type":"comment_removed","timestamp":2,"payload":{"id":"c2"}}
	]`)

	msgs, err := parser{}.Parse(raw)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("Parse() returned %d messages, want 2", len(msgs))
	}
	comment, ok := msgs[0].AsComment()
	if !ok || comment.ID != "c1" || comment.Body != "hi" {
		t.Errorf("comment = %+v, %v", comment, ok)
	}
}

func TestParseKeepaliveIsEmptyBatch(t *testing.T) {
	for _, input := range []string{"", "   ", "\n\t "} {
		msgs, err := parser{}.Parse([]byte(input))
		if err != nil {
			t.Fatalf("Parse(%q) error = %v", input, err)
		}
		if len(msgs) != 0 {
			t.Errorf("Parse(%q) = %d messages, want 0", input, len(msgs))
		}
	}
}

func TestParseMalformedFrame(t *testing.T) {
	if _, err := (parser{}).Parse([]byte(`{not json`)); err == nil {
		t.Fatal("expected an error for a malformed frame")
	}
}
