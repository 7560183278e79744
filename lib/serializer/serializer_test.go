package serializer

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// testValues covers every value shape the storage facade accepts
func testValues() []interface{} {
	return []interface{}{
		"hello world",
		float64(42),
		float64(-0.5),
		true,
		false,
		nil,
		[]interface{}{"a", float64(1), true},
		map[string]interface{}{
			"name":   "test",
			"count":  float64(3),
			"nested": map[string]interface{}{"ok": true},
		},
	}
}

// TestJSONRoundTrip tests that values survive serialization unchanged
func TestJSONRoundTrip(t *testing.T) {
	s := NewJSONSerializer()

	for _, value := range testValues() {
		raw, err := s.Serialize(value)
		if err != nil {
			t.Errorf("Serialize(%v) failed: %v", value, err)
			continue
		}

		got, err := s.Deserialize(raw)
		if err != nil {
			t.Errorf("Deserialize(%v) failed: %v", value, err)
			continue
		}

		if diff := cmp.Diff(value, got); diff != "" {
			t.Errorf("round trip mismatch for %v (-want +got):\n%s", value, diff)
		}
	}
}

// TestJSONStringPassthrough tests that non-json payloads stay strings
func TestJSONStringPassthrough(t *testing.T) {
	s := NewJSONSerializer()

	raw, err := s.Serialize("plain text, not json")
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	if string(raw) != "plain text, not json" {
		t.Errorf("expected verbatim string bytes, got %q", raw)
	}

	got, err := s.Deserialize([]byte("plain text, not json"))
	if err != nil {
		t.Fatalf("Deserialize failed: %v", err)
	}
	if got != "plain text, not json" {
		t.Errorf("expected passthrough string, got %v (%T)", got, got)
	}
}

// TestJSONBinaryPassthrough tests that non-utf8 payloads come back as bytes
func TestJSONBinaryPassthrough(t *testing.T) {
	s := NewJSONSerializer()

	payload := []byte{0xff, 0xfe, 0x00, 0x42}
	got, err := s.Deserialize(payload)
	if err != nil {
		t.Fatalf("Deserialize failed: %v", err)
	}
	gotBytes, ok := got.([]byte)
	if !ok {
		t.Fatalf("expected []byte, got %T", got)
	}
	if diff := cmp.Diff(payload, gotBytes); diff != "" {
		t.Errorf("binary payload mismatch (-want +got):\n%s", diff)
	}
}

// TestRawSerializer tests the byte-transparent strategy
func TestRawSerializer(t *testing.T) {
	s := NewRawSerializer()

	raw, err := s.Serialize("value")
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	got, err := s.Deserialize(raw)
	if err != nil {
		t.Fatalf("Deserialize failed: %v", err)
	}
	if got != "value" {
		t.Errorf("expected %q, got %v", "value", got)
	}

	if _, err := s.Serialize(42); err == nil {
		t.Errorf("expected error for non-string value")
	}
}
