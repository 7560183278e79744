package serializer

import (
	"encoding/json"
	"unicode/utf8"
)

// NewJSONSerializer creates a new serializer using json encoding.
// Strings pass through verbatim in both directions: Serialize stores a
// string's raw bytes, and Deserialize returns any payload that does not
// parse as json unchanged as a string. Numbers, booleans, null, arrays and
// objects round-trip through their json representation.
func NewJSONSerializer() IValueSerializer {
	return &jsonSerializerImpl{}
}

// jsonSerializerImpl implements the IValueSerializer interface using json encoding
type jsonSerializerImpl struct {
}

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.IValueSerializer)
// --------------------------------------------------------------------------

func (j jsonSerializerImpl) Serialize(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case string:
		return []byte(v), nil
	case []byte:
		return v, nil
	default:
		return json.Marshal(value)
	}
}

func (j jsonSerializerImpl) Deserialize(raw []byte) (interface{}, error) {
	if !utf8.Valid(raw) {
		// binary payload, hand it back untouched
		return raw, nil
	}

	var value interface{}
	if err := json.Unmarshal(raw, &value); err != nil {
		// not json - plain strings pass through
		return string(raw), nil
	}
	return value, nil
}
