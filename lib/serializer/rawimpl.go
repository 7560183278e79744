package serializer

import "fmt"

// NewRawSerializer creates a serializer that is byte-transparent: only
// strings and byte slices are accepted and values are never re-encoded.
// Use it when the stored bytes must match the written bytes exactly.
func NewRawSerializer() IValueSerializer {
	return &rawSerializerImpl{}
}

// rawSerializerImpl implements the IValueSerializer interface without encoding
type rawSerializerImpl struct {
}

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.IValueSerializer)
// --------------------------------------------------------------------------

func (r rawSerializerImpl) Serialize(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case string:
		return []byte(v), nil
	case []byte:
		return v, nil
	default:
		return nil, fmt.Errorf("raw serializer only accepts string or []byte values, got %T", value)
	}
}

func (r rawSerializerImpl) Deserialize(raw []byte) (interface{}, error) {
	return string(raw), nil
}
