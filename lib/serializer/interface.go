package serializer

// IValueSerializer is the interface for all value serializers.
// A serializer converts the structured values accepted by the storage
// facade into the opaque byte representation drivers store, and back.
type IValueSerializer interface {
	// Serialize converts a structured value into its stored byte form
	// It returns the serialized bytes and an error if any
	Serialize(value interface{}) ([]byte, error)
	// Deserialize converts stored bytes back into a structured value
	// It returns the reconstructed value and an error if any
	Deserialize(raw []byte) (interface{}, error)
}
