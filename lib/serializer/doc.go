// Package serializer converts the structured values accepted by the
// storage facade into the byte representation drivers persist, and back.
//
// The conversion is a pluggable strategy behind the IValueSerializer
// interface so callers can pick the trade-off that fits their backends:
//
//   - JSON (NewJSONSerializer, the default): strings pass through verbatim,
//     all other values round-trip through their json encoding. On read, a
//     payload that does not parse as json is returned unchanged as a
//     string, so foreign data written directly into a backend stays
//     readable.
//
//   - Raw (NewRawSerializer): byte-transparent, strings and byte slices
//     only. For backends that must hold exactly the written bytes.
//
// Note that with the JSON strategy a stored plain string that happens to be
// valid json (for example "123" or "true") deserializes into the parsed
// value, not the string. Callers that must avoid this use the raw strategy.
package serializer
