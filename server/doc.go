/*
Package server exposes a storage instance over a small HTTP api.

The package focuses on:

  - Key Access: GET, HEAD, PUT and DELETE under /kv/<key> map directly to
    the storage operations Get, Has, Set and Remove
  - Base Operations: a trailing slash turns GET into a key listing and
    DELETE into a clear of the whole base
  - Observability: per-method request counters exported in Prometheus
    format under /metrics, optional debug request logging

Values written over HTTP are stored byte-transparent. Reading a key that
was written through the native api returns strings and byte slices
verbatim and everything else JSON encoded.
*/
package server
