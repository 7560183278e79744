package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ValentinKolb/uKV/lib/logger"
	"github.com/ValentinKolb/uKV/lib/storage"
	"github.com/VictoriaMetrics/metrics"
)

var log = logger.GetLogger("server")

// IServer exposes a storage instance over HTTP.
type IServer interface {
	// Handler returns the HTTP handler for the server (useful for tests
	// and embedding)
	Handler() http.Handler
	// Listen blocks and serves HTTP on the configured endpoint
	Listen() error
}

// NewServer creates a new HTTP server on top of the given storage.
func NewServer(s storage.IStorage, config Config) IServer {
	return &serverImpl{storage: s, config: config}
}

type serverImpl struct {
	storage storage.IStorage
	config  Config
}

// --------------------------------------------------------------------------
// Interface Methods (docu see IServer)
// --------------------------------------------------------------------------

func (t *serverImpl) Handler() http.Handler {
	mux := http.NewServeMux()

	// Register handlers
	mux.HandleFunc("GET /kv/{key...}", t.instrument(t.handleGet))
	mux.HandleFunc("HEAD /kv/{key...}", t.instrument(t.handleHead))
	mux.HandleFunc("PUT /kv/{key...}", t.instrument(t.handlePut))
	mux.HandleFunc("DELETE /kv/{key...}", t.instrument(t.handleDelete))

	// Prometheus export
	mux.HandleFunc("GET /metrics", func(w http.ResponseWriter, r *http.Request) {
		metrics.WritePrometheus(w, true)
	})

	if t.config.LogLevel == "debug" {
		return loggerMiddleware(mux)
	}
	return mux
}

func (t *serverImpl) Listen() error {
	log.Infof("Starting HTTP server on %s", t.config.Endpoint)
	return http.ListenAndServe(t.config.Endpoint, t.Handler())
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// instrument counts requests per method before handing off
func (t *serverImpl) instrument(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		metrics.GetOrCreateCounter(
			fmt.Sprintf(`ukv_http_requests_total{method=%q}`, r.Method),
		).Inc()
		next(w, r)
	}
}

// handleGet serves single values and, for keys ending in a slash, key lists
func (t *serverImpl) handleGet(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	// a trailing slash (or the bare /kv/ root) lists keys below the base
	if key == "" || strings.HasSuffix(key, "/") {
		keys, err := t.storage.Keys(key)
		if err != nil {
			http.Error(w, "Failed to list keys", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(keys); err != nil {
			log.Warnf("Failed to write key list: %v", err)
		}
		return
	}

	loaded, err := t.storage.Has(key)
	if err != nil {
		http.Error(w, "Failed to read key", http.StatusInternalServerError)
		return
	}
	if !loaded {
		http.Error(w, "Key not found", http.StatusNotFound)
		return
	}

	value, err := t.storage.Get(key)
	if err != nil {
		http.Error(w, "Failed to read key", http.StatusInternalServerError)
		return
	}

	body, contentType, err := encodeValue(value)
	if err != nil {
		http.Error(w, "Failed to encode value", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", contentType)
	if _, err := w.Write(body); err != nil {
		log.Warnf("Failed to write response: %v", err)
	}
}

// handleHead reports key existence without a body
func (t *serverImpl) handleHead(w http.ResponseWriter, r *http.Request) {
	loaded, err := t.storage.Has(r.PathValue("key"))
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	if !loaded {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handlePut stores the request body verbatim
func (t *serverImpl) handlePut(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	defer r.Body.Close()
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusInternalServerError)
		return
	}

	if err := t.storage.Set(r.PathValue("key"), body); err != nil {
		http.Error(w, "Failed to write key", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleDelete removes single keys or, for keys ending in a slash, clears
// the whole base
func (t *serverImpl) handleDelete(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	if key == "" || strings.HasSuffix(key, "/") {
		if err := t.storage.Clear(key); err != nil {
			http.Error(w, "Failed to clear base", http.StatusInternalServerError)
			return
		}
	} else {
		if err := t.storage.Remove(key, true); err != nil {
			http.Error(w, "Failed to remove key", http.StatusInternalServerError)
			return
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

// encodeValue turns a deserialized value back into response bytes. Strings
// and byte slices are written verbatim, everything else as JSON.
func encodeValue(value interface{}) ([]byte, string, error) {
	switch v := value.(type) {
	case string:
		return []byte(v), "text/plain; charset=utf-8", nil
	case []byte:
		return v, "application/octet-stream", nil
	default:
		body, err := json.Marshal(v)
		return body, "application/json", err
	}
}

// --------------------------------------------------------------------------
// Middleware (logging)
// --------------------------------------------------------------------------

// responseWriter is a custom ResponseWriter that captures status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

// WriteHeader captures the status code before writing it
func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// loggerMiddleware is a middleware that logs HTTP requests
func loggerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Create custom response writer to capture status code
		rw := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		// Process request
		next.ServeHTTP(rw, r)

		// Log the request
		duration := time.Since(start)
		log.Debugf("%s %s => %d took %s", r.Method, r.URL.Path, rw.statusCode, duration)
	})
}
