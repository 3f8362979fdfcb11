// Package querylog captures the log records emitted while handling a single
// query, keyed by query id, so they can be embedded back into an error
// response for the caller. Grounded on logutil.py's LoggerWrapper, which
// keeps a per-request-id dict of captured records for the same purpose.
package querylog

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// queryIDAttrKey is the slog attribute key a per-query logger (see
// config.Logger.WithQueryID) tags its records with, and the key Handle
// looks for to attribute a record to a query.
const queryIDAttrKey = "query_id"

// Record is one captured log line.
type Record struct {
	Time    time.Time `json:"time"`
	Level   string    `json:"level"`
	Message string    `json:"message"`
}

// Store holds captured records per query id. The zero value is ready to use.
type Store struct {
	mu      sync.Mutex
	records map[string][]Record
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{records: make(map[string][]Record)}
}

// Append records one log line under queryID.
func (s *Store) Append(queryID string, r Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[queryID] = append(s.records[queryID], r)
}

// Get returns the captured records for queryID, oldest first.
func (s *Store) Get(queryID string) []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Record, len(s.records[queryID]))
	copy(out, s.records[queryID])
	return out
}

// Forget discards the captured records for queryID, releasing their memory
// once a request has finished and its logs are no longer needed.
func (s *Store) Forget(queryID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, queryID)
}

// Handler is an slog.Handler that tees every record carrying a "query_id"
// attribute (added via a chain of Logger.With("query_id", ...) calls) into
// a Store, while still delegating to a wrapped handler for normal log
// output. Attributes added through With/WithGroup are accumulated here
// rather than forwarded opaquely, since slog bakes them into the handler
// chain instead of the Record itself.
type Handler struct {
	next  slog.Handler
	store *Store
	attrs []slog.Attr
}

// NewHandler wraps next so every handled record is also captured into store.
func NewHandler(next slog.Handler, store *Store) *Handler {
	return &Handler{next: next, store: store}
}

// Enabled delegates to the wrapped handler.
func (h *Handler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

// Handle captures the record under its query id, if any, then delegates.
func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	if queryID, ok := h.queryID(r); ok {
		h.store.Append(queryID, Record{
			Time:    r.Time,
			Level:   r.Level.String(),
			Message: r.Message,
		})
	}
	return h.next.Handle(ctx, r)
}

// queryID looks for the query_id attribute among this handler's
// accumulated With() attrs first, then among the record's own attrs.
func (h *Handler) queryID(r slog.Record) (string, bool) {
	for _, a := range h.attrs {
		if a.Key == queryIDAttrKey {
			return a.Value.String(), true
		}
	}
	var found string
	var ok bool
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == queryIDAttrKey {
			found = a.Value.String()
			ok = true
			return false
		}
		return true
	})
	return found, ok
}

// WithAttrs accumulates attrs for query-id detection and delegates to the
// wrapped handler, preserving the tee.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &Handler{next: h.next.WithAttrs(attrs), store: h.store, attrs: merged}
}

// WithGroup delegates to the wrapped handler, preserving the tee.
func (h *Handler) WithGroup(name string) slog.Handler {
	return &Handler{next: h.next.WithGroup(name), store: h.store, attrs: h.attrs}
}

type queryIDCtxKey struct{}

// WithQueryID returns a context tagged with queryID. It does not itself
// cause log capture (see Handler's attribute-based matching) but lets
// downstream calls such as an HTTP client request carry the query id for
// cancellation/tracing purposes.
func WithQueryID(ctx context.Context, queryID string) context.Context {
	return context.WithValue(ctx, queryIDCtxKey{}, queryID)
}

// QueryIDFromContext returns the query id previously attached with
// WithQueryID, if any.
func QueryIDFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(queryIDCtxKey{}).(string)
	return v, ok
}
