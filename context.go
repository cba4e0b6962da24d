package responses

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// RequestInfo tracks one API exchange throughout its lifecycle: creation,
// retries, streaming, and hook observation. It is shared between the client
// and hooks, so metadata access is guarded.
type RequestInfo struct {
	RequestID string
	StartTime time.Time
	Endpoint  string
	Metadata  map[string]any
	mu        sync.RWMutex
}

// NewRequestInfo creates tracking info for a single API exchange
func NewRequestInfo(endpoint string) *RequestInfo {
	return &RequestInfo{
		RequestID: uuid.New().String(),
		StartTime: time.Now(),
		Endpoint:  endpoint,
		Metadata:  make(map[string]any),
	}
}

// Set stores a value in the request metadata
func (r *RequestInfo) Set(key string, value any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Metadata[key] = value
}

// Get retrieves a value from the request metadata
func (r *RequestInfo) Get(key string) any {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.Metadata[key]
}

// Elapsed returns the time since the exchange started
func (r *RequestInfo) Elapsed() time.Duration {
	return time.Since(r.StartTime)
}

type requestInfoKey struct{}

// WithRequestInfo attaches tracking info to a context
func WithRequestInfo(ctx context.Context, info *RequestInfo) context.Context {
	return context.WithValue(ctx, requestInfoKey{}, info)
}

// RequestInfoFrom returns the tracking info attached to a context, creating
// a fresh one when none is present so callers never nil-check
func RequestInfoFrom(ctx context.Context) *RequestInfo {
	if info, ok := ctx.Value(requestInfoKey{}).(*RequestInfo); ok {
		return info
	}
	return NewRequestInfo("")
}
