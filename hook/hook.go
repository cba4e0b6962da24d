package hook

import (
	"context"

	"github.com/deeplooplabs/responses-go/openresponses"
)

// Hook is the base interface for all hooks
type Hook interface {
	// Name returns the unique name of this hook
	Name() string
}

// RequestHook is called around each API request
type RequestHook interface {
	Hook
	// BeforeRequest is called before sending the request (can modify it)
	BeforeRequest(ctx context.Context, req *openresponses.CreateRequest) error
	// AfterRequest is called after a non-streaming response arrives
	AfterRequest(ctx context.Context, req *openresponses.CreateRequest, resp *openresponses.Response) error
}

// StreamingHook is called for each decoded streaming event
type StreamingHook interface {
	Hook
	// OnEvent observes or rewrites one event before it reaches the consumer
	OnEvent(ctx context.Context, event openresponses.StreamingEvent) (openresponses.StreamingEvent, error)
}

// ErrorHook is called when an error occurs
type ErrorHook interface {
	Hook
	// OnError is called when an error occurs during request processing
	OnError(ctx context.Context, err error)
}

// Registry manages registered hooks
type Registry struct {
	hooks          []Hook
	requestHooks   []RequestHook
	streamingHooks []StreamingHook
	errorHooks     []ErrorHook
}

// NewRegistry creates a new hook registry
func NewRegistry() *Registry {
	return &Registry{
		hooks:          make([]Hook, 0),
		requestHooks:   make([]RequestHook, 0),
		streamingHooks: make([]StreamingHook, 0),
		errorHooks:     make([]ErrorHook, 0),
	}
}

// Register registers a hook based on its concrete type
func (r *Registry) Register(hooks ...Hook) {
	for _, h := range hooks {
		r.hooks = append(r.hooks, h)

		if hh, ok := h.(RequestHook); ok {
			r.requestHooks = append(r.requestHooks, hh)
		}
		if hh, ok := h.(StreamingHook); ok {
			r.streamingHooks = append(r.streamingHooks, hh)
		}
		if hh, ok := h.(ErrorHook); ok {
			r.errorHooks = append(r.errorHooks, hh)
		}
	}
}

// RequestHooks returns all request hooks
func (r *Registry) RequestHooks() []RequestHook {
	return r.requestHooks
}

// StreamingHooks returns all streaming hooks
func (r *Registry) StreamingHooks() []StreamingHook {
	return r.streamingHooks
}

// ErrorHooks returns all error hooks
func (r *Registry) ErrorHooks() []ErrorHook {
	return r.errorHooks
}

// All returns all registered hooks
func (r *Registry) All() []Hook {
	return r.hooks
}

// RunBeforeRequest invokes every request hook; the first error aborts.
func (r *Registry) RunBeforeRequest(ctx context.Context, req *openresponses.CreateRequest) error {
	for _, h := range r.requestHooks {
		if err := h.BeforeRequest(ctx, req); err != nil {
			return err
		}
	}
	return nil
}

// RunAfterRequest invokes every request hook; the first error aborts.
func (r *Registry) RunAfterRequest(ctx context.Context, req *openresponses.CreateRequest, resp *openresponses.Response) error {
	for _, h := range r.requestHooks {
		if err := h.AfterRequest(ctx, req, resp); err != nil {
			return err
		}
	}
	return nil
}

// RunOnEvent pipes an event through every streaming hook in registration
// order. A hook error leaves the event as it was at that point.
func (r *Registry) RunOnEvent(ctx context.Context, event openresponses.StreamingEvent) (openresponses.StreamingEvent, error) {
	for _, h := range r.streamingHooks {
		next, err := h.OnEvent(ctx, event)
		if err != nil {
			return event, err
		}
		if next != nil {
			event = next
		}
	}
	return event, nil
}

// RunOnError notifies every error hook.
func (r *Registry) RunOnError(ctx context.Context, err error) {
	for _, h := range r.errorHooks {
		h.OnError(ctx, err)
	}
}
