package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	responses "github.com/deeplooplabs/responses-go"
	"github.com/deeplooplabs/responses-go/cache"
	"github.com/deeplooplabs/responses-go/hook"
	"github.com/deeplooplabs/responses-go/openresponses"
)

const (
	responsesEndpoint = "/v1/responses"
	defaultBaseURL    = "https://api.openai.com"
)

// Client talks to a Responses API server. It owns the HTTP transport,
// retry policy, credentials, and optional response cache.
type Client struct {
	config     *Config
	httpClient *http.Client
	logger     zerolog.Logger
	respCache  cache.ResponseCache
}

// New creates a client from a configuration. A nil config uses defaults
// with the public API base URL and no credentials.
func New(config *Config) *Client {
	if config == nil {
		config = DefaultConfig()
	}
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}
	if config.Hooks == nil {
		config.Hooks = hook.NewRegistry()
	}

	return &Client{
		config:     config,
		httpClient: config.GetHTTPClient(),
		logger:     config.Logger,
	}
}

// WithCache attaches a response cache consulted by GetResponse
func (c *Client) WithCache(rc cache.ResponseCache) *Client {
	c.respCache = rc
	return c
}

// Hooks returns the client's hook registry
func (c *Client) Hooks() *hook.Registry {
	return c.config.Hooks
}

// endpoint builds the full URL for an API path
func (c *Client) endpoint(path string) string {
	base := strings.TrimSuffix(c.config.BaseURL, "/")
	if c.config.BasePath != "" {
		path = strings.TrimPrefix(path, c.config.BasePath)
	}
	return base + path
}

// newRequest builds an authenticated request with common headers
func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path), body)
	if err != nil {
		return nil, responses.NewTransportError("failed to create request", err)
	}

	if c.config.Credentials != nil {
		key, err := c.config.Credentials.APIKey(ctx)
		if err != nil {
			return nil, responses.NewTransportError("failed to resolve credentials", err)
		}
		if key != "" {
			req.Header.Set("Authorization", "Bearer "+key)
		}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Request-ID", responses.RequestInfoFrom(ctx).RequestID)

	return req, nil
}

// do sends a request with retries on transient failures. Request bodies are
// replayed from the given payload bytes on each attempt.
func (c *Client) do(ctx context.Context, method, path string, payload []byte, accept string) (*http.Response, error) {
	start := time.Now()
	operation := method + " " + trimResourceID(path)

	onRetry := func() {
		if c.config.Metrics != nil {
			c.config.Metrics.RetriesTotal.WithLabelValues(operation).Inc()
		}
	}
	resp, err := retryWithBackoff(ctx, c.config.RetryConfig, onRetry, func() (*http.Response, error) {
		var body io.Reader
		if payload != nil {
			body = bytes.NewReader(payload)
		}
		req, reqErr := c.newRequest(ctx, method, path, body)
		if reqErr != nil {
			return nil, reqErr
		}
		if accept != "" {
			req.Header.Set("Accept", accept)
		}
		return c.httpClient.Do(req)
	})

	if c.config.Metrics != nil {
		c.config.Metrics.RequestDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
		status := "error"
		if err == nil {
			status = strconv.Itoa(resp.StatusCode)
		}
		c.config.Metrics.RequestsTotal.WithLabelValues(operation, status).Inc()
	}

	if err != nil {
		err = responses.NewTransportError(fmt.Sprintf("%s failed", operation), err)
		c.recordError(operation, err)
		c.config.Hooks.RunOnError(ctx, err)
		return nil, err
	}
	return resp, nil
}

// recordError counts an error against its operation, labeled by kind
func (c *Client) recordError(operation string, err error) {
	if c.config.Metrics == nil {
		return
	}
	kind := string(responses.KindOf(err))
	if kind == "" {
		kind = "unknown"
	}
	c.config.Metrics.ErrorsTotal.WithLabelValues(operation, kind).Inc()
}

// trimResourceID collapses per-resource path segments for metric labels
func trimResourceID(path string) string {
	parts := strings.Split(path, "/")
	for i, p := range parts {
		if strings.HasPrefix(p, "resp_") || strings.HasPrefix(p, "msg_") {
			parts[i] = ":id"
		}
	}
	return strings.Join(parts, "/")
}

// apiError converts a non-2xx response into a ClientError. The body is
// consumed.
func (c *Client) apiError(resp *http.Response) error {
	defer resp.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))

	var envelope struct {
		Error *openresponses.Error `json:"error"`
	}
	message := strings.TrimSpace(string(body))
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error != nil && envelope.Error.Message != "" {
		message = envelope.Error.Message
	}
	if message == "" {
		message = http.StatusText(resp.StatusCode)
	}

	var err error
	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		retryAfter, _ := retryAfterHint(resp)
		err = responses.NewRateLimitError(message, retryAfter)
	case resp.StatusCode >= 500:
		err = responses.NewServerError(message, resp.StatusCode)
	default:
		verr := responses.NewValidationError(message)
		verr.StatusCode = resp.StatusCode
		err = verr
	}

	if resp.Request != nil {
		c.recordError(resp.Request.Method+" "+trimResourceID(resp.Request.URL.Path), err)
	}
	return err
}

// CreateResponse creates a response and waits for the full (non-streamed)
// result
func (c *Client) CreateResponse(ctx context.Context, req *openresponses.CreateRequest) (*openresponses.Response, error) {
	if req == nil {
		return nil, responses.NewValidationError("request is required")
	}
	if err := c.config.Hooks.RunBeforeRequest(ctx, req); err != nil {
		return nil, err
	}

	streaming := false
	req.Stream = &streaming

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, responses.NewValidationError(fmt.Sprintf("failed to encode request: %v", err))
	}

	ctx, cancel := c.requestContext(ctx)
	defer cancel()

	resp, err := c.do(ctx, http.MethodPost, responsesEndpoint, payload, "application/json")
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		err := c.apiError(resp)
		c.config.Hooks.RunOnError(ctx, err)
		return nil, err
	}

	result, err := decodeResponseBody(resp)
	if err != nil {
		return nil, err
	}

	if err := c.config.Hooks.RunAfterRequest(ctx, req, result); err != nil {
		return nil, err
	}
	c.recordUsage(result)
	c.cacheStore(result)
	return result, nil
}

// StreamResponse creates a response and returns its event stream. Retries
// apply only until the stream is established; a failure after the first
// event arrives on Stream.Errors instead.
func (c *Client) StreamResponse(ctx context.Context, req *openresponses.CreateRequest) (*Stream, error) {
	if req == nil {
		return nil, responses.NewValidationError("request is required")
	}
	if err := c.config.Hooks.RunBeforeRequest(ctx, req); err != nil {
		return nil, err
	}

	streaming := true
	req.Stream = &streaming

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, responses.NewValidationError(fmt.Sprintf("failed to encode request: %v", err))
	}

	// No Config.Timeout here: the stream lives as long as the caller's
	// context does.
	resp, err := c.do(ctx, http.MethodPost, responsesEndpoint, payload, "text/event-stream")
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		err := c.apiError(resp)
		c.config.Hooks.RunOnError(ctx, err)
		return nil, err
	}

	return c.openStream(ctx, resp.Body), nil
}

// StreamExistingResponse re-attaches to the event stream of a stored or
// background response via a streaming retrieve. Events replay from the
// beginning of the response's stream.
func (c *Client) StreamExistingResponse(ctx context.Context, responseID string) (*Stream, error) {
	if responseID == "" {
		return nil, responses.NewValidationError("response id is required")
	}

	path := responsesEndpoint + "/" + url.PathEscape(responseID) + "?stream=true"
	resp, err := c.do(ctx, http.MethodGet, path, nil, "text/event-stream")
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		err := c.apiError(resp)
		c.config.Hooks.RunOnError(ctx, err)
		return nil, err
	}

	return c.openStream(ctx, resp.Body), nil
}

// openStream wraps an established SSE body in a Stream, tracking the
// active-streams gauge across its lifetime
func (c *Client) openStream(ctx context.Context, body io.ReadCloser) *Stream {
	if c.config.Metrics != nil {
		c.config.Metrics.ActiveStreams.Inc()
	}

	stream := newStream(ctx, body, c.logger, c.config.Hooks, c.config.Metrics)
	if c.config.Metrics != nil {
		inner := stream.closeFn
		stream.closeFn = func() {
			c.config.Metrics.ActiveStreams.Dec()
			inner()
		}
	}
	return stream
}

// GetResponse retrieves a response by ID, consulting the cache first when
// one is attached
func (c *Client) GetResponse(ctx context.Context, responseID string) (*openresponses.Response, error) {
	if responseID == "" {
		return nil, responses.NewValidationError("response id is required")
	}

	if c.respCache != nil {
		if cached, ok := c.respCache.Get(responseID); ok {
			if c.config.Metrics != nil {
				c.config.Metrics.CacheHits.Inc()
			}
			return cached, nil
		}
		if c.config.Metrics != nil {
			c.config.Metrics.CacheMisses.Inc()
		}
	}

	ctx, cancel := c.requestContext(ctx)
	defer cancel()

	resp, err := c.do(ctx, http.MethodGet, responsesEndpoint+"/"+url.PathEscape(responseID), nil, "application/json")
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, c.apiError(resp)
	}

	result, err := decodeResponseBody(resp)
	if err != nil {
		return nil, err
	}
	c.cacheStore(result)
	return result, nil
}

// DeleteResponse deletes a stored response
func (c *Client) DeleteResponse(ctx context.Context, responseID string) (*openresponses.DeleteResult, error) {
	if responseID == "" {
		return nil, responses.NewValidationError("response id is required")
	}

	ctx, cancel := c.requestContext(ctx)
	defer cancel()

	resp, err := c.do(ctx, http.MethodDelete, responsesEndpoint+"/"+url.PathEscape(responseID), nil, "application/json")
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, c.apiError(resp)
	}
	defer resp.Body.Close()

	var result openresponses.DeleteResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, responses.NewDecodeError("failed to decode delete result", err)
	}

	if c.respCache != nil {
		c.respCache.Delete(responseID)
	}
	return &result, nil
}

// CancelResponse cancels a background response
func (c *Client) CancelResponse(ctx context.Context, responseID string) (*openresponses.Response, error) {
	if responseID == "" {
		return nil, responses.NewValidationError("response id is required")
	}

	ctx, cancel := c.requestContext(ctx)
	defer cancel()

	resp, err := c.do(ctx, http.MethodPost, responsesEndpoint+"/"+url.PathEscape(responseID)+"/cancel", nil, "application/json")
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, c.apiError(resp)
	}
	return decodeResponseBody(resp)
}

// ListInputItemsParams are the paging options for ListInputItems
type ListInputItemsParams struct {
	// Limit caps the page size (server default applies when 0)
	Limit int
	// Order is "asc" or "desc"
	Order string
	// After returns items following this item ID
	After string
	// Before returns items preceding this item ID
	Before string
}

func (p *ListInputItemsParams) query() string {
	if p == nil {
		return ""
	}
	q := url.Values{}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Order != "" {
		q.Set("order", p.Order)
	}
	if p.After != "" {
		q.Set("after", p.After)
	}
	if p.Before != "" {
		q.Set("before", p.Before)
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

// ListInputItems returns one page of a response's input items
func (c *Client) ListInputItems(ctx context.Context, responseID string, params *ListInputItemsParams) (*openresponses.InputItemList, error) {
	if responseID == "" {
		return nil, responses.NewValidationError("response id is required")
	}

	ctx, cancel := c.requestContext(ctx)
	defer cancel()

	path := responsesEndpoint + "/" + url.PathEscape(responseID) + "/input_items" + params.query()
	resp, err := c.do(ctx, http.MethodGet, path, nil, "application/json")
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, c.apiError(resp)
	}
	defer resp.Body.Close()

	var result openresponses.InputItemList
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, responses.NewDecodeError("failed to decode input item list", err)
	}
	return &result, nil
}

// AllInputItems walks every page of a response's input items
func (c *Client) AllInputItems(ctx context.Context, responseID string) ([]openresponses.Item, error) {
	var items []openresponses.Item
	params := &ListInputItemsParams{Limit: 100}

	for {
		page, err := c.ListInputItems(ctx, responseID, params)
		if err != nil {
			return nil, err
		}
		items = append(items, page.Data...)
		if !page.HasMore || page.LastID == "" {
			return items, nil
		}
		params.After = page.LastID
	}
}

// requestContext bounds a non-streaming call with the configured timeout
func (c *Client) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.config.Timeout > 0 {
		return context.WithTimeout(ctx, c.config.Timeout)
	}
	return ctx, func() {}
}

func (c *Client) recordUsage(resp *openresponses.Response) {
	if c.config.Metrics == nil || resp == nil || resp.Usage == nil {
		return
	}
	c.config.Metrics.TokensUsed.WithLabelValues(resp.Model, "input").Add(float64(resp.Usage.InputTokens))
	c.config.Metrics.TokensUsed.WithLabelValues(resp.Model, "output").Add(float64(resp.Usage.OutputTokens))
	c.config.Metrics.TokensUsed.WithLabelValues(resp.Model, "total").Add(float64(resp.Usage.TotalTokens))
}

func (c *Client) cacheStore(resp *openresponses.Response) {
	if c.respCache == nil || resp == nil {
		return
	}
	c.respCache.Set(resp.ID, resp, 0)
}

func decodeResponseBody(resp *http.Response) (*openresponses.Response, error) {
	defer resp.Body.Close()

	var result openresponses.Response
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, responses.NewDecodeError("failed to decode response body", err)
	}
	return &result, nil
}
