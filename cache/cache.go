package cache

import (
	"time"

	"github.com/deeplooplabs/responses-go/openresponses"
)

// ResponseCache stores retrieved responses by ID. Only responses in a
// terminal status belong here; in-flight responses change under the caller.
type ResponseCache interface {
	// Get retrieves a cached response
	Get(id string) (*openresponses.Response, bool)

	// Set stores a response with a TTL (0 uses the configured default)
	Set(id string, resp *openresponses.Response, ttl time.Duration) error

	// Delete removes a response from the cache
	Delete(id string)

	// Clear removes all cached responses
	Clear()

	// Stats returns cache statistics
	Stats() Stats
}

// Stats represents cache statistics
type Stats struct {
	Hits   uint64
	Misses uint64
	Items  uint64
}

// Config holds cache configuration
type Config struct {
	// MaxItems is the maximum number of responses held (default: 1024)
	MaxItems int

	// DefaultTTL is the default TTL for cached responses (default: 5 minutes)
	DefaultTTL time.Duration

	// Enabled indicates whether caching is enabled
	Enabled bool
}

// DefaultConfig returns a default cache configuration
func DefaultConfig() *Config {
	return &Config{
		MaxItems:   1024,
		DefaultTTL: 5 * time.Minute,
		Enabled:    true,
	}
}
