package ratelimit

import (
	"fmt"
	"net/netip"
	"strconv"
	"strings"
	"time"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Route pattern, "{id}" matches one segment, a trailing "/" matches a subtree
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window, 0 is unlimited
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// LookupFunc reads one setting; os.LookupEnv satisfies it
type LookupFunc func(key string) (string, bool)

// Tier defaults, overridable per deployment
const (
	defaultGeneratePerMinute = 30
	defaultWritePerMinute    = 100
	defaultValidatePerMinute = 60
)

// FromEnv builds the limiter configuration from RATE_LIMIT_* settings.
// A malformed value is an error rather than a silent fallback to the default.
func FromEnv(lookup LookupFunc) (*Config, error) {
	r := envReader{lookup: lookup}

	enabled := r.bool("RATE_LIMIT_ENABLED", true)
	if !enabled {
		return &Config{Enabled: false}, r.err
	}

	cfg := &Config{
		Enabled:         true,
		DefaultLimit:    r.int("RATE_LIMIT_DEFAULT_LIMIT", 1000),
		DefaultWindow:   r.duration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		CleanupInterval: r.duration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		Whitelist:       r.ips("RATE_LIMIT_WHITELIST"),
		Blacklist:       r.ips("RATE_LIMIT_BLACKLIST"),
		EndpointConfigs: EndpointConfigs(
			r.int("RATE_LIMIT_GENERATE_PER_MINUTE", defaultGeneratePerMinute),
			r.int("RATE_LIMIT_WRITE_PER_MINUTE", defaultWritePerMinute),
			r.int("RATE_LIMIT_VALIDATE_PER_MINUTE", defaultValidatePerMinute),
		),
	}
	if r.err != nil {
		return nil, r.err
	}
	return cfg, nil
}

// DefaultEndpointConfigs returns the endpoint tiers with their default limits.
func DefaultEndpointConfigs() []EndpointConfig {
	return EndpointConfigs(defaultGeneratePerMinute, defaultWritePerMinute, defaultValidatePerMinute)
}

// EndpointConfigs returns the endpoint tiers with the given per-minute limits.
// Reads use the default limit; health and metrics are unlimited.
func EndpointConfigs(generate, write, validate int) []EndpointConfig {
	return []EndpointConfig{
		// Generation calls out to providers
		{Path: "/generate-section", Method: "POST", Limit: generate, Window: time.Minute, Burst: burstFor(generate, 5)},
		{Path: "/generate-section/stream", Method: "POST", Limit: generate, Window: time.Minute, Burst: burstFor(generate, 5)},

		{Path: "/documents", Method: "POST", Limit: write, Window: time.Minute, Burst: burstFor(write, 10)},
		{Path: "/documents/{id}", Method: "DELETE", Limit: write, Window: time.Minute, Burst: burstFor(write, 10)},

		{Path: "/documents/{id}/validate", Method: "POST", Limit: validate, Window: time.Minute, Burst: burstFor(validate, 10)},
	}
}

func burstFor(limit, burst int) int {
	return min(limit, burst)
}

// envReader keeps the first parse error so FromEnv can report it once
type envReader struct {
	lookup LookupFunc
	err    error
}

func (r *envReader) value(key string) (string, bool) {
	v, ok := r.lookup(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func (r *envReader) fail(key, value string, err error) {
	if r.err == nil {
		r.err = fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
}

func (r *envReader) bool(key string, def bool) bool {
	v, ok := r.value(key)
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		r.fail(key, v, err)
		return def
	}
	return b
}

func (r *envReader) int(key string, def int) int {
	v, ok := r.value(key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err == nil && n < 0 {
		err = fmt.Errorf("must not be negative")
	}
	if err != nil {
		r.fail(key, v, err)
		return def
	}
	return n
}

func (r *envReader) duration(key string, def time.Duration) time.Duration {
	v, ok := r.value(key)
	if !ok {
		return def
	}
	d, err := time.ParseDuration(v)
	if err == nil && d <= 0 {
		err = fmt.Errorf("must be positive")
	}
	if err != nil {
		r.fail(key, v, err)
		return def
	}
	return d
}

// ips parses a comma-separated address list. Entries are normalized so "::ffff:10.0.0.1" matches "10.0.0.1".
func (r *envReader) ips(key string) map[string]bool {
	result := make(map[string]bool)
	v, ok := r.value(key)
	if !ok {
		return result
	}
	for _, entry := range strings.Split(v, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		addr, err := netip.ParseAddr(entry)
		if err != nil {
			r.fail(key, entry, err)
			continue
		}
		result[addr.Unmap().String()] = true
	}
	return result
}
