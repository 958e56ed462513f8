package generation

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/jonathan/resume-builder/internal/types"
)

const (
	defaultCacheTTL     = 10 * time.Minute
	defaultCacheCleanup = 20 * time.Minute
)

// ResultCache remembers recent results so a retransmitted turn yields the same result id
type ResultCache struct {
	items *cache.Cache
}

// NewResultCache creates a cache whose entries expire after ttl
func NewResultCache(ttl time.Duration) *ResultCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &ResultCache{items: cache.New(ttl, defaultCacheCleanup)}
}

// Get returns the cached result for a request, if any
func (c *ResultCache) Get(req Request) (*types.GenerationResult, bool) {
	if c == nil {
		return nil, false
	}
	if cached, found := c.items.Get(cacheKey(req)); found {
		return cached.(*types.GenerationResult), true
	}
	return nil, false
}

// Set stores a result for a request
func (c *ResultCache) Set(req Request, result *types.GenerationResult) {
	if c == nil {
		return
	}
	c.items.SetDefault(cacheKey(req), result)
}

// Len returns the number of unexpired entries
func (c *ResultCache) Len() int {
	if c == nil {
		return 0
	}
	return c.items.ItemCount()
}

func cacheKey(req Request) string {
	h := sha256.New()
	h.Write([]byte(strings.Join([]string{
		strconv.Itoa(req.StyleID),
		req.DocumentID,
		string(req.Section),
		strings.TrimSpace(req.RawInput),
	}, "\x00")))
	return hex.EncodeToString(h.Sum(nil))
}
