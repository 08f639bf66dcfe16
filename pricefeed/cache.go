package pricefeed

import (
	"bufio"
	"bytes"
	"crypto/sha1"
	"fmt"
	"log"
	"net/http"
	"net/http/httputil"
	"sync"
	"time"
)

// DefaultCacheTTL is how long a feed response is reused.
const DefaultCacheTTL = 60 * time.Second

// memoryCache is an http.RoundTripper keeping successful responses in memory
// for a fixed time to live.
type memoryCache struct {
	base http.RoundTripper
	ttl  time.Duration
	now  func() time.Time

	mu      sync.Mutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	expires time.Time
	dump    []byte // raw response, as written by httputil.DumpResponse
}

func newMemoryCache(base http.RoundTripper, ttl time.Duration) *memoryCache {
	if base == nil {
		base = http.DefaultTransport
	}
	return &memoryCache{base: base, ttl: ttl, now: time.Now, entries: make(map[string]cacheEntry)}
}

func (c *memoryCache) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Method != http.MethodGet || c.ttl <= 0 {
		return c.base.RoundTrip(req)
	}
	// the api key is a header, so the URL alone identifies the answer.
	key := fmt.Sprintf("%x", sha1.Sum([]byte(req.Method+" "+req.URL.String())))

	if resp, ok := c.get(key, req); ok {
		return resp, nil
	}

	resp, err := c.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	log.Printf("%v %v%v %v", req.Method, req.URL.Host, req.URL.Path, resp.Status)
	if resp.StatusCode >= 300 {
		return resp, nil
	}
	if err := c.put(key, resp); err != nil {
		log.Printf("cache write err (ignored): %v", err)
	}
	return resp, nil
}

// get returns the cached response for key if it has not expired.
func (c *memoryCache) get(key string, req *http.Request) (*http.Response, bool) {
	c.mu.Lock()
	entry, ok := c.entries[key]
	if ok && !c.now().Before(entry.expires) {
		delete(c.entries, key)
		ok = false
	}
	c.mu.Unlock()
	if !ok {
		return nil, false
	}
	resp, err := http.ReadResponse(bufio.NewReader(bytes.NewReader(entry.dump)), req)
	if err != nil {
		return nil, false
	}
	return resp, true
}

// put stores resp. DumpResponse leaves resp readable.
func (c *memoryCache) put(key string, resp *http.Response) error {
	dump, err := httputil.DumpResponse(resp, true)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{expires: c.now().Add(c.ttl), dump: dump}
	return nil
}
