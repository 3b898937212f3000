package dashboard

import (
	"context"
	"net/netip"
	"sync"

	log "github.com/sirupsen/logrus"
)

// Unavailable marks an address whose lookup failed. It is cached like any
// other result, so the address is not retried for the rest of the session.
const Unavailable = ""

// GeoLookup resolves one public address to a coarse location code.
type GeoLookup interface {
	CountryCode(ctx context.Context, ip netip.Addr) (string, error)
}

// GeoCache owns all geolocation state for one dashboard session. Each address
// moves through not-requested -> in-flight -> resolved, and Ensure is the
// only way to advance it, so at most one lookup is ever outstanding per
// address.
type GeoCache struct {
	lookup GeoLookup

	mu       sync.Mutex
	results  map[netip.Addr]string
	inflight map[netip.Addr]struct{}

	// Invoked after every install. Set once, before the first Ensure.
	onInstall func()
}

func NewGeoCache(lookup GeoLookup) *GeoCache {
	return &GeoCache{
		lookup:   lookup,
		results:  make(map[netip.Addr]string),
		inflight: make(map[netip.Addr]struct{}),
	}
}

func (c *GeoCache) OnInstall(f func()) {
	c.onInstall = f
}

// Has reports whether a result (success or Unavailable) is cached for a.
func (c *GeoCache) Has(a netip.Addr) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.results[a]
	return ok
}

// Get is a non-blocking read of the cached result for a.
func (c *GeoCache) Get(a netip.Addr) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.results[a]
	return r, ok
}

// Snapshot returns a copy of all resolved entries keyed by dotted-quad text.
func (c *GeoCache) Snapshot() map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]string, len(c.results))
	for a, r := range c.results {
		out[a.String()] = r
	}
	return out
}

// Ensure starts an asynchronous lookup for a, unless one already resolved or
// is in flight. Safe to call repeatedly and concurrently; redundant calls do
// nothing.
func (c *GeoCache) Ensure(ctx context.Context, a netip.Addr) {
	c.mu.Lock()
	if _, ok := c.results[a]; ok {
		c.mu.Unlock()
		return
	}
	if _, ok := c.inflight[a]; ok {
		c.mu.Unlock()
		return
	}
	c.inflight[a] = struct{}{}
	c.mu.Unlock()

	go c.resolve(ctx, a)
}

func (c *GeoCache) resolve(ctx context.Context, a netip.Addr) {
	code, err := c.lookup.CountryCode(ctx, a)
	if err != nil {
		log.Warnf("GeoCache: lookup for %s failed: %v", a, err)
		code = Unavailable
	}

	c.mu.Lock()
	delete(c.inflight, a)
	if ctx.Err() != nil {
		// The session is gone; a dangling completion must not write.
		c.mu.Unlock()
		return
	}
	c.results[a] = code
	c.mu.Unlock()

	if c.onInstall != nil {
		c.onInstall()
	}
}
