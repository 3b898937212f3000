package dashboard

import (
	"context"
	"errors"
	"net/netip"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeLookup counts requests per address and holds completions until release
// is closed.
type fakeLookup struct {
	mu      sync.Mutex
	calls   map[string]int
	release chan struct{}
	code    string
	err     error
}

func newFakeLookup(code string) *fakeLookup {
	return &fakeLookup{
		calls:   make(map[string]int),
		release: make(chan struct{}),
		code:    code,
	}
}

func (f *fakeLookup) CountryCode(ctx context.Context, ip netip.Addr) (string, error) {
	f.mu.Lock()
	f.calls[ip.String()]++
	f.mu.Unlock()
	<-f.release
	return f.code, f.err
}

func (f *fakeLookup) count(ip string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[ip]
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestEnsureDeduplicatesInFlight(t *testing.T) {
	lookup := newFakeLookup("US")
	cache := NewGeoCache(lookup)
	a := netip.MustParseAddr("8.8.8.8")

	cache.Ensure(context.Background(), a)
	cache.Ensure(context.Background(), a)

	waitFor(t, "first request", func() bool { return lookup.count("8.8.8.8") == 1 })

	close(lookup.release)
	waitFor(t, "result install", func() bool { return cache.Has(a) })

	code, ok := cache.Get(a)
	require.True(t, ok)
	assert.Equal(t, "US", code)
	assert.Equal(t, 1, lookup.count("8.8.8.8"))
}

func TestEnsureNeverRetriesResolved(t *testing.T) {
	lookup := newFakeLookup("DE")
	close(lookup.release)
	cache := NewGeoCache(lookup)
	a := netip.MustParseAddr("1.2.3.4")

	cache.Ensure(context.Background(), a)
	waitFor(t, "result install", func() bool { return cache.Has(a) })

	// Many more refresh cycles, same address every time.
	for i := 0; i < 5; i++ {
		cache.Ensure(context.Background(), a)
	}
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 1, lookup.count("1.2.3.4"))
}

func TestConcurrentEnsureSingleRequest(t *testing.T) {
	lookup := newFakeLookup("US")
	cache := NewGeoCache(lookup)
	a := netip.MustParseAddr("1.2.3.4")

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cache.Ensure(context.Background(), a)
		}()
	}
	wg.Wait()

	waitFor(t, "exactly one request", func() bool { return lookup.count("1.2.3.4") == 1 })
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 1, lookup.count("1.2.3.4"))

	close(lookup.release)
	waitFor(t, "result install", func() bool { return cache.Has(a) })
}

func TestFailedLookupCachesUnavailable(t *testing.T) {
	lookup := newFakeLookup("")
	lookup.err = errors.New("service unreachable")
	close(lookup.release)
	cache := NewGeoCache(lookup)
	a := netip.MustParseAddr("5.6.7.8")

	cache.Ensure(context.Background(), a)
	waitFor(t, "sentinel install", func() bool { return cache.Has(a) })

	code, ok := cache.Get(a)
	require.True(t, ok)
	assert.Equal(t, Unavailable, code)

	// A failed address is not retried within the session.
	cache.Ensure(context.Background(), a)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 1, lookup.count("5.6.7.8"))
}

func TestCancelledLookupInstallsNothing(t *testing.T) {
	lookup := newFakeLookup("US")
	cache := NewGeoCache(lookup)

	installs := 0
	var mu sync.Mutex
	cache.OnInstall(func() {
		mu.Lock()
		installs++
		mu.Unlock()
	})

	a := netip.MustParseAddr("8.8.4.4")
	ctx, cancel := context.WithCancel(context.Background())

	cache.Ensure(ctx, a)
	waitFor(t, "request issued", func() bool { return lookup.count("8.8.4.4") == 1 })

	// Teardown while the lookup is in flight; its completion must be a no-op.
	cancel()
	close(lookup.release)

	time.Sleep(50 * time.Millisecond)
	assert.False(t, cache.Has(a))
	mu.Lock()
	assert.Equal(t, 0, installs)
	mu.Unlock()

	// The in-flight slot was released, so a later session-alive Ensure may
	// issue a fresh request.
	cache.Ensure(context.Background(), a)
	waitFor(t, "second request", func() bool { return lookup.count("8.8.4.4") == 2 })
	waitFor(t, "result install", func() bool { return cache.Has(a) })
}
