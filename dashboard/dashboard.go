// Package dashboard implements the peer-address enrichment pipeline: a
// periodic peer-list poller, a deduplicating geolocation cache and the view
// model projected for the presentation layer.
package dashboard

import (
	"context"
	"time"
)

// Dashboard wires one session's pipeline together. All state it owns dies
// with it.
type Dashboard struct {
	Cache  *GeoCache
	View   *View
	Poller *Poller
}

func New(source Source, lookup GeoLookup, every, jitter time.Duration) *Dashboard {
	cache := NewGeoCache(lookup)
	view := NewView(cache)

	return &Dashboard{
		Cache:  cache,
		View:   view,
		Poller: NewPoller(source, cache, view, every, jitter),
	}
}

// Run drives the poll loop until the context is cancelled.
func (d *Dashboard) Run(ctx context.Context) error {
	return d.Poller.Run(ctx)
}
