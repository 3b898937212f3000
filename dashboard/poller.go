package dashboard

import (
	"context"
	"net/netip"
	"time"

	log "github.com/sirupsen/logrus"

	"peerscope/addr"
	"peerscope/datamodel/peer"
	"peerscope/helper/timer"
)

// Source is the peer-list endpoint the poller refreshes from.
type Source interface {
	Peers(ctx context.Context) ([]peer.Stat, error)
}

// Poller drives the refresh cycle: fetch the peer list, publish it to the
// view, and hand every not-yet-cached public address to the cache. The ticker
// belongs to the poller's context alone; nothing the cache does can re-arm or
// cancel it.
type Poller struct {
	source   Source
	cache    *GeoCache
	view     *View
	interval timer.Interval
}

func NewPoller(source Source, cache *GeoCache, view *View, every, jitter time.Duration) *Poller {
	return &Poller{
		source:   source,
		cache:    cache,
		view:     view,
		interval: timer.Interval{Every: every, Jitter: jitter},
	}
}

// refresh runs one poll cycle. A fetch failure keeps the previously published
// list and the schedule; it is never fatal.
func (p *Poller) refresh(ctx context.Context) error {
	peers, err := p.source.Peers(ctx)
	if err != nil {
		log.Warnf("Poller: keeping previous peer list: %v", err)
		return nil
	}

	// The new list is observable before any of its lookups start.
	p.view.publish(peers)

	for _, a := range publicAddrs(peers) {
		p.cache.Ensure(ctx, a)
	}

	return nil
}

// publicAddrs extracts the deduplicated public canonical addresses across all
// peers, in first-seen order.
func publicAddrs(peers []peer.Stat) []netip.Addr {
	seen := make(map[netip.Addr]struct{})
	var out []netip.Addr
	for _, p := range peers {
		for _, ai := range p.AddrInfo {
			a, ok := addr.Extract(ai.Address)
			if !ok {
				continue
			}
			if addr.Classify(a) != addr.Public {
				continue
			}
			if _, dup := seen[a]; dup {
				continue
			}
			seen[a] = struct{}{}
			out = append(out, a)
		}
	}
	return out
}

// Run refreshes immediately, then on every tick, until ctx is cancelled.
func (p *Poller) Run(ctx context.Context) error {
	return timer.RunEvery(ctx, p.interval, p.refresh)
}
