package dashboard

import (
	"sync"

	"github.com/google/uuid"

	"peerscope/datamodel/peer"
)

// Snapshot is the immutable view handed to the presentation layer. Locations
// is keyed by dotted-quad address; a present but empty value means the lookup
// failed (Unavailable).
type Snapshot struct {
	Session   string            `json:"session"`
	Version   uint64            `json:"version"`
	Peers     []peer.Stat       `json:"peers"`
	Locations map[string]string `json:"locations"`
}

// View combines the latest published peer list with the current cache
// contents. Writers are the poller (publish) and the cache (bump on install);
// readers get independent copies and can never observe a half-updated state.
type View struct {
	cache *GeoCache

	mu      sync.RWMutex
	session string
	version uint64
	peers   []peer.Stat
}

func NewView(cache *GeoCache) *View {
	v := &View{
		cache:   cache,
		session: uuid.NewString(),
	}
	cache.OnInstall(v.bump)
	return v
}

// Session identifies one dashboard lifetime; the cache arena is scoped to it.
func (v *View) Session() string {
	return v.session
}

func (v *View) Version() uint64 {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.version
}

// publish replaces the peer list wholesale. Snapshots already handed out keep
// the previous list.
func (v *View) publish(peers []peer.Stat) {
	v.mu.Lock()
	v.peers = peers
	v.version++
	v.mu.Unlock()
}

func (v *View) bump() {
	v.mu.Lock()
	v.version++
	v.mu.Unlock()
}

// Snapshot projects the current peer list and cache contents into a fresh
// Snapshot. Pure combination, no I/O.
func (v *View) Snapshot() *Snapshot {
	v.mu.RLock()
	peers := make([]peer.Stat, len(v.peers))
	for i, p := range v.peers {
		cp := p
		cp.AddrInfo = append([]peer.AddrInfo(nil), p.AddrInfo...)
		if p.Ping != nil {
			ping := *p.Ping
			cp.Ping = &ping
		}
		peers[i] = cp
	}
	s := &Snapshot{
		Session: v.session,
		Version: v.version,
		Peers:   peers,
	}
	v.mu.RUnlock()

	s.Locations = v.cache.Snapshot()
	return s
}
