// Package peer holds the wire-level peer records published by the rendezvous
// node's /peers endpoint.
package peer

type AddrInfo struct {
	Address string `json:"address"`
}

// Stat is one peer as reported by the peer-list source. The whole set is
// replaced on every poll cycle; consumers that need continuity across
// refreshes must key by Peer.
type Stat struct {
	Peer     string     `json:"peer"`
	AddrInfo []AddrInfo `json:"addrinfo"`
	Ping     *uint64    `json:"ping"`
	LastSeen int64      `json:"last_seen"`
}
