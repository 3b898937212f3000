// Package peersource is the HTTP client for the rendezvous node's peer-list
// endpoint.
package peersource

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"peerscope/datamodel/peer"
)

type Client struct {
	base string
	hc   *http.Client
}

func New(base string, timeout time.Duration) *Client {
	return &Client{
		base: strings.TrimRight(base, "/"),
		hc:   &http.Client{Timeout: timeout},
	}
}

// Peers fetches the current peer set. The source's order is display order and
// is preserved.
func (c *Client) Peers(ctx context.Context) ([]peer.Stat, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/peers", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("peer list fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("peer list fetch: unexpected status %s", resp.Status)
	}

	var peers []peer.Stat
	if err := json.NewDecoder(resp.Body).Decode(&peers); err != nil {
		return nil, fmt.Errorf("peer list decode: %w", err)
	}

	return peers, nil
}
