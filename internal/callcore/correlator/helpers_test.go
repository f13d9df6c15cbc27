package correlator

import "net/netip"

func addr(ip string) netip.AddrPort {
	return netip.AddrPortFrom(netip.MustParseAddr(ip), 5060)
}
