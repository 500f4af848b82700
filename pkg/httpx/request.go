package httpx

import (
	"net"
	"net/http"
	"strings"
)

// ClientIP resolves the request's client address. Forwarding headers are
// honored only when the direct peer is inside one of the trusted proxy CIDR
// ranges, so clients cannot spoof their address.
func ClientIP(r *http.Request, trustedProxies []string) string {
	peer := peerIP(r)

	if fromTrustedProxy(peer, trustedProxies) {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			for _, hop := range strings.Split(xff, ",") {
				hop = strings.TrimSpace(hop)
				if net.ParseIP(hop) != nil {
					return hop
				}
			}
		}
		if xri := r.Header.Get("X-Real-IP"); net.ParseIP(xri) != nil {
			return xri
		}
	}

	return peer
}

// peerIP strips the port off RemoteAddr.
func peerIP(r *http.Request) string {
	if r.RemoteAddr == "" {
		return "unknown"
	}
	if ip, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return ip
	}
	return r.RemoteAddr
}

func fromTrustedProxy(ip string, trustedProxies []string) bool {
	peer := net.ParseIP(ip)
	if peer == nil {
		return false
	}
	for _, cidr := range trustedProxies {
		_, ipNet, err := net.ParseCIDR(cidr)
		if err != nil {
			continue
		}
		if ipNet.Contains(peer) {
			return true
		}
	}
	return false
}
