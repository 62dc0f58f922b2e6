package headerip

import (
	"net"
	"net/netip"
	"strings"
)

// parseIPLiteral extracts an IP address from a single header token. It
// handles the shapes IP literals take in proxy headers:
//   - Leading/trailing whitespace: "  192.168.1.1  "
//   - IPv6 brackets with optional port: "[::1]" or "[::1]:8080"
//   - IPv4 port suffixes: "192.168.1.1:8080"
//   - Quoted values: "\"192.168.1.1\"" or "'192.168.1.1'"
//
// A port is only stripped from an unbracketed token when it contains exactly
// one colon followed by decimal digits; with two or more colons the token is
// an IPv6 literal and colons are address syntax. Address parsing itself is
// delegated to netip.ParseAddr, which also rejects non-ASCII bytes.
//
// Returns ok == false if no address can be extracted.
func parseIPLiteral(s string) (netip.Addr, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return netip.Addr{}, false
	}

	s = trimMatchedChar(s, '"')
	s = trimMatchedChar(s, '\'')
	if s == "" {
		return netip.Addr{}, false
	}

	if s[0] == '[' {
		// RFC 7239 node syntax: "[v6]" optionally followed by ":port".
		// Everything after the closing bracket is ignored.
		end := strings.IndexByte(s, ']')
		if end < 0 {
			return netip.Addr{}, false
		}
		s = s[1:end]
	} else if host, ok := splitIPv4Port(s); ok {
		s = host
	}

	ip, err := netip.ParseAddr(s)
	if err != nil {
		return netip.Addr{}, false
	}

	return normalizeIP(ip), true
}

// splitIPv4Port strips a trailing ":port" when s contains exactly one colon
// and everything after it is decimal digits.
func splitIPv4Port(s string) (string, bool) {
	colon := strings.IndexByte(s, ':')
	if colon < 0 || colon != strings.LastIndexByte(s, ':') {
		return "", false
	}

	port := s[colon+1:]
	if port == "" {
		return "", false
	}

	for i := 0; i < len(port); i++ {
		if port[i] < '0' || port[i] > '9' {
			return "", false
		}
	}

	return s[:colon], true
}

// splitLastColon returns the text before the last colon in s.
func splitLastColon(s string) (string, bool) {
	i := strings.LastIndexByte(s, ':')
	if i < 0 {
		return "", false
	}
	return s[:i], true
}

// parseRemoteAddr parses http.Request.RemoteAddr, which is "host:port" for
// net/http servers but may be a bare address behind custom listeners.
func parseRemoteAddr(s string) netip.Addr {
	s = strings.TrimSpace(s)
	if s == "" {
		return netip.Addr{}
	}

	if host, _, err := net.SplitHostPort(s); err == nil {
		s = host
	}

	s = trimMatchedPair(s, '[', ']')

	ip, _ := netip.ParseAddr(s)
	return normalizeIP(ip)
}

func normalizeIP(ip netip.Addr) netip.Addr {
	if ip.Is4In6() {
		return ip.Unmap()
	}
	return ip
}

// trimMatchedPair removes one leading and trailing delimiter when both match.
func trimMatchedPair(s string, start, end byte) string {
	if len(s) < 2 {
		return s
	}

	if s[0] != start || s[len(s)-1] != end {
		return s
	}

	return s[1 : len(s)-1]
}

// trimMatchedChar removes one matching leading and trailing character.
func trimMatchedChar(s string, ch byte) string {
	return trimMatchedPair(s, ch, ch)
}
