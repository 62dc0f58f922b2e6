package headerip

import (
	"net/netip"
	"strings"
)

// Header names supported by the per-header extractor functions.
const (
	HeaderCFConnectingIP          = "CF-Connecting-IP"
	HeaderCloudFrontViewerAddress = "CloudFront-Viewer-Address"
	HeaderFlyClientIP             = "Fly-Client-IP"
	HeaderTrueClientIP            = "True-Client-IP"
	HeaderXRealIP                 = "X-Real-Ip"
	HeaderXForwardedFor           = "X-Forwarded-For"
	HeaderForwarded               = "Forwarded"
)

// CFConnectingIP extracts the client IP from the CF-Connecting-IP
// (Cloudflare) header.
func CFConnectingIP(headers HeaderValues) (netip.Addr, bool) {
	return ipFromSingleHeader(headers, HeaderCFConnectingIP)
}

// CloudFrontViewerAddress extracts the client IP from the
// CloudFront-Viewer-Address (AWS CloudFront) header.
//
// CloudFront emits "address:port" and does not bracket IPv6 addresses, so
// "2001:db8::1:443" means the address 2001:db8::1 on port 443. The text
// before the last colon is tried first; values without a port still parse.
func CloudFrontViewerAddress(headers HeaderValues) (netip.Addr, bool) {
	value, ok := firstHeaderValue(headers, HeaderCloudFrontViewerAddress)
	if !ok {
		return netip.Addr{}, false
	}

	return parseCloudFrontAddress(value)
}

// parseCloudFrontAddress parses CloudFront's "address:port" viewer format:
// the text before the last colon is tried first, then the whole value for
// port-less inputs.
func parseCloudFrontAddress(value string) (netip.Addr, bool) {
	if host, ok := splitLastColon(value); ok {
		if ip, err := netip.ParseAddr(strings.TrimSpace(host)); err == nil {
			return normalizeIP(ip), true
		}
	}

	return parseIPLiteral(value)
}

// FlyClientIP extracts the client IP from the Fly-Client-IP (Fly.io) header.
//
// When the extractor is run for a health check path, provide the required
// Fly-Client-IP header through the Fly.io http_service.checks.headers
// configuration.
func FlyClientIP(headers HeaderValues) (netip.Addr, bool) {
	return ipFromSingleHeader(headers, HeaderFlyClientIP)
}

// TrueClientIP extracts the client IP from the True-Client-IP (Akamai,
// Cloudflare Enterprise) header.
func TrueClientIP(headers HeaderValues) (netip.Addr, bool) {
	return ipFromSingleHeader(headers, HeaderTrueClientIP)
}

// XRealIP extracts the client IP from the X-Real-Ip (nginx) header.
func XRealIP(headers HeaderValues) (netip.Addr, bool) {
	return ipFromSingleHeader(headers, HeaderXRealIP)
}

// RightmostXForwardedFor extracts the rightmost IP from the comma-separated
// X-Forwarded-For list, across all occurrences of the header in receipt
// order.
func RightmostXForwardedFor(headers HeaderValues) (netip.Addr, bool) {
	if headers == nil {
		return netip.Addr{}, false
	}

	token, ok := rightmostListValue(headers.Values(HeaderXForwardedFor))
	if !ok {
		return netip.Addr{}, false
	}

	return parseIPLiteral(token)
}

// RightmostForwarded extracts the client IP from the RFC 7239 Forwarded
// header, choosing the rightmost forwarded-element that carries a parsable
// for parameter.
func RightmostForwarded(headers HeaderValues) (netip.Addr, bool) {
	if headers == nil {
		return netip.Addr{}, false
	}

	return rightmostForwardedAddr(headers.Values(HeaderForwarded))
}

// ipFromSingleHeader extracts an IP from a header that carries one bare
// address (ports and brackets tolerated).
func ipFromSingleHeader(headers HeaderValues, name string) (netip.Addr, bool) {
	value, ok := firstHeaderValue(headers, name)
	if !ok {
		return netip.Addr{}, false
	}

	return parseIPLiteral(value)
}

// firstHeaderValue returns the first occurrence of a header, trimmed. Empty
// and all-whitespace values count as absent.
func firstHeaderValue(headers HeaderValues, name string) (string, bool) {
	if headers == nil {
		return "", false
	}

	values := headers.Values(name)
	if len(values) == 0 {
		return "", false
	}

	value := strings.TrimSpace(values[0])
	if value == "" {
		return "", false
	}

	return value, true
}
