// Package headerip extracts a client IP address from well-known
// proxy-injected HTTP request headers.
//
// # Features
//
//   - One extractor function per supported header: CF-Connecting-IP,
//     CloudFront-Viewer-Address, Fly-Client-IP, True-Client-IP, X-Real-Ip,
//     X-Forwarded-For, and RFC 7239 Forwarded
//   - Security-correct selection policy: list headers always yield the
//     rightmost (last-appended) value, the only value the deployer's own
//     reverse proxy controls
//   - RFC 7239 quoted-string handling with escape resolution, failing closed
//     on truncated or malformed input
//   - Port and IPv6 bracket stripping for node identifiers such as
//     "[2001:db8::1]:8080"
//   - Fail-closed behavior everywhere: malformed input yields "no value",
//     never a panic
//   - Type-safe results using modern Go netip.Addr
//   - Optional configurable Extractor with prioritized source fallback,
//     context-aware logging, and pluggable metrics
//
// # Basic Usage
//
// The per-header functions are pure and stateless. They accept anything that
// implements HeaderValues; http.Header satisfies it directly:
//
//	ip, ok := headerip.RightmostXForwardedFor(req.Header)
//	if !ok {
//	    // No usable value. This is an expected outcome, not an error.
//	    return
//	}
//	fmt.Println("client IP:", ip)
//
// A missing header, an empty value, and a malformed value all collapse to
// ok == false. Callers must treat that as "could not determine client IP".
//
// # Choosing an Extractor
//
// Which header to trust depends entirely on what sits in front of the
// application; that decision belongs to the caller. Only consult a header
// your own edge infrastructure sets or overwrites. Reading CF-Connecting-IP
// on a service not behind Cloudflare hands IP selection to the client.
//
// # Prioritized Extraction
//
// For applications that want fallback between sources, New builds a reusable
// Extractor that tries sources in priority order:
//
//	extractor, err := headerip.New(
//	    headerip.Priority(headerip.SourceCFConnectingIP, headerip.SourceRemoteAddr),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	extraction, err := extractor.Extract(req)
//	if err == nil {
//	    fmt.Printf("client IP: %s from %s\n", extraction.IP, extraction.Source)
//	}
//
// Presets cover common platforms:
//
//	extractor, _ := headerip.New(headerip.PresetCloudflare())
//
// # Forwarded Header
//
// RFC 7239 Forwarded support is an optional capability. The standalone
// RightmostForwarded function is always available; using SourceForwarded in
// an Extractor priority list additionally requires WithForwardedHeader:
//
//	extractor, _ := headerip.New(
//	    headerip.WithForwardedHeader(),
//	    headerip.Priority(headerip.SourceForwarded, headerip.SourceRemoteAddr),
//	)
//
// # Observability
//
// Add logging and metrics for production monitoring:
// (Prometheus adapter package: github.com/abczzz13/headerip/prometheus)
// The logger receives req.Context(), allowing trace/span IDs to flow through.
//
//	import headeripprom "github.com/abczzz13/headerip/prometheus"
//
//	extractor, err := headerip.New(
//	    headerip.Priority(headerip.SourceXForwardedFor, headerip.SourceRemoteAddr),
//	    headerip.WithLogger(slog.Default()),
//	    headeripprom.WithMetrics(),
//	)
//
// # Security Modes
//
// Fallback behavior between prioritized sources is configurable:
//
//   - SecurityModeStrict (default): a source whose header is present but
//     malformed fails the extraction (fail closed).
//   - SecurityModeLax: such sources fall through to lower-priority sources.
//
// # What This Package Does Not Do
//
// The package never validates that a claimed IP is topologically plausible,
// never performs reverse DNS, and keeps no cross-request state. There are no
// trusted-proxy allowlists or IP-range trust settings; selecting which header
// to believe is the caller's trust decision.
//
// # Thread Safety
//
// The per-header functions are pure. Extractor instances are immutable after
// New and safe for concurrent use; they are typically created once at
// application startup and reused across all requests.
package headerip
