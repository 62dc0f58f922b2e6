package headerip

// PresetDirectConnection configures extraction for direct client-to-app
// traffic.
//
// This preset extracts from RemoteAddr only.
func PresetDirectConnection() Option {
	return Priority(SourceRemoteAddr)
}

// PresetCloudflare configures extraction for apps behind Cloudflare.
//
// It prefers CF-Connecting-IP with RemoteAddr fallback.
func PresetCloudflare() Option {
	return Priority(SourceCFConnectingIP, SourceRemoteAddr)
}

// PresetCloudFront configures extraction for apps behind AWS CloudFront.
//
// It prefers CloudFront-Viewer-Address with RemoteAddr fallback. The header
// must be enabled in the distribution's origin request policy.
func PresetCloudFront() Option {
	return Priority(SourceCloudFrontViewerAddress, SourceRemoteAddr)
}

// PresetFlyIO configures extraction for apps deployed on Fly.io.
//
// It prefers Fly-Client-IP with RemoteAddr fallback.
func PresetFlyIO() Option {
	return Priority(SourceFlyClientIP, SourceRemoteAddr)
}

// PresetAkamai configures extraction for apps behind Akamai (or Cloudflare
// Enterprise with True-Client-IP enabled).
//
// It prefers True-Client-IP with RemoteAddr fallback.
func PresetAkamai() Option {
	return Priority(SourceTrueClientIP, SourceRemoteAddr)
}

// PresetNginx configures extraction for apps behind an nginx reverse proxy
// configured with proxy_set_header X-Real-IP.
//
// It prefers X-Real-Ip with RemoteAddr fallback.
func PresetNginx() Option {
	return Priority(SourceXRealIP, SourceRemoteAddr)
}

// PresetRFC7239 configures extraction for proxies emitting the standard
// Forwarded header.
//
// It enables the Forwarded source and prefers it, with RemoteAddr fallback.
func PresetRFC7239() Option {
	return func(c *config) error {
		return applyOptions(c,
			WithForwardedHeader(),
			Priority(SourceForwarded, SourceRemoteAddr),
		)
	}
}
