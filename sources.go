package headerip

import (
	"context"
	"net/http"
	"net/netip"
)

const (
	// SourceForwarded resolves from the RFC 7239 Forwarded header.
	SourceForwarded = "forwarded"
	// SourceXForwardedFor resolves from the X-Forwarded-For header.
	SourceXForwardedFor = "x_forwarded_for"
	// SourceXRealIP resolves from the X-Real-Ip header.
	SourceXRealIP = "x_real_ip"
	// SourceCFConnectingIP resolves from the CF-Connecting-IP header.
	SourceCFConnectingIP = "cf_connecting_ip"
	// SourceCloudFrontViewerAddress resolves from the
	// CloudFront-Viewer-Address header.
	SourceCloudFrontViewerAddress = "cloudfront_viewer_address"
	// SourceFlyClientIP resolves from the Fly-Client-IP header.
	SourceFlyClientIP = "fly_client_ip"
	// SourceTrueClientIP resolves from the True-Client-IP header.
	SourceTrueClientIP = "true_client_ip"
	// SourceRemoteAddr resolves from Request.RemoteAddr.
	SourceRemoteAddr = "remote_addr"
)

type extractionResult struct {
	IP     netip.Addr
	Source string
}

type sourceExtractor interface {
	Extract(ctx context.Context, r *http.Request) (extractionResult, error)

	Name() string
}

func requestPath(r *http.Request) string {
	if r.URL == nil {
		return ""
	}
	return r.URL.Path
}

func (e *Extractor) logSecurityWarning(ctx context.Context, r *http.Request, sourceName, event, msg string, attrs ...any) {
	baseAttrs := []any{
		"event", event,
		"source", sourceName,
		"path", requestPath(r),
		"remote_addr", r.RemoteAddr,
	}

	baseAttrs = append(baseAttrs, attrs...)
	e.config.logger.WarnContext(ctx, msg, baseAttrs...)
}

func newSourceUnavailableError(sourceName string) error {
	return &ExtractionError{Err: ErrSourceUnavailable, Source: sourceName}
}
