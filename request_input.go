package headerip

import (
	"context"
	"net/http"
	"net/textproto"
	"net/url"
)

// HeaderValues provides read-only access to request header values by name.
//
// This is the header lookup contract shared by the per-header extractor
// functions and RequestInput. Implementations should treat names
// case-insensitively and return one slice entry per received header line, in
// receipt order; list-header extractors depend on that order to pick the
// rightmost value.
//
// net/http's http.Header satisfies this interface directly.
type HeaderValues interface {
	Values(name string) []string
}

// HeaderValuesFunc adapts a function to the HeaderValues interface.
type HeaderValuesFunc func(name string) []string

// Values implements HeaderValues.
func (f HeaderValuesFunc) Values(name string) []string {
	if f == nil {
		return nil
	}

	return f(name)
}

// RequestInput provides framework-agnostic request data for extraction.
//
// Context defaults to context.Background() when nil.
//
// For Headers, preserve duplicate header lines as separate values for each
// header name (for example two X-Forwarded-For lines should yield a slice
// with length 2).
type RequestInput struct {
	Context    context.Context
	RemoteAddr string
	Path       string
	Headers    HeaderValues
}

func requestInputContext(input RequestInput) context.Context {
	if input.Context == nil {
		return context.Background()
	}

	return input.Context
}

func requestFromInput(input RequestInput, sourceHeaderKeys []string) *http.Request {
	req := &http.Request{RemoteAddr: input.RemoteAddr}
	if input.Path != "" {
		req.URL = &url.URL{Path: input.Path}
	}

	if input.Headers == nil {
		return req
	}

	if h, ok := input.Headers.(http.Header); ok {
		req.Header = h
		return req
	}

	if h, ok := input.Headers.(*http.Header); ok && h != nil {
		req.Header = *h
		return req
	}

	if isNilInterface(input.Headers) {
		return req
	}

	if len(sourceHeaderKeys) == 0 {
		return req
	}

	var headers http.Header
	for _, key := range sourceHeaderKeys {
		values := input.Headers.Values(key)
		if len(values) == 0 {
			continue
		}
		if headers == nil {
			headers = make(http.Header, len(sourceHeaderKeys))
		}

		headers[key] = values
	}

	if headers != nil {
		req.Header = headers
	}

	return req
}

// sourceHeaderKeys resolves the priority list to the canonical MIME header
// keys the configured sources will read.
func sourceHeaderKeys(sourcePriority []string) []string {
	keys := make([]string, 0, len(sourcePriority))
	seen := make(map[string]struct{}, len(sourcePriority))

	for _, sourceName := range sourcePriority {
		key, ok := sourceHeaderKey(sourceName)
		if !ok {
			continue
		}

		if _, duplicate := seen[key]; duplicate {
			continue
		}

		seen[key] = struct{}{}
		keys = append(keys, key)
	}

	return keys
}

func sourceHeaderKey(sourceName string) (string, bool) {
	var headerName string

	switch canonicalSourceName(sourceName) {
	case SourceForwarded:
		headerName = HeaderForwarded
	case SourceXForwardedFor:
		headerName = HeaderXForwardedFor
	case SourceXRealIP:
		headerName = HeaderXRealIP
	case SourceCFConnectingIP:
		headerName = HeaderCFConnectingIP
	case SourceCloudFrontViewerAddress:
		headerName = HeaderCloudFrontViewerAddress
	case SourceFlyClientIP:
		headerName = HeaderFlyClientIP
	case SourceTrueClientIP:
		headerName = HeaderTrueClientIP
	case SourceRemoteAddr:
		return "", false
	default:
		headerName = sourceName
	}

	return textproto.CanonicalMIMEHeaderKey(headerName), true
}
