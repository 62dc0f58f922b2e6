package headerip

import (
	"context"
	"net/http"
	"net/netip"
	"strings"
)

// singleHeaderSource extracts from a header that carries one IP address per
// request, such as CF-Connecting-IP or X-Real-Ip.
type singleHeaderSource struct {
	extractor      *Extractor
	headerName     string
	sourceName     string
	parse          func(string) (netip.Addr, bool)
	unavailableErr error
}

func (s *singleHeaderSource) Name() string {
	return s.sourceName
}

func (s *singleHeaderSource) Extract(ctx context.Context, r *http.Request) (extractionResult, error) {
	headerValues := r.Header.Values(s.headerName)
	if len(headerValues) == 0 {
		return extractionResult{}, s.unavailableErr
	}

	if len(headerValues) > 1 {
		// Single-IP headers should be set exactly once by the edge. The
		// first occurrence is the one the edge controls; later ones are
		// logged and ignored.
		s.extractor.config.metrics.RecordSecurityEvent(securityEventMultipleHeaders)
		s.extractor.logSecurityWarning(ctx, r, s.Name(), securityEventMultipleHeaders,
			"multiple single-IP headers received - possible spoofing attempt",
			"header", s.headerName,
			"header_count", len(headerValues),
		)
	}

	headerValue := strings.TrimSpace(headerValues[0])
	if headerValue == "" {
		return extractionResult{}, s.unavailableErr
	}

	ip, ok := s.parse(headerValue)
	if !ok {
		s.extractor.config.metrics.RecordSecurityEvent(securityEventInvalidIP)
		s.extractor.config.metrics.RecordExtractionFailure(s.Name())
		return extractionResult{}, &InvalidIPError{
			ExtractionError: ExtractionError{
				Err:    ErrInvalidIP,
				Source: s.Name(),
			},
			ExtractedIP: headerValue,
		}
	}

	s.extractor.config.metrics.RecordExtractionSuccess(s.Name())
	return extractionResult{IP: ip, Source: s.Name()}, nil
}

type remoteAddrSource struct {
	extractor      *Extractor
	unavailableErr error
}

func (s *remoteAddrSource) Name() string {
	return SourceRemoteAddr
}

func (s *remoteAddrSource) Extract(ctx context.Context, r *http.Request) (extractionResult, error) {
	if r.RemoteAddr == "" {
		return extractionResult{}, s.unavailableErr
	}

	ip := parseRemoteAddr(r.RemoteAddr)
	if !ip.IsValid() {
		s.extractor.config.metrics.RecordSecurityEvent(securityEventUnparsableRemoteAddr)
		s.extractor.config.metrics.RecordExtractionFailure(s.Name())
		return extractionResult{}, &RemoteAddrError{
			ExtractionError: ExtractionError{
				Err:    ErrInvalidIP,
				Source: s.Name(),
			},
			RemoteAddr: r.RemoteAddr,
		}
	}

	s.extractor.config.metrics.RecordExtractionSuccess(s.Name())
	return extractionResult{IP: ip, Source: s.Name()}, nil
}
