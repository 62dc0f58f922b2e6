package headerip

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

type forwardedForSource struct {
	extractor      *Extractor
	unavailableErr error
}

type forwardedSource struct {
	extractor      *Extractor
	unavailableErr error
}

func (s *forwardedForSource) Name() string {
	return SourceXForwardedFor
}

func (s *forwardedSource) Name() string {
	return SourceForwarded
}

func (s *forwardedForSource) Extract(ctx context.Context, r *http.Request) (extractionResult, error) {
	xffValues := r.Header.Values(HeaderXForwardedFor)
	if len(xffValues) == 0 {
		return extractionResult{}, s.unavailableErr
	}

	parts, err := s.extractor.parseListValues(xffValues, s.Name())
	if err != nil {
		s.extractor.logChainTooLong(ctx, r, s.Name(), err,
			"X-Forwarded-For chain exceeds configured maximum length")
		s.extractor.config.metrics.RecordExtractionFailure(s.Name())
		return extractionResult{}, err
	}

	if len(parts) == 0 {
		return extractionResult{}, s.unavailableErr
	}

	token := parts[len(parts)-1]
	ip, ok := parseIPLiteral(token)
	if !ok {
		s.extractor.config.metrics.RecordSecurityEvent(securityEventInvalidIP)
		s.extractor.config.metrics.RecordExtractionFailure(s.Name())
		return extractionResult{}, &InvalidIPError{
			ExtractionError: ExtractionError{
				Err:    ErrInvalidIP,
				Source: s.Name(),
			},
			HeaderValue: strings.Join(xffValues, ", "),
			ExtractedIP: token,
		}
	}

	s.extractor.config.metrics.RecordExtractionSuccess(s.Name())
	return extractionResult{IP: ip, Source: s.Name()}, nil
}

func (s *forwardedSource) Extract(ctx context.Context, r *http.Request) (extractionResult, error) {
	forwardedValues := r.Header.Values(HeaderForwarded)
	if len(forwardedValues) == 0 {
		return extractionResult{}, s.unavailableErr
	}

	elements, err := s.extractor.parseForwardedValues(forwardedValues)
	if err != nil {
		if errors.Is(err, ErrInvalidForwardedHeader) {
			s.extractor.config.metrics.RecordSecurityEvent(securityEventMalformedForwarded)
			s.extractor.logSecurityWarning(ctx, r, s.Name(), securityEventMalformedForwarded,
				"malformed Forwarded header received", "parse_error", err.Error())
		}
		s.extractor.logChainTooLong(ctx, r, s.Name(), err,
			"Forwarded chain exceeds configured maximum length")
		s.extractor.config.metrics.RecordExtractionFailure(s.Name())
		return extractionResult{}, err
	}

	if len(elements) == 0 {
		return extractionResult{}, s.unavailableErr
	}

	for i := len(elements) - 1; i >= 0; i-- {
		forValue, ok := parseForwardedElement(elements[i])
		if !ok {
			continue
		}

		if ip, ok := forwardedForAddr(forValue); ok {
			s.extractor.config.metrics.RecordExtractionSuccess(s.Name())
			return extractionResult{IP: ip, Source: s.Name()}, nil
		}
	}

	s.extractor.config.metrics.RecordSecurityEvent(securityEventInvalidIP)
	s.extractor.config.metrics.RecordExtractionFailure(s.Name())
	return extractionResult{}, &InvalidIPError{
		ExtractionError: ExtractionError{
			Err:    ErrNoForwardedFor,
			Source: s.Name(),
		},
		HeaderValue: strings.Join(forwardedValues, ", "),
	}
}

func (e *Extractor) logChainTooLong(ctx context.Context, r *http.Request, sourceName string, err error, msg string) {
	if !errors.Is(err, ErrChainTooLong) {
		return
	}

	var chainErr *ChainTooLongError
	if errors.As(err, &chainErr) {
		e.logSecurityWarning(ctx, r, sourceName, securityEventChainTooLong, msg,
			"chain_length", chainErr.ChainLength,
			"max_length", chainErr.MaxLength,
		)
		return
	}

	e.logSecurityWarning(ctx, r, sourceName, securityEventChainTooLong, msg)
}
