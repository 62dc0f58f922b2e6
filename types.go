package headerip

import (
	"errors"
	"fmt"
	"net/netip"
	"strings"
)

var (
	ErrSourceUnavailable = errors.New("source unavailable")

	ErrInvalidIP = errors.New("no parsable IP address in header value")

	ErrInvalidForwardedHeader = errors.New("invalid Forwarded header")

	ErrNoForwardedFor = errors.New("no usable for parameter in Forwarded header")

	ErrChainTooLong = errors.New("proxy chain too long")

	ErrForwardedNotEnabled = errors.New("Forwarded header source not enabled")
)

type ExtractionError struct {
	Err    error
	Source string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("%s: %v", e.Source, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

func (e *ExtractionError) SourceName() string {
	return e.Source
}

type InvalidIPError struct {
	ExtractionError
	HeaderValue string
	ExtractedIP string
}

func (e *InvalidIPError) Error() string {
	if e.HeaderValue != "" && e.HeaderValue != e.ExtractedIP {
		return fmt.Sprintf("%s: %v (header_value=%q, extracted_ip=%q)",
			e.Source, e.Err, e.HeaderValue, e.ExtractedIP)
	}
	if e.ExtractedIP != "" {
		return fmt.Sprintf("%s: %v (ip=%q)", e.Source, e.Err, e.ExtractedIP)
	}
	return e.ExtractionError.Error()
}

type RemoteAddrError struct {
	ExtractionError
	RemoteAddr string
}

func (e *RemoteAddrError) Error() string {
	return fmt.Sprintf("%s: %v (remote_addr=%q)", e.Source, e.Err, e.RemoteAddr)
}

type ChainTooLongError struct {
	ExtractionError
	ChainLength int
	MaxLength   int
}

func (e *ChainTooLongError) Error() string {
	return fmt.Sprintf("%s: %v (chain_length=%d, max_length=%d)",
		e.Source, e.Err, e.ChainLength, e.MaxLength)
}

// Extraction is the result of a successful Extractor call.
type Extraction struct {
	// IP is the extracted client address in numeric form.
	IP netip.Addr

	// Source names the source that produced the address.
	Source string
}

// Valid reports whether the extraction carries a usable address.
func (x Extraction) Valid() bool {
	return x.IP.IsValid()
}

// NormalizeSourceName converts a header name to its canonical source name,
// for example "CF-Connecting-IP" to "cf_connecting_ip".
func NormalizeSourceName(headerName string) string {
	return strings.ToLower(strings.ReplaceAll(headerName, "-", "_"))
}
