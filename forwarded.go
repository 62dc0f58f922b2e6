package headerip

import (
	"errors"
	"fmt"
	"net/netip"
	"strings"
)

// rightmostForwardedAddr scans Forwarded header values for the rightmost
// element whose for parameter carries a parsable address.
//
// Header values are split into forwarded-elements in wire order, then scanned
// from the last element backward. Elements without a for parameter, and
// elements whose for value does not parse (obfuscated identifiers, "unknown",
// malformed nodes), are skipped in favor of the next element to the left.
//
// A value that cannot be split into elements (unterminated quoted string or
// escape) makes the whole scan fail: once quoting is broken, element
// boundaries cannot be trusted.
func rightmostForwardedAddr(values []string) (netip.Addr, bool) {
	if len(values) == 0 {
		return netip.Addr{}, false
	}

	elements := make([]string, 0, typicalChainCapacity)
	for _, value := range values {
		err := scanForwardedSegments(value, ',', func(element string) error {
			elements = append(elements, element)
			return nil
		})
		if err != nil {
			return netip.Addr{}, false
		}
	}

	for i := len(elements) - 1; i >= 0; i-- {
		forValue, ok := parseForwardedElement(elements[i])
		if !ok {
			continue
		}

		if addr, ok := forwardedForAddr(forValue); ok {
			return addr, true
		}
	}

	return netip.Addr{}, false
}

// parseForwardedValues splits Forwarded header values into elements for the
// Extractor, enforcing the configured chain length bound.
//
// Parse failures are converted to an ErrInvalidForwardedHeader extraction
// error with SourceForwarded.
func (e *Extractor) parseForwardedValues(values []string) ([]string, error) {
	if len(values) == 0 {
		return nil, nil
	}

	elements := make([]string, 0, typicalChainCapacity)
	for _, value := range values {
		err := scanForwardedSegments(value, ',', func(element string) error {
			var appendErr error
			elements, appendErr = e.appendChainPart(elements, element, SourceForwarded)
			return appendErr
		})
		if err != nil {
			if errors.Is(err, ErrChainTooLong) {
				return nil, err
			}

			return nil, invalidForwardedHeaderError(err)
		}
	}

	return elements, nil
}

// invalidForwardedHeaderError wraps low-level parse errors as an extraction
// error tagged with ErrInvalidForwardedHeader and SourceForwarded.
func invalidForwardedHeaderError(err error) error {
	return &ExtractionError{
		Err:    fmt.Errorf("%w: %w", ErrInvalidForwardedHeader, err),
		Source: SourceForwarded,
	}
}

// parseForwardedElement returns the raw value of the first for parameter in
// one forwarded-element.
//
// Parameters are split on semicolons (quote-aware) and each parameter on its
// first equals sign. Parameter names compare case-insensitively. Per RFC 7239
// a parameter may appear at most once per element; the first for parameter
// wins and later ones are not consulted. Pieces without an equals sign and
// parameters with other names are ignored.
func parseForwardedElement(element string) (forwardedFor string, hasFor bool) {
	err := scanForwardedSegments(element, ';', func(param string) error {
		if hasFor {
			return nil
		}

		eq := strings.IndexByte(param, '=')
		if eq <= 0 {
			return nil
		}

		key := strings.TrimSpace(param[:eq])
		if !strings.EqualFold(key, "for") {
			return nil
		}

		forwardedFor = strings.TrimSpace(param[eq+1:])
		hasFor = true
		return nil
	})
	if err != nil || !hasFor {
		return "", false
	}

	return forwardedFor, true
}

// forwardedForAddr normalizes a for parameter value and extracts its address:
// quoted strings are unescaped, then brackets and ports are stripped by the
// IP-literal extractor.
func forwardedForAddr(value string) (netip.Addr, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return netip.Addr{}, false
	}

	if value[0] == '"' {
		unquoted, err := unquoteForwardedValue(value)
		if err != nil {
			return netip.Addr{}, false
		}
		value = strings.TrimSpace(unquoted)
	}

	if value == "" {
		return netip.Addr{}, false
	}

	return parseIPLiteral(value)
}

// scanForwardedSegments splits value by delimiter while respecting quoted
// segments and escape sequences inside quoted strings.
//
// The scan is the RFC 7239 quoted-string state machine: normal, in-quotes,
// and escape-pending. Unterminated quotes and trailing escapes fail closed.
func scanForwardedSegments(value string, delimiter byte, onSegment func(string) error) error {
	start := 0
	inQuotes := false
	escaped := false

	for i := 0; i <= len(value); i++ {
		if i == len(value) {
			if inQuotes {
				return fmt.Errorf("unterminated quoted string in %q", value)
			}
			if escaped {
				return fmt.Errorf("unterminated escape in %q", value)
			}
		} else {
			ch := value[i]

			if escaped {
				escaped = false
				continue
			}

			if ch == '\\' && inQuotes {
				escaped = true
				continue
			}

			if ch == '"' {
				inQuotes = !inQuotes
				continue
			}

			if ch != delimiter || inQuotes {
				continue
			}
		}

		segment := strings.TrimSpace(value[start:i])
		if segment != "" {
			if err := onSegment(segment); err != nil {
				return err
			}
		}

		start = i + 1
	}

	return nil
}

// unquoteForwardedValue resolves one leading RFC 7239 quoted-string and its
// backslash escapes.
//
// Text after the closing quote is preserved, because proxies emit node
// identifiers like "[2001:db8::1]":8080 where the port lands outside the
// quotes. An unterminated quote or trailing escape is an error.
func unquoteForwardedValue(value string) (string, error) {
	if len(value) < 2 || value[0] != '"' {
		return "", fmt.Errorf("invalid quoted string %q", value)
	}

	var b strings.Builder
	b.Grow(len(value))

	escaped := false
	closed := false
	rest := len(value)

	for i := 1; i < len(value); i++ {
		ch := value[i]

		if escaped {
			b.WriteByte(ch)
			escaped = false
			continue
		}

		if ch == '\\' {
			escaped = true
			continue
		}

		if ch == '"' {
			closed = true
			rest = i + 1
			break
		}

		b.WriteByte(ch)
	}

	if !closed {
		if escaped {
			return "", fmt.Errorf("unterminated escape in %q", value)
		}
		return "", fmt.Errorf("unterminated quoted string in %q", value)
	}

	b.WriteString(value[rest:])
	return b.String(), nil
}
