package headerip

import "strings"

// typicalChainCapacity is the initial capacity used when parsing proxy chains.
//
// Most deployments have short chains (around 1-5 hops). Preallocating 8 avoids
// reallocations in common cases without meaningful memory overhead.
const typicalChainCapacity = 8

// splitListValues splits one or more raw header values on commas into an
// ordered token list. Values are processed in receipt order, so tokens from a
// later header occurrence sort after tokens from an earlier one. Tokens are
// trimmed of ASCII whitespace; tokens that are empty after trimming are
// dropped.
func splitListValues(values []string) []string {
	if len(values) == 0 {
		return nil
	}

	parts := make([]string, 0, typicalChainCapacity)
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				parts = append(parts, trimmed)
			}
		}
	}
	return parts
}

// rightmostListValue returns the last token across all header occurrences.
//
// The rightmost token is the one appended by the proxy closest to the
// application, which is the only token the deployer controls. Selecting any
// other position reintroduces client spoofing.
func rightmostListValue(values []string) (string, bool) {
	parts := splitListValues(values)
	if len(parts) == 0 {
		return "", false
	}
	return parts[len(parts)-1], true
}

// parseListValues is the Extractor-side variant of splitListValues with the
// configured chain length bound enforced.
func (e *Extractor) parseListValues(values []string, sourceName string) ([]string, error) {
	if len(values) == 0 {
		return nil, nil
	}

	parts := make([]string, 0, typicalChainCapacity)
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				var err error
				parts, err = e.appendChainPart(parts, trimmed, sourceName)
				if err != nil {
					return nil, err
				}
			}
		}
	}
	return parts, nil
}

// appendChainPart appends one parsed chain part while enforcing maxChainLength.
func (e *Extractor) appendChainPart(parts []string, part, sourceName string) ([]string, error) {
	if len(parts) >= e.config.maxChainLength {
		e.config.metrics.RecordSecurityEvent(securityEventChainTooLong)
		return nil, &ChainTooLongError{
			ExtractionError: ExtractionError{
				Err:    ErrChainTooLong,
				Source: sourceName,
			},
			ChainLength: len(parts) + 1,
			MaxLength:   e.config.maxChainLength,
		}
	}

	return append(parts, part), nil
}
