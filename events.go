package headerip

const (
	securityEventMultipleHeaders      = "multiple_headers"
	securityEventChainTooLong         = "chain_too_long"
	securityEventInvalidIP            = "invalid_ip"
	securityEventMalformedForwarded   = "malformed_forwarded"
	securityEventUnparsableRemoteAddr = "unparsable_remote_addr"
)
