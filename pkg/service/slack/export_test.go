package slack

// Export internal functions for testing
var (
	BuildMessage       = buildMessage
	TruncateToMaxBytes = truncateToMaxBytes
)
