package kafka

import (
	"strings"

	"github.com/kbukum/streamkit/errors"
)

var (
	connectionPatterns = []string{
		"connection refused",
		"connection reset",
		"broken pipe",
		"i/o timeout",
		"no route to host",
		"network is unreachable",
		"broker not available",
		"leader not available",
		"connection closed",
		"dial tcp",
	}
	nonRetryablePatterns = []string{
		"message too large",
		"invalid topic",
		"unknown topic",
		"authorization failed",
		"sasl authentication failed",
	}
)

func matchesAny(err error, patterns []string) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, p := range patterns {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}

// IsConnectionError reports whether err comes from reaching the brokers.
func IsConnectionError(err error) bool { return matchesAny(err, connectionPatterns) }

// IsNonRetryableError reports whether err will not go away by reading again.
func IsNonRetryableError(err error) bool { return matchesAny(err, nonRetryablePatterns) }

// translate maps a read error to an AppError: broker connectivity becomes
// SOURCE_UNAVAILABLE, configuration problems INVALID_CONFIG, anything else
// SOURCE_FAILED.
func translate(err error, topic string) *errors.AppError {
	source := "kafka topic " + topic
	switch {
	case IsConnectionError(err):
		return errors.SourceUnavailable(source, err)
	case IsNonRetryableError(err):
		return errors.InvalidConfig("kafka rejected reads from " + topic).WithCause(err)
	default:
		return errors.SourceFailed(source, err)
	}
}
