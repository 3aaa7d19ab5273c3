package resolver

import (
	"context"
	"errors"
	"strings"
)

// Resolution errors. All are terminal for the query that produced them;
// nothing in this layer retries.
var (
	// ErrNotFound indicates the query matched no playable media.
	ErrNotFound = errors.New("no playable media found")

	// ErrUnsupportedSource indicates the URL points at a site or format
	// the extractor cannot handle.
	ErrUnsupportedSource = errors.New("unsupported media source")

	// ErrNetworkFailure indicates the extractor could not reach the
	// source over the network.
	ErrNetworkFailure = errors.New("network failure while resolving media")
)

// classifyExtractorError maps extractor output onto the resolution error
// taxonomy. The raw output is preserved through wrapping so operators
// can read the original message in logs.
func classifyExtractorError(output string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return errors.Join(ErrNetworkFailure, err)
	}

	lower := strings.ToLower(output)

	notFoundIndicators := []string{
		"no video results",
		"video unavailable",
		"this video is not available",
		"http error 404",
		"does not exist",
	}
	for _, indicator := range notFoundIndicators {
		if strings.Contains(lower, indicator) {
			return errors.Join(ErrNotFound, err)
		}
	}

	unsupportedIndicators := []string{
		"unsupported url",
		"no suitable extractor",
		"unsupported scheme",
	}
	for _, indicator := range unsupportedIndicators {
		if strings.Contains(lower, indicator) {
			return errors.Join(ErrUnsupportedSource, err)
		}
	}

	networkIndicators := []string{
		"unable to download",
		"connection refused",
		"connection reset",
		"timed out",
		"temporary failure in name resolution",
		"getaddrinfo",
		"network is unreachable",
	}
	for _, indicator := range networkIndicators {
		if strings.Contains(lower, indicator) {
			return errors.Join(ErrNetworkFailure, err)
		}
	}

	return err
}
