package assistant

import (
	"context"
	"errors"
	"strings"
)

// Generation errors. Each maps to a distinct user-facing failure
// message at the command boundary.
var (
	// ErrRateLimited indicates the backend rejected the request for
	// quota or rate reasons.
	ErrRateLimited = errors.New("generation rate limited")

	// ErrServiceUnavailable indicates a backend-side failure.
	ErrServiceUnavailable = errors.New("generation service unavailable")

	// ErrTimeout indicates the backend did not answer in time.
	ErrTimeout = errors.New("generation timed out")
)

// classifyGenerationError maps backend errors onto the taxonomy. The
// original error stays wrapped for logging.
func classifyGenerationError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return errors.Join(ErrTimeout, err)
	}

	msg := strings.ToLower(err.Error())

	rateLimitIndicators := []string{
		"rate limit",
		"too many requests",
		"429",
		"quota",
		"resource exhausted",
		"resource_exhausted",
	}
	for _, indicator := range rateLimitIndicators {
		if strings.Contains(msg, indicator) {
			return errors.Join(ErrRateLimited, err)
		}
	}

	unavailableIndicators := []string{
		"unavailable",
		"503",
		"500",
		"internal error",
		"overloaded",
		"connection refused",
		"connection reset",
	}
	for _, indicator := range unavailableIndicators {
		if strings.Contains(msg, indicator) {
			return errors.Join(ErrServiceUnavailable, err)
		}
	}

	if strings.Contains(msg, "deadline") || strings.Contains(msg, "timeout") {
		return errors.Join(ErrTimeout, err)
	}

	return err
}
