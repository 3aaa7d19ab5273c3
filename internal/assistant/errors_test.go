package assistant

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestClassifyGenerationError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "nil", err: nil, want: nil},
		{name: "deadline exceeded", err: fmt.Errorf("request: %w", context.DeadlineExceeded), want: ErrTimeout},
		{name: "http 429", err: errors.New("googleapi: Error 429: too many requests"), want: ErrRateLimited},
		{name: "quota", err: errors.New("quota exceeded for this project"), want: ErrRateLimited},
		{name: "resource exhausted", err: errors.New("rpc error: code = ResourceExhausted desc = resource exhausted"), want: ErrRateLimited},
		{name: "http 503", err: errors.New("googleapi: Error 503: service unavailable"), want: ErrServiceUnavailable},
		{name: "overloaded", err: errors.New("the model is overloaded"), want: ErrServiceUnavailable},
		{name: "connection refused", err: errors.New("dial tcp: connection refused"), want: ErrServiceUnavailable},
		{name: "plain timeout", err: errors.New("request timeout after 30s"), want: ErrTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyGenerationError(tt.err)
			if tt.want == nil {
				if got != nil {
					t.Errorf("classifyGenerationError(nil) = %v, want nil", got)
				}
				return
			}
			if !errors.Is(got, tt.want) {
				t.Errorf("classifyGenerationError(%v) = %v, want %v", tt.err, got, tt.want)
			}
			// The original error must stay reachable for logging.
			if !errors.Is(got, tt.err) {
				t.Errorf("classified error lost the original: %v", got)
			}
		})
	}
}

func TestClassifyGenerationErrorUnknown(t *testing.T) {
	original := errors.New("something entirely new")
	got := classifyGenerationError(original)
	if got != original {
		t.Errorf("classifyGenerationError() = %v, want the original error unchanged", got)
	}
}
