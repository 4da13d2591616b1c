package debate

import (
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyFailure(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want FailureCategory
	}{
		{"nil", nil, FailureUnknown},
		{"api key", errors.New("invalid API key provided"), FailureCredentials},
		{"unauthorized", errors.New("request unauthorized"), FailureCredentials},
		{"status 401", errors.New("backend returned status 401"), FailureCredentials},
		{"status 403", errors.New("backend returned status 403"), FailureCredentials},
		{"quota", errors.New("monthly quota exceeded"), FailureQuota},
		{"rate limit", errors.New("rate limit reached, slow down"), FailureQuota},
		{"status 429", errors.New("backend returned status 429"), FailureQuota},
		{"connection", errors.New("connection refused"), FailureNetwork},
		{"timeout", errors.New("request timeout after 60s"), FailureNetwork},
		{"dns", errors.New("dial tcp: no such host"), FailureNetwork},
		{"unknown", errors.New("something exploded"), FailureUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyFailure(tt.err))
		})
	}
}

func TestClassifyFailure_NetError(t *testing.T) {
	var err error = &net.DNSError{Err: "lookup failed", Name: "api.example.com"}
	assert.Equal(t, FailureNetwork, ClassifyFailure(err))

	wrapped := fmt.Errorf("generation failed: %w", err)
	assert.Equal(t, FailureNetwork, ClassifyFailure(wrapped))
}

func TestHaltError_Unwrap(t *testing.T) {
	inner := errors.New("boom")
	halt := &HaltError{Category: FailureQuota, Err: inner}

	assert.ErrorIs(t, halt, inner)
	assert.Contains(t, halt.Error(), "quota")
	assert.Contains(t, halt.Error(), "boom")
}
