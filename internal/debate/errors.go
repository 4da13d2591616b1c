package debate

import (
	"errors"
	"fmt"
	"net"
	"strings"
)

var (
	// ErrSessionClosed is returned when a turn is requested after the session
	// reached its terminal summary stage.
	ErrSessionClosed = errors.New("debate session is closed for new turns")

	// ErrSessionHalted is returned while the automatic loop is halted after a
	// fatal generation failure and has not been resumed.
	ErrSessionHalted = errors.New("debate session is halted and needs operator attention")

	// ErrNotStarted is returned when a turn is requested while the session is
	// still in setup.
	ErrNotStarted = errors.New("debate session has not been started")

	// ErrInvalidWinner is returned when Vote receives a value outside pro/con/draw.
	ErrInvalidWinner = errors.New("invalid winner value")

	// ErrTurnInProgress is returned when a turn is triggered while a prior
	// turn's generation call is still outstanding. Concurrent triggers on the
	// same session must be serialized by the caller.
	ErrTurnInProgress = errors.New("a turn is already in progress")
)

// FailureCategory classifies a fatal generation failure for the operator.
type FailureCategory string

const (
	FailureCredentials FailureCategory = "credentials"
	FailureQuota       FailureCategory = "quota"
	FailureNetwork     FailureCategory = "network"
	FailureUnknown     FailureCategory = "unknown"
)

// HaltError carries the classified failure that stopped the automatic loop.
// The session stays consistent and can be resumed manually.
type HaltError struct {
	Category FailureCategory
	Err      error
}

func (e *HaltError) Error() string {
	return fmt.Sprintf("debate loop halted (%s): %v", e.Category, e.Err)
}

func (e *HaltError) Unwrap() error {
	return e.Err
}

// ClassifyFailure maps a provider error onto an operator-facing category.
func ClassifyFailure(err error) FailureCategory {
	if err == nil {
		return FailureUnknown
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return FailureNetwork
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "api key") ||
		strings.Contains(msg, "unauthorized") ||
		strings.Contains(msg, "401") ||
		strings.Contains(msg, "403") ||
		strings.Contains(msg, "credential"):
		return FailureCredentials
	case strings.Contains(msg, "quota") ||
		strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "429"):
		return FailureQuota
	case strings.Contains(msg, "connection") ||
		strings.Contains(msg, "timeout") ||
		strings.Contains(msg, "no such host") ||
		strings.Contains(msg, "unreachable"):
		return FailureNetwork
	default:
		return FailureUnknown
	}
}
