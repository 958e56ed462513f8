package generation

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/api/googleapi"

	"github.com/jonathan/resume-builder/internal/llm"
	"github.com/jonathan/resume-builder/internal/types"
)

// FailureKind classifies why a provider attempt produced nothing usable
type FailureKind string

const (
	FailureTimeout   FailureKind = "timeout"
	FailureQuota     FailureKind = "quota"
	FailureTransport FailureKind = "transport"
	FailureMalformed FailureKind = "malformed"
	FailureEmpty     FailureKind = "empty"
	FailureBlocked   FailureKind = "blocked"
)

// ProviderTransientFailure is a provider fault the pipeline recovers from by advancing to the next stage
type ProviderTransientFailure struct {
	Provider types.ProviderKind
	Kind     FailureKind
	Cause    error
}

func (e *ProviderTransientFailure) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s provider %s: %v", e.Provider, e.Kind, e.Cause)
	}
	return fmt.Sprintf("%s provider %s", e.Provider, e.Kind)
}

func (e *ProviderTransientFailure) Unwrap() error {
	return e.Cause
}

// ConfigError reports a pipeline that cannot run at all
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("generation config: %s", e.Message)
}

// classify maps a provider call error onto a failure kind
func classify(err error) FailureKind {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return FailureTimeout
	}
	switch {
	case errors.Is(err, llm.ErrBlocked):
		return FailureBlocked
	case errors.Is(err, llm.ErrEmptyResponse):
		return FailureEmpty
	}
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusTooManyRequests {
		return FailureQuota
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{"quota", "rate limit", "resource_exhausted", "429"} {
		if strings.Contains(msg, marker) {
			return FailureQuota
		}
	}
	return FailureTransport
}
