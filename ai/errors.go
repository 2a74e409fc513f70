// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package ai

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
)

var (
	// ErrUnknownProvider indicates a provider name with no implementation.
	ErrUnknownProvider = errors.New("unknown provider")

	// ErrEmptyInput indicates that an embedding was requested for no text.
	ErrEmptyInput = errors.New("empty input")

	// ErrNoChunks indicates that answer generation was requested without
	// any source chunks.
	ErrNoChunks = errors.New("no source chunks")
)

// ProviderError wraps a failure from a model provider with enough context
// to decide whether retrying is worthwhile.
type ProviderError struct {
	// Provider names the implementation that failed ("openai", "ollama",
	// "bedrock").
	Provider string

	// Op is the operation that failed ("embed", "generate").
	Op string

	// Transient reports whether the failure class can succeed on retry:
	// rate limits, server errors, and timeouts. Authentication and
	// malformed-request failures are not transient.
	Transient bool

	// Err is the underlying cause.
	Err error
}

func (e *ProviderError) Error() string {
	kind := "terminal"
	if e.Transient {
		kind = "transient"
	}
	return fmt.Sprintf("%s %s failed (%s): %v", e.Provider, e.Op, kind, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// IsTransient reports whether err is a provider failure worth retrying.
// Errors that are not ProviderErrors are treated as terminal.
func IsTransient(err error) bool {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Transient
	}
	return false
}

// TransientStatusCode reports whether an HTTP status code signals a
// failure that can succeed on retry.
func TransientStatusCode(code int) bool {
	return code == 429 || code >= 500
}

// TransientTransportError inspects an error from an HTTP client whose
// status code is not directly available and guesses whether it is
// transient. Timeouts and temporary network failures qualify, as do
// messages naming rate limits or server errors.
func TransientTransportError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, marker := range []string{"429", "rate limit", "500", "502", "503", "504", "too many requests", "connection refused", "throttling", "service unavailable"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}

	return false
}
