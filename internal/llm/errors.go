package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrRateLimit means the provider answered 429.
type ErrRateLimit struct {
	Provider   string
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	msg := "rate limited"
	if e.Provider != "" {
		msg = e.Provider + " " + msg
	}
	if e.RetryAfter > 0 {
		msg += fmt.Sprintf(" (retry after %s)", e.RetryAfter)
	}
	return fmt.Sprintf("%s: %v", msg, e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrInvalidResponse means the reply was not valid JSON or did not match the
// requested schema. Content holds the raw reply so a bad transcription can be
// inspected with `wrongbook llm view`.
type ErrInvalidResponse struct {
	Purpose string // analyze, similar-question, ...
	Schema  string // name of the requested schema, empty for free text
	Content json.RawMessage
	Err     error
}

func (e *ErrInvalidResponse) Error() string {
	what := "model"
	if e.Purpose != "" {
		what = e.Purpose
	}
	if e.Schema != "" {
		return fmt.Sprintf("invalid %s response for schema %q: %v", what, e.Schema, e.Err)
	}
	return fmt.Sprintf("invalid %s response: %v", what, e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

// ErrProviderUnavailable covers transport failures and 5xx answers.
type ErrProviderUnavailable struct {
	Provider string
	Err      error
}

func (e *ErrProviderUnavailable) Error() string {
	name := e.Provider
	if name == "" {
		name = "model provider"
	}
	if e.Err == nil {
		return name + " unavailable"
	}
	return fmt.Sprintf("%s unavailable: %v", name, e.Err)
}

func (e *ErrProviderUnavailable) Unwrap() error { return e.Err }

// ErrMaxTokensExceeded means the reply was cut off at MaxTokens. Batch
// extraction of a crowded page is the usual cause.
type ErrMaxTokensExceeded struct {
	Purpose string
	Content json.RawMessage
}

func (e *ErrMaxTokensExceeded) Error() string {
	if e.Purpose != "" {
		return e.Purpose + " response truncated at max tokens"
	}
	return "model response truncated at max tokens"
}

// withPurpose stamps the request purpose carried by ctx onto response errors
// that do not name one yet.
func withPurpose(ctx context.Context, err error) error {
	var inv *ErrInvalidResponse
	if errors.As(err, &inv) && inv.Purpose == "" {
		inv.Purpose = purposeOf(ctx)
	}
	var trunc *ErrMaxTokensExceeded
	if errors.As(err, &trunc) && trunc.Purpose == "" {
		trunc.Purpose = purposeOf(ctx)
	}
	return err
}
