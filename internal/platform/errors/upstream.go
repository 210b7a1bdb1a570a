package errors

// Upstream-specific helpers for mapping non-success HTTP responses from the
// legislative records API to project errors, with retry semantics

import (
	"context"
	stderrs "errors"
	"net/http"
)

// bodySampleMax bounds the diagnostic body sample carried on an upstream error
const bodySampleMax = 300

// UpstreamError carries the upstream HTTP status and a truncated body sample
// so callers can log enough context to diagnose a failed scan page
type UpstreamError struct {
	Status int
	Sample string
}

// Error implements the error interface
func (e *UpstreamError) Error() string {
	return "upstream status " + http.StatusText(e.Status)
}

// UpstreamStatusf builds an *Error wrapping an UpstreamError for the given
// status, truncating body to bodySampleMax bytes
func UpstreamStatusf(status int, body string) error {
	if len(body) > bodySampleMax {
		body = body[:bodySampleMax]
	}
	return Wrap(&UpstreamError{Status: status, Sample: body}, ErrorCodeUpstream, "upstream request failed")
}

// ExtractUpstream returns (*UpstreamError, true) when the root cause is an UpstreamError
func ExtractUpstream(err error) (*UpstreamError, bool) {
	var ue *UpstreamError
	if stderrs.As(Root(err), &ue) {
		return ue, true
	}
	return nil, false
}

// UpstreamStatus returns the upstream HTTP status on err, or 0 when err does
// not carry one
func UpstreamStatus(err error) int {
	if ue, ok := ExtractUpstream(err); ok {
		return ue.Status
	}
	return 0
}

// UpstreamSample returns the truncated body sample on err, or ""
func UpstreamSample(err error) string {
	if ue, ok := ExtractUpstream(err); ok {
		return ue.Sample
	}
	return ""
}

// IsRateLimited reports whether err is an upstream 429
func IsRateLimited(err error) bool { return UpstreamStatus(err) == http.StatusTooManyRequests }

// IsRetryable reports whether a retry of the failed call may succeed.
// Transient upstream statuses and Unavailable-coded errors qualify;
// context cancellation never does
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if stderrs.Is(err, context.Canceled) || stderrs.Is(err, context.DeadlineExceeded) {
		return false
	}
	switch UpstreamStatus(err) {
	case http.StatusTooManyRequests,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return IsCode(err, ErrorCodeUnavailable)
}
