// SPDX-License-Identifier: MIT

package rlaxx

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"regexp"
)

var (
	// ErrAuthentication marks login failures, including a missing token.
	ErrAuthentication = errors.New("authentication failed")
	// ErrFetch marks failures of the channel and EPG calls.
	ErrFetch = errors.New("fetch failed")
)

var (
	// Causes, for errors.Is checks at the boundary.
	ErrUpstreamUnavailable = errors.New("upstream: host unreachable or transport failure")
	ErrTimeout             = errors.New("upstream: request timed out")
	ErrUnauthorized        = errors.New("upstream: unauthorized or forbidden")
	ErrUpstreamStatus      = errors.New("upstream: unexpected HTTP status")
	ErrBadResponse         = errors.New("upstream: invalid response format or malformed data")
	ErrMissingToken        = errors.New("upstream: login response carried no token")
)

const maxErrorBody = 256

// APIError describes a failed upstream call.
type APIError struct {
	Kind      error // ErrAuthentication or ErrFetch
	Cause     error // one of the upstream cause sentinels
	Operation string
	Status    int
	Body      string
	Err       error
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("rlaxx: %s: %v: %v", e.Operation, e.Kind, e.Cause)
	if e.Status > 0 {
		msg = fmt.Sprintf("%s (HTTP %d)", msg, e.Status)
	}
	if e.Body != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Body)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *APIError) Unwrap() []error {
	errs := []error{e.Kind, e.Cause}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

var secretPattern = regexp.MustCompile(`(?i)("?(?:token|sid|password)"?\s*[:=]\s*"?)([^"\s,&}]+)`)

func redact(body []byte) string {
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}
	return secretPattern.ReplaceAllString(string(body), "${1}[REDACTED]")
}

// wrapError classifies a transport error or HTTP status into an APIError.
func wrapError(kind error, op string, err error, status int, body []byte) error {
	e := &APIError{Kind: kind, Operation: op, Status: status, Err: err}
	if len(body) > 0 {
		e.Body = redact(body)
	}

	var netErr net.Error
	switch {
	case err != nil && errors.Is(err, context.DeadlineExceeded):
		e.Cause = ErrTimeout
	case err != nil && errors.As(err, &netErr) && netErr.Timeout():
		e.Cause = ErrTimeout
	case err != nil && status == 0:
		e.Cause = ErrUpstreamUnavailable
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		e.Cause = ErrUnauthorized
	case status != 0 && (status < 200 || status > 299):
		e.Cause = ErrUpstreamStatus
	default:
		e.Cause = ErrBadResponse
	}
	return e
}
