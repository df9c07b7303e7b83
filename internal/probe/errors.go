package probe

import (
	"context"
	"errors"
	"fmt"
	"net"
)

var (
	ErrEmptyEndpoint   = errors.New("endpoint is empty")
	ErrInvalidEndpoint = errors.New("endpoint is not an absolute http(s) URL")
)

// Kind classifies a failed probe.
type Kind string

const (
	KindNone       Kind = ""
	KindConnection Kind = "connection"
	KindResponse   Kind = "response"
	KindDecode     Kind = "decode"
)

// ConnectionError means the target could not be reached: refused,
// unreachable, timed out or cancelled before a response arrived.
type ConnectionError struct {
	URL string
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connect %s: %v", e.URL, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// Timeout reports whether the failure was a deadline rather than a refusal.
func (e *ConnectionError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(e.Err, &ne) && ne.Timeout()
}

// ResponseError means the target answered with a non-2xx status.
type ResponseError struct {
	URL        string
	StatusCode int
	Status     string
	Body       string // first bytes of the body, may be empty
}

func (e *ResponseError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("GET %s: unexpected status %s", e.URL, e.Status)
	}
	return fmt.Sprintf("GET %s: unexpected status %s: %s", e.URL, e.Status, e.Body)
}

// DecodeError means the body was not a JSON object.
type DecodeError struct {
	URL         string
	ContentType string
	Err         error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s (content-type %q): %v", e.URL, e.ContentType, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// KindOf maps an error returned by Probe to its Kind.
func KindOf(err error) Kind {
	var (
		ce *ConnectionError
		re *ResponseError
		de *DecodeError
	)
	switch {
	case err == nil:
		return KindNone
	case errors.As(err, &ce):
		return KindConnection
	case errors.As(err, &re):
		return KindResponse
	case errors.As(err, &de):
		return KindDecode
	}
	return KindNone
}
