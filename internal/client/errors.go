package client

import (
	"fmt"
	"net/http"
)

// RequestError reports a transport failure: the request never produced a
// response (connection refused, DNS, cancelled context, timeout).
type RequestError struct {
	Method   string
	Endpoint string
	Err      error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Endpoint, e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }

// StatusError reports a non-2xx answer to a read.
type StatusError struct {
	Endpoint   string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d %s", e.Endpoint, e.StatusCode, http.StatusText(e.StatusCode))
}

// DecodeError reports a body that is not the JSON shape expected for the
// endpoint.
type DecodeError struct {
	Endpoint string
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Endpoint, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
