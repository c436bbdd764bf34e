package startupradar

import (
	"fmt"
	"net/url"
)

// InvalidDomainError reports a domain that failed validation. It is raised
// before any network or cache access.
type InvalidDomainError struct {
	Domain string
	Reason string
}

func (e *InvalidDomainError) Error() string {
	return fmt.Sprintf("invalid domain %q: %s", e.Domain, e.Reason)
}

// NotFoundError reports a 404 from the server, or the replay of one from a
// cached not-found envelope.
type NotFoundError struct {
	Endpoint string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("resource not found (endpoint=%s)", e.Endpoint)
}

// ForbiddenError reports a 403, carrying the server-supplied detail message.
type ForbiddenError struct {
	Detail string
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("forbidden: %s", e.Detail)
}

// UnhandledStatusError reports any status code outside the 200/403/404
// contract, with enough request context for diagnosis.
type UnhandledStatusError struct {
	StatusCode int
	Endpoint   string
	Params     url.Values
}

func (e *UnhandledStatusError) Error() string {
	return fmt.Sprintf("unhandled status code %d (endpoint=%s, params=%v)", e.StatusCode, e.Endpoint, e.Params)
}

// TransportError wraps a failure below the HTTP status layer, e.g. a
// connection error or timeout. These are never cached.
type TransportError struct {
	Endpoint string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport failure (endpoint=%s): %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
