// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: © 2015 LabStack LLC and Echo contributors

package relic

import (
	"io"
	"net/http"
	"strings"
)

// Response is the value a handler produces when it transitions a
// RequestContext to Responded. It is a plain value, not a live writer — the
// adapter (§4.10) is responsible for actually putting its bytes on the
// wire, keeping the wire codec itself out of the core (§1).
type Response struct {
	Status int
	Header http.Header
	Body   io.Reader
}

// NewResponse builds a Response with an empty header set and no body.
func NewResponse(status int) *Response {
	return &Response{Status: status, Header: make(http.Header)}
}

// WithHeader sets a header and returns the Response for chaining.
func (r *Response) WithHeader(key, value string) *Response {
	r.Header.Set(key, value)
	return r
}

// WithBody attaches a body and returns the Response for chaining.
func (r *Response) WithBody(body io.Reader) *Response {
	r.Body = body
	return r
}

// textResponse builds a Response carrying a fixed plain-text body, used by
// the core's own fallback/error responses (§6, §7's sanitization invariant —
// these bodies are always fixed phrases, never request-derived).
func textResponse(status int, body string) *Response {
	return NewResponse(status).
		WithHeader("Content-Type", "text/plain; charset=utf-8").
		WithBody(strings.NewReader(body))
}
