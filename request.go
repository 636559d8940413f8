// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: © 2015 LabStack LLC and Echo contributors

package relic

import (
	"io"
	"net/http"
	"net/url"
	"sync"
)

// BodyStream gates a request body to a single read (§3 "the body's stream
// can be read at most once"). Streaming primitives themselves are out of
// scope; BodyStream only hands out the underlying io.ReadCloser once.
type BodyStream struct {
	mu       sync.Mutex
	source   io.ReadCloser
	consumed bool
}

// NewBodyStream wraps source for single-consumption reads.
func NewBodyStream(source io.ReadCloser) *BodyStream {
	if source == nil {
		source = http.NoBody
	}
	return &BodyStream{source: source}
}

// Read hands back the underlying reader the first time it is called, and
// ErrBodyAlreadyConsumed on every call after that.
func (b *BodyStream) Read() (io.ReadCloser, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.consumed {
		return nil, ErrBodyAlreadyConsumed
	}
	b.consumed = true
	return b.source, nil
}

// Request carries everything the routing and dispatch layers need about one
// inbound HTTP request (§3). Header parsing, TLS, and wire framing are
// external collaborators; Request only holds their already-parsed results.
type Request struct {
	Method Method
	URI    *url.URL
	Proto  string
	Header http.Header

	body  *BodyStream
	token Token
	path  NormalizedPath

	hijackable  bool
	upgradeable bool

	properties *propertyStore
}

// NewRequest constructs a fresh Request with a new Token, ready for its
// first dispatch.
func NewRequest(method Method, uri *url.URL, proto string, header http.Header, body io.ReadCloser) *Request {
	if header == nil {
		header = make(http.Header)
	}
	return &Request{
		Method:     method,
		URI:        uri,
		Proto:      proto,
		Header:     header,
		body:       NewBodyStream(body),
		token:      NewToken(),
		path:       ParseNormalizedPath(uri.Path),
		properties: newPropertyStore(),
	}
}

// Token returns the request's opaque identity.
func (r *Request) Token() Token { return r.token }

// Path returns the request's normalized URI path.
func (r *Request) Path() NormalizedPath { return r.path }

// Body returns the request's single-consumption body stream.
func (r *Request) Body() *BodyStream { return r.body }

// Hijackable reports whether the adapter advertised hijack capability for
// this request.
func (r *Request) Hijackable() bool { return r.hijackable }

// Upgradeable reports whether the adapter advertised WebSocket upgrade
// capability for this request.
func (r *Request) Upgradeable() bool { return r.upgradeable }

// SetCapabilities records what connection escape hatches the adapter can
// offer for this request. Called by Server before dispatch, never by
// handler code.
func (r *Request) SetCapabilities(hijackable, upgradeable bool) {
	r.hijackable = hijackable
	r.upgradeable = upgradeable
}

// RequestCopyOptions overrides fields on Request.CopyWith; zero values mean
// "keep the original".
type RequestCopyOptions struct {
	Method Method
	URI    *url.URL
	Header http.Header
}

// CopyWith returns a new Request reusing the same token and body stream
// (moved: whichever Request's Body().Read() runs first wins, the other then
// observes ErrBodyAlreadyConsumed) with freshly supplied headers/URI (§4.6).
// The copy gets its own, empty property store — it is meant to re-enter
// routing from the top via ForwardTo, which will populate routing
// properties fresh.
func (r *Request) CopyWith(opts RequestCopyOptions) *Request {
	nr := &Request{
		Method:      r.Method,
		URI:         r.URI,
		Proto:       r.Proto,
		Header:      r.Header,
		body:        r.body,
		token:       r.token,
		hijackable:  r.hijackable,
		upgradeable: r.upgradeable,
		properties:  newPropertyStore(),
	}
	if opts.Method != "" {
		nr.Method = opts.Method
	}
	if opts.URI != nil {
		nr.URI = opts.URI
		nr.path = ParseNormalizedPath(opts.URI.Path)
	} else {
		nr.path = r.path
	}
	if opts.Header != nil {
		nr.Header = opts.Header
	}
	return nr
}
