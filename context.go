// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: © 2015 LabStack LLC and Echo contributors

package relic

import (
	"bufio"
	"net"
	"strings"
)

// HijackCallback receives a hijacked connection's raw net.Conn and buffered
// reader/writer, suppressing the framework's own response writing
// (GLOSSARY "Hijack").
type HijackCallback func(net.Conn, *bufio.ReadWriter) error

// UpgradeCallback receives a negotiated WebSocket connection once the
// handshake completes (GLOSSARY "Upgrade"). The concrete connection type is
// *github.com/gorilla/websocket.Conn in relic/httpadapter's adapter; the
// core only moves the callback through the state machine.
type UpgradeCallback func(conn any) error

type contextState uint8

const (
	stateNew contextState = iota
	stateResponded
	stateHijacked
	stateUpgraded
)

// RequestContext is the sum type described in §3/§4.6: New, Responded,
// Hijacked, or Upgraded. Transitions are one-way; only Responded may
// re-emit another Responded (for middleware post-processing). It is
// represented as a tagged value rather than an interface hierarchy, per
// §9's "tagged variants, not open hierarchies".
type RequestContext struct {
	state    contextState
	request  *Request
	response *Response
	hijack   HijackCallback
	upgrade  UpgradeCallback
}

// NewRequestContext builds the initial New state for req.
func NewRequestContext(req *Request) *RequestContext {
	return &RequestContext{state: stateNew, request: req}
}

// Request returns the context's originating request.
func (c *RequestContext) Request() *Request { return c.request }

// IsNew reports whether the context has not yet reached a terminal state.
func (c *RequestContext) IsNew() bool { return c.state == stateNew }

// IsResponded reports whether the context carries a Response.
func (c *RequestContext) IsResponded() bool { return c.state == stateResponded }

// IsHijacked reports whether the context handed the connection to a HijackCallback.
func (c *RequestContext) IsHijacked() bool { return c.state == stateHijacked }

// IsUpgraded reports whether the context negotiated a WebSocket upgrade.
func (c *RequestContext) IsUpgraded() bool { return c.state == stateUpgraded }

// Response returns the committed Response and true, if IsResponded.
func (c *RequestContext) Response() (*Response, bool) {
	if c.state != stateResponded {
		return nil, false
	}
	return c.response, true
}

// HijackCallback returns the hijack callback and true, if IsHijacked.
func (c *RequestContext) HijackCallback() (HijackCallback, bool) {
	if c.state != stateHijacked {
		return nil, false
	}
	return c.hijack, true
}

// UpgradeCallback returns the upgrade callback and true, if IsUpgraded.
func (c *RequestContext) UpgradeCallback() (UpgradeCallback, bool) {
	if c.state != stateUpgraded {
		return nil, false
	}
	return c.upgrade, true
}

// Respond transitions New or Responded to a new Responded state carrying
// resp. Called again on an already-Responded context, it replaces the
// response — the "Responded.withResponse" case middleware post-processing
// relies on. Called on Hijacked or Upgraded, it fails with ErrAlreadyHandled.
func (c *RequestContext) Respond(resp *Response) (*RequestContext, error) {
	switch c.state {
	case stateNew, stateResponded:
		return &RequestContext{state: stateResponded, request: c.request, response: resp}, nil
	default:
		return nil, ErrAlreadyHandled
	}
}

// Hijack transitions New to Hijacked, handing cb the underlying connection.
// It fails with ErrNotHijackable if the adapter did not advertise hijack
// capability for this request, and with ErrAlreadyHandled if the context has
// already left the New state.
func (c *RequestContext) Hijack(cb HijackCallback) (*RequestContext, error) {
	if c.state != stateNew {
		return nil, ErrAlreadyHandled
	}
	if !c.request.Hijackable() {
		return nil, ErrNotHijackable
	}
	return &RequestContext{state: stateHijacked, request: c.request, hijack: cb}, nil
}

// Upgrade transitions New to Upgraded, handing cb the negotiated WebSocket
// connection once the handshake completes. It fails with ErrNotHijackable if
// the adapter did not advertise upgrade capability for this request or the
// request lacks the "Upgrade: websocket" / Sec-WebSocket-Key handshake
// headers, and with ErrAlreadyHandled if the context has already left the
// New state.
func (c *RequestContext) Upgrade(cb UpgradeCallback) (*RequestContext, error) {
	if c.state != stateNew {
		return nil, ErrAlreadyHandled
	}
	if !c.request.Upgradeable() {
		return nil, ErrNotHijackable
	}
	h := c.request.Header
	if !strings.EqualFold(h.Get("Upgrade"), "websocket") || h.Get("Sec-WebSocket-Key") == "" {
		return nil, ErrNotHijackable
	}
	return &RequestContext{state: stateUpgraded, request: c.request, upgrade: cb}, nil
}
