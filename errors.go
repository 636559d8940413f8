// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: © 2015 LabStack LLC and Echo contributors

package relic

import "errors"

// Error kinds surfaced by the core (§7). PathMiss and MethodMiss are not in
// this list: they are data variants of LookupResult, not errors.
var (
	// ErrDuplicateRoute is returned by PathTrie.Insert when a pattern's
	// terminal node already carries a value. MethodRouter reports a repeated
	// method at one route as ErrMethodConflict instead.
	ErrDuplicateRoute = errors.New("relic: duplicate route registration")

	// ErrParameterConflict is returned when a pattern introduces a
	// different parameter symbol at an already-parametrized trie edge.
	ErrParameterConflict = errors.New("relic: conflicting parameter symbol at shared trie edge")

	// ErrTailNotFinal is returned when a "/**" segment appears anywhere but
	// the final position of a pattern.
	ErrTailNotFinal = errors.New("relic: tail wildcard (/**) must be the final pattern segment")

	// ErrMethodConflict is returned when a method is registered twice at
	// the same terminal, or mixed with an any() registration.
	ErrMethodConflict = errors.New("relic: method already registered at this route, or route registered via any")

	// ErrUnknownMethod is returned by ParseMethod for unrecognized tokens.
	ErrUnknownMethod = errors.New("relic: unknown HTTP method")

	// ErrMissingParameter is returned by Call when an accessor's key has no
	// raw value in the state it was asked to read from.
	ErrMissingParameter = errors.New("relic: accessor has no raw value for this request")

	// ErrNotHijackable is returned when hijack or upgrade is attempted on a
	// request whose adapter/connection does not support it, and when an
	// upgrade is attempted without the WebSocket handshake headers.
	ErrNotHijackable = errors.New("relic: adapter did not advertise hijack or upgrade capability for this request")

	// ErrAlreadyHandled is returned by any RequestContext transition
	// attempted from a Hijacked or Upgraded state, and by Hijack or Upgrade
	// attempted from a Responded state.
	ErrAlreadyHandled = errors.New("relic: request context already reached a terminal state")

	// ErrBodyAlreadyConsumed is returned by a second Request body read.
	ErrBodyAlreadyConsumed = errors.New("relic: request body already consumed")

	// ErrForwardNotRouted is returned by ForwardTo when the originating
	// request has no reachable router property.
	ErrForwardNotRouted = errors.New("relic: forwarded request has no reachable router")

	// ErrMaxBodySizeExceeded is surfaced by the body layer; handlers decide
	// whether to answer 413 or 400.
	ErrMaxBodySizeExceeded = errors.New("relic: request body exceeded configured maximum size")
)

// MissingPropertyError is raised (via panic, recovered by Server) when
// CallProperty finds no value for a property that was declared
// mandatory at the call site. It carries the property's debug name so the
// server log identifies which property was missing.
type MissingPropertyError struct {
	Name string
}

func (e *MissingPropertyError) Error() string {
	return "relic: missing context property: " + e.Name
}
