// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: © 2015 LabStack LLC and Echo contributors

package relic

import (
	"strconv"
	"sync/atomic"
)

// Token is an opaque per-request identity, preserved across Request.CopyWith
// so a forwarded request keeps the original's identity, and usable by
// callers to correlate logs (GLOSSARY "Token"). ForwardTo does not compare
// tokens, so self-forwarding is not detected.
type Token struct {
	id uint64
}

var tokenCounter uint64

// NewToken mints a fresh, process-unique Token.
func NewToken() Token {
	return Token{id: atomic.AddUint64(&tokenCounter, 1)}
}

// String renders the token for logging.
func (t Token) String() string {
	return "tok-" + strconv.FormatUint(t.id, 10)
}
