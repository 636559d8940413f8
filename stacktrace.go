// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: © 2015 LabStack LLC and Echo contributors

package relic

import (
	"runtime"
	"strings"
)

// Tracer captures a stack trace for logging when the server loop recovers a
// handler panic (§7 "stack trace logged, never written to the wire").
type Tracer interface {
	Capture() []string
}

// DefaultTracer captures a Go runtime stack trace and splits it into
// log-friendly lines.
type DefaultTracer struct {
	Full bool
	Size int
}

// NewDefaultTracer returns a DefaultTracer with a 2KB buffer and Full=false,
// enough for the panicking goroutine's own frames.
func NewDefaultTracer() *DefaultTracer {
	return &DefaultTracer{Full: false, Size: 1024 * 2}
}

// Capture runs runtime.Stack and formats the result.
func (t *DefaultTracer) Capture() []string {
	rawStack := make([]byte, t.Size)
	n := runtime.Stack(rawStack, t.Full)
	return t.Format(rawStack[:n])
}

// Format splits a raw runtime.Stack buffer into one entry per frame.
func (t *DefaultTracer) Format(b []byte) []string {
	stack := strings.Split(string(b), "\n\t")
	for i, v := range stack {
		v = strings.Trim(v, "\n")
		v = strings.ReplaceAll(v, "\n", ": ")
		stack[i] = v
	}
	return stack
}
