// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: © 2015 LabStack LLC and Echo contributors

package relic

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Method is one of the nine HTTP methods relic understands.
type Method string

// The method set relic recognizes (§6).
const (
	MethodGet     Method = "GET"
	MethodPost    Method = "POST"
	MethodPut     Method = "PUT"
	MethodDelete  Method = "DELETE"
	MethodPatch   Method = "PATCH"
	MethodHead    Method = "HEAD"
	MethodOptions Method = "OPTIONS"
	MethodTrace   Method = "TRACE"
	MethodConnect Method = "CONNECT"
)

var allMethods = []Method{
	MethodGet, MethodPost, MethodPut, MethodDelete, MethodPatch,
	MethodHead, MethodOptions, MethodTrace, MethodConnect,
}

var methodCaser = cases.Upper(language.Und)

// ParseMethod parses an HTTP method token case-insensitively, per §6.
// Unknown tokens fail with ErrUnknownMethod.
func ParseMethod(raw string) (Method, error) {
	m := Method(methodCaser.String(strings.TrimSpace(raw)))
	for _, known := range allMethods {
		if known == m {
			return m, nil
		}
	}
	return "", fmt.Errorf("relic: unknown method %q: %w", raw, ErrUnknownMethod)
}

// MethodSet is an unordered collection of methods, used for 405 Allow
// headers and any() registrations.
type MethodSet map[Method]struct{}

// NewMethodSet builds a MethodSet from the given methods.
func NewMethodSet(methods ...Method) MethodSet {
	s := make(MethodSet, len(methods))
	for _, m := range methods {
		s[m] = struct{}{}
	}
	return s
}

// Add inserts m into the set.
func (s MethodSet) Add(m Method) { s[m] = struct{}{} }

// Contains reports whether m is in the set.
func (s MethodSet) Contains(m Method) bool {
	_, ok := s[m]
	return ok
}

// Sorted returns the set's members in the canonical order declared by
// allMethods, used to produce deterministic Allow headers.
func (s MethodSet) Sorted() []Method {
	out := make([]Method, 0, len(s))
	for _, m := range allMethods {
		if s.Contains(m) {
			out = append(out, m)
		}
	}
	return out
}

// String renders the set as a comma-separated Allow header value.
func (s MethodSet) String() string {
	sorted := s.Sorted()
	parts := make([]string, len(sorted))
	for i, m := range sorted {
		parts[i] = string(m)
	}
	return strings.Join(parts, ", ")
}
