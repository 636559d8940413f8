// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: © 2015 LabStack LLC and Echo contributors

package relic

import "strconv"

// PathParam is an accessor over captured path-parameter strings, keyed by
// interned Symbol (§4.4).
type PathParam[T any] = Accessor[T, *Symbol, string]

// NewPathParam declares a PathParam with a custom decoder.
func NewPathParam[T any](sym *Symbol, decode func(string) (T, error)) *PathParam[T] {
	return NewAccessor[T, *Symbol, string](sym, decode)
}

// PathParamString declares a PathParam reading the raw captured string.
func PathParamString(sym *Symbol) *PathParam[string] {
	return NewPathParam(sym, func(s string) (string, error) { return s, nil })
}

// PathParamInt declares a PathParam decoded with strconv.Atoi.
func PathParamInt(sym *Symbol) *PathParam[int] {
	return NewPathParam(sym, strconv.Atoi)
}

// PathParamInt64 declares a PathParam decoded as a base-10 int64.
func PathParamInt64(sym *Symbol) *PathParam[int64] {
	return NewPathParam(sym, func(s string) (int64, error) { return strconv.ParseInt(s, 10, 64) })
}

// PathParamDouble declares a PathParam decoded as a float64.
func PathParamDouble(sym *Symbol) *PathParam[float64] {
	return NewPathParam(sym, func(s string) (float64, error) { return strconv.ParseFloat(s, 64) })
}

// PathParamNum declares a PathParam decoded as a float64, an alias kept for
// the "Num" name used in route-pattern-heavy call sites (§4.4).
func PathParamNum(sym *Symbol) *PathParam[float64] {
	return PathParamDouble(sym)
}

// PathParamBool declares a PathParam decoded with strconv.ParseBool.
func PathParamBool(sym *Symbol) *PathParam[bool] {
	return NewPathParam(sym, strconv.ParseBool)
}

// PathParameters wraps a request's captured path parameters for accessor
// reads. It is set on every matched request under PropertyPathParameters.
type PathParameters struct {
	*AccessorState[*Symbol, string]
}

// NewPathParameters builds a PathParameters view over a trie match's captures.
func NewPathParameters(params Parameters) *PathParameters {
	raw := make(map[*Symbol]string, len(params))
	for _, p := range params {
		raw[p.Symbol] = p.Value
	}
	return &PathParameters{AccessorState: NewAccessorState[*Symbol, string](raw)}
}
