// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: © 2015 LabStack LLC and Echo contributors

package relic

import (
	"net/url"
	"strconv"
)

// QueryParam is an accessor over query-string values, keyed by parameter
// name (§4.4).
type QueryParam[T any] = Accessor[T, string, string]

// NewQueryParam declares a QueryParam with a custom decoder.
func NewQueryParam[T any](name string, decode func(string) (T, error)) *QueryParam[T] {
	return NewAccessor[T, string, string](name, decode)
}

// QueryParamString declares a QueryParam reading the raw string value.
func QueryParamString(name string) *QueryParam[string] {
	return NewQueryParam(name, func(s string) (string, error) { return s, nil })
}

// QueryParamInt declares a QueryParam decoded with strconv.Atoi.
func QueryParamInt(name string) *QueryParam[int] {
	return NewQueryParam(name, strconv.Atoi)
}

// QueryParamInt64 declares a QueryParam decoded as a base-10 int64.
func QueryParamInt64(name string) *QueryParam[int64] {
	return NewQueryParam(name, func(s string) (int64, error) { return strconv.ParseInt(s, 10, 64) })
}

// QueryParamDouble declares a QueryParam decoded as a float64.
func QueryParamDouble(name string) *QueryParam[float64] {
	return NewQueryParam(name, func(s string) (float64, error) { return strconv.ParseFloat(s, 64) })
}

// QueryParamNum declares a QueryParam decoded as a float64, an alias kept for
// the "Num" name used in route-pattern-heavy call sites (§4.4).
func QueryParamNum(name string) *QueryParam[float64] {
	return QueryParamDouble(name)
}

// QueryParamBool declares a QueryParam decoded with strconv.ParseBool.
func QueryParamBool(name string) *QueryParam[bool] {
	return NewQueryParam(name, strconv.ParseBool)
}

// QueryParameters wraps a request's parsed query string for accessor reads.
// Set on every matched request under PropertyQueryParameters.
type QueryParameters struct {
	*AccessorState[string, string]
}

// NewQueryParameters builds a QueryParameters view, taking the first value
// for any repeated query key.
func NewQueryParameters(values url.Values) *QueryParameters {
	raw := make(map[string]string, len(values))
	for k, vs := range values {
		if len(vs) > 0 {
			raw[k] = vs[0]
		}
	}
	return &QueryParameters{AccessorState: NewAccessorState(raw)}
}
