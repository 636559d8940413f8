// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: © 2015 LabStack LLC and Echo contributors

package relic

import (
	"errors"
	"net/http"
)

// HTTPStatusCoder is implemented by errors that know which HTTP status they
// should surface as. Handlers that want to fail with something other than a
// bare 500 return a *StatusError (or any other HTTPStatusCoder) instead of a
// plain error; Server checks for it before falling back to a generic 500.
type HTTPStatusCoder interface {
	StatusCode() int
}

// StatusError pairs an HTTP status with an optional wrapped cause. Its
// Error() text is never written to the wire — only Status and Message are
// (§7's sanitization invariant) — Cause is for logs only.
type StatusError struct {
	Status  int
	Message string
	Cause   error
}

// NewStatusError builds a StatusError with message as both the wire body and
// the log text.
func NewStatusError(status int, message string) *StatusError {
	return &StatusError{Status: status, Message: message}
}

func (e *StatusError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// StatusCode implements HTTPStatusCoder.
func (e *StatusError) StatusCode() int { return e.Status }

// Unwrap exposes Cause to errors.Is / errors.As.
func (e *StatusError) Unwrap() error { return e.Cause }

// Wrap returns a copy of e with Cause set to cause.
func (e *StatusError) Wrap(cause error) *StatusError {
	return &StatusError{Status: e.Status, Message: e.Message, Cause: cause}
}

// Sentinel StatusErrors mirroring the fixed wire responses named in §6/§7.
var (
	ErrStatusBadRequest          = NewStatusError(http.StatusBadRequest, "Bad Request")
	ErrStatusNotFound            = NewStatusError(http.StatusNotFound, "Not Found")
	ErrStatusMethodNotAllowed    = NewStatusError(http.StatusMethodNotAllowed, "Method Not Allowed")
	ErrStatusPayloadTooLarge     = NewStatusError(http.StatusRequestEntityTooLarge, "Payload Too Large")
	ErrStatusInternalServerError = NewStatusError(http.StatusInternalServerError, "Internal Server Error")
)

// StatusCode extracts the HTTP status carried by err, if any HTTPStatusCoder
// is present anywhere in its chain.
func StatusCode(err error) (int, bool) {
	var coder HTTPStatusCoder
	if errors.As(err, &coder) {
		return coder.StatusCode(), true
	}
	return 0, false
}
