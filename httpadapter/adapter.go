// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: © 2015 LabStack LLC and Echo contributors

// Package httpadapter is the reference relic.Adapter implementation (§4.10),
// built on net/http for the socket and request/response plumbing and
// github.com/tylerb/graceful for draining in-flight requests on shutdown.
package httpadapter

import (
	"errors"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/tylerb/graceful"

	"github.com/relic-go/relic"
)

// defaultMaxBodyBytes bounds an inbound request body absent an explicit
// Adapter.MaxBodyBytes override (§7 "MaxBodySizeExceeded... Body layer
// (external)").
const defaultMaxBodyBytes = 10 << 20 // 10MiB

// Adapter wraps a net/http listener behind relic.Adapter.
type Adapter struct {
	server   *graceful.Server
	inbound  chan relic.Inbound
	upgrader websocket.Upgrader
	once     sync.Once

	// MaxBodyBytes caps a request body's size; a body read past this limit
	// fails with relic.ErrMaxBodySizeExceeded. Zero keeps defaultMaxBodyBytes.
	MaxBodyBytes int64
}

// New builds an Adapter listening on address. gracefulTimeout bounds how
// long Close waits for in-flight requests to finish before forcing the
// listener closed.
func New(address string, gracefulTimeout time.Duration) *Adapter {
	a := &Adapter{
		inbound:      make(chan relic.Inbound),
		MaxBodyBytes: defaultMaxBodyBytes,
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/", a.serveHTTP)
	a.server = &graceful.Server{
		Timeout: gracefulTimeout,
		Server:  &http.Server{Addr: address, Handler: mux},
	}
	return a
}

// Requests implements relic.Adapter.
func (a *Adapter) Requests() <-chan relic.Inbound { return a.inbound }

// ListenAndServe starts accepting connections. It blocks until Close stops
// the underlying graceful.Server.
func (a *Adapter) ListenAndServe() error {
	return a.server.ListenAndServe()
}

// Close implements relic.Adapter, stopping the listener via
// graceful.Server.Stop and then closing the inbound channel so Server.Serve
// returns once in-flight handlers finish.
func (a *Adapter) Close() error {
	a.once.Do(func() {
		a.server.Stop(a.server.Timeout)
		close(a.inbound)
	})
	return nil
}

func (a *Adapter) serveHTTP(w http.ResponseWriter, r *http.Request) {
	method, err := relic.ParseMethod(r.Method)
	done := make(chan struct{})

	if err != nil {
		in := relic.Inbound{
			HeaderError: err,
			Respond: func(resp *relic.Response) error {
				defer close(done)
				return writeResponse(w, resp)
			},
		}
		a.deliver(in, r, done)
		return
	}

	uri := &url.URL{Path: r.URL.Path, RawQuery: r.URL.RawQuery}
	limit := a.MaxBodyBytes
	if limit == 0 {
		limit = defaultMaxBodyBytes
	}
	body := &bodySizeLimiter{ReadCloser: http.MaxBytesReader(w, r.Body, limit)}
	req := relic.NewRequest(method, uri, r.Proto, r.Header.Clone(), body)

	in := relic.Inbound{
		Request: req,
		Respond: func(resp *relic.Response) error {
			defer close(done)
			return writeResponse(w, resp)
		},
		Upgrade: func(cb relic.UpgradeCallback) error {
			defer close(done)
			conn, err := a.upgrader.Upgrade(w, r, nil)
			if err != nil {
				return err
			}
			defer conn.Close()
			return cb(conn)
		},
	}
	if hj, ok := w.(http.Hijacker); ok {
		in.Hijack = func(cb relic.HijackCallback) error {
			defer close(done)
			conn, rw, err := hj.Hijack()
			if err != nil {
				return err
			}
			defer conn.Close()
			return cb(conn, rw)
		}
	}

	a.deliver(in, r, done)
}

func (a *Adapter) deliver(in relic.Inbound, r *http.Request, done chan struct{}) {
	select {
	case a.inbound <- in:
	case <-r.Context().Done():
		return
	}
	<-done
}

// bodySizeLimiter translates net/http's *http.MaxBytesError into
// relic.ErrMaxBodySizeExceeded, so a handler reading the body through
// relic.BodyStream.Read sees the core's own sentinel rather than an
// adapter-private type.
type bodySizeLimiter struct {
	io.ReadCloser
}

func (b *bodySizeLimiter) Read(p []byte) (int, error) {
	n, err := b.ReadCloser.Read(p)
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return n, relic.ErrMaxBodySizeExceeded
	}
	return n, err
}

func writeResponse(w http.ResponseWriter, resp *relic.Response) error {
	if resp == nil {
		w.WriteHeader(http.StatusInternalServerError)
		return nil
	}
	header := w.Header()
	for k, vs := range resp.Header {
		for _, v := range vs {
			header.Add(k, v)
		}
	}
	w.WriteHeader(resp.Status)
	if resp.Body == nil {
		return nil
	}
	_, err := io.Copy(w, resp.Body)
	return err
}
