// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: © 2015 LabStack LLC and Echo contributors

package relic

import (
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/facebookgo/clock"
)

// Inbound is one request as handed to the core by an Adapter (§6's Adapter
// contract). Hijack and Upgrade are nil when the adapter cannot offer that
// escape hatch for this particular request.
type Inbound struct {
	Request     *Request
	HeaderError error
	Respond     func(*Response) error
	Hijack      func(HijackCallback) error
	Upgrade     func(UpgradeCallback) error
}

// Adapter is the inbound collaborator the Server drives (§6). Concrete
// transports (net/http, a raw socket layer, a test harness) implement it;
// relic/httpadapter ships the reference net/http implementation.
type Adapter interface {
	Requests() <-chan Inbound
	Close() error
}

// Server consumes an Adapter's request stream, dispatches each one through
// the current RelicRouter, installs default headers, catches handler panics
// and errors, and commits the result back through the adapter (§4.8).
type Server struct {
	adapter Adapter
	router  atomic.Pointer[RelicRouter]
	tracer  Tracer

	Config ServerConfig
	Logger *slog.Logger
	Clock  clock.Clock

	closeOnce sync.Once
	closeErr  error
	closed    chan struct{}
	wg        sync.WaitGroup
}

// NewServer wires adapter to router under cfg, with a slog.Default logger
// and a real clock.Clock — both overridable before calling Serve.
func NewServer(adapter Adapter, router *RelicRouter, cfg ServerConfig) *Server {
	s := &Server{
		adapter: adapter,
		tracer:  NewDefaultTracer(),
		Config:  cfg,
		Logger:  slog.Default(),
		Clock:   clock.New(),
		closed:  make(chan struct{}),
	}
	s.router.Store(router)
	return s
}

// Router returns the router currently in effect.
func (s *Server) Router() *RelicRouter { return s.router.Load() }

// Inject builds a new RelicRouter off to the side via build and atomically
// swaps it in (§4.11, §9 "Hot-reload rebuild"). In-flight requests keep
// dispatching against whichever router they already loaded; only
// subsequently-dispatched requests observe the new one.
func (s *Server) Inject(build func() *RelicRouter) {
	s.router.Store(build())
}

// Serve drives the adapter's request stream, dispatching each inbound
// request on its own goroutine, until the stream closes. It returns once
// every in-flight handler has reached a terminal context.
func (s *Server) Serve() {
	for in := range s.adapter.Requests() {
		s.wg.Add(1)
		go func(in Inbound) {
			defer s.wg.Done()
			s.handle(in)
		}(in)
	}
	s.wg.Wait()
}

func (s *Server) handle(in Inbound) {
	if in.HeaderError != nil {
		s.Logger.Error("relic: malformed request headers", "error", in.HeaderError)
		if err := in.Respond(textResponse(http.StatusBadRequest, "Bad Request")); err != nil {
			s.Logger.Error("relic: failed to write error response", "error", err)
		}
		return
	}

	req := in.Request
	req.SetCapabilities(in.Hijack != nil, in.Upgrade != nil)

	rc := s.safeDispatch(req)

	switch {
	case rc.IsHijacked():
		cb, _ := rc.HijackCallback()
		if in.Hijack == nil {
			s.Logger.Error("relic: handler hijacked a request the adapter cannot hijack")
			return
		}
		if err := in.Hijack(cb); err != nil {
			s.Logger.Error("relic: hijack callback failed", "error", err)
		}
	case rc.IsUpgraded():
		cb, _ := rc.UpgradeCallback()
		if in.Upgrade == nil {
			s.Logger.Error("relic: handler upgraded a request the adapter cannot upgrade")
			return
		}
		if err := in.Upgrade(cb); err != nil {
			s.Logger.Error("relic: upgrade callback failed", "error", err)
		}
	default:
		resp, _ := rc.Response()
		s.applyDefaultHeaders(resp)
		if err := in.Respond(resp); err != nil {
			s.Logger.Error("relic: failed to write response", "error", err)
		}
	}
}

// safeDispatch runs the current router against req, converting a recovered
// panic into a Responded 500 (§7 "Any other handler exception... 500 with a
// generic body; stack trace logged, never written to the wire"). A returned
// error becomes a Responded context with the error's HTTPStatusCoder status
// (and a *StatusError's Message as body), or a generic 500 otherwise.
func (s *Server) safeDispatch(req *Request) (rc *RequestContext) {
	defer func() {
		if p := recover(); p != nil {
			s.Logger.Error("relic: recovered panic in handler", "panic", p, "stack", s.tracer.Capture())
			rc, _ = NewRequestContext(req).Respond(textResponse(http.StatusInternalServerError, "Internal Server Error"))
		}
	}()

	router := s.router.Load()
	result, err := router.Dispatch(req)
	if err == nil {
		return result
	}

	status := http.StatusInternalServerError
	message := "Internal Server Error"
	if code, ok := StatusCode(err); ok {
		status = code
		if se, ok := err.(*StatusError); ok {
			message = se.Message
		}
	}
	s.Logger.Error("relic: handler returned error", "error", err, "status", status)
	rc, _ = NewRequestContext(req).Respond(textResponse(status, message))
	return rc
}

func (s *Server) applyDefaultHeaders(resp *Response) {
	if resp == nil {
		return
	}
	if resp.Header.Get("Date") == "" {
		resp.Header.Set("Date", s.Clock.Now().UTC().Format(http.TimeFormat))
	}
	if resp.Header.Get("X-Powered-By") == "" {
		resp.Header.Set("X-Powered-By", s.Config.PoweredBy)
	}
}

// Close closes the adapter, which ends its request stream so no new
// requests are accepted, then awaits every in-flight handler reaching a
// terminal context before returning. It is idempotent:
// concurrent or repeated calls converge on the single underlying shutdown
// and all observe the same error (§4.8 "Shutdown").
func (s *Server) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.adapter.Close()
		s.wg.Wait()
		close(s.closed)
	})
	<-s.closed
	return s.closeErr
}
