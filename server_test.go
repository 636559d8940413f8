package relic

import (
	"errors"
	"net/http"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/facebookgo/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAdapter is a minimal in-memory Adapter for driving Server.Serve in
// tests, without any real network transport.
type fakeAdapter struct {
	ch     chan Inbound
	mu     sync.Mutex
	closed bool
}

func newFakeAdapter() *fakeAdapter {
	return &fakeAdapter{ch: make(chan Inbound, 8)}
}

func (a *fakeAdapter) Requests() <-chan Inbound { return a.ch }

func (a *fakeAdapter) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.closed {
		a.closed = true
		close(a.ch)
	}
	return nil
}

func (a *fakeAdapter) submit(in Inbound) {
	a.ch <- in
}

func newInbound(t *testing.T, method Method, rawPath string) (Inbound, chan *Response) {
	t.Helper()
	u, err := url.Parse(rawPath)
	require.NoError(t, err)
	req := NewRequest(method, u, "HTTP/1.1", nil, nil)
	results := make(chan *Response, 1)
	in := Inbound{
		Request: req,
		Respond: func(resp *Response) error {
			results <- resp
			return nil
		},
	}
	return in, results
}

func TestServerDispatchesMatchedRoute(t *testing.T) {
	router := NewRelicRouter()
	require.NoError(t, router.Handle(MethodGet, "/ping", func(req *Request) (*RequestContext, error) {
		return NewRequestContext(req).Respond(textResponse(http.StatusOK, "pong"))
	}))

	adapter := newFakeAdapter()
	srv := NewServer(adapter, router, DefaultServerConfig())
	mockClock := clock.NewMock()
	mockClock.Set(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
	srv.Clock = mockClock

	done := make(chan struct{})
	go func() {
		srv.Serve()
		close(done)
	}()

	in, results := newInbound(t, MethodGet, "/ping")
	adapter.submit(in)

	resp := <-results
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, "relic", resp.Header.Get("X-Powered-By"))
	wantDate := mockClock.Now().UTC().Format(http.TimeFormat)
	assert.Equal(t, wantDate, resp.Header.Get("Date"))

	require.NoError(t, srv.Close())
	<-done
}

func TestServerRecoversHandlerPanic(t *testing.T) {
	router := NewRelicRouter()
	require.NoError(t, router.Handle(MethodGet, "/boom", func(req *Request) (*RequestContext, error) {
		panic("kaboom")
	}))

	adapter := newFakeAdapter()
	srv := NewServer(adapter, router, DefaultServerConfig())

	done := make(chan struct{})
	go func() {
		srv.Serve()
		close(done)
	}()

	in, results := newInbound(t, MethodGet, "/boom")
	adapter.submit(in)

	resp := <-results
	assert.Equal(t, http.StatusInternalServerError, resp.Status)

	require.NoError(t, srv.Close())
	<-done
}

func TestServerMapsStatusErrorToResponse(t *testing.T) {
	router := NewRelicRouter()
	require.NoError(t, router.Handle(MethodGet, "/denied", func(req *Request) (*RequestContext, error) {
		return nil, ErrStatusPayloadTooLarge
	}))

	adapter := newFakeAdapter()
	srv := NewServer(adapter, router, DefaultServerConfig())

	done := make(chan struct{})
	go func() {
		srv.Serve()
		close(done)
	}()

	in, results := newInbound(t, MethodGet, "/denied")
	adapter.submit(in)

	resp := <-results
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.Status)

	require.NoError(t, srv.Close())
	<-done
}

func TestServerCloseIsIdempotent(t *testing.T) {
	router := NewRelicRouter()
	adapter := newFakeAdapter()
	srv := NewServer(adapter, router, DefaultServerConfig())

	done := make(chan struct{})
	go func() {
		srv.Serve()
		close(done)
	}()

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = srv.Close()
		}(i)
	}
	wg.Wait()
	<-done

	for i, err := range errs {
		assert.NoError(t, err, "Close()[%d]", i)
	}
}

func TestServerHeaderErrorYields400(t *testing.T) {
	adapter := newFakeAdapter()
	router := NewRelicRouter()
	srv := NewServer(adapter, router, DefaultServerConfig())

	done := make(chan struct{})
	go func() {
		srv.Serve()
		close(done)
	}()

	results := make(chan *Response, 1)
	u, _ := url.Parse("/whatever")
	adapter.submit(Inbound{
		Request:     NewRequest(MethodGet, u, "HTTP/1.1", nil, nil),
		HeaderError: errors.New("bad method token"),
		Respond: func(resp *Response) error {
			results <- resp
			return nil
		},
	})

	resp := <-results
	assert.Equal(t, http.StatusBadRequest, resp.Status)

	require.NoError(t, srv.Close())
	<-done
}
