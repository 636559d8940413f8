package httpadapter

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/facebookgo/freeport"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relic-go/relic"
)

func TestAdapterServeHTTPDeliversAndRespond(t *testing.T) {
	a := New("127.0.0.1:0", time.Second)

	go func() {
		in := <-a.Requests()
		assert.Equal(t, relic.MethodGet, in.Request.Method)
		assert.Equal(t, "/hello", in.Request.Path().String())
		resp := relic.NewResponse(200).WithHeader("X-Test", "yes")
		assert.NoError(t, in.Respond(resp))
	}()

	req := httptest.NewRequest("GET", "/hello", nil)
	rec := httptest.NewRecorder()
	a.serveHTTP(rec, req)

	assert.Equal(t, 200, rec.Code)
	assert.Equal(t, "yes", rec.Header().Get("X-Test"))
}

func TestAdapterServeHTTPMalformedMethod(t *testing.T) {
	a := New("127.0.0.1:0", time.Second)

	go func() {
		in := <-a.Requests()
		assert.Error(t, in.HeaderError, "expected a HeaderError for an unknown method")
		resp := relic.NewResponse(400)
		assert.NoError(t, in.Respond(resp))
	}()

	req := httptest.NewRequest("BREW", "/hello", nil)
	rec := httptest.NewRecorder()
	a.serveHTTP(rec, req)

	assert.Equal(t, 400, rec.Code)
}

func TestAdapterCloseClosesInbound(t *testing.T) {
	a := New("127.0.0.1:0", time.Second)
	require.NoError(t, a.Close())
	_, ok := <-a.Requests()
	assert.False(t, ok, "expected Requests channel to be closed")
	// Close must be idempotent.
	assert.NoError(t, a.Close())
}

// TestAdapterListenAndServeEndToEnd drives a real listening socket, claimed
// via facebookgo/freeport so the test does not race other parallel tests for
// a fixed port.
func TestAdapterListenAndServeEndToEnd(t *testing.T) {
	port, err := freeport.Get()
	require.NoError(t, err)
	addr := fmt.Sprintf("127.0.0.1:%d", port)

	a := New(addr, time.Second)
	serveErrCh := make(chan error, 1)
	go func() { serveErrCh <- a.ListenAndServe() }()

	go func() {
		in := <-a.Requests()
		assert.NoError(t, in.Respond(relic.NewResponse(http.StatusTeapot)))
	}()

	var resp *http.Response
	for i := 0; i < 50; i++ {
		resp, err = http.Get("http://" + addr + "/brew")
		if err == nil {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	require.NoError(t, err, "GET failed after retries")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusTeapot, resp.StatusCode)

	require.NoError(t, a.Close())
	err = <-serveErrCh
	if err != nil {
		assert.ErrorIs(t, err, http.ErrServerClosed)
	}
}
