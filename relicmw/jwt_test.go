package relicmw

import (
	"net/http"
	"testing"

	jwt "github.com/dgrijalva/jwt-go"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relic-go/relic"
)

func signedToken(t *testing.T, key []byte, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(key)
	require.NoError(t, err)
	return signed
}

func TestJWTRejectsMissingHeader(t *testing.T) {
	mw := JWT(JWTConfig{SigningKey: []byte("secret")})
	handler := mw(func(req *relic.Request) (*relic.RequestContext, error) {
		require.Fail(t, "next should not be called without a bearer token")
		return nil, nil
	})

	rc, err := handler(newMwRequest(t, relic.MethodGet, "/private"))
	require.NoError(t, err)
	resp, _ := rc.Response()
	assert.Equal(t, http.StatusUnauthorized, resp.Status)
}

func TestJWTRejectsInvalidSignature(t *testing.T) {
	mw := JWT(JWTConfig{SigningKey: []byte("secret")})
	handler := mw(func(req *relic.Request) (*relic.RequestContext, error) {
		require.Fail(t, "next should not be called with a bad signature")
		return nil, nil
	})

	req := newMwRequest(t, relic.MethodGet, "/private")
	req.Header.Set("Authorization", "Bearer "+signedToken(t, []byte("wrong-key"), jwt.MapClaims{"sub": "alice"}))

	rc, err := handler(req)
	require.NoError(t, err)
	resp, _ := rc.Response()
	assert.Equal(t, http.StatusUnauthorized, resp.Status)
}

func TestJWTAcceptsValidTokenAndExposesClaims(t *testing.T) {
	key := []byte("secret")
	mw := JWT(JWTConfig{SigningKey: key})

	var gotSubject string
	handler := mw(func(req *relic.Request) (*relic.RequestContext, error) {
		claims, ok := relic.GetProperty(req, Claims)
		require.True(t, ok, "expected Claims property to be set")
		gotSubject, _ = claims["sub"].(string)
		return relic.NewRequestContext(req).Respond(relic.NewResponse(http.StatusOK))
	})

	req := newMwRequest(t, relic.MethodGet, "/private")
	req.Header.Set("Authorization", "Bearer "+signedToken(t, key, jwt.MapClaims{"sub": "alice"}))

	rc, err := handler(req)
	require.NoError(t, err)
	resp, _ := rc.Response()
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, "alice", gotSubject)
}
