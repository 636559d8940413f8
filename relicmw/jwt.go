// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: © 2015 LabStack LLC and Echo contributors

package relicmw

import (
	"net/http"
	"strings"

	jwt "github.com/dgrijalva/jwt-go"

	"github.com/relic-go/relic"
)

// Claims is the property key under which JWT stores a verified token's
// claims, for downstream handlers to read via relic.GetProperty.
var Claims = relic.NewContextProperty[jwt.MapClaims]("relicmw.jwt.claims")

// JWTConfig configures JWT.
type JWTConfig struct {
	// SigningKey validates the token's signature; required.
	SigningKey []byte
	// SigningMethod defaults to HS256.
	SigningMethod string
}

// JWT is a bearer-token auth middleware: it requires a valid
// "Authorization: Bearer <token>" header, verifies it with
// github.com/dgrijalva/jwt-go, and stores the parsed claims under Claims for
// downstream handlers. An absent or invalid token short-circuits with 401
// instead of calling next — the worked example behind §8 scenario 6's
// authMiddleware at /api.
func JWT(cfg JWTConfig) relic.Middleware {
	signingMethod := cfg.SigningMethod
	if signingMethod == "" {
		signingMethod = "HS256"
	}

	return func(next relic.Handler) relic.Handler {
		return func(req *relic.Request) (*relic.RequestContext, error) {
			header := req.Header.Get("Authorization")
			const prefix = "Bearer "
			if !strings.HasPrefix(header, prefix) {
				return unauthorized(req)
			}
			raw := strings.TrimPrefix(header, prefix)

			token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
				if t.Method.Alg() != signingMethod {
					return nil, jwt.ErrSignatureInvalid
				}
				return cfg.SigningKey, nil
			})
			if err != nil || !token.Valid {
				return unauthorized(req)
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				return unauthorized(req)
			}
			relic.SetProperty(req, Claims, claims)

			return next(req)
		}
	}
}

func unauthorized(req *relic.Request) (*relic.RequestContext, error) {
	return relic.NewRequestContext(req).Respond(
		relic.NewResponse(http.StatusUnauthorized).
			WithHeader("WWW-Authenticate", "Bearer"))
}
