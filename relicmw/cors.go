// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: © 2015 LabStack LLC and Echo contributors

package relicmw

import (
	"strings"

	"github.com/relic-go/relic"
)

// CORSConfig configures CORS, grounded on the teacher's middleware/cors.go.
type CORSConfig struct {
	AllowOrigins []string
	AllowMethods []relic.Method
	AllowHeaders []string
}

// DefaultCORSConfig mirrors the teacher's permissive default: any origin,
// the method set CORS.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []relic.Method{relic.MethodGet, relic.MethodHead, relic.MethodPut, relic.MethodPatch, relic.MethodPost, relic.MethodDelete},
	}
}

// CORS sets the Access-Control-* response headers on every matched request.
func CORS(cfg CORSConfig) relic.Middleware {
	methodNames := make([]string, len(cfg.AllowMethods))
	for i, m := range cfg.AllowMethods {
		methodNames[i] = string(m)
	}
	allowMethods := strings.Join(methodNames, ",")
	allowOrigin := strings.Join(cfg.AllowOrigins, ",")
	allowHeaders := strings.Join(cfg.AllowHeaders, ",")

	return func(next relic.Handler) relic.Handler {
		return func(req *relic.Request) (*relic.RequestContext, error) {
			rc, err := next(req)
			if err != nil {
				return rc, err
			}
			resp, ok := rc.Response()
			if !ok {
				return rc, err
			}
			resp.Header.Set("Access-Control-Allow-Origin", allowOrigin)
			if allowMethods != "" {
				resp.Header.Set("Access-Control-Allow-Methods", allowMethods)
			}
			if allowHeaders != "" {
				resp.Header.Set("Access-Control-Allow-Headers", allowHeaders)
			}
			return rc.Respond(resp)
		}
	}
}
