// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: © 2015 LabStack LLC and Echo contributors

package relicmw

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/relic-go/relic"
)

// RecoverConfig configures Recover.
type RecoverConfig struct {
	Logger *slog.Logger
	Tracer relic.Tracer
}

// Recover catches a panic from downstream middleware/handlers and converts
// it into a 500 Response, grounded on the teacher's middleware/recover.go.
// It is a belt-and-suspenders complement to Server's own panic recovery —
// useful when a handler wants the response to look like an ordinary 500
// from within its own middleware chain rather than bubbling to Server.
func Recover(cfg RecoverConfig) relic.Middleware {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Tracer == nil {
		cfg.Tracer = relic.NewDefaultTracer()
	}

	return func(next relic.Handler) relic.Handler {
		return func(req *relic.Request) (rc *relic.RequestContext, err error) {
			defer func() {
				if p := recover(); p != nil {
					cfg.Logger.Error("relicmw: recovered panic", "panic", fmt.Sprint(p), "stack", cfg.Tracer.Capture())
					rc, err = relic.NewRequestContext(req).Respond(
						relic.NewResponse(http.StatusInternalServerError).
							WithHeader("Content-Type", "text/plain; charset=utf-8").
							WithBody(strings.NewReader("Internal Server Error")))
				}
			}()
			return next(req)
		}
	}
}
