// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: © 2015 LabStack LLC and Echo contributors

// Package relicmw is the satellite package of concrete middleware built on
// top of relic's core Middleware type, mirroring the teacher's middleware
// subpackage (§2A).
package relicmw

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/facebookgo/clock"
	"github.com/labstack/gommon/color"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/valyala/fasttemplate"

	"github.com/relic-go/relic"
)

// AccessLogConfig configures AccessLog.
type AccessLogConfig struct {
	// Format is a fasttemplate string. Supported tags: ${method}, ${path},
	// ${status}, ${latency_human}, ${token}.
	Format string
	Output io.Writer
	Clock  clock.Clock
}

// DefaultAccessLogFormat matches the shape of the teacher's default logger
// middleware format string.
const DefaultAccessLogFormat = `${method} ${path} ${status} ${latency_human}` + "\n"

// AccessLog logs one line per matched request using fasttemplate for
// rendering and gommon/color for status-code coloring when Output is a
// color-capable terminal, grounded on the teacher's middleware/logger.go.
func AccessLog(cfg AccessLogConfig) relic.Middleware {
	if cfg.Format == "" {
		cfg.Format = DefaultAccessLogFormat
	}
	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.New()
	}

	tmpl := fasttemplate.New(cfg.Format, "${", "}")
	out := cfg.Output
	cl := color.New()
	cl.Disable()
	if f, ok := out.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		out = colorable.NewColorable(f)
		cl.Enable()
	}

	return func(next relic.Handler) relic.Handler {
		return func(req *relic.Request) (*relic.RequestContext, error) {
			start := cfg.Clock.Now()
			rc, err := next(req)
			latency := cfg.Clock.Now().Sub(start)

			status := 0
			if resp, ok := rc.Response(); ok {
				status = resp.Status
			}

			_, werr := tmpl.ExecuteFunc(out, func(w io.Writer, tag string) (int, error) {
				switch tag {
				case "method":
					return io.WriteString(w, string(req.Method))
				case "path":
					return io.WriteString(w, req.Path().String())
				case "status":
					return io.WriteString(w, colorStatus(cl, status))
				case "latency_human":
					return io.WriteString(w, latency.String())
				case "token":
					return io.WriteString(w, req.Token().String())
				default:
					return 0, nil
				}
			})
			if werr != nil {
				fmt.Fprintln(os.Stderr, "relicmw: access log write failed:", werr)
			}
			return rc, err
		}
	}
}

func colorStatus(cl *color.Color, status int) string {
	s := fmt.Sprintf("%d", status)
	switch {
	case status >= http.StatusInternalServerError:
		return cl.Red(s)
	case status >= http.StatusBadRequest:
		return cl.Yellow(s)
	case status >= http.StatusMultipleChoices:
		return cl.Cyan(s)
	default:
		return cl.Green(s)
	}
}
